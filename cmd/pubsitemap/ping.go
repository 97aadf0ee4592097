package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping [sitemap-url...]",
	Short: "Notify the search engine of sitemap changes",
	Long: `ping requests the configured ping endpoint once per sitemap. Without
arguments every active sitemap index is announced.`,
	RunE: runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	urls := args
	if len(urls) == 0 {
		urls = a.Sitemap.IndexURLs()
	}
	if len(urls) == 0 {
		return fmt.Errorf("no active sitemaps to ping")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := a.Pinger.PingAll(ctx, urls); err != nil {
		return err
	}
	for _, u := range urls {
		fmt.Fprintf(cmd.OutOrStdout(), "pinged %s\n", u)
	}
	return nil
}
