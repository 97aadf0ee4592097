package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Print the URL of every active sitemap index",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		for _, u := range a.Sitemap.IndexURLs() {
			fmt.Fprintln(cmd.OutOrStdout(), u)
		}
		return nil
	},
}
