package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eringen/pubsitemap"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pubsitemap",
	Short: "Serve a content site with paginated XML sitemaps",
	Long: `pubsitemap serves a content site built with Echo and templ together with
its XML sitemaps: one index per content kind (post, news, taxonomy,
attachment), each pointing at monthly or numbered sitemap pages.

Configuration is read from pubsitemap.yaml in the working directory or
./config, and every key can be overridden with a PUBSITEMAP_ environment
variable, for example PUBSITEMAP_ADMINPASSWORD or
PUBSITEMAP_SITEMAP_PRETTYURLS.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pubsitemap version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pubsitemap %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ./pubsitemap.yaml or ./config/pubsitemap.yaml)")
	rootCmd.AddCommand(serveCmd, urlsCmd, pingCmd, verifyCmd, versionCmd)
}

// openApp loads the configuration and opens the store and sitemap engine.
// The caller closes the App.
func openApp() (*pubsitemap.App, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a := pubsitemap.New(cfg, pubsitemap.DefaultViews())
	if err := a.Open(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
