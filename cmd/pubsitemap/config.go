package main

import (
	"errors"
	"strings"

	"github.com/spf13/viper"

	"github.com/eringen/pubsitemap"
)

// loadConfig reads pubsitemap.yaml from the working directory or ./config,
// or the file at path when set. PUBSITEMAP_* environment variables override
// file values; a missing default config file is not an error.
func loadConfig(path string) (pubsitemap.SiteConfig, error) {
	v := viper.New()

	v.SetDefault("name", "Blog")
	v.SetDefault("url", "http://localhost:3000")
	v.SetDefault("description", "")
	v.SetDefault("author", "")
	v.SetDefault("locale", "en_US")
	v.SetDefault("addr", ":3000")
	v.SetDefault("databasedriver", "sqlite")
	v.SetDefault("databasedsn", "data/site.db")
	v.SetDefault("adminpassword", "")
	v.SetDefault("sessionsecret", "")
	v.SetDefault("cookiesecure", false)
	v.SetDefault("staticdir", "public")
	v.SetDefault("pingendpoint", "")
	v.SetDefault("archivesize", 10)

	v.SetDefault("sitemap.prettyurls", true)
	v.SetDefault("sitemap.posttypes", []string{"post"})
	v.SetDefault("sitemap.newsposttypes", []string{})
	v.SetDefault("sitemap.taxonomies", []string{"category", "tag"})
	v.SetDefault("sitemap.perpage", 1000)
	v.SetDefault("sitemap.newsperpage", 1000)
	v.SetDefault("sitemap.attachments", "")
	v.SetDefault("sitemap.exclusionperpost", true)
	v.SetDefault("sitemap.stylesheets", true)

	v.SetDefault("seo.autodesc", "auto")
	v.SetDefault("seo.desclength", 140)
	v.SetDefault("seo.ogp", true)
	v.SetDefault("seo.twittersize", "summary")
	v.SetDefault("seo.noindexother", []string{"search", "404"})
	v.SetDefault("seo.articletypes", []string{"post"})

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("pubsitemap")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("PUBSITEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return pubsitemap.SiteConfig{}, err
		}
	}

	var cfg pubsitemap.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return pubsitemap.SiteConfig{}, err
	}
	return cfg, nil
}
