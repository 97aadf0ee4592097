package pubsitemap

import "embed"

// EmbeddedAssets contains static assets shipped with the package:
// sitemap.css, referenced by the sitemap stylesheets.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
