package sitemap

import "strings"

// AttachmentPolicy controls where image attachments are listed.
type AttachmentPolicy string

const (
	AttachmentsNone     AttachmentPolicy = ""
	AttachmentsInline   AttachmentPolicy = "post"
	AttachmentsSeparate AttachmentPolicy = "attachment"
)

// Settings configures which sitemaps exist and how they are paged.
type Settings struct {
	SiteURL          string           // Site root, used for links and host checks
	PrettyURLs       bool             // Emit sitemap_*.xml file URLs instead of query strings
	PostTypes        []string         // Types listed in the post sitemap
	NewsPostTypes    []string         // Types listed in the news sitemap
	Taxonomies       []string         // Taxonomies listed in the taxonomy sitemap
	PerPage          int              // Entries per post/attachment/taxonomy page (default 1000, max 5000)
	NewsPerPage      int              // Entries per news page (default and max 1000)
	Attachments      AttachmentPolicy // "", "post" or "attachment"
	ExclusionPerPost bool             // Honour the per-item sitemap_exclude flag
	Stylesheets      bool             // Add an xml-stylesheet instruction to documents
	NewsName         string           // news:name, defaults to the site name
	NewsLanguage     string           // news:language, derived from the locale when empty
	StylesheetCSS    string           // CSS referenced by the XSLT documents
}

// Normalize applies defaults and bounds. siteName and locale seed the news
// publication fields when they are unset.
func (s *Settings) Normalize(siteName, locale string) {
	s.SiteURL = strings.TrimRight(strings.TrimSpace(s.SiteURL), "/")
	s.PostTypes = compact(s.PostTypes)
	s.NewsPostTypes = compact(s.NewsPostTypes)
	s.Taxonomies = compact(s.Taxonomies)
	s.PerPage = ClampPageSize(s.PerPage)
	if s.NewsPerPage < 1 || s.NewsPerPage > MaxNewsPageSize {
		s.NewsPerPage = MaxNewsPageSize
	}
	switch s.Attachments {
	case AttachmentsInline, AttachmentsSeparate:
	default:
		s.Attachments = AttachmentsNone
	}
	if s.NewsName == "" {
		s.NewsName = siteName
	}
	if s.NewsLanguage == "" {
		s.NewsLanguage = LanguageFromLocale(locale)
	}
	if s.StylesheetCSS == "" {
		s.StylesheetCSS = s.SiteURL + "/public/sitemap.css"
	}
}

// LanguageFromLocale turns a locale such as "ja_JP" into a news language
// code. Chinese keeps its region ("zh_TW" becomes "zh-tw").
func LanguageFromLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		return "en"
	}
	parts := strings.FieldsFunc(locale, func(r rune) bool { return r == '_' || r == '-' })
	if len(parts) == 0 {
		return "en"
	}
	if parts[0] == "zh" {
		return strings.Join(parts, "-")
	}
	return parts[0]
}

func compact(vals []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
