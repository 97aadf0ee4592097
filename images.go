package pubsitemap

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/pubsitemap/sitemap"
	"github.com/eringen/pubsitemap/store"
)

const (
	maxImageWidth = 1600
	jpegQuality   = 82
	maxUploadSize = 10 << 20 // 10MB
	uploadsSubdir = "uploads"
)

// processImage decodes src, scales it down to maxImageWidth when wider and
// re-encodes it as JPEG.
func processImage(src io.Reader) ([]byte, int, int, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > maxImageWidth {
		h = h * maxImageWidth / w
		w = maxImageWidth
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, 0, 0, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), w, h, nil
}

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// uniqueName returns a slug based on base that has no file in dir.
func uniqueName(dir, base string) string {
	if base == "" {
		base = "image"
	}
	candidate := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(dir, candidate+".jpg")); os.IsNotExist(err) {
			return candidate
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}

// handleAttachmentUpload stores an uploaded image and records it as an
// attachment of the item given by the "parent" form field.
func (a *App) handleAttachmentUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()

	parentID, err := strconv.ParseInt(c.FormValue("parent"), 10, 64)
	if err != nil || parentID <= 0 {
		return c.String(http.StatusBadRequest, "Parent item required")
	}
	if _, err := a.Store.GetItem(ctx, parentID); err != nil {
		if store.IsNotFound(err) {
			return c.String(http.StatusBadRequest, "Unknown parent item")
		}
		return err
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 10MB)")
	}
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	data, _, _, err := processImage(src)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
	}

	dir := filepath.Join(a.Config.StaticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create uploads dir: %w", err)
	}
	title := strings.TrimSuffix(file.Filename, filepath.Ext(file.Filename))
	slug := uniqueName(dir, Slugify(title))
	if err := os.WriteFile(filepath.Join(dir, slug+".jpg"), data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}

	site := a.Site().URL
	if _, err := a.Store.SaveItem(ctx, sitemap.Item{
		Type:      sitemap.AttachmentType,
		Status:    store.StatusInherit,
		ParentID:  parentID,
		Slug:      slug,
		Title:     title,
		MIMEType:  "image/jpeg",
		FileURL:   site + "/public/" + uploadsSubdir + "/" + slug + ".jpg",
		Permalink: site + "/attachment/" + slug + "/",
		Published: time.Now().UTC(),
	}); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/?msg=uploaded")
}
