package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/pubsitemap/sitemap"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func mustSave(t *testing.T, s *Store, it sitemap.Item) int64 {
	t.Helper()
	id, err := s.SaveItem(context.Background(), it)
	if err != nil {
		t.Fatalf("SaveItem(%q) failed: %v", it.Slug, err)
	}
	return id
}

func day(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 10, 0, 0, 0, time.UTC)
}

func testPost(slug string, published time.Time) sitemap.Item {
	return sitemap.Item{
		Type:      "post",
		Status:    StatusPublish,
		Slug:      slug,
		Title:     "Title " + slug,
		Permalink: "https://example.com/blog/" + slug + "/",
		Published: published,
	}
}

func TestNewSQLiteCreatesSchema(t *testing.T) {
	s := setupTestStore(t)
	if s.db == nil {
		t.Fatal("db should not be nil")
	}
	// Migrations must be repeatable.
	if err := s.ensureSchema(); err != nil {
		t.Fatalf("second ensureSchema failed: %v", err)
	}
}

func TestSaveAndGetItem(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	it := testPost("hello", day(2024, 1, 15))
	it.Flags = sitemap.FlagNoindex | sitemap.FlagNewsExclude
	id := mustSave(t, s, it)

	got, err := s.GetPublished(ctx, "post", "hello")
	if err != nil {
		t.Fatalf("GetPublished failed: %v", err)
	}
	if got.ID != id || got.Title != "Title hello" {
		t.Errorf("unexpected item: %+v", got)
	}
	if !got.Published.Equal(day(2024, 1, 15)) {
		t.Errorf("published = %v", got.Published)
	}
	if got.Flags != sitemap.FlagNoindex|sitemap.FlagNewsExclude {
		t.Errorf("flags = %v", got.Flags)
	}

	got.Title = "Updated"
	got.Flags = 0
	if _, err := s.SaveItem(ctx, got); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	got, err = s.GetItem(ctx, id)
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if got.Title != "Updated" || got.Flags != 0 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestGetPublishedSkipsDrafts(t *testing.T) {
	s := setupTestStore(t)
	it := testPost("draft", day(2024, 1, 1))
	it.Status = StatusDraft
	mustSave(t, s, it)

	_, err := s.GetPublished(context.Background(), "post", "draft")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCountByMonthAndWindows(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	mustSave(t, s, testPost("a", day(2024, 1, 5)))
	mustSave(t, s, testPost("b", day(2024, 1, 20)))
	flagged := testPost("c", day(2024, 1, 25))
	flagged.Flags = sitemap.FlagSitemapExclude
	mustSave(t, s, flagged)
	ext := testPost("d", day(2024, 2, 2))
	ext.Permalink = "https://partner.example.org/d/"
	mustSave(t, s, ext)
	mustSave(t, s, testPost("e", day(2024, 3, 31)))
	draft := testPost("f", day(2024, 3, 1))
	draft.Status = StatusDraft
	mustSave(t, s, draft)

	q := sitemap.ItemQuery{
		Types:        []string{"post"},
		Host:         "example.com",
		ExcludeFlags: sitemap.FlagSitemapExclude,
	}
	buckets, err := s.CountByMonth(ctx, q)
	if err != nil {
		t.Fatalf("CountByMonth failed: %v", err)
	}
	want := []sitemap.Bucket{{Year: 2024, Month: 1, Count: 2}, {Year: 2024, Month: 3, Count: 1}}
	if len(buckets) != len(want) {
		t.Fatalf("buckets = %+v, want %+v", buckets, want)
	}
	for i := range want {
		if buckets[i] != want[i] {
			t.Errorf("bucket %d = %+v, want %+v", i, buckets[i], want[i])
		}
	}

	from, to, _ := sitemap.MonthRange(2024, 1)
	q.From, q.To = from, to
	q.Limit = 1
	first, err := s.FetchItems(ctx, q)
	if err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}
	q.Offset = 1
	second, err := s.FetchItems(ctx, q)
	if err != nil {
		t.Fatalf("FetchItems failed: %v", err)
	}
	if len(first) != 1 || first[0].Slug != "b" {
		t.Errorf("first page = %+v", first)
	}
	if len(second) != 1 || second[0].Slug != "a" {
		t.Errorf("second page = %+v", second)
	}

	n, err := s.CountItems(ctx, sitemap.ItemQuery{Types: []string{"post"}})
	if err != nil {
		t.Fatalf("CountItems failed: %v", err)
	}
	if n != 5 {
		t.Errorf("CountItems = %d, want 5", n)
	}
}

func TestFetchChildImages(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	parent := mustSave(t, s, testPost("gallery", day(2024, 4, 1)))
	other := mustSave(t, s, testPost("plain", day(2024, 4, 2)))
	for _, a := range []struct {
		slug, mime string
		parent     int64
	}{
		{"one", "image/jpeg", parent},
		{"two", "image/png", parent},
		{"doc", "application/pdf", parent},
		{"three", "image/jpeg", 9999},
	} {
		mustSave(t, s, sitemap.Item{
			Type:      sitemap.AttachmentType,
			Status:    StatusInherit,
			ParentID:  a.parent,
			Slug:      a.slug,
			MIMEType:  a.mime,
			FileURL:   "https://example.com/public/uploads/" + a.slug,
			Permalink: "https://example.com/attachment/" + a.slug + "/",
			Published: day(2024, 4, 3),
		})
	}

	images, err := s.FetchChildImages(ctx, []int64{parent, other})
	if err != nil {
		t.Fatalf("FetchChildImages failed: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	for _, img := range images {
		if img.ParentID != parent || !img.IsImage() {
			t.Errorf("unexpected image %+v", img)
		}
	}

	// Attachments of unpublished parents are not eligible.
	n, err := s.CountItems(ctx, sitemap.ItemQuery{Types: []string{sitemap.AttachmentType}, ImagesOnly: true})
	if err != nil {
		t.Fatalf("CountItems failed: %v", err)
	}
	if n != 2 {
		t.Errorf("eligible attachments = %d, want 2", n)
	}
}

func TestEachItemStopsOnCallbackError(t *testing.T) {
	s := setupTestStore(t)
	mustSave(t, s, testPost("a", day(2024, 1, 1)))
	mustSave(t, s, testPost("b", day(2024, 1, 2)))

	stop := errors.New("stop")
	calls := 0
	err := s.EachItem(context.Background(), sitemap.ItemQuery{Types: []string{"post"}}, func(sitemap.Item) error {
		calls++
		return stop
	})
	if err != stop {
		t.Fatalf("expected callback error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTerms(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	pub := mustSave(t, s, testPost("pub", day(2024, 1, 1)))
	draft := testPost("draft", day(2024, 1, 2))
	draft.Status = StatusDraft
	draftID := mustSave(t, s, draft)

	goID, err := s.SaveTerm(ctx, sitemap.Term{Taxonomy: "category", Slug: "go", Name: "Go"})
	if err != nil {
		t.Fatalf("SaveTerm failed: %v", err)
	}
	emptyID, _ := s.SaveTerm(ctx, sitemap.Term{Taxonomy: "category", Slug: "empty", Name: "Empty"})
	tagID, _ := s.SaveTerm(ctx, sitemap.Term{Taxonomy: "tag", Slug: "x", Name: "X"})

	for _, pair := range [][2]int64{{goID, pub}, {goID, draftID}, {emptyID, draftID}, {tagID, pub}} {
		if err := s.AssignTerm(ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("AssignTerm failed: %v", err)
		}
	}
	// Assigning twice is a no-op.
	if err := s.AssignTerm(ctx, goID, pub); err != nil {
		t.Fatalf("repeated AssignTerm failed: %v", err)
	}

	n, err := s.CountTerms(ctx, []string{"category"})
	if err != nil {
		t.Fatalf("CountTerms failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountTerms = %d, want 1", n)
	}
	terms, err := s.FetchTerms(ctx, []string{"category", "tag"}, 0, 10)
	if err != nil {
		t.Fatalf("FetchTerms failed: %v", err)
	}
	if len(terms) != 2 || terms[0].ID != goID || terms[0].Count != 1 || terms[1].ID != tagID {
		t.Errorf("unexpected terms: %+v", terms)
	}

	again, err := s.SaveTerm(ctx, sitemap.Term{Taxonomy: "category", Slug: "go", Name: "Golang", Flags: sitemap.FlagNoindex})
	if err != nil || again != goID {
		t.Fatalf("upsert returned %d, %v", again, err)
	}
	term, err := s.GetTerm(ctx, "category", "go")
	if err != nil {
		t.Fatalf("GetTerm failed: %v", err)
	}
	if term.Name != "Golang" || !term.Flags.Has(sitemap.FlagNoindex) || term.Count != 1 {
		t.Errorf("unexpected term: %+v", term)
	}

	items, err := s.ListTermItems(ctx, goID, 0, 10)
	if err != nil {
		t.Fatalf("ListTermItems failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != pub {
		t.Errorf("unexpected term items: %+v", items)
	}
}

func TestRebind(t *testing.T) {
	s := &Store{dialect: dialectPostgres}
	got := s.rebind(`SELECT * FROM items WHERE a = ? AND b = ANY(?)`)
	want := `SELECT * FROM items WHERE a = $1 AND b = ANY($2)`
	if got != want {
		t.Errorf("rebind = %q, want %q", got, want)
	}
	lite := &Store{dialect: dialectSQLite}
	if q := lite.rebind("a = ?"); q != "a = ?" {
		t.Errorf("sqlite rebind changed query: %q", q)
	}
	cond, args := lite.inStrings("i.type", []string{"post", "page"})
	if cond != "i.type IN (?,?)" || len(args) != 2 {
		t.Errorf("inStrings = %q %v", cond, args)
	}
	cond, args = s.inInts("i.parent_id", []int64{1, 2, 3})
	if cond != "i.parent_id = ANY(?)" || len(args) != 1 {
		t.Errorf("inInts = %q %v", cond, args)
	}
}
