package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/eringen/pubsitemap/sitemap"
)

// StatusPublish marks visible items; StatusInherit marks attachments that
// follow their parent.
const (
	StatusPublish = "publish"
	StatusDraft   = "draft"
	StatusInherit = "inherit"
)

var allFlags = []sitemap.Flags{sitemap.FlagNewsExclude, sitemap.FlagSitemapExclude, sitemap.FlagNoindex}

const eligible = `(i.status = 'publish' OR (i.type = 'attachment' AND i.status = 'inherit' AND EXISTS (
    SELECT 1 FROM items p WHERE p.id = i.parent_id AND p.status = 'publish')))`

func itemColumns() string {
	cols := []string{
		"i.id", "i.type", "i.status", "i.parent_id", "i.slug", "i.title",
		"i.excerpt", "i.content", "i.description", "i.author", "i.permalink",
		"i.mime_type", "i.file_url", "i.published_at", "i.modified_at",
	}
	for _, f := range allFlags {
		cols = append(cols, "EXISTS (SELECT 1 FROM item_flags f WHERE f.item_id = i.id AND f.flag = '"+f.Names()[0]+"')")
	}
	return strings.Join(cols, ", ")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row scanner) (sitemap.Item, error) {
	var it sitemap.Item
	var published, modified int64
	set := make([]bool, len(allFlags))
	dest := []interface{}{
		&it.ID, &it.Type, &it.Status, &it.ParentID, &it.Slug, &it.Title,
		&it.Excerpt, &it.Content, &it.Description, &it.Author, &it.Permalink,
		&it.MIMEType, &it.FileURL, &published, &modified,
	}
	for i := range set {
		dest = append(dest, &set[i])
	}
	if err := row.Scan(dest...); err != nil {
		return sitemap.Item{}, err
	}
	it.Published = time.Unix(published, 0).UTC()
	it.Modified = time.Unix(modified, 0).UTC()
	for i, ok := range set {
		if ok {
			it.Flags |= allFlags[i]
		}
	}
	return it, nil
}

// where builds the eligibility clause of q.
func (s *Store) where(q sitemap.ItemQuery) (string, []interface{}) {
	if len(q.Types) == 0 {
		return "1 = 0", nil
	}
	var conds []string
	var args []interface{}
	cond, a := s.inStrings("i.type", q.Types)
	conds = append(conds, cond, eligible)
	args = append(args, a...)
	if q.ImagesOnly {
		conds = append(conds, "i.mime_type LIKE 'image/%'")
	}
	if !q.From.IsZero() {
		conds = append(conds, "i.published_at >= ?")
		args = append(args, q.From.Unix())
	}
	if !q.To.IsZero() {
		conds = append(conds, "i.published_at < ?")
		args = append(args, q.To.Unix())
	}
	if q.Host != "" {
		conds = append(conds, "(i.permalink_host = '' OR i.permalink_host = ?)")
		args = append(args, q.Host)
	}
	if names := q.ExcludeFlags.Names(); len(names) > 0 {
		cond, a := s.inStrings("f.flag", names)
		conds = append(conds, "NOT EXISTS (SELECT 1 FROM item_flags f WHERE f.item_id = i.id AND "+cond+")")
		args = append(args, a...)
	}
	return strings.Join(conds, " AND "), args
}

const orderNewest = " ORDER BY i.published_at DESC, i.id DESC"

func limitClause(offset, limit int) (string, []interface{}) {
	if limit <= 0 {
		return "", nil
	}
	return " LIMIT ? OFFSET ?", []interface{}{limit, offset}
}

// CountByMonth returns per-month counts of items matching q.
func (s *Store) CountByMonth(ctx context.Context, q sitemap.ItemQuery) ([]sitemap.Bucket, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	where, args := s.where(q)
	year, month := s.yearMonth("i.published_at")
	rows, err := s.query(ctx, `SELECT `+year+`, `+month+`, COUNT(*) FROM items i WHERE `+where+
		` GROUP BY 1, 2 ORDER BY 1, 2`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []sitemap.Bucket
	for rows.Next() {
		var b sitemap.Bucket
		if err := rows.Scan(&b.Year, &b.Month, &b.Count); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

// CountItems returns the number of items matching q.
func (s *Store) CountItems(ctx context.Context, q sitemap.ItemQuery) (int, error) {
	if err := q.Validate(); err != nil {
		return 0, err
	}
	where, args := s.where(q)
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM items i WHERE `+where, args...).Scan(&n)
	return n, err
}

// FetchItems returns the window of q, newest first.
func (s *Store) FetchItems(ctx context.Context, q sitemap.ItemQuery) ([]sitemap.Item, error) {
	var items []sitemap.Item
	err := s.EachItem(ctx, q, func(it sitemap.Item) error {
		items = append(items, it)
		return nil
	})
	return items, err
}

// EachItem streams the items of q, newest first. An error returned by fn
// stops the scan and is returned as is.
func (s *Store) EachItem(ctx context.Context, q sitemap.ItemQuery, fn func(sitemap.Item) error) error {
	if err := q.Validate(); err != nil {
		return err
	}
	where, args := s.where(q)
	limit, largs := limitClause(q.Offset, q.Limit)
	rows, err := s.query(ctx, `SELECT `+itemColumns()+` FROM items i WHERE `+where+orderNewest+limit,
		append(args, largs...)...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return err
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	return rows.Err()
}

// FetchChildImages returns image attachments whose parent is in parentIDs.
func (s *Store) FetchChildImages(ctx context.Context, parentIDs []int64) ([]sitemap.Item, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	cond, args := s.inInts("i.parent_id", parentIDs)
	rows, err := s.query(ctx, `SELECT `+itemColumns()+` FROM items i
WHERE `+cond+` AND i.type = 'attachment' AND i.status = 'inherit' AND i.mime_type LIKE 'image/%'
ORDER BY i.parent_id, i.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []sitemap.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// GetItem returns an item by ID regardless of status.
func (s *Store) GetItem(ctx context.Context, id int64) (sitemap.Item, error) {
	return scanItem(s.queryRow(ctx, `SELECT `+itemColumns()+` FROM items i WHERE i.id = ?`, id))
}

// GetPublished returns a visible item by type and slug: a published item,
// or an attachment of a published parent. It returns sql.ErrNoRows when
// there is none.
func (s *Store) GetPublished(ctx context.Context, typ, slug string) (sitemap.Item, error) {
	return scanItem(s.queryRow(ctx, `SELECT `+itemColumns()+` FROM items i
WHERE i.type = ? AND i.slug = ? AND `+eligible, typ, slug))
}

// ListPublished returns published items of types, newest first.
func (s *Store) ListPublished(ctx context.Context, types []string, offset, limit int) ([]sitemap.Item, error) {
	return s.FetchItems(ctx, sitemap.ItemQuery{Types: types, Offset: offset, Limit: limit})
}

// ListAll returns items of every status for the admin dashboard.
func (s *Store) ListAll(ctx context.Context, limit int) ([]sitemap.Item, error) {
	lim, largs := limitClause(0, limit)
	rows, err := s.query(ctx, `SELECT `+itemColumns()+` FROM items i WHERE i.type <> 'attachment'`+orderNewest+lim, largs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []sitemap.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// IsNotFound reports whether err means a row does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
