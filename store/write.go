package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eringen/pubsitemap/sitemap"
)

// SaveItem inserts it when it.ID is zero and updates it otherwise. The
// permalink host is derived from it.Permalink and flags are replaced.
// It returns the item ID.
func (s *Store) SaveItem(ctx context.Context, it sitemap.Item) (int64, error) {
	if it.Published.IsZero() {
		it.Published = time.Now().UTC()
	}
	if it.Modified.IsZero() {
		it.Modified = it.Published
	}
	if it.Status == "" {
		it.Status = StatusPublish
	}
	host := sitemap.NormalizeHost(it.Permalink)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	args := []interface{}{
		it.Type, it.Status, it.ParentID, it.Slug, it.Title, it.Excerpt, it.Content,
		it.Description, it.Author, it.Permalink, host, it.MIMEType, it.FileURL,
		it.Published.Unix(), it.Modified.Unix(),
	}
	if it.ID == 0 {
		err = tx.QueryRowContext(ctx, s.rebind(`INSERT INTO items
    (type, status, parent_id, slug, title, excerpt, content, description, author,
     permalink, permalink_host, mime_type, file_url, published_at, modified_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`), args...).Scan(&it.ID)
		if err != nil {
			return 0, fmt.Errorf("insert item %q: %w", it.Slug, err)
		}
	} else {
		res, err := tx.ExecContext(ctx, s.rebind(`UPDATE items SET
    type = ?, status = ?, parent_id = ?, slug = ?, title = ?, excerpt = ?, content = ?,
    description = ?, author = ?, permalink = ?, permalink_host = ?, mime_type = ?,
    file_url = ?, published_at = ?, modified_at = ?
WHERE id = ?`), append(args, it.ID)...)
		if err != nil {
			return 0, fmt.Errorf("update item %d: %w", it.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return 0, sql.ErrNoRows
		}
	}
	if err := s.replaceFlags(ctx, tx, it.ID, it.Flags); err != nil {
		return 0, err
	}
	return it.ID, tx.Commit()
}

// SetFlags replaces the flags of one item.
func (s *Store) SetFlags(ctx context.Context, id int64, flags sitemap.Flags) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := s.replaceFlags(ctx, tx, id, flags); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) replaceFlags(ctx context.Context, tx *sql.Tx, id int64, flags sitemap.Flags) error {
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM item_flags WHERE item_id = ?`), id); err != nil {
		return fmt.Errorf("clear flags of %d: %w", id, err)
	}
	for _, name := range flags.Names() {
		if _, err := tx.ExecContext(ctx, s.rebind(`INSERT INTO item_flags (item_id, flag) VALUES (?, ?)`), id, name); err != nil {
			return fmt.Errorf("set flag %s on %d: %w", name, id, err)
		}
	}
	return nil
}

// SetDescription updates the manual meta description of an item.
func (s *Store) SetDescription(ctx context.Context, id int64, desc string) error {
	_, err := s.exec(ctx, `UPDATE items SET description = ? WHERE id = ?`, desc, id)
	return err
}

// DeleteItem removes an item with its flags and term assignments.
func (s *Store) DeleteItem(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, q := range []string{
		`DELETE FROM item_flags WHERE item_id = ?`,
		`DELETE FROM term_items WHERE item_id = ?`,
		`DELETE FROM items WHERE id = ?`,
	} {
		if _, err := tx.ExecContext(ctx, s.rebind(q), id); err != nil {
			return err
		}
	}
	return tx.Commit()
}
