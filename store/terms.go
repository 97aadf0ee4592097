package store

import (
	"context"
	"fmt"

	"github.com/eringen/pubsitemap/sitemap"
)

const termCounts = `SELECT t.id, t.taxonomy, t.slug, t.name, t.description, t.noindex, COUNT(i.id)
FROM terms t
JOIN term_items ti ON ti.term_id = t.id
JOIN items i ON i.id = ti.item_id AND i.status = 'publish'
WHERE %s
GROUP BY t.id, t.taxonomy, t.slug, t.name, t.description, t.noindex`

func scanTerm(row scanner) (sitemap.Term, error) {
	var t sitemap.Term
	var noindex int
	if err := row.Scan(&t.ID, &t.Taxonomy, &t.Slug, &t.Name, &t.Description, &noindex, &t.Count); err != nil {
		return sitemap.Term{}, err
	}
	if noindex != 0 {
		t.Flags |= sitemap.FlagNoindex
	}
	return t, nil
}

// CountTerms returns the number of terms in taxonomies with at least one
// published item.
func (s *Store) CountTerms(ctx context.Context, taxonomies []string) (int, error) {
	if len(taxonomies) == 0 {
		return 0, nil
	}
	cond, args := s.inStrings("t.taxonomy", taxonomies)
	var n int
	err := s.queryRow(ctx, `SELECT COUNT(*) FROM (`+fmt.Sprintf(termCounts, cond)+`) x`, args...).Scan(&n)
	return n, err
}

// FetchTerms returns one window of terms with published items, by ID.
func (s *Store) FetchTerms(ctx context.Context, taxonomies []string, offset, limit int) ([]sitemap.Term, error) {
	if len(taxonomies) == 0 {
		return nil, nil
	}
	cond, args := s.inStrings("t.taxonomy", taxonomies)
	lim, largs := limitClause(offset, limit)
	rows, err := s.query(ctx, fmt.Sprintf(termCounts, cond)+` ORDER BY t.id`+lim, append(args, largs...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []sitemap.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// GetTerm returns a term by taxonomy and slug with its published count.
// Terms without published items are reported with a zero count.
func (s *Store) GetTerm(ctx context.Context, taxonomy, slug string) (sitemap.Term, error) {
	return scanTerm(s.queryRow(ctx, `SELECT t.id, t.taxonomy, t.slug, t.name, t.description, t.noindex,
    (SELECT COUNT(*) FROM term_items ti JOIN items i ON i.id = ti.item_id AND i.status = 'publish'
     WHERE ti.term_id = t.id)
FROM terms t WHERE t.taxonomy = ? AND t.slug = ?`, taxonomy, slug))
}

// SaveTerm inserts or updates a term keyed by taxonomy and slug and returns
// its ID.
func (s *Store) SaveTerm(ctx context.Context, t sitemap.Term) (int64, error) {
	noindex := 0
	if t.Flags.Has(sitemap.FlagNoindex) {
		noindex = 1
	}
	var id int64
	err := s.queryRow(ctx, `INSERT INTO terms (taxonomy, slug, name, description, noindex)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (taxonomy, slug) DO UPDATE SET name = excluded.name, description = excluded.description, noindex = excluded.noindex
RETURNING id`, t.Taxonomy, t.Slug, t.Name, t.Description, noindex).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("save term %s/%s: %w", t.Taxonomy, t.Slug, err)
	}
	return id, nil
}

// AssignTerm attaches an item to a term.
func (s *Store) AssignTerm(ctx context.Context, termID, itemID int64) error {
	_, err := s.exec(ctx, `INSERT INTO term_items (term_id, item_id) VALUES (?, ?)
ON CONFLICT (term_id, item_id) DO NOTHING`, termID, itemID)
	return err
}

// ListTermItems returns published items of a term, newest first.
func (s *Store) ListTermItems(ctx context.Context, termID int64, offset, limit int) ([]sitemap.Item, error) {
	lim, largs := limitClause(offset, limit)
	rows, err := s.query(ctx, `SELECT `+itemColumns()+` FROM items i
JOIN term_items ti ON ti.item_id = i.id
WHERE ti.term_id = ? AND i.status = 'publish'`+orderNewest+lim, append([]interface{}{termID}, largs...)...)
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

// ItemTerms returns the terms an item is assigned to.
func (s *Store) ItemTerms(ctx context.Context, itemID int64) ([]sitemap.Term, error) {
	rows, err := s.query(ctx, `SELECT t.id, t.taxonomy, t.slug, t.name, t.description, t.noindex, 0
FROM terms t JOIN term_items ti ON ti.term_id = t.id
WHERE ti.item_id = ? ORDER BY t.taxonomy, t.name`, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var terms []sitemap.Term
	for rows.Next() {
		t, err := scanTerm(rows)
		if err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}
