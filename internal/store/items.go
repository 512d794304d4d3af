package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/inventory/internal/model"
)

const itemColumns = `i.id, i.name, i.description, i.price, i.units, i.category_id, i.image_url,
	i.created_at, i.updated_at, c.name`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner, item *model.Item) error {
	var description, categoryID, imageURL, categoryName sql.NullString
	var price sql.NullFloat64
	if err := row.Scan(&item.ID, &item.Name, &description, &price, &item.Units, &categoryID, &imageURL,
		&item.CreatedAt, &item.UpdatedAt, &categoryName); err != nil {
		return err
	}
	item.Description = description.String
	item.CategoryID = categoryID.String
	item.ImageURL = imageURL.String
	item.CategoryName = categoryName.String
	if price.Valid {
		p := price.Float64
		item.Price = &p
	}
	return nil
}

func nullPrice(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

// CreateItem creates an item. When accessID is set, a grant for that access
// is written in the same transaction.
func (s *Store) CreateItem(ctx context.Context, item model.Item, accessID string) (*model.Item, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO items (id, name, description, price, units, category_id, image_url)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, item.Name, nullString(item.Description), nullPrice(item.Price), item.Units,
		nullString(item.CategoryID), nullString(item.ImageURL),
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	if accessID != "" {
		if _, err := insertGrant(ctx, tx, accessID, model.ItemTarget(id)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item: %w", err)
	}

	return s.GetItem(ctx, id)
}

// GetItem returns an item by ID with its category name resolved, or nil if
// it does not exist.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item := &model.Item{}
	err := scanItem(s.db.QueryRowContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i LEFT JOIN categories c ON c.id = i.category_id
		 WHERE i.id = ?`, id,
	), item)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items ordered by name.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i LEFT JOIN categories c ON c.id = i.category_id
		 ORDER BY i.name, i.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return collectItems(rows)
}

// ListItemsByCategory returns the items filed under a category, ordered by name.
func (s *Store) ListItemsByCategory(ctx context.Context, categoryID string) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+itemColumns+`
		 FROM items i LEFT JOIN categories c ON c.id = i.category_id
		 WHERE i.category_id = ?
		 ORDER BY i.name, i.id`, categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("listing category items: %w", err)
	}
	return collectItems(rows)
}

func collectItems(rows *sql.Rows) ([]model.Item, error) {
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		var item model.Item
		if err := scanItem(rows, &item); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetItemStats returns stock totals.
func (s *Store) GetItemStats(ctx context.Context) (*model.ItemStats, error) {
	st := &model.ItemStats{}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(units), 0),
		        COALESCE(SUM(CASE WHEN category_id IS NULL THEN 1 ELSE 0 END), 0)
		 FROM items`,
	).Scan(&st.Items, &st.Units, &st.Uncategorized)
	if err != nil {
		return nil, fmt.Errorf("getting item stats: %w", err)
	}
	return st, nil
}

// UpdateItem replaces an item's fields, including its image URL.
func (s *Store) UpdateItem(ctx context.Context, item model.Item) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE items SET name = ?, description = ?, price = ?, units = ?, category_id = ?,
		        image_url = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		item.Name, nullString(item.Description), nullPrice(item.Price), item.Units,
		nullString(item.CategoryID), nullString(item.ImageURL), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	return nil
}

// DeleteItem removes an item and its grants. It returns the removed item so
// the caller can clean up its image, or nil if the item did not exist.
func (s *Store) DeleteItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.GetItem(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM instance_access WHERE item_id = ?`, id,
	); err != nil {
		return nil, fmt.Errorf("deleting item grants: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("deleting item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("counting deleted items: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing item deletion: %w", err)
	}

	// Lost a race with a concurrent delete.
	if n == 0 {
		return nil, nil
	}
	return item, nil
}
