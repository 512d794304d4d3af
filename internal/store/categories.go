package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/inventory/internal/model"
)

// CreateCategory creates a category. When accessID is set, a grant for that
// access is written in the same transaction.
func (s *Store) CreateCategory(ctx context.Context, c model.Category, accessID string) (*model.Category, error) {
	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO categories (id, name, description) VALUES (?, ?, ?)`,
		id, c.Name, nullString(c.Description),
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	if accessID != "" {
		if _, err := insertGrant(ctx, tx, accessID, model.CategoryTarget(id)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing category: %w", err)
	}

	return s.GetCategory(ctx, id)
}

// GetCategory returns a category by ID, or nil if it does not exist.
func (s *Store) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c := &model.Category{}
	var description sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}
	c.Description = description.String
	return c, nil
}

// CategoryExists reports whether a category with the given ID exists.
func (s *Store) CategoryExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM categories WHERE id = ?`, id,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking category: %w", err)
	}
	return count > 0, nil
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at, updated_at
		 FROM categories ORDER BY name, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var description sql.NullString
		if err := rows.Scan(&c.ID, &c.Name, &description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		c.Description = description.String
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListCategorySummaries returns all categories with their item counts, ordered by name.
func (s *Store) ListCategorySummaries(ctx context.Context) ([]model.CategorySummary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, c.description, c.created_at, c.updated_at, COUNT(i.id)
		 FROM categories c
		 LEFT JOIN items i ON i.category_id = c.id
		 GROUP BY c.id
		 ORDER BY c.name, c.id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing category summaries: %w", err)
	}
	defer rows.Close()

	var summaries []model.CategorySummary
	for rows.Next() {
		var cs model.CategorySummary
		var description sql.NullString
		if err := rows.Scan(&cs.ID, &cs.Name, &description, &cs.CreatedAt, &cs.UpdatedAt, &cs.ItemCount); err != nil {
			return nil, fmt.Errorf("scanning category summary: %w", err)
		}
		cs.Description = description.String
		summaries = append(summaries, cs)
	}
	return summaries, rows.Err()
}

// UpdateCategory replaces a category's fields.
func (s *Store) UpdateCategory(ctx context.Context, c model.Category) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		c.Name, nullString(c.Description), c.ID,
	)
	if err != nil {
		return fmt.Errorf("updating category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category and its grants, and detaches its items.
// It reports whether the category existed.
func (s *Store) DeleteCategory(ctx context.Context, id string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM instance_access WHERE category_id = ?`, id,
	); err != nil {
		return false, fmt.Errorf("deleting category grants: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE items SET category_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE category_id = ?`, id,
	); err != nil {
		return false, fmt.Errorf("detaching category items: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("deleting category: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("counting deleted categories: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing category deletion: %w", err)
	}
	return n > 0, nil
}
