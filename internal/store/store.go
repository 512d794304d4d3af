package store

import (
	"context"
	"database/sql"

	"github.com/erazemk/inventory/internal/model"
)

// CategoryRepository persists categories.
type CategoryRepository interface {
	CreateCategory(ctx context.Context, c model.Category, accessID string) (*model.Category, error)
	GetCategory(ctx context.Context, id string) (*model.Category, error)
	CategoryExists(ctx context.Context, id string) (bool, error)
	ListCategories(ctx context.Context) ([]model.Category, error)
	ListCategorySummaries(ctx context.Context) ([]model.CategorySummary, error)
	UpdateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) (bool, error)
}

// ItemRepository persists items.
type ItemRepository interface {
	CreateItem(ctx context.Context, item model.Item, accessID string) (*model.Item, error)
	GetItem(ctx context.Context, id string) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListItemsByCategory(ctx context.Context, categoryID string) ([]model.Item, error)
	GetItemStats(ctx context.Context) (*model.ItemStats, error)
	UpdateItem(ctx context.Context, item model.Item) error
	DeleteItem(ctx context.Context, id string) (*model.Item, error)
}

// AccessRepository persists access passwords and their per-instance grants.
type AccessRepository interface {
	CreateAccess(ctx context.Context, password string, perms model.Perms) (*model.Access, error)
	GetAccessByPassword(ctx context.Context, password string) (*model.Access, error)
	ListAccess(ctx context.Context) ([]model.Access, error)
	HasGrant(ctx context.Context, accessID string, target model.Target) (bool, error)
}

// Repository is the full entity store used by the web and API layers.
type Repository interface {
	CategoryRepository
	ItemRepository
	AccessRepository
}

// Store is the SQLite implementation of Repository.
type Store struct {
	db *sql.DB
}

var _ Repository = (*Store)(nil)

// New returns a Store backed by db.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// nullString maps the empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
