package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/inventory/internal/auth"
	"github.com/erazemk/inventory/internal/model"
)

// CreateAccess stores a new access password with the given permissions.
// Passwords are unique; a duplicate fails with the store's constraint error.
func (s *Store) CreateAccess(ctx context.Context, password string, perms model.Perms) (*model.Access, error) {
	a := &model.Access{ID: uuid.NewString(), Perms: perms}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO access (id, password_digest, perm_all, perm_insert, perm_update, perm_upload, perm_delete)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, auth.PasswordDigest(password),
		perms.All, perms.Insert, perms.Update, perms.Upload, perms.Delete,
	)
	if err != nil {
		return nil, fmt.Errorf("creating access: %w", err)
	}
	return a, nil
}

// GetAccessByPassword returns the access matching password, or nil if none does.
func (s *Store) GetAccessByPassword(ctx context.Context, password string) (*model.Access, error) {
	a := &model.Access{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, perm_all, perm_insert, perm_update, perm_upload, perm_delete
		 FROM access WHERE password_digest = ?`, auth.PasswordDigest(password),
	).Scan(&a.ID, &a.Perms.All, &a.Perms.Insert, &a.Perms.Update, &a.Perms.Upload, &a.Perms.Delete)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting access: %w", err)
	}
	return a, nil
}

// ListAccess returns all access records.
func (s *Store) ListAccess(ctx context.Context) ([]model.Access, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, perm_all, perm_insert, perm_update, perm_upload, perm_delete
		 FROM access ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing access: %w", err)
	}
	defer rows.Close()

	var list []model.Access
	for rows.Next() {
		var a model.Access
		if err := rows.Scan(&a.ID, &a.Perms.All, &a.Perms.Insert, &a.Perms.Update, &a.Perms.Upload, &a.Perms.Delete); err != nil {
			return nil, fmt.Errorf("scanning access: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// CreateGrant links an access to one more category or item, sharing it
// with a password other than the one that created it.
func (s *Store) CreateGrant(ctx context.Context, accessID string, target model.Target) (*model.InstanceAccess, error) {
	return insertGrant(ctx, s.db, accessID, target)
}

func insertGrant(ctx context.Context, db execer, accessID string, target model.Target) (*model.InstanceAccess, error) {
	g := &model.InstanceAccess{ID: uuid.NewString(), AccessID: accessID}
	switch target.Kind {
	case model.KindCategory:
		g.CategoryID = target.ID
	case model.KindItem:
		g.ItemID = target.ID
	default:
		return nil, fmt.Errorf("creating grant: unknown kind %q", target.Kind)
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO instance_access (id, access_id, category_id, item_id) VALUES (?, ?, ?, ?)`,
		g.ID, g.AccessID, nullString(g.CategoryID), nullString(g.ItemID),
	)
	if err != nil {
		return nil, fmt.Errorf("creating grant: %w", err)
	}
	return g, nil
}

// grantColumn returns the instance_access column holding ids of the given kind.
func grantColumn(kind model.Kind) (string, error) {
	switch kind {
	case model.KindCategory:
		return "category_id", nil
	case model.KindItem:
		return "item_id", nil
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}
}

// HasGrant reports whether accessID is granted on target.
func (s *Store) HasGrant(ctx context.Context, accessID string, target model.Target) (bool, error) {
	col, err := grantColumn(target.Kind)
	if err != nil {
		return false, fmt.Errorf("checking grant: %w", err)
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM instance_access WHERE access_id = ? AND `+col+` = ?`,
		accessID, target.ID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking grant: %w", err)
	}
	return count > 0, nil
}
