package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventory/internal/db"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

func setup(t *testing.T) (*Checker, *store.Store) {
	t.Helper()
	s := store.New(db.NewTestDB(t))
	return NewChecker(s), s
}

func TestCheckUnknownPassword(t *testing.T) {
	c, _ := setup(t)

	err := c.Check(context.Background(), "nobody", model.ItemTarget("x"), model.CapUpdate)
	d, ok := AsDenied(err)
	require.True(t, ok)
	assert.Equal(t, "no permissions", d.Reason)
}

func TestCheckRequiresGrantOnTarget(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()

	a, _ := s.CreateAccess(ctx, "hello_world!24", model.Perms{All: true})
	granted, _ := s.CreateItem(ctx, model.Item{Name: "Mine"}, a.ID)
	other, _ := s.CreateItem(ctx, model.Item{Name: "Theirs"}, "")
	cat, _ := s.CreateCategory(ctx, model.Category{Name: "Nope"}, "")

	assert.NoError(t, c.Check(ctx, "hello_world!24", model.ItemTarget(granted.ID), model.CapDelete))

	d, ok := AsDenied(c.Check(ctx, "hello_world!24", model.ItemTarget(other.ID), model.CapDelete))
	require.True(t, ok)
	assert.Equal(t, "password is not granted for this item", d.Reason)

	d, ok = AsDenied(c.Check(ctx, "hello_world!24", model.CategoryTarget(cat.ID), model.CapUpdate))
	require.True(t, ok)
	assert.Equal(t, "password is not granted for this category", d.Reason)
}

func TestCheckCapabilities(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()

	a, _ := s.CreateAccess(ctx, "updater", model.Perms{Update: true})
	cat, _ := s.CreateCategory(ctx, model.Category{Name: "Toys"}, a.ID)
	target := model.CategoryTarget(cat.ID)

	assert.NoError(t, c.Check(ctx, "updater", target, model.CapUpdate))

	d, ok := AsDenied(c.Check(ctx, "updater", target, model.CapDelete))
	require.True(t, ok)
	assert.Equal(t, "password lacks the delete permission", d.Reason)

	d, ok = AsDenied(c.Check(ctx, "updater", target, model.CapUpdate, model.CapUpload))
	require.True(t, ok)
	assert.Equal(t, "password lacks the upload permission", d.Reason)
}

func TestAuthorize(t *testing.T) {
	c, s := setup(t)
	ctx := context.Background()

	inserter, _ := s.CreateAccess(ctx, "inserter", model.Perms{Insert: true})
	s.CreateAccess(ctx, "admin", model.Perms{All: true})

	a, err := c.Authorize(ctx, "inserter", model.CapInsert)
	require.NoError(t, err)
	assert.Equal(t, inserter.ID, a.ID)

	_, err = c.Authorize(ctx, "inserter", model.CapInsert, model.CapUpload)
	_, denied := AsDenied(err)
	assert.True(t, denied)

	a, err = c.Authorize(ctx, "admin", model.CapInsert, model.CapUpload)
	require.NoError(t, err)
	assert.True(t, a.Perms.All)

	_, err = c.Authorize(ctx, "", model.CapInsert)
	_, denied = AsDenied(err)
	assert.True(t, denied)
}

type failingStore struct{}

func (failingStore) GetAccessByPassword(context.Context, string) (*model.Access, error) {
	return nil, errors.New("disk I/O error")
}

func (failingStore) HasGrant(context.Context, string, model.Target) (bool, error) {
	return false, nil
}

func TestCheckStoreFailureIsNotDenial(t *testing.T) {
	c := NewChecker(failingStore{})

	err := c.Check(context.Background(), "pw", model.ItemTarget("x"), model.CapUpdate)
	require.Error(t, err)
	_, denied := AsDenied(err)
	assert.False(t, denied)
}
