package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventory/internal/db"
	"github.com/erazemk/inventory/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(db.NewTestDB(t))
}

func price(p float64) *float64 { return &p }

// countGrants returns how many grants point at target.
func countGrants(t *testing.T, s *Store, target model.Target) int {
	t.Helper()
	col, err := grantColumn(target.Kind)
	require.NoError(t, err)

	var n int
	err = s.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM instance_access WHERE `+col+` = ?`, target.ID,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestCreateAndGetItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, err := s.CreateItem(ctx, model.Item{Name: "Widget", Price: price(9.99), Units: 3}, "")
	require.NoError(t, err)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Widget", got.Name)
	require.NotNil(t, got.Price)
	assert.InDelta(t, 9.99, *got.Price, 1e-9)
	assert.Equal(t, 3, got.Units)
	assert.Empty(t, got.CategoryID)
	assert.Empty(t, got.CategoryName)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestGetItemMissing(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetItem(context.Background(), "4b1c6a1e-1f6e-4a55-9b35-0d0f1b9e6f10")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestItemWithoutPrice(t *testing.T) {
	s := newTestStore(t)

	item, err := s.CreateItem(context.Background(), model.Item{Name: "Free sample"}, "")
	require.NoError(t, err)
	assert.Nil(t, item.Price)
	assert.Equal(t, 0, item.Units)
}

func TestItemResolvesCategoryName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cat, err := s.CreateCategory(ctx, model.Category{Name: "Electronics"}, "")
	require.NoError(t, err)
	item, err := s.CreateItem(ctx, model.Item{Name: "Headphones", CategoryID: cat.ID}, "")
	require.NoError(t, err)

	assert.Equal(t, cat.ID, item.CategoryID)
	assert.Equal(t, "Electronics", item.CategoryName)
}

func TestListItemsSortedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zipper", "Anvil", "Monitor"} {
		_, err := s.CreateItem(ctx, model.Item{Name: name}, "")
		require.NoError(t, err)
	}

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Anvil", items[0].Name)
	assert.Equal(t, "Monitor", items[1].Name)
	assert.Equal(t, "Zipper", items[2].Name)
}

func TestUpdateItem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, model.Item{Name: "Old", Units: 1, ImageURL: "/uploads/a.jpg"}, "")
	item.Name = "New"
	item.Units = 7
	item.Price = price(1.5)
	item.ImageURL = ""
	require.NoError(t, s.UpdateItem(ctx, *item))

	got, _ := s.GetItem(ctx, item.ID)
	assert.Equal(t, "New", got.Name)
	assert.Equal(t, 7, got.Units)
	assert.Empty(t, got.ImageURL)
	require.NotNil(t, got.Price)
	assert.Equal(t, 1.5, *got.Price)
}

func TestDeleteItemRemovesGrants(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a, err := s.CreateAccess(ctx, "secret", model.Perms{All: true})
	require.NoError(t, err)
	item, err := s.CreateItem(ctx, model.Item{Name: "Doomed", ImageURL: "/uploads/x.jpg"}, a.ID)
	require.NoError(t, err)

	n := countGrants(t, s, model.ItemTarget(item.ID))
	require.Equal(t, 1, n)

	removed, err := s.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "/uploads/x.jpg", removed.ImageURL)

	got, _ := s.GetItem(ctx, item.ID)
	assert.Nil(t, got)
	n = countGrants(t, s, model.ItemTarget(item.ID))
	assert.Equal(t, 0, n)
}

func TestDeleteItemTwiceIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	item, _ := s.CreateItem(ctx, model.Item{Name: "Once"}, "")
	_, err := s.DeleteItem(ctx, item.ID)
	require.NoError(t, err)

	removed, err := s.DeleteItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, removed)
}

func TestItemStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	st, err := s.GetItemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.ItemStats{}, *st)

	cat, _ := s.CreateCategory(ctx, model.Category{Name: "Toys"}, "")
	s.CreateItem(ctx, model.Item{Name: "Puzzle", Units: 2, CategoryID: cat.ID}, "")
	s.CreateItem(ctx, model.Item{Name: "Loose", Units: 5}, "")

	st, err = s.GetItemStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Items)
	assert.Equal(t, 7, st.Units)
	assert.Equal(t, 1, st.Uncategorized)
}

func TestCreateItemWithUnknownAccessRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateItem(ctx, model.Item{Name: "Orphan"}, "no-such-access")
	require.Error(t, err)

	items, err := s.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items, "item must not survive a failed grant write")
}
