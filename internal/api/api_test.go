package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/inventory/internal/db"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	s := store.New(db.NewTestDB(t))
	server := httptest.NewServer(LoggingMiddleware(NewRouter(s)))
	t.Cleanup(server.Close)
	return server, s
}

func getJSON(t *testing.T, url string, target any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	if target != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
	}
	return resp.StatusCode
}

func TestListEmpty(t *testing.T) {
	server, _ := setupTestServer(t)

	var categories []model.CategorySummary
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/categories", &categories))
	assert.NotNil(t, categories)
	assert.Empty(t, categories)

	var items []model.Item
	assert.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/items", &items))
	assert.Empty(t, items)
}

func TestCategoryEndpoints(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()
	cat, _ := s.CreateCategory(ctx, model.Category{Name: "Electronics"}, "")
	s.CreateItem(ctx, model.Item{Name: "Radio", CategoryID: cat.ID}, "")

	var list []model.CategorySummary
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/categories", &list))
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ItemCount)

	var detail struct {
		ID    string       `json:"id"`
		Name  string       `json:"name"`
		Items []model.Item `json:"items"`
	}
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/categories/"+cat.ID, &detail))
	assert.Equal(t, cat.ID, detail.ID)
	assert.Equal(t, "Electronics", detail.Name)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Radio", detail.Items[0].Name)
}

func TestItemEndpoints(t *testing.T) {
	server, s := setupTestServer(t)
	ctx := context.Background()
	price := 9.99
	cat, _ := s.CreateCategory(ctx, model.Category{Name: "Tools"}, "")
	item, _ := s.CreateItem(ctx, model.Item{Name: "Hammer", Price: &price, Units: 3, CategoryID: cat.ID}, "")
	s.CreateItem(ctx, model.Item{Name: "Loose"}, "")

	var got model.Item
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/items/"+item.ID, &got))
	assert.Equal(t, "Hammer", got.Name)
	assert.Equal(t, "Tools", got.CategoryName)
	require.NotNil(t, got.Price)
	assert.Equal(t, 9.99, *got.Price)

	var filtered []model.Item
	require.Equal(t, http.StatusOK, getJSON(t, server.URL+"/api/items?category="+cat.ID, &filtered))
	require.Len(t, filtered, 1)
	assert.Equal(t, item.ID, filtered[0].ID)
}

func TestErrors(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		path   string
		status int
	}{
		{"/api/items/42", http.StatusBadRequest},
		{"/api/items/5f0e7c2a-1b3d-4c5e-8f9a-0b1c2d3e4f50", http.StatusNotFound},
		{"/api/categories/nope", http.StatusBadRequest},
		{"/api/categories/5f0e7c2a-1b3d-4c5e-8f9a-0b1c2d3e4f50", http.StatusNotFound},
		{"/api/items?category=nope", http.StatusBadRequest},
		{"/api/owners", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			var body map[string]string
			assert.Equal(t, tt.status, getJSON(t, server.URL+tt.path, &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestReadOnly(t *testing.T) {
	server, _ := setupTestServer(t)

	resp, err := http.Post(server.URL+"/api/items", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.NotEqual(t, http.StatusOK, resp.StatusCode)
}
