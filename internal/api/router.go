package api

import (
	"net/http"

	"github.com/erazemk/inventory/internal/store"
)

// NewRouter creates the read-only API router.
func NewRouter(repo store.Repository) http.Handler {
	mux := http.NewServeMux()

	categoriesHandler := &CategoriesHandler{Store: repo}
	itemsHandler := &ItemsHandler{Store: repo}

	mux.HandleFunc("GET /api/categories", categoriesHandler.List)
	mux.HandleFunc("GET /api/categories/{id}", categoriesHandler.Get)
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not found")
	})

	return mux
}
