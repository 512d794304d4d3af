package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

// ItemsHandler serves item endpoints.
type ItemsHandler struct {
	Store store.Repository
}

// List handles GET /api/items. An optional category query parameter
// filters by category id.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.Item
		err   error
	)
	if category := r.URL.Query().Get("category"); category != "" {
		if !model.ValidID(category) {
			jsonError(w, http.StatusBadRequest, "invalid category id")
			return
		}
		items, err = h.Store.ListItemsByCategory(r.Context(), category)
	} else {
		items, err = h.Store.ListItems(r.Context())
	}
	if err != nil {
		slog.Error("failed to list items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !model.ValidID(id) {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := h.Store.GetItem(r.Context(), id)
	if err != nil {
		slog.Error("failed to get item", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}
	jsonResponse(w, http.StatusOK, item)
}
