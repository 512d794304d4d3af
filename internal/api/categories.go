package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
)

// CategoriesHandler serves category endpoints.
type CategoriesHandler struct {
	Store store.Repository
}

type categoryDetail struct {
	*model.Category
	Items []model.Item `json:"items"`
}

// List handles GET /api/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.Store.ListCategorySummaries(r.Context())
	if err != nil {
		slog.Error("failed to list categories", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.CategorySummary{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Get handles GET /api/categories/{id}.
func (h *CategoriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !model.ValidID(id) {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	c, err := h.Store.GetCategory(r.Context(), id)
	if err != nil {
		slog.Error("failed to get category", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to get category")
		return
	}
	if c == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	items, err := h.Store.ListItemsByCategory(r.Context(), id)
	if err != nil {
		slog.Error("failed to list category items", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to list category items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, categoryDetail{Category: c, Items: items})
}
