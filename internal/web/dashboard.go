package web

import (
	"net/http"

	"github.com/erazemk/inventory/internal/model"
)

type dashboardPage struct {
	PageData
	Categories []model.CategorySummary
	Stats      *model.ItemStats
}

// Dashboard handles GET /.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Store.ListCategorySummaries(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to list categories for dashboard", err)
		return
	}
	stats, err := s.Store.GetItemStats(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to get item stats for dashboard", err)
		return
	}

	s.Templates.Render(w, "dashboard.html", &dashboardPage{
		PageData:   s.page(w, r, "Inventory"),
		Categories: categories,
		Stats:      stats,
	})
}
