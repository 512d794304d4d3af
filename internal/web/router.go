package web

import (
	"net/http"

	webembed "github.com/erazemk/inventory/web"
)

// NewRouter creates the web page router with all page routes registered.
// files serves GET /uploads/{name}.
func NewRouter(s *Server, files http.Handler) http.Handler {
	mux := http.NewServeMux()

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.Static()))))
	mux.Handle("GET /uploads/{name}", files)

	mux.HandleFunc("GET /{$}", s.Dashboard)

	mux.HandleFunc("GET /categories", s.CategoryList)
	mux.HandleFunc("GET /category/create", s.CategoryCreatePage)
	mux.HandleFunc("POST /category/create", s.CategoryCreateSubmit)
	mux.HandleFunc("GET /category/{id}", s.CategoryDetail)
	mux.HandleFunc("GET /category/{id}/update", s.CategoryUpdatePage)
	mux.HandleFunc("POST /category/{id}/update", s.CategoryUpdateSubmit)
	mux.HandleFunc("GET /category/{id}/delete", s.CategoryDeletePage)
	mux.HandleFunc("POST /category/{id}/delete", s.CategoryDeleteSubmit)

	mux.HandleFunc("GET /items", s.ItemList)
	mux.HandleFunc("GET /item/create", s.ItemCreatePage)
	mux.HandleFunc("POST /item/create", s.ItemCreateSubmit)
	mux.HandleFunc("GET /item/{id}", s.ItemDetail)
	mux.HandleFunc("GET /item/{id}/update", s.ItemUpdatePage)
	mux.HandleFunc("POST /item/{id}/update", s.ItemUpdateSubmit)
	mux.HandleFunc("GET /item/{id}/delete", s.ItemDeletePage)
	mux.HandleFunc("POST /item/{id}/delete", s.ItemDeleteSubmit)

	// Anything else renders the not-found view with the sidebar.
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, http.StatusNotFound, "Page not found.")
	})

	return mux
}
