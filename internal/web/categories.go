package web

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/inventory/internal/config"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/validate"
)

type categoryListPage struct {
	PageData
	Categories []model.CategorySummary
}

type categoryDetailPage struct {
	PageData
	Category *model.Category
	Items    []model.Item
}

type categoryFormPage struct {
	PageData
	Action   string
	Submit   string
	Category *model.Category
	Form     validate.CategoryForm
	Errors   validate.Errors
	Limits   config.Limits
}

type categoryDeletePage struct {
	PageData
	Category *model.Category
	Items    []model.Item
	Errors   validate.Errors
}

// CategoryList handles GET /categories.
func (s *Server) CategoryList(w http.ResponseWriter, r *http.Request) {
	categories, err := s.Store.ListCategorySummaries(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to list categories", err)
		return
	}

	s.Templates.Render(w, "category_list.html", &categoryListPage{
		PageData:   s.page(w, r, "Categories"),
		Categories: categories,
	})
}

// CategoryDetail handles GET /category/{id}.
func (s *Server) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	l, err := find(r, s.Store.GetCategory)
	if err != nil {
		s.serverError(w, r, "failed to get category", err)
		return
	}
	switch l.Status {
	case malformed:
		s.renderError(w, r, http.StatusBadRequest, "Invalid category id.")
		return
	case notFound:
		s.renderError(w, r, http.StatusNotFound, "Category not found.")
		return
	}

	items, err := s.Store.ListItemsByCategory(r.Context(), l.Entity.ID)
	if err != nil {
		s.serverError(w, r, "failed to list category items", err)
		return
	}

	s.Templates.Render(w, "category_detail.html", &categoryDetailPage{
		PageData: s.page(w, r, l.Entity.Name),
		Category: l.Entity,
		Items:    items,
	})
}

func (s *Server) renderCategoryForm(w http.ResponseWriter, r *http.Request, c *model.Category, form validate.CategoryForm, errs validate.Errors) {
	p := &categoryFormPage{
		Action:   "/category/create",
		Submit:   "Create",
		Category: c,
		Form:     form,
		Errors:   errs,
		Limits:   s.Validator.Limits(),
	}
	title := "Create category"
	if c != nil {
		p.Action = "/category/" + c.ID + "/update"
		p.Submit = "Update"
		title = "Update " + c.Name
	}
	p.PageData = s.page(w, r, title)
	s.Templates.Render(w, "category_form.html", p)
}

// CategoryCreatePage handles GET /category/create.
func (s *Server) CategoryCreatePage(w http.ResponseWriter, r *http.Request) {
	s.renderCategoryForm(w, r, nil, validate.CategoryForm{}, nil)
}

// CategoryCreateSubmit handles POST /category/create.
func (s *Server) CategoryCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	form := categoryForm(r)

	var grantee *model.Access
	pw := password(r)
	in, errs, err := s.Validator.ValidateCategory(r.Context(), form, accessCheck(func(ctx context.Context) error {
		a, err := s.Access.Authorize(ctx, pw, model.CapInsert)
		grantee = a
		return err
	}))
	if err != nil {
		s.serverError(w, r, "failed to validate category", err)
		return
	}
	if len(errs) > 0 {
		s.renderCategoryForm(w, r, nil, form, errs)
		return
	}

	c, err := s.Store.CreateCategory(r.Context(), model.Category{Name: in.Name, Description: in.Description}, grantee.ID)
	if err != nil {
		s.serverError(w, r, "failed to create category", err)
		return
	}

	slog.Info("category created", "category", c.ID, "name", c.Name, "access", grantee.ID)
	s.setFlash(w, fmt.Sprintf("Category %q created.", c.Name))
	http.Redirect(w, r, c.URL(), http.StatusSeeOther)
}

// CategoryUpdatePage handles GET /category/{id}/update.
func (s *Server) CategoryUpdatePage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.categoryForMutation(w, r)
	if !ok {
		return
	}
	s.renderCategoryForm(w, r, c, validate.CategoryForm{Name: c.Name, Description: c.Description}, nil)
}

// CategoryUpdateSubmit handles POST /category/{id}/update.
func (s *Server) CategoryUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.categoryForMutation(w, r)
	if !ok {
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	form := categoryForm(r)

	pw := password(r)
	in, errs, err := s.Validator.ValidateCategory(r.Context(), form, accessCheck(func(ctx context.Context) error {
		return s.Access.Check(ctx, pw, model.CategoryTarget(c.ID), model.CapUpdate)
	}))
	if err != nil {
		s.serverError(w, r, "failed to validate category", err)
		return
	}
	if len(errs) > 0 {
		s.renderCategoryForm(w, r, c, form, errs)
		return
	}

	c.Name = in.Name
	c.Description = in.Description
	if err := s.Store.UpdateCategory(r.Context(), *c); err != nil {
		s.serverError(w, r, "failed to update category", err)
		return
	}

	slog.Info("category updated", "category", c.ID, "name", c.Name)
	s.setFlash(w, fmt.Sprintf("Category %q updated.", c.Name))
	http.Redirect(w, r, c.URL(), http.StatusSeeOther)
}

func (s *Server) renderCategoryDelete(w http.ResponseWriter, r *http.Request, c *model.Category, errs validate.Errors) {
	items, err := s.Store.ListItemsByCategory(r.Context(), c.ID)
	if err != nil {
		s.serverError(w, r, "failed to list category items", err)
		return
	}
	s.Templates.Render(w, "category_delete.html", &categoryDeletePage{
		PageData: s.page(w, r, "Delete "+c.Name),
		Category: c,
		Items:    items,
		Errors:   errs,
	})
}

// CategoryDeletePage handles GET /category/{id}/delete.
func (s *Server) CategoryDeletePage(w http.ResponseWriter, r *http.Request) {
	c, ok := s.categoryForMutation(w, r)
	if !ok {
		return
	}
	s.renderCategoryDelete(w, r, c, nil)
}

// CategoryDeleteSubmit handles POST /category/{id}/delete. Items filed
// under the category are kept and become uncategorized.
func (s *Server) CategoryDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.categoryForMutation(w, r)
	if !ok {
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	pw := password(r)
	errs, err := validate.Run(r.Context(),
		s.Validator.Password(pw),
		accessCheck(func(ctx context.Context) error {
			return s.Access.Check(ctx, pw, model.CategoryTarget(c.ID), model.CapDelete)
		}),
	)
	if err != nil {
		s.serverError(w, r, "failed to validate category deletion", err)
		return
	}
	if len(errs) > 0 {
		s.renderCategoryDelete(w, r, c, errs)
		return
	}

	if _, err := s.Store.DeleteCategory(r.Context(), c.ID); err != nil {
		s.serverError(w, r, "failed to delete category", err)
		return
	}

	slog.Info("category deleted", "category", c.ID, "name", c.Name)
	s.setFlash(w, fmt.Sprintf("Category %q deleted.", c.Name))
	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// categoryForMutation resolves {id} for the update and delete routes. A
// missing category redirects to the list, which makes repeated deletes
// harmless. It reports false when the response has been written.
func (s *Server) categoryForMutation(w http.ResponseWriter, r *http.Request) (*model.Category, bool) {
	l, err := find(r, s.Store.GetCategory)
	if err != nil {
		s.serverError(w, r, "failed to get category", err)
		return nil, false
	}
	switch l.Status {
	case malformed:
		s.renderError(w, r, http.StatusBadRequest, "Invalid category id.")
		return nil, false
	case notFound:
		http.Redirect(w, r, "/categories", http.StatusSeeOther)
		return nil, false
	}
	return l.Entity, true
}

func categoryForm(r *http.Request) validate.CategoryForm {
	return validate.CategoryForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Password:    r.PostFormValue("password"),
	}
}
