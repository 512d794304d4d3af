package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/inventory/internal/config"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/uploads"
	"github.com/erazemk/inventory/internal/validate"
)

type itemListPage struct {
	PageData
	Items []model.Item
}

type itemDetailPage struct {
	PageData
	Item *model.Item
}

type itemFormPage struct {
	PageData
	Action     string
	Submit     string
	Item       *model.Item
	Categories []model.Category
	Form       validate.ItemForm
	Errors     validate.Errors
	Limits     config.Limits
}

type itemDeletePage struct {
	PageData
	Item   *model.Item
	Errors validate.Errors
}

// ItemList handles GET /items.
func (s *Server) ItemList(w http.ResponseWriter, r *http.Request) {
	items, err := s.Store.ListItems(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to list items", err)
		return
	}

	s.Templates.Render(w, "item_list.html", &itemListPage{
		PageData: s.page(w, r, "Items"),
		Items:    items,
	})
}

// ItemDetail handles GET /item/{id}.
func (s *Server) ItemDetail(w http.ResponseWriter, r *http.Request) {
	l, err := find(r, s.Store.GetItem)
	if err != nil {
		s.serverError(w, r, "failed to get item", err)
		return
	}
	switch l.Status {
	case malformed:
		s.renderError(w, r, http.StatusBadRequest, "Invalid item id.")
		return
	case notFound:
		s.renderError(w, r, http.StatusNotFound, "Item not found.")
		return
	}

	s.Templates.Render(w, "item_detail.html", &itemDetailPage{
		PageData: s.page(w, r, l.Entity.Name),
		Item:     l.Entity,
	})
}

func (s *Server) renderItemForm(w http.ResponseWriter, r *http.Request, item *model.Item, form validate.ItemForm, errs validate.Errors) {
	categories, err := s.Store.ListCategories(r.Context())
	if err != nil {
		s.serverError(w, r, "failed to list categories", err)
		return
	}

	p := &itemFormPage{
		Action:     "/item/create",
		Submit:     "Create",
		Item:       item,
		Categories: categories,
		Form:       form,
		Errors:     errs,
		Limits:     s.Validator.Limits(),
	}
	title := "Create item"
	if item != nil {
		p.Action = "/item/" + item.ID + "/update"
		p.Submit = "Update"
		title = "Update " + item.Name
	}
	p.PageData = s.page(w, r, title)
	s.Templates.Render(w, "item_form.html", p)
}

// ItemCreatePage handles GET /item/create. A category query parameter
// preselects the category.
func (s *Server) ItemCreatePage(w http.ResponseWriter, r *http.Request) {
	s.renderItemForm(w, r, nil, validate.ItemForm{Category: r.URL.Query().Get("category")}, nil)
}

// ItemCreateSubmit handles POST /item/create. A submission carrying the
// referred flag comes from another page and only preselects the category.
func (s *Server) ItemCreateSubmit(w http.ResponseWriter, r *http.Request) {
	if err := s.parseForm(w, r); err != nil {
		s.rejectItemForm(w, r, nil, validate.ItemForm{}, err)
		return
	}
	if r.PostFormValue("referred") != "" {
		s.renderItemForm(w, r, nil, validate.ItemForm{Category: r.PostFormValue("category")}, nil)
		return
	}
	form := itemForm(r)

	var grantee *model.Access
	pw := password(r)
	in, errs, err := s.Validator.ValidateItem(r.Context(), form, accessCheck(func(ctx context.Context) error {
		a, err := s.Access.Authorize(ctx, pw, itemCaps(model.CapInsert, form.Image)...)
		grantee = a
		return err
	}))
	if err != nil {
		s.serverError(w, r, "failed to validate item", err)
		return
	}
	if len(errs) > 0 {
		s.renderItemForm(w, r, nil, form, errs)
		return
	}

	item := model.Item{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Units:       in.Units,
		CategoryID:  in.CategoryID,
	}
	if in.Image != nil {
		url, ok := s.saveImage(w, r, in.Image, func(errs validate.Errors) {
			s.renderItemForm(w, r, nil, form, errs)
		})
		if !ok {
			return
		}
		item.ImageURL = url
	}

	created, err := s.Store.CreateItem(r.Context(), item, grantee.ID)
	if err != nil {
		s.discardImage(item.ImageURL)
		s.serverError(w, r, "failed to create item", err)
		return
	}

	slog.Info("item created", "item", created.ID, "name", created.Name, "access", grantee.ID)
	s.setFlash(w, fmt.Sprintf("Item %q created.", created.Name))
	http.Redirect(w, r, created.URL(), http.StatusSeeOther)
}

// ItemUpdatePage handles GET /item/{id}/update.
func (s *Server) ItemUpdatePage(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemForMutation(w, r)
	if !ok {
		return
	}
	s.renderItemForm(w, r, item, itemFormFrom(item), nil)
}

// ItemUpdateSubmit handles POST /item/{id}/update. A new image replaces
// the old one; the old file is removed only once the row points at the
// new one.
func (s *Server) ItemUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemForMutation(w, r)
	if !ok {
		return
	}
	if err := s.parseForm(w, r); err != nil {
		s.rejectItemForm(w, r, item, itemFormFrom(item), err)
		return
	}
	form := itemForm(r)

	pw := password(r)
	in, errs, err := s.Validator.ValidateItem(r.Context(), form, accessCheck(func(ctx context.Context) error {
		return s.Access.Check(ctx, pw, model.ItemTarget(item.ID), itemCaps(model.CapUpdate, form.Image)...)
	}))
	if err != nil {
		s.serverError(w, r, "failed to validate item", err)
		return
	}
	if len(errs) > 0 {
		s.renderItemForm(w, r, item, form, errs)
		return
	}

	updated := *item
	updated.Name = in.Name
	updated.Description = in.Description
	updated.Price = in.Price
	updated.Units = in.Units
	updated.CategoryID = in.CategoryID
	if in.Image != nil {
		url, ok := s.saveImage(w, r, in.Image, func(errs validate.Errors) {
			s.renderItemForm(w, r, item, form, errs)
		})
		if !ok {
			return
		}
		updated.ImageURL = url
	}

	if err := s.Store.UpdateItem(r.Context(), updated); err != nil {
		if updated.ImageURL != item.ImageURL {
			s.discardImage(updated.ImageURL)
		}
		s.serverError(w, r, "failed to update item", err)
		return
	}
	if updated.ImageURL != item.ImageURL {
		s.discardImage(item.ImageURL)
	}

	slog.Info("item updated", "item", updated.ID, "name", updated.Name)
	s.setFlash(w, fmt.Sprintf("Item %q updated.", updated.Name))
	http.Redirect(w, r, updated.URL(), http.StatusSeeOther)
}

func (s *Server) renderItemDelete(w http.ResponseWriter, r *http.Request, item *model.Item, errs validate.Errors) {
	s.Templates.Render(w, "item_delete.html", &itemDeletePage{
		PageData: s.page(w, r, "Delete "+item.Name),
		Item:     item,
		Errors:   errs,
	})
}

// ItemDeletePage handles GET /item/{id}/delete.
func (s *Server) ItemDeletePage(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemForMutation(w, r)
	if !ok {
		return
	}
	s.renderItemDelete(w, r, item, nil)
}

// ItemDeleteSubmit handles POST /item/{id}/delete.
func (s *Server) ItemDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	item, ok := s.itemForMutation(w, r)
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
			return s.Access.Check(ctx, pw, model.ItemTarget(item.ID), model.CapDelete)
		}),
	)
	if err != nil {
		s.serverError(w, r, "failed to validate item deletion", err)
		return
	}
	if len(errs) > 0 {
		s.renderItemDelete(w, r, item, errs)
		return
	}

	removed, err := s.Store.DeleteItem(r.Context(), item.ID)
	if err != nil {
		s.serverError(w, r, "failed to delete item", err)
		return
	}
	if removed != nil {
		s.discardImage(removed.ImageURL)
	}

	slog.Info("item deleted", "item", item.ID, "name", item.Name)
	s.setFlash(w, fmt.Sprintf("Item %q deleted.", item.Name))
	http.Redirect(w, r, "/items", http.StatusSeeOther)
}

// rejectItemForm answers a body that could not be parsed. A body past the
// size cap is an oversized image: the form is shown again with fallback
// values, since the submitted fields were never read.
func (s *Server) rejectItemForm(w http.ResponseWriter, r *http.Request, item *model.Item, fallback validate.ItemForm, err error) {
	if !tooLarge(err) {
		s.renderError(w, r, http.StatusBadRequest, "Invalid form submission.")
		return
	}
	fe := s.Validator.ImageTooLarge()
	s.renderItemForm(w, r, item, fallback, validate.Errors{fe.Field: fe.Message})
}

// itemForMutation resolves {id} for the update and delete routes. It
// reports false when the response has been written.
func (s *Server) itemForMutation(w http.ResponseWriter, r *http.Request) (*model.Item, bool) {
	l, err := find(r, s.Store.GetItem)
	if err != nil {
		s.serverError(w, r, "failed to get item", err)
		return nil, false
	}
	switch l.Status {
	case malformed:
		s.renderError(w, r, http.StatusBadRequest, "Invalid item id.")
		return nil, false
	case notFound:
		http.Redirect(w, r, "/items", http.StatusSeeOther)
		return nil, false
	}
	return l.Entity, true
}

// saveImage stores fh. Content that cannot be decoded re-renders the form
// through rerender with an image error. It reports false when the
// response has been written.
func (s *Server) saveImage(w http.ResponseWriter, r *http.Request, fh *multipart.FileHeader, rerender func(validate.Errors)) (string, bool) {
	f, err := fh.Open()
	if err != nil {
		s.serverError(w, r, "failed to open upload", err)
		return "", false
	}
	defer f.Close()

	url, err := s.Uploads.Save(f)
	if errors.Is(err, uploads.ErrInvalidImage) {
		rerender(validate.Errors{"image": "Image could not be read."})
		return "", false
	}
	if err != nil {
		s.serverError(w, r, "failed to store upload", err)
		return "", false
	}
	return url, true
}

// discardImage removes a stored file, logging failures.
func (s *Server) discardImage(url string) {
	if url == "" {
		return
	}
	if err := s.Uploads.Delete(url); err != nil {
		slog.Error("failed to delete upload", "url", url, "error", err)
	}
}

// itemCaps adds the upload capability when an image is attached.
func itemCaps(base model.Capability, image *multipart.FileHeader) []model.Capability {
	if image != nil {
		return []model.Capability{base, model.CapUpload}
	}
	return []model.Capability{base}
}

func itemForm(r *http.Request) validate.ItemForm {
	return validate.ItemForm{
		Name:        r.PostFormValue("name"),
		Description: r.PostFormValue("description"),
		Price:       r.PostFormValue("price"),
		Units:       r.PostFormValue("units"),
		Category:    r.PostFormValue("category"),
		Password:    r.PostFormValue("password"),
		Image:       formFile(r, "image"),
	}
}

func itemFormFrom(item *model.Item) validate.ItemForm {
	f := validate.ItemForm{
		Name:        item.Name,
		Description: item.Description,
		Units:       fmt.Sprint(item.Units),
		Category:    item.CategoryID,
	}
	if item.Price != nil {
		f.Price = fmt.Sprint(*item.Price)
	}
	return f
}
