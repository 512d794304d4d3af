package web

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/erazemk/inventory/internal/access"
	"github.com/erazemk/inventory/internal/model"
	"github.com/erazemk/inventory/internal/store"
	"github.com/erazemk/inventory/internal/validate"
)

// formSlack is the room left for ordinary fields on top of the image size
// limit when capping a multipart body.
const formSlack = 64 << 10

// oversizeFactor sets how far past the upload limit a body may go and still
// be parsed, so the image rule can report the size with the form intact.
const oversizeFactor = 4

// Uploads stores and removes item images.
type Uploads interface {
	Save(r io.Reader) (string, error)
	Delete(url string) error
}

// Server holds all dependencies for page handlers.
type Server struct {
	Store     store.Repository
	Templates *Templates
	Validator *validate.Validator
	Access    *access.Checker
	Uploads   Uploads
	Secret    string
}

// PageData is the base data passed to all templates.
type PageData struct {
	Title   string
	Sidebar []model.Category
	Flash   string
}

// page builds the shared page data: the sidebar category list and any
// pending flash message.
func (s *Server) page(w http.ResponseWriter, r *http.Request, title string) PageData {
	categories, err := s.Store.ListCategories(r.Context())
	if err != nil {
		slog.Error("failed to list sidebar categories", "error", err)
	}
	return PageData{
		Title:   title,
		Sidebar: categories,
		Flash:   s.takeFlash(w, r),
	}
}

type errorPage struct {
	PageData
	Status  int
	Message string
}

// renderError renders the error view with the given status.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.Templates.RenderStatus(w, status, "error.html", &errorPage{
		PageData: s.page(w, r, http.StatusText(status)),
		Status:   status,
		Message:  message,
	})
}

// serverError logs err and renders a generic 500 page.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "error", err, "method", r.Method, "path", r.URL.Path)
	s.renderError(w, r, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}

type lookupStatus int

const (
	found lookupStatus = iota
	notFound
	malformed
)

// lookup is the outcome of resolving the {id} path value.
type lookup[T any] struct {
	Status lookupStatus
	Entity *T
}

func find[T any](r *http.Request, get func(ctx context.Context, id string) (*T, error)) (lookup[T], error) {
	id := r.PathValue("id")
	if !model.ValidID(id) {
		return lookup[T]{Status: malformed}, nil
	}
	e, err := get(r.Context(), id)
	if err != nil {
		return lookup[T]{}, err
	}
	if e == nil {
		return lookup[T]{Status: notFound}, nil
	}
	return lookup[T]{Status: found, Entity: e}, nil
}

// parseForm parses a urlencoded or multipart body, capping its size at a
// multiple of the upload limit plus formSlack.
func (s *Server) parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, oversizeFactor*s.Validator.Limits().UploadMaxBytes+formSlack)
	err := r.ParseMultipartForm(32 << 10)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// tooLarge reports whether err came from the body size cap.
func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// formFile returns the uploaded file for field, or nil if none was sent.
func formFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 || files[0].Filename == "" || files[0].Size == 0 {
		return nil
	}
	return files[0]
}

// accessCheck adapts an access decision to a password field check.
func accessCheck(decide func(ctx context.Context) error) validate.Check {
	return func(ctx context.Context) (*validate.FieldError, error) {
		err := decide(ctx)
		if d, ok := access.AsDenied(err); ok {
			return &validate.FieldError{Field: "password", Message: "Access denied: " + d.Reason + "."}, nil
		}
		return nil, err
	}
}

// password returns the trimmed password field.
func password(r *http.Request) string {
	return strings.TrimSpace(r.PostFormValue("password"))
}
