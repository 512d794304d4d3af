package validate

import (
	"context"
	"fmt"
	"math"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"

	"github.com/erazemk/inventory/internal/config"
)

// CategoryLookup resolves category references.
type CategoryLookup interface {
	CategoryExists(ctx context.Context, id string) (bool, error)
}

// FileCounter reports how many uploads are stored.
type FileCounter interface {
	Count() (int, error)
}

// Validator builds checks from the configured limits.
type Validator struct {
	limits     config.Limits
	v          *validator.Validate
	categories CategoryLookup
	files      FileCounter
}

// New returns a Validator. files may be nil if no form accepts uploads.
func New(limits config.Limits, categories CategoryLookup, files FileCounter) *Validator {
	return &Validator{
		limits:     limits,
		v:          validator.New(validator.WithRequiredStructEnabled()),
		categories: categories,
		files:      files,
	}
}

// Limits returns the bounds this validator enforces.
func (v *Validator) Limits() config.Limits {
	return v.limits
}

// Length checks that value has between r.Min and r.Max runes.
func (v *Validator) Length(field, label, value string, r config.Range) Check {
	return func(ctx context.Context) (*FieldError, error) {
		tag := fmt.Sprintf("min=%d,max=%d", r.Min, r.Max)
		if err := v.v.VarCtx(ctx, value, tag); err != nil {
			if r.Min == 0 {
				return &FieldError{field, fmt.Sprintf("%s must be at most %d characters.", label, r.Max)}, nil
			}
			return &FieldError{field, fmt.Sprintf("%s must be between %d and %d characters.", label, r.Min, r.Max)}, nil
		}
		return nil, nil
	}
}

// Password checks the trimmed password length.
func (v *Validator) Password(value string) Check {
	return v.Length("password", "Password", value, v.limits.Password)
}

// ParsePrice parses an optional non-negative price. An empty string is no price.
func ParsePrice(raw string) (*float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return nil, false
	}
	return &p, true
}

// Price checks an optional price is a number >= 0.
func (v *Validator) Price(raw string) Check {
	return func(ctx context.Context) (*FieldError, error) {
		p, ok := ParsePrice(raw)
		if ok && p != nil {
			ok = v.v.VarCtx(ctx, *p, "gte=0") == nil
		}
		if !ok {
			return &FieldError{"price", "Price must be a number greater than or equal to 0."}, nil
		}
		return nil, nil
	}
}

// ParseUnits parses an optional unit count. An empty string is zero.
func ParseUnits(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Units checks an optional unit count is an integer >= 0.
func (v *Validator) Units(raw string) Check {
	return func(ctx context.Context) (*FieldError, error) {
		n, ok := ParseUnits(raw)
		if ok {
			ok = v.v.VarCtx(ctx, n, "gte=0") == nil
		}
		if !ok {
			return &FieldError{"units", "Units must be a whole number greater than or equal to 0."}, nil
		}
		return nil, nil
	}
}

// Category checks an optional category reference is a well-formed id of an
// existing category.
func (v *Validator) Category(id string) Check {
	return func(ctx context.Context) (*FieldError, error) {
		if id == "" {
			return nil, nil
		}
		invalid := &FieldError{"category", "Category does not exist."}
		if v.v.VarCtx(ctx, id, "uuid") != nil {
			return invalid, nil
		}
		ok, err := v.categories.CategoryExists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("looking up category: %w", err)
		}
		if !ok {
			return invalid, nil
		}
		return nil, nil
	}
}

// ImageTooLarge is the image field error for uploads over the size limit.
func (v *Validator) ImageTooLarge() *FieldError {
	return &FieldError{"image", fmt.Sprintf("Image must be at most %s.",
		humanize.IBytes(uint64(v.limits.UploadMaxBytes)))}
}

// Image checks an optional upload is an image within the size limit and
// that the upload store still has room for it. The room check counts
// existing files and is not atomic with the later write.
func (v *Validator) Image(fh *multipart.FileHeader) Check {
	return func(ctx context.Context) (*FieldError, error) {
		if fh == nil {
			return nil, nil
		}
		if fh.Size > v.limits.UploadMaxBytes {
			return v.ImageTooLarge(), nil
		}

		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("opening upload: %w", err)
		}
		mt, err := mimetype.DetectReader(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("sniffing upload: %w", err)
		}
		if !strings.HasPrefix(mt.String(), "image/") {
			return &FieldError{"image", "File must be an image."}, nil
		}

		if v.files != nil {
			n, err := v.files.Count()
			if err != nil {
				return nil, fmt.Errorf("counting uploads: %w", err)
			}
			if n >= v.limits.UploadMaxFiles {
				return &FieldError{"image", "Upload limit reached, no more images can be stored."}, nil
			}
		}
		return nil, nil
	}
}
