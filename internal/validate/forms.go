package validate

import (
	"context"
	"mime/multipart"
	"strings"
)

// CategoryForm is a raw category submission.
type CategoryForm struct {
	Name        string
	Description string
	Password    string
}

// CategoryInput is a normalized category submission.
type CategoryInput struct {
	Name        string
	Description string
	Password    string
}

// ItemForm is a raw item submission.
type ItemForm struct {
	Name        string
	Description string
	Price       string
	Units       string
	Category    string
	Password    string
	Image       *multipart.FileHeader
}

// ItemInput is a normalized item submission. Price and Units hold their
// zero values when the corresponding field failed to parse.
type ItemInput struct {
	Name        string
	Description string
	Price       *float64
	Units       int
	CategoryID  string
	Password    string
	Image       *multipart.FileHeader
}

// NormalizeCategory trims a category form.
func NormalizeCategory(f CategoryForm) CategoryInput {
	return CategoryInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Password:    strings.TrimSpace(f.Password),
	}
}

// NormalizeItem trims and parses an item form.
func NormalizeItem(f ItemForm) ItemInput {
	in := ItemInput{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		CategoryID:  strings.TrimSpace(f.Category),
		Password:    strings.TrimSpace(f.Password),
		Image:       f.Image,
	}
	in.Price, _ = ParsePrice(f.Price)
	in.Units, _ = ParseUnits(f.Units)
	return in
}

// ValidateCategory runs the category pipeline followed by any extra checks
// (typically the access check on the password field).
func (v *Validator) ValidateCategory(ctx context.Context, f CategoryForm, extra ...Check) (CategoryInput, Errors, error) {
	in := NormalizeCategory(f)
	checks := []Check{
		v.Length("name", "Name", in.Name, v.limits.CategoryName),
		v.Length("description", "Description", in.Description, v.limits.CategoryDescription),
		v.Password(in.Password),
	}
	errs, err := Run(ctx, append(checks, extra...)...)
	return in, errs, err
}

// ValidateItem runs the item pipeline followed by any extra checks.
func (v *Validator) ValidateItem(ctx context.Context, f ItemForm, extra ...Check) (ItemInput, Errors, error) {
	in := NormalizeItem(f)
	checks := []Check{
		v.Length("name", "Name", in.Name, v.limits.ItemName),
		v.Length("description", "Description", in.Description, v.limits.ItemDescription),
		v.Price(f.Price),
		v.Units(f.Units),
		v.Category(in.CategoryID),
		v.Image(in.Image),
		v.Password(in.Password),
	}
	errs, err := Run(ctx, append(checks, extra...)...)
	return in, errs, err
}
