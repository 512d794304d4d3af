// Package validate implements the form validation pipelines. Each rule is a
// Check; a pipeline runs all of its checks concurrently and merges their
// field errors without short-circuiting.
package validate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// FieldError is a human-readable problem with one form field.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Check validates one aspect of a submission. A nil *FieldError means the
// check passed. A non-nil error means the check itself could not run.
type Check func(ctx context.Context) (*FieldError, error)

// Errors maps a field name to its message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Has reports whether field has an error.
func (e Errors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// Run executes checks concurrently and waits for all of them. Field errors
// are merged in declaration order, so the first failing check for a field
// wins. The first infrastructure error aborts the run.
func Run(ctx context.Context, checks ...Check) (Errors, error) {
	results := make([]*FieldError, len(checks))

	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		g.Go(func() error {
			fe, err := check(gctx)
			if err != nil {
				return err
			}
			results[i] = fe
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	errs := Errors{}
	for _, fe := range results {
		if fe != nil {
			errs.Add(fe.Field, fe.Message)
		}
	}
	return errs, nil
}
