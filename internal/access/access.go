// Package access decides whether a submitted password may mutate a
// category or item.
package access

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erazemk/inventory/internal/metrics"
	"github.com/erazemk/inventory/internal/model"
)

// Store is the subset of the entity store the checker reads.
type Store interface {
	GetAccessByPassword(ctx context.Context, password string) (*model.Access, error)
	HasGrant(ctx context.Context, accessID string, target model.Target) (bool, error)
}

// Denied is returned when a password is valid input but not allowed to
// perform the requested action.
type Denied struct {
	Reason string
}

func (d *Denied) Error() string {
	return "access denied: " + d.Reason
}

// AsDenied unwraps a *Denied from err.
func AsDenied(err error) (*Denied, bool) {
	var d *Denied
	ok := errors.As(err, &d)
	return d, ok
}

// Checker evaluates passwords against access records and their grants.
type Checker struct {
	store Store
}

// NewChecker returns a Checker reading from s.
func NewChecker(s Store) *Checker {
	return &Checker{store: s}
}

// Authorize resolves password to an Access holding every capability in
// caps. It does not look at grants, so it gates creates where no target
// exists yet.
func (c *Checker) Authorize(ctx context.Context, password string, caps ...model.Capability) (*model.Access, error) {
	a, err := c.authorize(ctx, password, nil, caps)
	record(caps, err)
	return a, err
}

// Check reports whether password may act on target with every capability
// in caps. It returns nil when allowed, a *Denied when refused, and any
// other error when the store could not be read.
func (c *Checker) Check(ctx context.Context, password string, target model.Target, caps ...model.Capability) error {
	_, err := c.authorize(ctx, password, &target, caps)
	record(caps, err)
	return err
}

func (c *Checker) authorize(ctx context.Context, password string, target *model.Target, caps []model.Capability) (*model.Access, error) {
	a, err := c.store.GetAccessByPassword(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("looking up access: %w", err)
	}
	if a == nil {
		return nil, &Denied{Reason: "no permissions"}
	}

	if target != nil {
		ok, err := c.store.HasGrant(ctx, a.ID, *target)
		if err != nil {
			return nil, fmt.Errorf("looking up grant: %w", err)
		}
		if !ok {
			return nil, &Denied{Reason: fmt.Sprintf("password is not granted for this %s", target.Kind)}
		}
	}

	for _, want := range caps {
		if !a.Perms.Has(want) {
			return nil, &Denied{Reason: fmt.Sprintf("password lacks the %s permission", want)}
		}
	}
	return a, nil
}

func record(caps []model.Capability, err error) {
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = string(c)
	}

	outcome := "allow"
	if _, ok := AsDenied(err); ok {
		outcome = "deny"
	} else if err != nil {
		outcome = "error"
	}
	metrics.AccessDecisions.WithLabelValues(strings.Join(names, "+"), outcome).Inc()
}
