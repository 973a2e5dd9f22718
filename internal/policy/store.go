// Package policy reads and writes the managed policy object. The engine is
// the only writer and only ever rewrites the membership include list; every
// other field round-trips unchanged.
package policy

import (
	"context"
	"errors"

	"github.com/skyeshanohan/rulesync/internal/model"
)

// ErrNotFound reports that the managed policy does not exist. The engine
// never creates policies, so this is a fatal configuration error.
var ErrNotFound = errors.New("policy not found")

// Store is the external policy store boundary.
type Store interface {
	// Get reads the current policy state, including its revision token.
	Get(ctx context.Context, scope string, policyID int64) (*model.PolicyState, error)

	// ReplaceMembership issues a single full-replace write of the policy's
	// include list. The write carries the revision observed at read time so
	// a concurrent out-of-band change fails the run instead of being
	// overwritten.
	ReplaceMembership(ctx context.Context, scope string, state *model.PolicyState, membership []string) error
}
