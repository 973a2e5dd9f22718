// Package inventory enumerates the resources of a scope. The enumeration is
// all-or-nothing: a failure on any page fails the run, because reconciling
// against a partial inventory would remove members that still exist.
package inventory

import (
	"context"

	"github.com/skyeshanohan/rulesync/internal/model"
)

// Lister returns the complete resource inventory for a scope.
type Lister interface {
	List(ctx context.Context, scope string) ([]model.Resource, error)
}
