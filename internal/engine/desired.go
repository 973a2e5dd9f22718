// Package engine orchestrates a reconciliation run: enumerate, classify,
// compute the desired set, diff against current policy membership, and apply.
package engine

import (
	"sort"

	"github.com/skyeshanohan/rulesync/internal/model"
)

// DesiredSet reduces classification results to the sorted, deduplicated set
// of governed resource IDs. Pure and order-independent: the same results in
// any order yield the same set.
func DesiredSet(results []model.ClassificationResult) []string {
	seen := make(map[string]struct{}, len(results))
	desired := make([]string, 0, len(results))

	for _, result := range results {
		if result.State != model.StateGoverned {
			continue
		}
		if _, dup := seen[result.ResourceID]; dup {
			continue
		}
		seen[result.ResourceID] = struct{}{}
		desired = append(desired, result.ResourceID)
	}

	sort.Strings(desired)
	return desired
}

// CountStates builds the classification histogram for the run report.
func CountStates(results []model.ClassificationResult) model.StateCounts {
	var counts model.StateCounts
	for _, result := range results {
		switch result.State {
		case model.StateGoverned:
			counts.Governed++
		case model.StateNotGoverned:
			counts.NotGoverned++
		case model.StateSkippedArchived:
			counts.SkippedArchived++
		case model.StateNoDocument:
			counts.NoDocument++
		case model.StateInvalidDocument:
			counts.InvalidDocument++
		case model.StateUnsupportedSchema:
			counts.UnsupportedSchema++
		case model.StateMissingLifecycle:
			counts.MissingLifecycle++
		case model.StateError:
			counts.Error++
		}
	}
	return counts
}
