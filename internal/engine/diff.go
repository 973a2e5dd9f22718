package engine

import (
	"sort"

	"github.com/skyeshanohan/rulesync/internal/model"
)

// ComputeDiff returns the membership change needed to move current to
// desired. Added and Removed are sorted and disjoint by construction.
func ComputeDiff(desired, current []string) model.Diff {
	desiredSet := toSet(desired)
	currentSet := toSet(current)

	var diff model.Diff
	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			diff.Added = append(diff.Added, id)
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			diff.Removed = append(diff.Removed, id)
		}
	}

	sort.Strings(diff.Added)
	sort.Strings(diff.Removed)
	return diff
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
