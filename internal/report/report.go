// Package report assembles the structured run summary handed to external
// notification and audit collaborators. It performs no decision logic.
package report

import (
	"github.com/skyeshanohan/rulesync/internal/model"
	pkgdiff "github.com/skyeshanohan/rulesync/pkg/diff"
)

// Build assembles the immutable run report from the run's accumulated
// outputs. current and desired feed the human-readable membership rendering;
// either may be nil when the run failed before they were known.
func Build(run model.ReconciliationRun, counts model.StateCounts, diff model.Diff, outcome model.ApplyOutcome, errDetail string, current, desired []string) *model.RunReport {
	rep := &model.RunReport{
		RunID:                run.RunID,
		Timestamp:            run.Timestamp,
		DryRun:               run.DryRun,
		Scope:                run.Scope,
		ClassificationCounts: counts,
		Diff: model.DiffSummary{
			Added:   emptyIfNil(diff.Added),
			Removed: emptyIfNil(diff.Removed),
		},
		ApplyOutcome: outcome,
		ErrorDetail:  errDetail,
	}

	if diff.RequiresUpdate() {
		rep.MembershipDiff = pkgdiff.RenderMembership(current, desired, "current membership", "desired membership")
	}

	return rep
}

// Failure assembles a report for a run that aborted before the apply phase
// completed. The attempted diff is included so an operator can assess
// exposure.
func Failure(run model.ReconciliationRun, counts model.StateCounts, diff model.Diff, err error) *model.RunReport {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return Build(run, counts, diff, model.OutcomeFailed, detail, nil, nil)
}

func emptyIfNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
