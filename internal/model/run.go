package model

import (
	"time"

	"github.com/google/uuid"
)

// ReconciliationRun identifies a single reconciliation pass. It is created
// once at run start and never mutated mid-run.
type ReconciliationRun struct {
	RunID     string
	Timestamp time.Time
	DryRun    bool
	Scope     string
}

// NewRun creates a run record with a fresh identifier.
func NewRun(scope string, dryRun bool) ReconciliationRun {
	return ReconciliationRun{
		RunID:     uuid.NewString(),
		Timestamp: time.Now().UTC(),
		DryRun:    dryRun,
		Scope:     scope,
	}
}

// ApplyOutcome describes what the apply phase did.
type ApplyOutcome string

const (
	// OutcomeApplied means the membership write succeeded.
	OutcomeApplied ApplyOutcome = "applied"

	// OutcomeNoOp means desired equalled current and no write was issued.
	OutcomeNoOp ApplyOutcome = "no_op"

	// OutcomeDryRun means the diff was computed but mutation was suppressed.
	OutcomeDryRun ApplyOutcome = "dry_run"

	// OutcomeFailed means the run aborted before or during the write.
	OutcomeFailed ApplyOutcome = "failed"
)

// StateCounts is the classification histogram keyed with the report's JSON
// field names.
type StateCounts struct {
	Governed          int `json:"governed"`
	NotGoverned       int `json:"not_governed"`
	SkippedArchived   int `json:"skipped_archived"`
	NoDocument        int `json:"no_document"`
	InvalidDocument   int `json:"invalid_document"`
	UnsupportedSchema int `json:"unsupported_schema"`
	MissingLifecycle  int `json:"missing_lifecycle"`
	Error             int `json:"error"`
}

// Total sums all states.
func (c StateCounts) Total() int {
	return c.Governed + c.NotGoverned + c.SkippedArchived + c.NoDocument +
		c.InvalidDocument + c.UnsupportedSchema + c.MissingLifecycle + c.Error
}

// DiffSummary is the report's view of the membership diff.
type DiffSummary struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// RunReport is the structured run summary handed to external notification
// and audit collaborators.
type RunReport struct {
	RunID                string       `json:"runId"`
	Timestamp            time.Time    `json:"timestamp"`
	DryRun               bool         `json:"dryRun"`
	Scope                string       `json:"scope"`
	ClassificationCounts StateCounts  `json:"classificationCounts"`
	Diff                 DiffSummary  `json:"diff"`
	ApplyOutcome         ApplyOutcome `json:"applyOutcome"`

	// ErrorDetail is set only when ApplyOutcome is failed.
	ErrorDetail string `json:"errorDetail,omitempty"`

	// MembershipDiff is an optional human-readable rendering of the change,
	// used as a notification body.
	MembershipDiff string `json:"membershipDiff,omitempty"`
}
