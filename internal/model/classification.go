package model

// ClassificationState is the lifecycle classification outcome for a single
// resource. Exactly one state is produced per resource per run.
type ClassificationState string

const (
	// StateGoverned marks resources whose lifecycle value is in the
	// configured production set; these form the desired membership.
	StateGoverned ClassificationState = "governed"

	// StateNotGoverned marks resources with a valid document whose lifecycle
	// value is outside the production set.
	StateNotGoverned ClassificationState = "not_governed"

	// StateSkippedArchived marks archived resources; their document is never
	// fetched.
	StateSkippedArchived ClassificationState = "skipped_archived"

	// StateNoDocument marks resources with no lifecycle document.
	StateNoDocument ClassificationState = "no_document"

	// StateInvalidDocument marks resources whose document failed to parse.
	StateInvalidDocument ClassificationState = "invalid_document"

	// StateUnsupportedSchema marks documents whose apiVersion is absent or
	// outside the supported major version.
	StateUnsupportedSchema ClassificationState = "unsupported_schema"

	// StateMissingLifecycle marks documents with a supported schema but no
	// lifecycle value.
	StateMissingLifecycle ClassificationState = "missing_lifecycle"

	// StateError marks resources whose classification failed unexpectedly.
	// Errors never abort the run and never reach the desired set.
	StateError ClassificationState = "error"
)

// States lists every classification state in report order.
func States() []ClassificationState {
	return []ClassificationState{
		StateGoverned,
		StateNotGoverned,
		StateSkippedArchived,
		StateNoDocument,
		StateInvalidDocument,
		StateUnsupportedSchema,
		StateMissingLifecycle,
		StateError,
	}
}

// ClassificationResult is the immutable per-resource outcome of one run.
type ClassificationResult struct {
	// ResourceID identifies the classified resource.
	ResourceID string

	// State is the classification outcome.
	State ClassificationState

	// Lifecycle is the declared lifecycle value, empty when the document was
	// absent, unreadable, or carried no value.
	Lifecycle string

	// Detail is a human-readable reason for the state, surfaced in reports.
	Detail string
}
