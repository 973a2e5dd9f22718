package model

import "encoding/json"

// PolicyState is the managed policy object as read from the external store.
// The reconciler writes the Membership field and nothing else; every other
// field round-trips unchanged.
type PolicyState struct {
	// PolicyID identifies the policy in the external store.
	PolicyID string

	// Name is the policy's display name.
	Name string

	// Enforcement is the policy's enforcement mode (opaque to the engine).
	Enforcement string

	// Membership is the current include list of resource IDs.
	Membership []string

	// Exclude is the policy's exclude list, passed through unchanged.
	Exclude []string

	// Rules is the opaque rule payload, passed through unchanged.
	Rules json.RawMessage

	// BypassActors is an opaque payload, passed through unchanged.
	BypassActors json.RawMessage

	// Revision is the store's revision token (ETag) observed at read time.
	// When present it is sent back on write so a concurrent out-of-band
	// change fails the run instead of being overwritten.
	Revision string

	// Raw is the policy document exactly as read. Writes are produced by
	// swapping the include list inside this document, so fields the engine
	// does not model survive byte-for-byte.
	Raw json.RawMessage
}

// Diff is the membership change needed to move the policy from its current
// membership to the desired set. Added and Removed are disjoint.
type Diff struct {
	Added   []string
	Removed []string
}

// RequiresUpdate reports whether applying the diff would change the policy.
func (d Diff) RequiresUpdate() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}
