package model

import "time"

// Resource is one governed unit of the inventory, typically a repository.
// Resources are created and destroyed by the external inventory system; the
// reconciler only ever reads them.
type Resource struct {
	// ID is the stable identifier of the resource (the repository name).
	ID string

	// Archived marks resources whose lifecycle document is never fetched.
	Archived bool

	// LastModified is the inventory's last-change timestamp. Zero when the
	// inventory does not report one.
	LastModified time.Time
}

// LifecycleDocument is the declared metadata artifact fetched per resource.
// It is fetched fresh on every run and never persisted.
type LifecycleDocument struct {
	APIVersion string `yaml:"apiVersion"`
	Kind       string `yaml:"kind"`
	Metadata   struct {
		Name string `yaml:"name"`
	} `yaml:"metadata"`
	Spec struct {
		// Lifecycle is optional at the schema level; absence is a valid,
		// meaningful state (missing_lifecycle).
		Lifecycle string `yaml:"lifecycle"`
	} `yaml:"spec"`
}
