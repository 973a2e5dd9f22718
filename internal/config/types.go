package config

// Config represents the full rulesync configuration document.
type Config struct {
	// Org is the default scope; overridable per run with --org.
	Org        string     `yaml:"org" validate:"required,org_name"`
	Policy     Policy     `yaml:"policy"`
	Classifier Classifier `yaml:"classifier"`
	Run        Run        `yaml:"run,omitempty"`
	Logging    Logging    `yaml:"logging,omitempty"`
}

// Policy identifies the managed policy object. The engine never creates
// policies; the referenced ruleset must already exist.
type Policy struct {
	ID int64 `yaml:"id" validate:"required,min=1"`
}

// Classifier holds the lifecycle classification parameters.
type Classifier struct {
	// DocumentPath is the in-repository path of the lifecycle document.
	DocumentPath string `yaml:"document_path" validate:"required,document_path"`

	// APIVersionPrefix gates the document schema: apiVersion must start
	// with this prefix to be supported.
	APIVersionPrefix string `yaml:"api_version_prefix" validate:"required"`

	// ProductionValues is the exact-match set of lifecycle values that
	// classify a resource as governed. Matching is case-sensitive; variants
	// must be listed explicitly.
	ProductionValues []string `yaml:"production_values" validate:"required,min=1,dive,min=1"`
}

// Run holds execution parameters.
type Run struct {
	// BatchSize bounds concurrent document fetches.
	BatchSize int `yaml:"batch_size,omitempty" validate:"omitempty,min=1,max=100"`

	// BatchDelayMS is the pause between classification batches.
	BatchDelayMS int `yaml:"batch_delay_ms,omitempty" validate:"omitempty,min=0,max=60000"`

	// RequestTimeoutSeconds bounds every individual external call.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`

	// MaxFetchRetries bounds the exponential backoff on transient
	// document-fetch failures.
	MaxFetchRetries int `yaml:"max_fetch_retries,omitempty" validate:"omitempty,min=0,max=10"`

	// BaseURL points the client at a GitHub Enterprise or test endpoint.
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`
}

// Logging holds log output settings.
type Logging struct {
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=trace debug info warn error"`
}

const (
	defaultDocumentPath     = "catalog-info.yaml"
	defaultAPIVersionPrefix = "backstage.io/v1"
	defaultBatchSize        = 25
	defaultBatchDelayMS     = 500
	defaultRequestTimeout   = 30
	defaultMaxFetchRetries  = 3
)

// ApplyDefaults fills unset fields before validation.
func (c *Config) ApplyDefaults() {
	if c.Classifier.DocumentPath == "" {
		c.Classifier.DocumentPath = defaultDocumentPath
	}
	if c.Classifier.APIVersionPrefix == "" {
		c.Classifier.APIVersionPrefix = defaultAPIVersionPrefix
	}
	if len(c.Classifier.ProductionValues) == 0 {
		c.Classifier.ProductionValues = []string{"production"}
	}
	if c.Run.BatchSize == 0 {
		c.Run.BatchSize = defaultBatchSize
	}
	if c.Run.BatchDelayMS == 0 {
		c.Run.BatchDelayMS = defaultBatchDelayMS
	}
	if c.Run.RequestTimeoutSeconds == 0 {
		c.Run.RequestTimeoutSeconds = defaultRequestTimeout
	}
	if c.Run.MaxFetchRetries == 0 {
		c.Run.MaxFetchRetries = defaultMaxFetchRetries
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}
