package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skyeshanohan/rulesync/internal/logger"
	"github.com/skyeshanohan/rulesync/internal/model"
)

// Classifier maps one resource to exactly one ClassificationResult. It is a
// pure mapping over the fetched document; per-resource failures are absorbed
// into the error state and never abort the run.
type Classifier struct {
	fetcher          Fetcher
	apiVersionPrefix string
	productionValues map[string]struct{}
	log              *logger.Logger
}

// NewClassifier builds a classifier. productionValues is matched exactly and
// case-sensitively; variants must be listed explicitly.
func NewClassifier(fetcher Fetcher, apiVersionPrefix string, productionValues []string, log *logger.Logger) *Classifier {
	values := make(map[string]struct{}, len(productionValues))
	for _, v := range productionValues {
		values[v] = struct{}{}
	}
	return &Classifier{
		fetcher:          fetcher,
		apiVersionPrefix: apiVersionPrefix,
		productionValues: values,
		log:              log,
	}
}

// Classify evaluates the state machine for one resource. First match wins:
// archived, no document, unparseable, unsupported schema, missing lifecycle,
// then governed or not_governed on the lifecycle value.
func (c *Classifier) Classify(ctx context.Context, scope string, res model.Resource) model.ClassificationResult {
	if res.Archived {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateSkippedArchived,
			Detail:     "resource is archived; document fetch skipped",
		}
	}

	body, err := c.fetcher.Fetch(ctx, scope, res.ID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return model.ClassificationResult{
				ResourceID: res.ID,
				State:      model.StateNoDocument,
				Detail:     "no lifecycle document",
			}
		}
		c.log.WithFields(map[string]any{"resource": res.ID}).Error(err, "lifecycle document fetch failed")
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateError,
			Detail:     fmt.Sprintf("fetch failed: %v", err),
		}
	}

	var doc model.LifecycleDocument
	if err := yaml.Unmarshal(body, &doc); err != nil {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateInvalidDocument,
			Detail:     fmt.Sprintf("document does not parse: %v", err),
		}
	}

	if doc.Kind == "" || doc.Metadata.Name == "" {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateInvalidDocument,
			Detail:     "document missing required kind or metadata.name",
		}
	}

	if !c.supportedSchema(doc.APIVersion) {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateUnsupportedSchema,
			Detail:     fmt.Sprintf("apiVersion %q is outside supported prefix %q", doc.APIVersion, c.apiVersionPrefix),
		}
	}

	lifecycle := doc.Spec.Lifecycle
	if lifecycle == "" {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateMissingLifecycle,
			Detail:     "document has no spec.lifecycle value",
		}
	}

	if _, ok := c.productionValues[lifecycle]; ok {
		return model.ClassificationResult{
			ResourceID: res.ID,
			State:      model.StateGoverned,
			Lifecycle:  lifecycle,
			Detail:     fmt.Sprintf("lifecycle %q is a production value", lifecycle),
		}
	}

	return model.ClassificationResult{
		ResourceID: res.ID,
		State:      model.StateNotGoverned,
		Lifecycle:  lifecycle,
		Detail:     fmt.Sprintf("lifecycle %q is not a production value", lifecycle),
	}
}

// supportedSchema gates on the configured major-version prefix. A version
// whose remainder starts with another digit (v1 vs v10) does not match.
func (c *Classifier) supportedSchema(apiVersion string) bool {
	if apiVersion == "" || !strings.HasPrefix(apiVersion, c.apiVersionPrefix) {
		return false
	}
	rest := apiVersion[len(c.apiVersionPrefix):]
	if rest == "" {
		return true
	}
	return rest[0] < '0' || rest[0] > '9'
}
