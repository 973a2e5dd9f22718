package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("rulesync.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "rulesync.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "rulesync.yaml")
}

func TestValidationErrorAggregatesFields(t *testing.T) {
	t.Parallel()

	err := NewValidationError("classifier.production_values", "must list at least one value", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "classifier.production_values", validationErr.Field)
	require.Contains(t, validationErr.Message, "at least one value")
}

func TestEnumerationErrorIncludesScopeAndPage(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("502 bad gateway")
	err := NewEnumerationError("acme", 3, underlying)

	var enumErr *EnumerationError
	require.ErrorAs(t, err, &enumErr)
	require.Equal(t, "acme", enumErr.Scope)
	require.Equal(t, 3, enumErr.Page)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "page 3")
}

func TestPolicyErrorIncludesPolicyID(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("404 not found")
	err := NewPolicyError("8841", "ruleset does not exist", underlying)

	var policyErr *PolicyError
	require.ErrorAs(t, err, &policyErr)
	require.Equal(t, "8841", policyErr.PolicyID)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestApplyErrorCarriesAttemptedDiff(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("409 conflict")
	err := NewApplyError("8841", []string{"svc-a"}, []string{"svc-b", "svc-c"}, underlying)

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	require.Equal(t, []string{"svc-a"}, applyErr.Added)
	require.Len(t, applyErr.Removed, 2)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "+1/-2")
}
