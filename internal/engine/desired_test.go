package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/skyeshanohan/rulesync/internal/model"
)

func TestDesiredSetFiltersToGoverned(t *testing.T) {
	t.Parallel()

	results := []model.ClassificationResult{
		{ResourceID: "svc-b", State: model.StateGoverned},
		{ResourceID: "svc-a", State: model.StateGoverned},
		{ResourceID: "svc-staging", State: model.StateNotGoverned},
		{ResourceID: "svc-archived", State: model.StateSkippedArchived},
		{ResourceID: "svc-broken", State: model.StateError},
		{ResourceID: "svc-nodoc", State: model.StateNoDocument},
	}

	require.Equal(t, []string{"svc-a", "svc-b"}, DesiredSet(results))
}

func TestDesiredSetDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	results := []model.ClassificationResult{
		{ResourceID: "svc-z", State: model.StateGoverned},
		{ResourceID: "svc-a", State: model.StateGoverned},
		{ResourceID: "svc-z", State: model.StateGoverned},
	}

	require.Equal(t, []string{"svc-a", "svc-z"}, DesiredSet(results))
}

func TestDesiredSetIsOrderIndependent(t *testing.T) {
	t.Parallel()

	forward := []model.ClassificationResult{
		{ResourceID: "svc-a", State: model.StateGoverned},
		{ResourceID: "svc-b", State: model.StateNotGoverned},
		{ResourceID: "svc-c", State: model.StateGoverned},
	}
	reversed := []model.ClassificationResult{forward[2], forward[1], forward[0]}

	require.Equal(t, DesiredSet(forward), DesiredSet(reversed))
}

func TestDesiredSetEmptyInput(t *testing.T) {
	t.Parallel()

	require.Empty(t, DesiredSet(nil))
}

func TestCountStatesHistogram(t *testing.T) {
	t.Parallel()

	results := []model.ClassificationResult{
		{ResourceID: "a", State: model.StateGoverned},
		{ResourceID: "b", State: model.StateGoverned},
		{ResourceID: "c", State: model.StateNotGoverned},
		{ResourceID: "d", State: model.StateSkippedArchived},
		{ResourceID: "e", State: model.StateNoDocument},
		{ResourceID: "f", State: model.StateInvalidDocument},
		{ResourceID: "g", State: model.StateUnsupportedSchema},
		{ResourceID: "h", State: model.StateMissingLifecycle},
		{ResourceID: "i", State: model.StateError},
	}

	counts := CountStates(results)
	require.Equal(t, 2, counts.Governed)
	require.Equal(t, 1, counts.NotGoverned)
	require.Equal(t, 1, counts.SkippedArchived)
	require.Equal(t, 1, counts.NoDocument)
	require.Equal(t, 1, counts.InvalidDocument)
	require.Equal(t, 1, counts.UnsupportedSchema)
	require.Equal(t, 1, counts.MissingLifecycle)
	require.Equal(t, 1, counts.Error)
	require.Equal(t, 9, counts.Total())
}
