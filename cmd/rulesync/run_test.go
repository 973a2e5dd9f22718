package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunCommandParsesFlags(t *testing.T) {
	var captured runOptions
	original := runCmdRunner
	t.Cleanup(func() { runCmdRunner = original })
	runCmdRunner = func(opts runOptions) error {
		captured = opts
		return nil
	}

	root := newRootCmd()
	root.SetArgs([]string{"run", "--config", "rulesync.yaml", "--org", "other-org", "--dry-run", "--verbose"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.NoError(t, root.Execute())
	require.Equal(t, "rulesync.yaml", captured.ConfigPath)
	require.Equal(t, "other-org", captured.Org)
	require.True(t, captured.DryRun)
	require.True(t, captured.Verbose)
}

func TestRunCommandRequiresConfig(t *testing.T) {
	original := runCmdRunner
	t.Cleanup(func() { runCmdRunner = original })
	runCmdRunner = func(runOptions) error { return nil }

	root := newRootCmd()
	root.SetArgs([]string{"run"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	require.Error(t, root.Execute())
}

func TestRunReconciliationRejectsMissingConfigFile(t *testing.T) {
	err := runReconciliation(runOptions{ConfigPath: "/path/does/not/exist.yaml"})
	require.Error(t, err)
}
