package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCommand_ErrorsNotPrintedByCobra leaves error reporting to Execute's single log entry.
func TestRootCommand_ErrorsNotPrintedByCobra(t *testing.T) {
	var stderr bytes.Buffer

	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{"config", "--log-level", "verbose"})

	t.Cleanup(func() {
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		logLevel = "info"
	})

	err := rootCmd.Execute()
	require.ErrorContains(t, err, `unknown log level "verbose"`)
	require.True(t, rootCmd.SilenceErrors)
	require.Empty(t, stderr.String())
}
