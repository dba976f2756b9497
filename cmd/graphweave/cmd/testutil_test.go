package cmd

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdir switches the working directory to dir for the duration of a
// test, returning a function that restores the original directory.
func chdir(t *testing.T, dir string) func() {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	return func() { _ = os.Chdir(old) }
}
