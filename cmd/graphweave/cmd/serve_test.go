package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeCmd_AddedToRoot(t *testing.T) {
	rootCmd := NewRootCmd()

	serveCmd, _, err := rootCmd.Find([]string{"serve"})

	require.NoError(t, err)
	assert.Equal(t, "serve", serveCmd.Name())
}

func TestServeCmd_HasTransportFlag(t *testing.T) {
	cmd := newServeCmd()

	flag := cmd.Flags().Lookup("transport")

	require.NotNil(t, flag)
	assert.Equal(t, "", flag.DefValue)
}

func TestServeCmd_RejectsInvalidTransportOverride(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := tmpDir + "/graph.db"
	writeTestConfig(t, tmpDir, dbPath)

	oldWd := chdir(t, tmpDir)
	defer oldWd()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"serve", "--transport", "carrier-pigeon"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
