package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/internal/embedding"
	"github.com/amancerp/graphweave/pkg/graph"
	"github.com/amancerp/graphweave/pkg/graphstore"
)

func writeTestConfig(t *testing.T, dir, dbPath string) {
	t.Helper()
	content := []byte(sprintfConfig(dbPath))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".graphweave.yaml"), content, 0o644))
}

func sprintfConfig(dbPath string) string {
	return "version: 1\nbackend:\n  path: " + dbPath + "\n  setup_mode: sync\nembeddings:\n  provider: static\n"
}

func seedStore(t *testing.T, dbPath string, nodes []graph.Node) {
	t.Helper()
	ctx := context.Background()

	embedder := embedding.NewStaticEmbedder()
	session, err := backend.Open(ctx, dbPath, embedder.Dimensions(), backend.SetupSync)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	store, err := graphstore.New(embedder, session, graphstore.Options{})
	require.NoError(t, err)

	_, err = store.AddNodes(ctx, nodes)
	require.NoError(t, err)
}

func TestSearchCmd_RequiresQuery(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs([]string{"search"})

	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	err := rootCmd.Execute()

	require.Error(t, err)
}

func TestSearchCmd_UnknownModeReturnsError(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "graph.db")
	writeTestConfig(t, tmpDir, dbPath)

	oldDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldDir) }()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"search", "--mode", "bogus", "hello"})

	err := cmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown search mode")
}

func TestSearchCmd_SimilarityMode_FindsSeededNode(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "graph.db")
	writeTestConfig(t, tmpDir, dbPath)
	seedStore(t, dbPath, []graph.Node{{ID: "n1", Text: "rate limiting strategies for APIs"}})

	oldDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldDir) }()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"search", "rate limiting"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "n1")
}

func TestSearchCmd_JSONFormat_EmitsStructuredNodes(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "graph.db")
	writeTestConfig(t, tmpDir, dbPath)
	seedStore(t, dbPath, []graph.Node{{ID: "n1", Text: "rate limiting strategies for APIs"}})

	oldDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer func() { _ = os.Chdir(oldDir) }()

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"search", "rate limiting", "--format", "json"})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"id": "n1"`)
}
