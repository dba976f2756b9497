package graphstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amancerp/graphweave/pkg/graph"
)

func TestAddNodes_GeneratesIDWhenMissing(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	ids, err := store.AddNodes(context.Background(), []graph.Node{graph.New("hello")})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Len(t, ids[0], 16)
}

func TestAddNodes_PreservesCallerSuppliedID(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	node := graph.New("hello")
	node.ID = "fixed-id"

	ids, err := store.AddNodes(context.Background(), []graph.Node{node})
	require.NoError(t, err)
	assert.Equal(t, []string{"fixed-id"}, ids)
}

func TestAddNodes_DropsLinksWithUnrecognizedDirection(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	node := graph.New("hello")
	node.ID = "n1"
	node.Links = []graph.Link{{Kind: "k", Tag: "t", Direction: "sideways"}}

	_, err := store.AddNodes(context.Background(), []graph.Node{node})
	require.NoError(t, err)

	got, err := store.nodesWithIDs(context.Background(), []string{"n1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].Links)
}

func TestAddNodes_SameIDTwice_UpsertsLatestWrite(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	node := graph.New("version one")
	node.ID = "n1"

	ctx := context.Background()
	_, err := store.AddNodes(ctx, []graph.Node{node})
	require.NoError(t, err)

	node.Text = "version two"
	_, err = store.AddNodes(ctx, []graph.Node{node})
	require.NoError(t, err)

	got, err := store.nodesWithIDs(ctx, []string{"n1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "version two", got[0].Text)
}

func TestAddNodes_OutgoingLinkCreatesNoTargetRow(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	ctx := context.Background()

	nodeA := graph.New("a")
	nodeA.ID = "a"
	nodeA.Links = []graph.Link{{Kind: "hyperlink", Tag: "T", Direction: graph.DirectionOut}}

	_, err := store.AddNodes(ctx, []graph.Node{nodeA})
	require.NoError(t, err)

	rows, err := store.session.TargetsByKindAndValue(ctx, "hyperlink", "T")
	require.NoError(t, err)
	assert.Empty(t, rows, "an out-only link makes the node a source, not a target")
}

func TestAddNodes_IncomingLinkCreatesTargetRow(t *testing.T) {
	store := newTestStore(t, newAxisEmbedder(3))
	ctx := context.Background()

	nodeB := graph.New("b")
	nodeB.ID = "b"
	nodeB.Links = []graph.Link{{Kind: "hyperlink", Tag: "T", Direction: graph.DirectionIn}}

	_, err := store.AddNodes(ctx, []graph.Node{nodeB})
	require.NoError(t, err)

	rows, err := store.session.TargetsByKindAndValue(ctx, "hyperlink", "T")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b", rows[0].TargetContentID)
}
