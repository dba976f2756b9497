// Package backend provides the storage collaborator the graph store
// runs its queries against (spec section 6, "Backend database"): node
// and target rows persisted durably, with approximate-nearest-neighbor
// ordering available on the embedding columns the way a wide-column
// store's storage-attached index would provide it.
//
// No Cassandra driver is available in this stack, so Session is
// implemented on modernc.org/sqlite (pure Go, no CGO) for row storage
// and github.com/coder/hnsw for the ANN ordering a `ORDER BY ... ANN
// OF ...` clause would otherwise supply.
package backend

import "context"

// NodeRow is a node_table row as read back from storage.
type NodeRow struct {
	ContentID    string
	TextContent  string
	MetadataBlob string
	LinksBlob    string
}

// IDLinkToTagsRow pairs a node ID with the (kind, tag) pairs it links
// out to — the projection traversal_search walks breadth-first.
type IDLinkToTagsRow struct {
	ContentID  string
	LinkToTags [][2]string
}

// IDEmbeddingRow pairs a node ID with its raw embedding, as returned
// by an ANN-ordered query (used by MMR traversal, which needs the
// vector itself, not just the row).
type IDEmbeddingRow struct {
	ContentID string
	Embedding []float64
}

// TargetRow is a targets_table row identifying a node reachable via a
// given (kind, tag) edge, without its embedding.
type TargetRow struct {
	TargetContentID string
	Kind            string
	Tag             string
}

// TargetEmbeddingRow is a targets_table row including the target
// node's embedding, ANN-ordered against a query vector.
type TargetEmbeddingRow struct {
	TargetContentID string
	Embedding       []float64
	Tag             string
}

// Session is the backend database collaborator. Every method that can
// block on I/O takes a context; every query-shaped method returns its
// full result set rather than a cursor, since result sets here are
// bounded by a LIMIT supplied by the caller.
type Session interface {
	// ApplySchema creates the node and target tables if they do not
	// already exist and records the embedding dimension, rejecting a
	// dimension that differs from the one already recorded. The ANN
	// indexes are in-memory and are not created here.
	ApplySchema(ctx context.Context, dimensions int) error

	// InsertNode upserts a node row and indexes its embedding.
	InsertNode(ctx context.Context, id, text string, embedding []float64, linkToTags [][2]string, metadataBlob, linksBlob string) error

	// InsertTarget upserts a target row (a node reachable via an
	// incoming tag edge) and indexes its embedding within the
	// (kind, tag) partition.
	InsertTarget(ctx context.Context, targetID, kind, tag string, embedding []float64) error

	// NodeByID fetches a single node row by primary key.
	NodeByID(ctx context.Context, id string) (NodeRow, bool, error)

	// NodesByEmbedding returns up to k node rows, ANN-ordered by
	// similarity to embedding.
	NodesByEmbedding(ctx context.Context, embedding []float64, k int) ([]NodeRow, error)

	// IDsAndLinkToTagsByEmbedding returns up to k (id, link_to_tags)
	// pairs, ANN-ordered by similarity to embedding.
	IDsAndLinkToTagsByEmbedding(ctx context.Context, embedding []float64, k int) ([]IDLinkToTagsRow, error)

	// IDsAndLinkToTagsByID returns the (id, link_to_tags) row for a
	// single node ID, as a zero-or-one-element slice.
	IDsAndLinkToTagsByID(ctx context.Context, id string) ([]IDLinkToTagsRow, error)

	// IDsAndEmbeddingByEmbedding returns up to k (id, embedding) pairs,
	// ANN-ordered by similarity to embedding.
	IDsAndEmbeddingByEmbedding(ctx context.Context, embedding []float64, k int) ([]IDEmbeddingRow, error)

	// SourceTagsByID returns the (kind, tag) pairs a node links out to.
	SourceTagsByID(ctx context.Context, id string) ([][2]string, error)

	// TargetsEmbeddingsByKindTagEmbedding returns up to k target rows
	// within the (kind, tag) partition, ANN-ordered by similarity to
	// embedding.
	TargetsEmbeddingsByKindTagEmbedding(ctx context.Context, kind, tag string, embedding []float64, k int) ([]TargetEmbeddingRow, error)

	// TargetsByKindAndValue returns every target row in the (kind, tag)
	// partition, unordered.
	TargetsByKindAndValue(ctx context.Context, kind, tag string) ([]TargetRow, error)

	// Close releases the underlying database handle.
	Close() error
}
