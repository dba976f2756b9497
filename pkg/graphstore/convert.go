package graphstore

import (
	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/backend"
	"github.com/amancerp/graphweave/pkg/graph"
)

// rowToNode decodes a stored row's metadata and links blobs into a
// Node. A Shape error is returned if either blob fails to decode.
func rowToNode(row backend.NodeRow) (graph.Node, error) {
	metadata, err := graph.DeserializeMetadata(row.MetadataBlob)
	if err != nil {
		return graph.Node{}, apperr.Wrap(apperr.Shape, "decode stored metadata", err)
	}
	links, err := graph.DeserializeLinks(row.LinksBlob)
	if err != nil {
		return graph.Node{}, apperr.Wrap(apperr.Shape, "decode stored links", err)
	}
	return graph.Node{
		ID:       row.ContentID,
		Text:     row.TextContent,
		Metadata: metadata,
		Links:    links,
	}, nil
}
