package graphstore

import (
	"context"

	"github.com/amancerp/graphweave/internal/apperr"
	"github.com/amancerp/graphweave/internal/concurrency"
	"github.com/amancerp/graphweave/internal/embedding"
	"github.com/amancerp/graphweave/pkg/graph"
)

// AddNodes embeds and stores each node, wiring its links into the tag
// graph: a link with direction out/bidir makes the node traversable
// *to* that (kind, tag), and is recorded directly on the node row; a
// link with direction in/bidir makes the node reachable *from* that
// (kind, tag), and is recorded as a target row in that tag's
// partition. It returns the (possibly generated) IDs in input order.
func (s *GraphStore) AddNodes(ctx context.Context, nodes []graph.Node) ([]string, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	ids := make([]string, len(nodes))
	texts := make([]string, len(nodes))
	for i, n := range nodes {
		id := n.ID
		if id == "" {
			generated, err := graph.GenerateID()
			if err != nil {
				return nil, apperr.Wrap(apperr.Input, "generate node id", err)
			}
			id = generated
		}
		ids[i] = id
		texts[i] = n.Text
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "embed node texts", err)
	}
	if len(embeddings) != len(nodes) {
		return nil, apperr.New(apperr.Shape, "embedder returned a different number of vectors than texts", nil)
	}

	err = s.runScope(ctx, func(scope *concurrency.Scope) error {
		for i, n := range nodes {
			id := ids[i]
			text := texts[i]
			vec := embedding.Normalize(embeddings[i])

			linkToTags := toTagPairs(graph.LinksToTags(n.Links))
			linkFromTags := toTagPairs(graph.LinksFromTags(n.Links))

			metadataBlob, err := graph.SerializeMetadata(n.Metadata)
			if err != nil {
				return apperr.Wrap(apperr.Shape, "serialize node metadata", err)
			}
			linksBlob, err := graph.SerializeLinks(n.Links)
			if err != nil {
				return apperr.Wrap(apperr.Shape, "serialize node links", err)
			}

			scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
				err := s.session.InsertNode(ctx, id, text, vec, linkToTags, metadataBlob, linksBlob)
				return nil, err
			}, nil)

			for _, pair := range linkFromTags {
				kind, tag := pair[0], pair[1]
				scope.Execute(func(ctx context.Context) (concurrency.Rows, error) {
					err := s.session.InsertTarget(ctx, id, kind, tag, vec)
					return nil, err
				}, nil)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.Backend, "add nodes", err)
	}

	return ids, nil
}

func toTagPairs(tags []graph.Tag) [][2]string {
	if len(tags) == 0 {
		return nil
	}
	out := make([][2]string, len(tags))
	for i, t := range tags {
		out[i] = [2]string{t.Kind, t.Value}
	}
	return out
}
