package graph

import (
	"crypto/rand"
	"encoding/hex"
)

// Node is a text chunk carrying opaque metadata and a set of Links used
// both at authoring time and as graph edges once persisted.
type Node struct {
	// ID uniquely identifies the node. Left empty, the store assigns a
	// 16-hex-char id (GenerateID) when the node is written.
	ID string
	// Text is the node's content.
	Text string
	// Metadata is an opaque mapping from string key to arbitrary JSON
	// value. A "links" key, if present, is treated specially on
	// encode (see Serialize*): a set value under that key is coerced
	// to a list for JSON compatibility.
	Metadata map[string]any
	// Links is the set of typed directional edges authored on this
	// node. Represented as a slice with set semantics (Node.AddLink
	// de-duplicates); order is not significant.
	Links []Link
}

// New constructs a Node with the given text and no id, metadata, or
// links. Use AddLink or direct field assignment to populate the rest.
func New(text string) Node {
	return Node{Text: text, Metadata: map[string]any{}}
}

// AddLink appends a link to the node's link set, skipping it if an
// identical (kind, tag, direction) triple is already present.
func (n *Node) AddLink(l Link) {
	for _, existing := range n.Links {
		if existing == l {
			return
		}
	}
	n.Links = append(n.Links, l)
}

// GenerateID returns a fresh 16-hex-character identifier, the same
// shape autogenerated ids have always had in this store (8 random
// bytes, hex-encoded).
func GenerateID() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// LinksToTags projects a node's links onto the set of (kind, tag) pairs
// it emits as a source: every Link with direction out or bidir. This is
// the link_to_tags projection persisted alongside the passage row and
// checked for equality in invariant 2 of spec section 8.
func LinksToTags(links []Link) []Tag {
	seen := make(map[Tag]struct{}, len(links))
	var tags []Tag
	for _, l := range links {
		if !l.Direction.Valid() {
			continue
		}
		if l.Direction.HasOutgoing() {
			t := Tag{Kind: l.Kind, Value: l.Tag}
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// LinksFromTags projects a node's links onto the set of (kind, tag)
// pairs for which the node should be discoverable as a destination:
// every Link with direction in or bidir. Each entry here gets a target
// row written alongside the node's passage row.
func LinksFromTags(links []Link) []Tag {
	seen := make(map[Tag]struct{}, len(links))
	var tags []Tag
	for _, l := range links {
		if !l.Direction.Valid() {
			continue
		}
		if l.Direction.HasIncoming() {
			t := Tag{Kind: l.Kind, Value: l.Tag}
			if _, ok := seen[t]; !ok {
				seen[t] = struct{}{}
				tags = append(tags, t)
			}
		}
	}
	return tags
}
