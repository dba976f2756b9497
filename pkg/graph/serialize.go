package graph

import (
	"encoding/json"
	"fmt"
)

// linkWire is the {kind, direction, tag} JSON shape links_blob uses on
// the wire, matching spec section 6.
type linkWire struct {
	Kind      string `json:"kind"`
	Direction string `json:"direction"`
	Tag       string `json:"tag"`
}

// SerializeMetadata encodes a node's metadata map to its JSON blob
// form. If metadata contains a "links" key whose value is a Go set
// (a map[string]struct{}), it is coerced to a plain list before
// encoding; a slice value is already a list and is encoded as is — a legacy quirk preserved for wire compatibility
// (spec section 6).
func SerializeMetadata(md map[string]any) (string, error) {
	if md == nil {
		md = map[string]any{}
	}
	out := md
	if raw, ok := md["links"]; ok {
		if coerced, changed := coerceSetToList(raw); changed {
			out = make(map[string]any, len(md))
			for k, v := range md {
				out[k] = v
			}
			out["links"] = coerced
		}
	}
	blob, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("serialize metadata: %w", err)
	}
	return string(blob), nil
}

// coerceSetToList turns a map[string]struct{} set into a plain
// []string suitable for JSON encoding. Any other value, including a
// slice (already a list), passes through unchanged.
func coerceSetToList(v any) (any, bool) {
	switch set := v.(type) {
	case map[string]struct{}:
		list := make([]string, 0, len(set))
		for k := range set {
			list = append(list, k)
		}
		return list, true
	default:
		return v, false
	}
}

// DeserializeMetadata decodes a metadata_blob JSON object back into a
// map. An empty blob decodes to an empty map rather than an error.
func DeserializeMetadata(blob string) (map[string]any, error) {
	if blob == "" {
		return map[string]any{}, nil
	}
	var md map[string]any
	if err := json.Unmarshal([]byte(blob), &md); err != nil {
		return nil, fmt.Errorf("deserialize metadata: %w", err)
	}
	return md, nil
}

// SerializeLinks encodes a link set to its links_blob JSON array form:
// a list of {kind, direction, tag} objects (spec section 6). Only
// links with a recognized direction are encoded; unrecognized
// directions are silently dropped per spec section 7 ("Input error").
func SerializeLinks(links []Link) (string, error) {
	wire := make([]linkWire, 0, len(links))
	for _, l := range links {
		if !l.Direction.Valid() {
			continue
		}
		wire = append(wire, linkWire{Kind: l.Kind, Direction: string(l.Direction), Tag: l.Tag})
	}
	blob, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("serialize links: %w", err)
	}
	return string(blob), nil
}

// DeserializeLinks decodes a links_blob JSON array back into a link
// set. An unrecognized direction value is a decode error, not a
// silent drop — spec section 9 ("Unknown values on read should raise a
// decode error").
func DeserializeLinks(blob string) ([]Link, error) {
	if blob == "" {
		return nil, nil
	}
	var wire []linkWire
	if err := json.Unmarshal([]byte(blob), &wire); err != nil {
		return nil, fmt.Errorf("deserialize links: %w", err)
	}
	links := make([]Link, 0, len(wire))
	for _, w := range wire {
		d := Direction(w.Direction)
		if !d.Valid() {
			return nil, fmt.Errorf("deserialize links: unknown direction %q", w.Direction)
		}
		links = append(links, Link{Kind: w.Kind, Tag: w.Tag, Direction: d})
	}
	return links, nil
}
