package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateID_Is16HexChars(t *testing.T) {
	id, err := GenerateID()
	require.NoError(t, err)
	assert.Len(t, id, 16)
	for _, r := range id {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "unexpected rune %q", r)
	}
}

func TestAddLink_Deduplicates(t *testing.T) {
	n := New("hello")
	l := NewLink("hyperlink", "T", DirectionOut)
	n.AddLink(l)
	n.AddLink(l)
	assert.Len(t, n.Links, 1)
}

func TestLinksToTags_OutAndBidirOnly(t *testing.T) {
	links := []Link{
		NewLink("k1", "a", DirectionOut),
		NewLink("k2", "b", DirectionIn),
		NewLink("k3", "c", DirectionBidir),
	}
	tags := LinksToTags(links)
	assert.ElementsMatch(t, []Tag{{Kind: "k1", Value: "a"}, {Kind: "k3", Value: "c"}}, tags)
}

func TestLinksFromTags_InAndBidirOnly(t *testing.T) {
	links := []Link{
		NewLink("k1", "a", DirectionOut),
		NewLink("k2", "b", DirectionIn),
		NewLink("k3", "c", DirectionBidir),
	}
	tags := LinksFromTags(links)
	assert.ElementsMatch(t, []Tag{{Kind: "k2", Value: "b"}, {Kind: "k3", Value: "c"}}, tags)
}

func TestLinksToTags_DropsUnknownDirection(t *testing.T) {
	links := []Link{{Kind: "k", Tag: "v", Direction: "sideways"}}
	assert.Empty(t, LinksToTags(links))
	assert.Empty(t, LinksFromTags(links))
}

func TestLinksToTags_DeduplicatesAcrossLinks(t *testing.T) {
	links := []Link{
		NewLink("k1", "a", DirectionOut),
		NewLink("k1", "a", DirectionBidir),
	}
	assert.Len(t, LinksToTags(links), 1)
}
