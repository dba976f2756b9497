package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnIndex_SearchReturnsNearestFirst(t *testing.T) {
	idx := newANNIndex()
	idx.Upsert("a", []float64{1, 0, 0})
	idx.Upsert("b", []float64{0.8, 0.2, 0})
	idx.Upsert("c", []float64{0, 1, 0})

	ids := idx.Search([]float64{1, 0, 0}, 2)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestAnnIndex_UpsertReplacesVectorForExistingID(t *testing.T) {
	idx := newANNIndex()
	idx.Upsert("a", []float64{1, 0, 0})
	idx.Upsert("a", []float64{0, 1, 0})

	ids := idx.Search([]float64{0, 1, 0}, 1)
	assert.Equal(t, []string{"a"}, ids)
}

func TestAnnIndex_SearchOnEmptyIndexReturnsNil(t *testing.T) {
	idx := newANNIndex()
	assert.Nil(t, idx.Search([]float64{1, 0, 0}, 5))
}

func TestPartitionedIndex_PartitionsAreIsolated(t *testing.T) {
	p := newPartitionedIndex()
	p.Upsert("topic", "go", "t1", []float64{1, 0})
	p.Upsert("topic", "rust", "t2", []float64{1, 0})

	goResults := p.Search("topic", "go", []float64{1, 0}, 10)
	assert.Equal(t, []string{"t1"}, goResults)

	rustResults := p.Search("topic", "rust", []float64{1, 0}, 10)
	assert.Equal(t, []string{"t2"}, rustResults)
}
