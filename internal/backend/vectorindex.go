package backend

import (
	"fmt"
	"sync"

	"github.com/coder/hnsw"
)

// annIndex is a single ANN index mapping string IDs to vectors, built
// on coder/hnsw. It stands in for a wide-column store's storage-
// attached index on a VECTOR column: callers insert by string ID and
// search by query vector, getting back IDs ordered nearest-first.
type annIndex struct {
	mu      sync.RWMutex
	graph   *hnsw.Graph[uint64]
	idMap   map[string]uint64
	keyMap  map[uint64]string
	nextKey uint64
}

func newANNIndex() *annIndex {
	graph := hnsw.NewGraph[uint64]()
	graph.Distance = hnsw.CosineDistance
	graph.M = 16
	graph.EfSearch = 20
	graph.Ml = 0.25
	return &annIndex{
		graph:  graph,
		idMap:  make(map[string]uint64),
		keyMap: make(map[uint64]string),
	}
}

// Upsert inserts or replaces the vector for id. Replacement uses lazy
// deletion (orphaning the old graph node) rather than removing it
// from the graph outright, mirroring coder/hnsw's documented
// limitation around deleting the last node in a graph.
func (idx *annIndex) Upsert(id string, vector []float64) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if existing, ok := idx.idMap[id]; ok {
		delete(idx.keyMap, existing)
		delete(idx.idMap, id)
	}

	key := idx.nextKey
	idx.nextKey++

	vec32 := make([]float32, len(vector))
	for i, v := range vector {
		vec32[i] = float32(v)
	}

	idx.graph.Add(hnsw.MakeNode(key, vec32))
	idx.idMap[id] = key
	idx.keyMap[key] = id
}

// Search returns up to k IDs ordered nearest-first to query.
func (idx *annIndex) Search(query []float64, k int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.graph.Len() == 0 || k <= 0 {
		return nil
	}

	vec32 := make([]float32, len(query))
	for i, v := range query {
		vec32[i] = float32(v)
	}

	nodes := idx.graph.Search(vec32, k)
	out := make([]string, 0, len(nodes))
	for _, node := range nodes {
		if id, ok := idx.keyMap[node.Key]; ok {
			out = append(out, id)
		}
	}
	return out
}

// partitionKey joins a (kind, tag) pair into a single map key. NUL is
// used as the separator since neither kind nor tag values are
// expected to contain it, and it sorts below every printable rune.
func partitionKey(kind, tag string) string {
	return fmt.Sprintf("%s\x00%s", kind, tag)
}

// partitionedIndex is a collection of annIndex instances keyed by
// (kind, tag), mirroring the targets table's Cassandra partition key
// `((kind, tag), target_content_id)` — each partition gets its own
// ANN ordering, just as each Cassandra partition's storage-attached
// index would.
type partitionedIndex struct {
	mu         sync.Mutex
	partitions map[string]*annIndex
}

func newPartitionedIndex() *partitionedIndex {
	return &partitionedIndex{partitions: make(map[string]*annIndex)}
}

func (p *partitionedIndex) get(kind, tag string) *annIndex {
	key := partitionKey(kind, tag)

	p.mu.Lock()
	idx, ok := p.partitions[key]
	if !ok {
		idx = newANNIndex()
		p.partitions[key] = idx
	}
	p.mu.Unlock()

	return idx
}

func (p *partitionedIndex) Upsert(kind, tag, id string, vector []float64) {
	p.get(kind, tag).Upsert(id, vector)
}

func (p *partitionedIndex) Search(kind, tag string, query []float64, k int) []string {
	return p.get(kind, tag).Search(query, k)
}
