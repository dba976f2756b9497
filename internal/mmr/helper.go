// Package mmr implements incremental Maximal Marginal Relevance
// selection over a stream of candidate embeddings (spec section 4.2).
package mmr

import "sort"

// candidate tracks one unselected item's similarity to the query and
// its redundancy against whatever has been selected so far.
type candidate struct {
	id         string
	embedding  []float64
	similarity float64 // cosine similarity to the query embedding
	redundancy float64 // max cosine similarity to any already-selected item
}

// score returns the candidate's current MMR score:
// lambda*similarity - (1-lambda)*redundancy.
func (c candidate) score(lambda float64) float64 {
	return lambda*c.similarity - (1-lambda)*c.redundancy
}

// Helper incrementally selects up to K items maximizing MMR score. It
// is not internally synchronized: callers must serialize
// AddCandidates/PopBest against themselves (spec section 5), which the
// graph store does by running the helper from a single reducer
// goroutine per query.
type Helper struct {
	query          []float64
	lambdaMult     float64
	k              int
	scoreThreshold float64

	candidates  map[string]*candidate
	selected    []string
	selectedEmb [][]float64 // embeddings of selected ids, parallel to selected

	best      string
	bestValid bool
}

// Config bundles Helper's construction parameters.
type Config struct {
	QueryEmbedding []float64
	LambdaMult     float64 // used as given; New applies no default
	K              int
	ScoreThreshold float64 // used as given; pass math.Inf(-1) for no threshold
}

// New constructs an MMR helper for one query. QueryEmbedding must
// already be unit-normalized (spec section 4.2).
func New(cfg Config) *Helper {
	return &Helper{
		query:          cfg.QueryEmbedding,
		lambdaMult:     cfg.LambdaMult,
		k:              cfg.K,
		scoreThreshold: cfg.ScoreThreshold,
		candidates:     make(map[string]*candidate),
	}
}

// dot computes the dot product of two equal-length vectors, which is
// cosine similarity when both are unit-normalized.
func dot(a, b []float64) float64 {
	var sum float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}

// AddCandidates inserts new candidates keyed by id, computing each
// one's similarity to the query and its redundancy against the
// current selection. Ids already selected or already tracked are
// ignored (first write wins, matching the original's insertion-order
// "don't refetch" semantics upstream).
func (h *Helper) AddCandidates(embeddings map[string][]float64) {
	for id, emb := range embeddings {
		if _, already := h.candidates[id]; already {
			continue
		}
		if h.isSelected(id) {
			continue
		}
		c := &candidate{
			id:         id,
			embedding:  emb,
			similarity: dot(h.query, emb),
		}
		for _, selEmb := range h.selectedEmb {
			if sim := dot(emb, selEmb); sim > c.redundancy {
				c.redundancy = sim
			}
		}
		h.candidates[id] = c
	}
	h.recomputeBest()
}

func (h *Helper) isSelected(id string) bool {
	for _, s := range h.selected {
		if s == id {
			return true
		}
	}
	return false
}

// recomputeBest scans all unselected candidates and caches the id with
// the highest MMR score, breaking ties by higher similarity then
// lexicographically smaller id (spec section 4.2).
func (h *Helper) recomputeBest() {
	ids := make([]string, 0, len(h.candidates))
	for id := range h.candidates {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic scan order, used only for tie-break stability

	h.bestValid = false
	var bestScore, bestSim float64
	for _, id := range ids {
		c := h.candidates[id]
		s := c.score(h.lambdaMult)
		if !h.bestValid ||
			s > bestScore ||
			(s == bestScore && c.similarity > bestSim) {
			h.best = id
			bestScore = s
			bestSim = c.similarity
			h.bestValid = true
		}
	}
}

// PopBest removes and returns the id of the highest-scoring candidate,
// appends it to the selection, and updates every remaining candidate's
// redundancy against the newly selected embedding. Returns "", false
// if no candidate's score meets the threshold.
func (h *Helper) PopBest() (string, bool) {
	h.recomputeBest()
	if !h.bestValid {
		return "", false
	}
	best := h.candidates[h.best]
	if best.score(h.lambdaMult) < h.scoreThreshold {
		return "", false
	}

	selectedID := best.id
	selectedEmbedding := best.embedding
	delete(h.candidates, selectedID)
	h.selected = append(h.selected, selectedID)
	h.selectedEmb = append(h.selectedEmb, selectedEmbedding)

	for _, c := range h.candidates {
		sim := dot(c.embedding, selectedEmbedding)
		if sim > c.redundancy {
			c.redundancy = sim
		}
	}
	h.recomputeBest()

	return selectedID, true
}

// CandidateIDs returns a snapshot of the unselected candidate ids.
func (h *Helper) CandidateIDs() []string {
	ids := make([]string, 0, len(h.candidates))
	for id := range h.candidates {
		ids = append(ids, id)
	}
	return ids
}

// SelectedIDs returns the ids chosen so far, in selection order.
func (h *Helper) SelectedIDs() []string {
	out := make([]string, len(h.selected))
	copy(out, h.selected)
	return out
}

// K returns the configured selection limit.
func (h *Helper) K() int { return h.k }
