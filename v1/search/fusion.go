package search

import (
	"sort"

	"github.com/samas-io/smartsearch/v1/provider"
)

// rrfK is the rank constant for reciprocal rank fusion. 60 is the value
// recommended by Cormack et al. and works well without tuning.
const rrfK = 60

// fuseRRF merges ranked result lists from multiple providers using
// reciprocal rank fusion: each hit contributes 1/(k+rank+1) per list it
// appears in, and documents found by several providers rank above documents
// found by one. Raw provider scores are not comparable across backends
// (ts_rank vs cosine similarity), which is why fusion works on ranks.
//
// The first list to mention a document wins on metadata; later duplicates
// only add to its fused score. The fused list is sorted by score descending
// and truncated to topK.
func fuseRRF(lists [][]provider.SearchResult, topK int) []provider.SearchResult {
	type fused struct {
		result provider.SearchResult
		score  float64
	}

	byID := make(map[string]*fused)
	order := make([]string, 0)

	for _, list := range lists {
		for rank, r := range list {
			contribution := 1.0 / float64(rrfK+rank+1)
			f, ok := byID[r.Document.ID]
			if !ok {
				f = &fused{result: r}
				byID[r.Document.ID] = f
				order = append(order, r.Document.ID)
			}
			f.score += contribution
		}
	}

	out := make([]provider.SearchResult, 0, len(order))
	for _, id := range order {
		f := byID[id]
		f.result.Score = f.score
		out = append(out, f.result)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if topK > 0 && len(out) > topK {
		out = out[:topK]
	}
	return out
}
