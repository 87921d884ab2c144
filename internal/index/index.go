// internal/index/index.go
package index

import (
	"sort"
	"sync"
)

// Item is one indexed document: the assessment ID and its embedding.
type Item struct {
	ID     int
	Vector []float32
}

// Hit is a search result with its cosine similarity to the query.
type Hit struct {
	ID    int
	Score float64
}

// VectorIndex answers nearest-neighbor queries over assessment embeddings.
type VectorIndex interface {
	Replace(items []Item)
	Search(query []float32, topK int) []Hit
	Size() int
}

// InMemoryIndex is a brute-force cosine index. The catalog is a few hundred
// assessments, so a linear scan beats any ANN structure here.
type InMemoryIndex struct {
	mu    sync.RWMutex
	items []Item
}

func NewInMemoryIndex() *InMemoryIndex {
	return &InMemoryIndex{}
}

// Replace swaps the full item set atomically.
func (ix *InMemoryIndex) Replace(items []Item) {
	copied := make([]Item, len(items))
	copy(copied, items)

	ix.mu.Lock()
	ix.items = copied
	ix.mu.Unlock()
}

func (ix *InMemoryIndex) Size() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.items)
}

// Search returns the topK items by cosine similarity, highest first. When
// topK <= 0 every item is returned ranked.
func (ix *InMemoryIndex) Search(query []float32, topK int) []Hit {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	hits := make([]Hit, 0, len(ix.items))
	for _, it := range ix.items {
		hits = append(hits, Hit{ID: it.ID, Score: cosine(query, it.Vector)})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK > 0 && topK < len(hits) {
		hits = hits[:topK]
	}
	return hits
}

// cosine assumes vectors are L2-normalized upstream, so the dot product is
// the similarity. Mismatched lengths score zero.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}
