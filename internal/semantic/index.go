package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/Joyboy-zoro07/Smart-Ai-Chatbot/internal/store"
)

// Index is the semantic memory engine: an in-memory flat index over
// embedding vectors, mirrored to an append-only persistent log in the KV
// backend. The in-memory side is a cache of the log; Load always replays
// the log and never trusts prior index state.
//
// The pool is global across sessions, matching the upstream design: any
// session's retained messages are retrievable from any other session.
type Index struct {
	kv  store.KV
	emb Embedder

	mu      sync.RWMutex
	texts   []string
	vectors [][]float32
}

func NewIndex(kv store.KV, emb Embedder) *Index {
	return &Index{kv: kv, emb: emb}
}

// Add stores text with its embedding unless the exact text is already
// present. The in-memory append and the three persistent writes happen
// under one critical section; a failure part-way through is surfaced and
// repaired by the next Load.
func (idx *Index) Add(ctx context.Context, text string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	known, err := idx.kv.SetHas(ctx, store.MemoryTextSetKey, text)
	if err != nil {
		return fmt.Errorf("memory dedup check: %w", err)
	}
	if known {
		return nil
	}

	vec := idx.emb.Embed(text)
	encoded, err := json.Marshal(vec)
	if err != nil {
		return fmt.Errorf("encode vector: %w", err)
	}

	if err := idx.kv.ListAppend(ctx, store.MemoryTextsKey, text); err != nil {
		return fmt.Errorf("persist memory text: %w", err)
	}
	if err := idx.kv.ListAppend(ctx, store.MemoryVectorsKey, string(encoded)); err != nil {
		return fmt.Errorf("persist memory vector: %w", err)
	}
	if err := idx.kv.SetAdd(ctx, store.MemoryTextSetKey, text); err != nil {
		return fmt.Errorf("persist memory membership: %w", err)
	}

	idx.texts = append(idx.texts, text)
	idx.vectors = append(idx.vectors, vec)
	return nil
}

// Retrieve returns up to topK stored texts nearest to query by Euclidean
// distance, closest first. An empty index yields an empty result.
func (idx *Index) Retrieve(query string, topK int) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if len(idx.texts) == 0 || topK <= 0 {
		return nil
	}

	q := idx.emb.Embed(query)
	type hit struct {
		dist float64
		pos  int
	}
	hits := make([]hit, 0, len(idx.vectors))
	for i, v := range idx.vectors {
		hits = append(hits, hit{dist: sqDistance(q, v), pos: i})
	}
	sort.Slice(hits, func(a, b int) bool {
		if hits[a].dist != hits[b].dist {
			return hits[a].dist < hits[b].dist
		}
		return hits[a].pos < hits[b].pos
	})

	if topK > len(hits) {
		topK = len(hits)
	}
	out := make([]string, 0, topK)
	for _, h := range hits[:topK] {
		if h.pos >= len(idx.texts) {
			// Stale position; drop rather than crash.
			continue
		}
		out = append(out, idx.texts[h.pos])
	}
	return out
}

// Count reports the number of stored memory items.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.texts)
}

// Load rebuilds the in-memory index from the persistent log. A text/vector
// length mismatch or an unreadable vector means the log can no longer be
// trusted, so all three memory keys are cleared and the index starts empty
// instead of guessing which entries are valid.
func (idx *Index) Load(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	texts, err := idx.kv.ListRange(ctx, store.MemoryTextsKey)
	if err != nil {
		return fmt.Errorf("load memory texts: %w", err)
	}
	encoded, err := idx.kv.ListRange(ctx, store.MemoryVectorsKey)
	if err != nil {
		return fmt.Errorf("load memory vectors: %w", err)
	}

	if len(texts) != len(encoded) {
		log.Printf("memory store inconsistent (%d texts, %d vectors), clearing", len(texts), len(encoded))
		return idx.resetLocked(ctx)
	}

	vectors := make([][]float32, 0, len(encoded))
	for i, raw := range encoded {
		var vec []float32
		if err := json.Unmarshal([]byte(raw), &vec); err != nil || len(vec) != idx.emb.Dim() {
			log.Printf("memory vector %d unreadable, clearing store", i)
			return idx.resetLocked(ctx)
		}
		vectors = append(vectors, vec)
	}

	idx.texts = texts
	idx.vectors = vectors
	if len(texts) > 0 {
		log.Printf("loaded %d memory items", len(texts))
	}
	return nil
}

func (idx *Index) resetLocked(ctx context.Context) error {
	idx.texts = nil
	idx.vectors = nil
	if err := idx.kv.Delete(ctx, store.MemoryTextsKey, store.MemoryVectorsKey, store.MemoryTextSetKey); err != nil {
		return fmt.Errorf("clear memory store: %w", err)
	}
	return nil
}

func sqDistance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
