// Package semantic maintains the global free-text memory pool with
// nearest-neighbor retrieval over embedding vectors.
package semantic

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder turns free text into a fixed-dimension vector. Implementations
// must be deterministic for identical input within a process lifetime.
type Embedder interface {
	Embed(text string) []float32
	Dim() int
}

// LocalEmbedder is a dependency-free feature-hashing embedder used when no
// external embedding service is wired in. Tokens are hashed into dim
// buckets with a signed contribution and the vector is L2-normalized, so
// texts sharing vocabulary land close under Euclidean distance.
type LocalEmbedder struct {
	dim int
}

const DefaultDim = 256

func NewLocalEmbedder(dim int) *LocalEmbedder {
	if dim <= 0 {
		dim = DefaultDim
	}
	return &LocalEmbedder{dim: dim}
}

func (e *LocalEmbedder) Dim() int { return e.dim }

func (e *LocalEmbedder) Embed(text string) []float32 {
	vec := make([]float32, e.dim)
	for _, token := range tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()
		bucket := int(sum % uint64(e.dim))
		sign := float32(1)
		if (sum>>63)&1 == 1 {
			sign = -1
		}
		vec[bucket] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
