package assistant

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

// Dimensions matches the place_embeddings vector column.
const Dimensions = 1536

// HashEmbedder derives a normalised bag-of-words vector locally. It lets
// semantic place lookup work without a hosted embedding model; texts that
// share words land close together.
type HashEmbedder struct{}

func (HashEmbedder) Embed(_ context.Context, text string) (pgvector.Vector, error) {
	return pgvector.NewVector(TextToVector(text)), nil
}

func TextToVector(text string) []float32 {
	vector := make([]float32, Dimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if word == "" {
			continue
		}
		h := hashWord(word)
		for i := 0; i < Dimensions; i++ {
			vector[i] += float32(math.Sin(float64(h+uint32(i))) * 0.1)
		}
	}

	var magnitude float64
	for _, v := range vector {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)
	if magnitude > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / magnitude)
		}
	}
	return vector
}

func hashWord(word string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(word))
	return h.Sum32()
}
