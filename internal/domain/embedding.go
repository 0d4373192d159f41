package domain

import (
	"context"
	"fmt"
)

// Embedder is the shared text vectorization contract between layers.
// Same text always yields the same vector.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// BatchEmbedder vectorizes multiple texts in a single API call.
type BatchEmbedder interface {
	BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// EmbeddingResult carries a unit-normalized embedding vector.
type EmbeddingResult struct {
	Embedding []float32
}

// BatchEmbeddingResult carries multiple embedding vectors.
type BatchEmbeddingResult struct {
	Embeddings [][]float32
}

// BatchFallback calls Embed once per text. Safety net for providers without
// native batch support.
func BatchFallback(ctx context.Context, e Embedder, texts []string) (BatchEmbeddingResult, error) {
	embeddings := make([][]float32, len(texts))

	for i, text := range texts {
		res, err := e.Embed(ctx, text)
		if err != nil {
			return BatchEmbeddingResult{}, fmt.Errorf("fallback embed [%d]: %w", i, err)
		}
		embeddings[i] = res.Embedding
	}

	return BatchEmbeddingResult{Embeddings: embeddings}, nil
}

// EmbeddingKind identifies which text of a webinar a stored vector represents.
type EmbeddingKind string

const (
	// KindTitle is the title embedding, the only kind populated today.
	KindTitle EmbeddingKind = "title"
	// KindDescription is reserved for description embeddings.
	KindDescription EmbeddingKind = "description"
	// KindAudio is reserved for audio transcript embeddings.
	KindAudio EmbeddingKind = "audio"
)

// Valid reports whether k is a known embedding kind.
func (k EmbeddingKind) Valid() bool {
	switch k {
	case KindTitle, KindDescription, KindAudio:
		return true
	}
	return false
}
