package hrsearch

import "context"

// Embedder converts text to vector embeddings. Without one, search
// degrades to the trigram fallback over titles.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// EmbeddingResult carries the embedding vector.
type EmbeddingResult struct {
	Embedding []float32
}
