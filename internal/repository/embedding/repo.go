// Package embedding stores webinar embedding vectors as hashes under the
// emb: prefix and serves KNN retrieval over the HNSW index built on them.
package embedding

import (
	"context"
	"fmt"

	"github.com/kadra-cloud/hrsearch/internal/db"
	"github.com/kadra-cloud/hrsearch/internal/domain"
	"github.com/kadra-cloud/hrsearch/internal/domain/search/result"
)

// store is the consumer interface for the embedding repository (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements vector storage and KNN retrieval.
type Repo struct {
	store  store
	dims   int
	prefix string
}

// New creates an embedding repository expecting vectors of the given
// dimension. An empty prefix falls back to the default key namespace.
func New(s store, dims int, prefix string) *Repo {
	if prefix == "" {
		prefix = domain.KeyPrefix
	}
	return &Repo{store: s, dims: dims, prefix: prefix}
}

// EnsureIndex creates the vector FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:     r.indexName(),
		Prefixes: []string{r.prefix + "emb:"},
		Fields: []db.IndexField{
			{Name: "kind", Type: db.IndexFieldTag},
			{
				Name:           "vector",
				Type:           db.IndexFieldVector,
				VectorAlgo:     db.VectorHNSW,
				VectorDim:      r.dims,
				VectorDistance: db.DistanceCosine,
			},
		},
	}
	if err := def.Validate(); err != nil {
		return fmt.Errorf("embedding index definition: %w", err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create embedding index: %w", err)
	}
	return nil
}

// Upsert stores the vector for a webinar and kind. Writing the same pair
// again simply overwrites, so backfill reruns are idempotent.
func (r *Repo) Upsert(
	ctx context.Context, webinarID string, kind domain.EmbeddingKind, vector []float32,
) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown embedding kind %q", domain.ErrInvalidInput, kind)
	}
	if len(vector) != r.dims {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrVectorDimMismatch, len(vector), r.dims)
	}

	fields := map[string]string{
		"webinar_id": webinarID,
		"kind":       string(kind),
		"vector":     encodeVector(vector),
	}
	if err := r.store.HSet(ctx, r.embKey(webinarID, kind), fields); err != nil {
		return fmt.Errorf("store embedding %s/%s: %w", webinarID, kind, err)
	}
	return nil
}

// Has reports whether a vector exists for the webinar and kind.
func (r *Repo) Has(ctx context.Context, webinarID string, kind domain.EmbeddingKind) (bool, error) {
	ok, err := r.store.Exists(ctx, r.embKey(webinarID, kind))
	if err != nil {
		return false, fmt.Errorf("check embedding %s/%s: %w", webinarID, kind, err)
	}
	return ok, nil
}

// Delete removes every stored vector of a webinar.
func (r *Repo) Delete(ctx context.Context, webinarID string) error {
	for _, kind := range []domain.EmbeddingKind{domain.KindTitle, domain.KindDescription, domain.KindAudio} {
		if err := r.store.Del(ctx, r.embKey(webinarID, kind)); err != nil {
			return fmt.Errorf("delete embedding %s/%s: %w", webinarID, kind, err)
		}
	}
	return nil
}

// NearestByKind returns up to k webinar candidates nearest to the query
// vector among embeddings of the given kind, similarity descending.
func (r *Repo) NearestByKind(
	ctx context.Context, kind domain.EmbeddingKind, vector []float32, k int,
) ([]result.Candidate, error) {
	if len(vector) != r.dims {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrVectorDimMismatch, len(vector), r.dims)
	}

	res, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.indexName(),
		Filter:       fmt.Sprintf("@kind:{%s}", kind),
		Vector:       vector,
		K:            k,
		ReturnFields: []string{"webinar_id", "__vector_score"},
	})
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	out := make([]result.Candidate, 0, len(res.Entries))
	for _, entry := range res.Entries {
		id := entry.Fields["webinar_id"]
		if id == "" {
			continue
		}
		out = append(out, result.Candidate{ID: id, Score: entry.Score})
	}
	return out, nil
}

// VerifyDimensions samples one stored vector and compares its dimension
// against the configured one. A mismatch means the configured model changed
// under an existing index and continuing would return garbage rankings.
// An empty store passes: nothing to contradict yet.
func (r *Repo) VerifyDimensions(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, r.prefix+"emb:*")
	if err != nil {
		return fmt.Errorf("scan embeddings: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	fields, err := r.store.HGetAll(ctx, keys[0])
	if err != nil {
		return fmt.Errorf("read embedding %s: %w", keys[0], err)
	}
	stored := len(fields["vector"]) / 4
	if stored != r.dims {
		return fmt.Errorf("%w: stored %d, configured %d", domain.ErrVectorDimMismatch, stored, r.dims)
	}
	return nil
}
