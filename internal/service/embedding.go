package service

import (
	"context"
	"fmt"

	"github.com/mercil/npa-search/internal/model"
)

// Embedder converts text into fixed-dimension vectors. The dimension is a
// process-wide constant agreed with the storage schema, so a provider
// answering with a different dimension is a configuration problem, not a
// transient one; it is still reported as ErrEmbeddingUnavailable so the
// orchestrator can fall back to filter-only retrieval.
type Embedder struct {
	client     AIClient
	dimensions int
}

// NewEmbedder creates a new embedding adapter. A non-positive dimension is
// a fatal configuration error.
func NewEmbedder(client AIClient, dimensions int) (*Embedder, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("embedding dimensions must be positive, got %d", dimensions)
	}
	return &Embedder{client: client, dimensions: dimensions}, nil
}

// Dimensions returns the configured vector dimension.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}

// Embed converts text into a vector of the configured dimension.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.client == nil || !e.client.IsEnabled() {
		return nil, fmt.Errorf("%w: no embedding provider configured", model.ErrEmbeddingUnavailable)
	}

	vec, err := e.client.CreateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrEmbeddingUnavailable, err)
	}

	if len(vec) != e.dimensions {
		return nil, fmt.Errorf("%w: provider returned %d dimensions, schema expects %d (check AI_EMBEDDING_DIMENSIONS)",
			model.ErrEmbeddingUnavailable, len(vec), e.dimensions)
	}

	return vec, nil
}
