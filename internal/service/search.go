package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mercil/npa-search/internal/model"
)

// ListingRepository is the vector/listing store behind the candidate
// retriever. Both search methods return only listings satisfying every
// FilterSet constraint, at most limit of them, ordered by similarity
// descending with ties broken by listing id ascending. An empty result is
// not an error; connectivity failures wrap model.ErrRetrievalUnavailable.
type ListingRepository interface {
	SearchByVector(ctx context.Context, queryVec []float32, fs *model.FilterSet, limit int) ([]model.Candidate, error)
	SearchByFilters(ctx context.Context, fs *model.FilterSet, limit int) ([]model.Candidate, error)
	GetListingByID(ctx context.Context, id int64) (*model.Listing, error)
	BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string)
	LogSearch(ctx context.Context, query string, intent *model.Intent, resultCount int, listingIDs []int64, tookMs int) error
}

// SearchService orchestrates one hybrid search request:
// parse -> (embed || resolve filters) -> retrieve -> rank.
// It holds no mutable per-request state; each call is independent.
type SearchService struct {
	repo         ListingRepository
	intents      *IntentParser
	embedder     *Embedder
	filters      *FilterResolver
	ranker       *Ranker
	defaultLimit int
	maxLimit     int
}

// NewSearchService creates a new search service
func NewSearchService(
	repo ListingRepository,
	intents *IntentParser,
	embedder *Embedder,
	filters *FilterResolver,
	ranker *Ranker,
	defaultLimit, maxLimit int,
) *SearchService {
	return &SearchService{
		repo:         repo,
		intents:      intents,
		embedder:     embedder,
		filters:      filters,
		ranker:       ranker,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
	}
}

type embedOutcome struct {
	vec []float32
	err error
}

// Search performs a complete hybrid search. Embedding failures degrade to
// filter-only retrieval with similarity fixed at 0; retrieval failures and
// caller errors terminate the request.
func (s *SearchService) Search(ctx context.Context, req *model.SearchRequest) (*model.SearchResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, model.ErrInvalidQuery
	}
	limit := s.clampLimit(req.TopK)

	intent, err := s.intents.Parse(ctx, req.Query)
	if err != nil {
		return nil, err
	}

	// Embedding depends on the parsed semantic phrase; filter resolution is
	// pure and independent of the vector, so the two run concurrently.
	embedCh := make(chan embedOutcome, 1)
	go func() {
		vec, embedErr := s.embedder.Embed(ctx, intent.CleanQuery)
		embedCh <- embedOutcome{vec: vec, err: embedErr}
	}()

	fs, err := s.filters.Resolve(req, intent)
	if err != nil {
		return nil, err
	}

	embedded := <-embedCh

	var candidates []model.Candidate
	degraded := false
	switch {
	case embedded.err == nil:
		candidates, err = s.repo.SearchByVector(ctx, embedded.vec, fs, limit)
	case errors.Is(embedded.err, model.ErrEmbeddingUnavailable):
		degraded = true
		candidates, err = s.repo.SearchByFilters(ctx, fs, limit)
	default:
		return nil, embedded.err
	}
	if err != nil {
		return nil, err
	}

	results := s.ranker.Rank(candidates, fs)

	took := time.Since(start).Milliseconds()

	// Log the search without blocking the response.
	go func() {
		listingIDs := make([]int64, len(results))
		for i, r := range results {
			listingIDs[i] = r.ID
		}
		logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.repo.LogSearch(logCtx, req.Query, intent, len(results), listingIDs, int(took))
	}()

	return &model.SearchResponse{
		Results:  results,
		Total:    len(results),
		Intent:   intent,
		Degraded: degraded,
		Took:     took,
	}, nil
}

// GetListing retrieves a single listing by ID
func (s *SearchService) GetListing(ctx context.Context, id int64) (*model.Listing, error) {
	return s.repo.GetListingByID(ctx, id)
}

// UpdateEmbeddings updates listing vectors in batch (ingestion support).
func (s *SearchService) UpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return s.repo.BatchUpdateEmbeddings(ctx, items)
}

// EmbeddingDimensions returns the process-wide vector dimension.
func (s *SearchService) EmbeddingDimensions() int {
	return s.embedder.Dimensions()
}

func (s *SearchService) clampLimit(topK int) int {
	if topK <= 0 {
		return s.defaultLimit
	}
	if topK > s.maxLimit {
		return s.maxLimit
	}
	return topK
}
