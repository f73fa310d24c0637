package model

// SearchRequest represents one search call: free-text query plus optional
// explicit filters. Explicit filters always win over AI-extracted hints.
type SearchRequest struct {
	Query    string   `json:"query" binding:"required"`
	TypeName *string  `json:"type_name,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	TopK     int      `json:"top_k,omitempty"`
}

// SearchResponse represents an ordered search result list.
type SearchResponse struct {
	Results  []ScoredResult `json:"results"`
	Total    int            `json:"total"`
	Intent   *Intent        `json:"intent,omitempty"`
	Degraded bool           `json:"degraded,omitempty"` // true when embedding was unavailable and retrieval was filter-only
	Took     int64          `json:"took_ms"`
}

// EmbeddingBatchRequest represents an ingestion-time batch embedding update.
type EmbeddingBatchRequest struct {
	Embeddings []EmbeddingItem `json:"embeddings" binding:"required"`
}

// EmbeddingItem carries one listing vector.
type EmbeddingItem struct {
	ListingID int64     `json:"listing_id" binding:"required"`
	Embedding []float32 `json:"embedding" binding:"required"`
}

// EmbeddingBatchResponse reports per-batch update outcome.
type EmbeddingBatchResponse struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
