package model

import "errors"

// Search failure taxonomy. Caller errors are surfaced immediately;
// ErrEmbeddingUnavailable triggers filter-only fallback retrieval;
// ErrRetrievalUnavailable is fatal for the request but retryable by the
// caller. LLM parse failures never surface as errors, they degrade the
// intent instead.
var (
	ErrInvalidQuery         = errors.New("query text is empty or malformed")
	ErrInvalidFilter        = errors.New("explicit price filters are contradictory")
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")
	ErrRetrievalUnavailable = errors.New("listing store unavailable")
)
