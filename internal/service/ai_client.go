package service

import (
	"context"
)

// AIClient is the interface for the LLM and embedding provider. Both calls
// carry the provider's own timeout through the client's HTTP layer and are
// abandoned when ctx is cancelled.
type AIClient interface {
	// ExtractIntent asks the LLM to split a natural-language query into a
	// semantic phrase plus structured filter hints.
	ExtractIntent(ctx context.Context, query string) (*IntentExtraction, error)

	// CreateEmbedding converts text into a fixed-dimension vector.
	CreateEmbedding(ctx context.Context, text string) ([]float32, error)

	// IsEnabled reports whether the client is configured and ready.
	IsEnabled() bool
}

// IntentExtraction is the raw structured answer from the LLM before any
// sanitization. Empty strings and nil prices mean "not mentioned".
type IntentExtraction struct {
	CleanQuery string   `json:"clean_query"`
	TypeName   string   `json:"type_name"`
	MinPrice   *float64 `json:"min_price"`
	MaxPrice   *float64 `json:"max_price"`
	Location   string   `json:"location"`
}

// Ensure OpenAIClient implements AIClient
var _ AIClient = (*OpenAIClient)(nil)
