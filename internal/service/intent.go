package service

import (
	"context"
	"log"
	"strings"

	"github.com/mercil/npa-search/internal/model"
)

// IntentParser turns raw query text into a structured Intent using the LLM.
// AI understanding is an enhancement, not a requirement: every provider or
// parse failure degrades to a raw-text intent so search stays available.
type IntentParser struct {
	client AIClient
}

// NewIntentParser creates a new intent parser
func NewIntentParser(client AIClient) *IntentParser {
	return &IntentParser{client: client}
}

// Parse extracts structured information from a natural-language query.
// The only error it can return is model.ErrInvalidQuery for blank input.
func (p *IntentParser) Parse(ctx context.Context, query string) (*model.Intent, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, model.ErrInvalidQuery
	}

	if p.client == nil || !p.client.IsEnabled() {
		return fallbackIntent(query), nil
	}

	extraction, err := p.client.ExtractIntent(ctx, query)
	if err != nil {
		log.Printf("intent extraction failed, degrading to raw-text intent: %v", err)
		return fallbackIntent(query), nil
	}

	return sanitizeExtraction(query, extraction), nil
}

// fallbackIntent is the defined degraded mode: semantic phrase is the
// original query, no hints, Fallback set.
func fallbackIntent(query string) *model.Intent {
	return &model.Intent{
		CleanQuery: query,
		Fallback:   true,
	}
}

// sanitizeExtraction maps the raw LLM answer onto an Intent, dropping
// values that are unusable as hints. Hints are best-effort, so bad values
// are discarded silently rather than failing the request.
func sanitizeExtraction(query string, ex *IntentExtraction) *model.Intent {
	intent := &model.Intent{
		CleanQuery: strings.TrimSpace(ex.CleanQuery),
	}
	if intent.CleanQuery == "" {
		intent.CleanQuery = query
	}

	if t := strings.TrimSpace(ex.TypeName); t != "" {
		intent.TypeName = &t
	}
	if loc := strings.TrimSpace(ex.Location); loc != "" {
		intent.Location = &loc
	}
	if ex.MinPrice != nil && *ex.MinPrice >= 0 {
		v := *ex.MinPrice
		intent.MinPrice = &v
	}
	if ex.MaxPrice != nil && *ex.MaxPrice >= 0 {
		v := *ex.MaxPrice
		intent.MaxPrice = &v
	}

	return intent
}
