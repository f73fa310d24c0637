package model

// Intent is the structured interpretation of a natural-language query:
// the phrase that carries meaning plus any constraints the LLM extracted.
// When Fallback is true the LLM call failed and CleanQuery is the raw
// query text; the hint fields are then always nil.
type Intent struct {
	CleanQuery string   `json:"clean_query"`
	TypeName   *string  `json:"type_name,omitempty"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Location   *string  `json:"location,omitempty"`
	Fallback   bool     `json:"fallback"`
}

// FilterSet is the canonical, conflict-resolved set of constraints applied
// to retrieval. Location never filters, it only boosts ranking.
// Invariant: MinPrice <= MaxPrice whenever both are present.
type FilterSet struct {
	TypeName *string
	MinPrice *float64
	MaxPrice *float64
	Location *string
}
