package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// Listing represents one NPA property in the catalogue. Listings are owned
// by the storage layer; the search engine only reads them.
type Listing struct {
	ID          int64           `json:"id" db:"id"`
	AssetCode   *string         `json:"asset_code,omitempty" db:"asset_code"`
	Name        *string         `json:"name,omitempty" db:"name"`
	TypeName    *string         `json:"type_name,omitempty" db:"type_name"`
	Price       *float64        `json:"price,omitempty" db:"price"`
	Location    *string         `json:"location,omitempty" db:"location"`
	Description *string         `json:"description,omitempty" db:"description"`
	Embedding   pgvector.Vector `json:"-" db:"embedding"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// Candidate is a listing paired with its raw vector similarity as returned
// by the retriever. Similarity is 0 for filter-only retrieval.
type Candidate struct {
	Listing
	Similarity float64 `json:"-" db:"similarity"`
}

// ScoredResult is a ranked search result. Rank positions are 1-based and
// unique within one response.
type ScoredResult struct {
	Listing
	Similarity float64 `json:"similarity"`
	FinalScore float64 `json:"final_score"`
	Rank       int     `json:"rank"`
}
