package service

import (
	"strings"

	"github.com/mercil/npa-search/internal/model"
)

// FilterResolver merges explicit caller filters with AI hint filters into
// one canonical FilterSet. It is pure: no I/O, deterministic output.
//
// Precedence is per-field: an explicit value always wins over a hint.
// Explicit contradictions (min > max, negative bounds) are caller errors;
// hint contradictions are resolved by dropping the offending hint, since
// hints are best-effort.
type FilterResolver struct {
	// knownTypes maps a normalized type string to its canonical catalogue
	// spelling. Unknown type strings pass through verbatim so retrieval
	// yields zero matches instead of erroring.
	knownTypes map[string]string
}

// NewFilterResolver creates a resolver for the given catalogue type
// vocabulary.
func NewFilterResolver(typeNames []string) *FilterResolver {
	known := make(map[string]string, len(typeNames))
	for _, name := range typeNames {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		known[normalizeType(name)] = name
	}
	return &FilterResolver{knownTypes: known}
}

// Resolve builds the canonical FilterSet for one request.
func (r *FilterResolver) Resolve(req *model.SearchRequest, intent *model.Intent) (*model.FilterSet, error) {
	if err := validateExplicit(req); err != nil {
		return nil, err
	}

	fs := &model.FilterSet{}

	// Type: explicit wins, then hint; both are canonicalized against the
	// known vocabulary.
	switch {
	case req.TypeName != nil && strings.TrimSpace(*req.TypeName) != "":
		fs.TypeName = r.canonicalType(*req.TypeName)
	case intent.TypeName != nil:
		fs.TypeName = r.canonicalType(*intent.TypeName)
	}

	// Price bounds: per-field precedence, remembering which side came from
	// a hint so a hint-induced contradiction can be dropped.
	minFromHint := false
	if req.MinPrice != nil {
		fs.MinPrice = req.MinPrice
	} else if intent.MinPrice != nil {
		fs.MinPrice = intent.MinPrice
		minFromHint = true
	}

	maxFromHint := false
	if req.MaxPrice != nil {
		fs.MaxPrice = req.MaxPrice
	} else if intent.MaxPrice != nil {
		fs.MaxPrice = intent.MaxPrice
		maxFromHint = true
	}

	// A min > max mix can only survive validateExplicit when at least one
	// side is a hint. Drop the hint side(s) to restore the invariant.
	if fs.MinPrice != nil && fs.MaxPrice != nil && *fs.MinPrice > *fs.MaxPrice {
		if minFromHint {
			fs.MinPrice = nil
		}
		if maxFromHint {
			fs.MaxPrice = nil
		}
	}

	if intent.Location != nil {
		fs.Location = intent.Location
	}

	return fs, nil
}

// validateExplicit checks caller-supplied bounds.
func validateExplicit(req *model.SearchRequest) error {
	if req.MinPrice != nil && *req.MinPrice < 0 {
		return model.ErrInvalidFilter
	}
	if req.MaxPrice != nil && *req.MaxPrice < 0 {
		return model.ErrInvalidFilter
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return model.ErrInvalidFilter
	}
	return nil
}

// canonicalType maps a type string onto the catalogue spelling when known,
// otherwise preserves the trimmed input as-is.
func (r *FilterResolver) canonicalType(raw string) *string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if canonical, ok := r.knownTypes[normalizeType(trimmed)]; ok {
		return &canonical
	}
	return &trimmed
}

func normalizeType(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
