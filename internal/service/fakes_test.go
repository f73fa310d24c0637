package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mercil/npa-search/internal/model"
)

// fakeAIClient scripts intent extraction and embedding responses.
type fakeAIClient struct {
	enabled    bool
	intent     *IntentExtraction
	intentErr  error
	embedding  []float32
	embedErr   error
	embedCalls int
}

func (f *fakeAIClient) ExtractIntent(ctx context.Context, query string) (*IntentExtraction, error) {
	if f.intentErr != nil {
		return nil, f.intentErr
	}
	return f.intent, nil
}

func (f *fakeAIClient) CreateEmbedding(ctx context.Context, text string) ([]float32, error) {
	f.embedCalls++
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedding, nil
}

func (f *fakeAIClient) IsEnabled() bool {
	return f.enabled
}

// fakeRepository holds listings in memory and applies the FilterSet the
// same way the SQL WHERE clause does. Similarity comes from a scripted
// per-listing map so tests control the vector ordering.
type fakeRepository struct {
	mu           sync.Mutex
	listings     []model.Listing
	similarities map[int64]float64
	searchErr    error
	loggedQuery  string
	logged       int
}

func (f *fakeRepository) SearchByVector(ctx context.Context, queryVec []float32, fs *model.FilterSet, limit int) ([]model.Candidate, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	candidates := f.filtered(fs)
	for i := range candidates {
		candidates[i].Similarity = f.similarities[candidates[i].ID]
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Similarity != candidates[j].Similarity {
			return candidates[i].Similarity > candidates[j].Similarity
		}
		return candidates[i].ID < candidates[j].ID
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (f *fakeRepository) SearchByFilters(ctx context.Context, fs *model.FilterSet, limit int) ([]model.Candidate, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	candidates := f.filtered(fs)
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, nil
}

func (f *fakeRepository) filtered(fs *model.FilterSet) []model.Candidate {
	var out []model.Candidate
	for _, l := range f.listings {
		if fs != nil {
			if fs.TypeName != nil && (l.TypeName == nil || *l.TypeName != *fs.TypeName) {
				continue
			}
			if fs.MinPrice != nil && (l.Price == nil || *l.Price < *fs.MinPrice) {
				continue
			}
			if fs.MaxPrice != nil && (l.Price == nil || *l.Price > *fs.MaxPrice) {
				continue
			}
		}
		out = append(out, model.Candidate{Listing: l})
	}
	return out
}

func (f *fakeRepository) GetListingByID(ctx context.Context, id int64) (*model.Listing, error) {
	for i := range f.listings {
		if f.listings[i].ID == id {
			return &f.listings[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRepository) BatchUpdateEmbeddings(ctx context.Context, items []model.EmbeddingItem) (int, []string) {
	return len(items), nil
}

func (f *fakeRepository) LogSearch(ctx context.Context, query string, intent *model.Intent, resultCount int, listingIDs []int64, tookMs int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loggedQuery = query
	f.logged++
	return nil
}

var errFakeProviderDown = errors.New("provider unreachable")

func strPtr(s string) *string   { return &s }
func f64Ptr(v float64) *float64 { return &v }

// thaiListings is a small catalogue used across the orchestrator tests.
func thaiListings() []model.Listing {
	return []model.Listing{
		{ID: 1, TypeName: strPtr("ห้องชุดพักอาศัย"), Price: f64Ptr(1800000), Location: strPtr("ถนนลาดพร้าว แขวงจอมพล"), Name: strPtr("คอนโดวิวสวนจตุจักร"), Description: strPtr("ห้องชุดใกล้รถไฟฟ้า ลาดพร้าว")},
		{ID: 2, TypeName: strPtr("ห้องชุดพักอาศัย"), Price: f64Ptr(2500000), Location: strPtr("ถนนสุขุมวิท"), Name: strPtr("คอนโดสุขุมวิท"), Description: strPtr("ห้องชุดใจกลางเมือง")},
		{ID: 3, TypeName: strPtr("บ้านเดี่ยว"), Price: f64Ptr(2900000), Location: strPtr("ถนนบางแค"), Name: strPtr("บ้านเดี่ยวบางแค"), Description: strPtr("บ้านเดี่ยวสองชั้น")},
		{ID: 4, TypeName: strPtr("บ้านเดี่ยว"), Price: f64Ptr(4500000), Location: strPtr("ถนนบางขุนเทียน"), Name: strPtr("บ้านเดี่ยวบางขุนเทียน"), Description: strPtr("บ้านเดี่ยวพร้อมสวน")},
		{ID: 5, TypeName: strPtr("ทาวน์เฮ้าส์"), Price: f64Ptr(1500000), Location: strPtr("ถนนลาดพร้าว"), Name: strPtr("ทาวน์เฮ้าส์ลาดพร้าว"), Description: strPtr("ทาวน์เฮ้าส์ใกล้ตลาด")},
	}
}
