package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mercil/npa-search/internal/model"
)

func newTestResolver() *FilterResolver {
	return NewFilterResolver([]string{"บ้านเดี่ยว", "ทาวน์เฮ้าส์", "ห้องชุดพักอาศัย", "Condo"})
}

func TestFilterResolver_ExplicitWinsOverHint(t *testing.T) {
	r := newTestResolver()

	req := &model.SearchRequest{
		Query:    "คอนโด",
		MaxPrice: f64Ptr(3000000),
	}
	intent := &model.Intent{
		CleanQuery: "คอนโด",
		TypeName:   strPtr("ห้องชุดพักอาศัย"),
		MaxPrice:   f64Ptr(5000000),
	}

	fs, err := r.Resolve(req, intent)
	require.NoError(t, err)

	// Explicit max_price overrides the AI hint; the type hint fills the
	// unconstrained field.
	require.NotNil(t, fs.MaxPrice)
	assert.Equal(t, 3000000.0, *fs.MaxPrice)
	require.NotNil(t, fs.TypeName)
	assert.Equal(t, "ห้องชุดพักอาศัย", *fs.TypeName)
}

func TestFilterResolver_ExplicitContradiction(t *testing.T) {
	r := newTestResolver()
	intent := &model.Intent{CleanQuery: "บ้าน"}

	tests := []struct {
		name string
		req  *model.SearchRequest
	}{
		{
			name: "min above max",
			req:  &model.SearchRequest{Query: "บ้าน", MinPrice: f64Ptr(5000000), MaxPrice: f64Ptr(1000000)},
		},
		{
			name: "negative min",
			req:  &model.SearchRequest{Query: "บ้าน", MinPrice: f64Ptr(-1)},
		},
		{
			name: "negative max",
			req:  &model.SearchRequest{Query: "บ้าน", MaxPrice: f64Ptr(-100)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Resolve(tt.req, intent)
			assert.ErrorIs(t, err, model.ErrInvalidFilter)
		})
	}
}

func TestFilterResolver_HintConflictDroppedSilently(t *testing.T) {
	r := newTestResolver()

	// Explicit min 4M, hint max 3M: the hint would invert the range, so it
	// is dropped rather than erroring.
	req := &model.SearchRequest{Query: "บ้าน", MinPrice: f64Ptr(4000000)}
	intent := &model.Intent{CleanQuery: "บ้าน", MaxPrice: f64Ptr(3000000)}

	fs, err := r.Resolve(req, intent)
	require.NoError(t, err)
	require.NotNil(t, fs.MinPrice)
	assert.Equal(t, 4000000.0, *fs.MinPrice)
	assert.Nil(t, fs.MaxPrice)

	// Both bounds from hints and contradictory: both dropped.
	fs, err = r.Resolve(&model.SearchRequest{Query: "บ้าน"}, &model.Intent{
		CleanQuery: "บ้าน",
		MinPrice:   f64Ptr(5000000),
		MaxPrice:   f64Ptr(1000000),
	})
	require.NoError(t, err)
	assert.Nil(t, fs.MinPrice)
	assert.Nil(t, fs.MaxPrice)
}

func TestFilterResolver_TypeNormalization(t *testing.T) {
	r := newTestResolver()

	// Known type, different case and spacing, maps to the catalogue form.
	fs, err := r.Resolve(&model.SearchRequest{Query: "q", TypeName: strPtr("  condo ")}, &model.Intent{CleanQuery: "q"})
	require.NoError(t, err)
	require.NotNil(t, fs.TypeName)
	assert.Equal(t, "Condo", *fs.TypeName)

	// Unknown type passes through verbatim so retrieval yields zero
	// matches instead of erroring.
	fs, err = r.Resolve(&model.SearchRequest{Query: "q", TypeName: strPtr("โกดัง")}, &model.Intent{CleanQuery: "q"})
	require.NoError(t, err)
	require.NotNil(t, fs.TypeName)
	assert.Equal(t, "โกดัง", *fs.TypeName)
}

func TestFilterResolver_UnconstrainedFieldsAbsent(t *testing.T) {
	r := newTestResolver()

	fs, err := r.Resolve(&model.SearchRequest{Query: "วิวแม่น้ำ"}, &model.Intent{CleanQuery: "วิวแม่น้ำ"})
	require.NoError(t, err)
	assert.Nil(t, fs.TypeName)
	assert.Nil(t, fs.MinPrice)
	assert.Nil(t, fs.MaxPrice)
	assert.Nil(t, fs.Location)
}

func TestFilterResolver_LocationHintCarried(t *testing.T) {
	r := newTestResolver()

	fs, err := r.Resolve(&model.SearchRequest{Query: "คอนโด ลาดพร้าว"}, &model.Intent{
		CleanQuery: "ลาดพร้าว",
		Location:   strPtr("ลาดพร้าว"),
	})
	require.NoError(t, err)
	require.NotNil(t, fs.Location)
	assert.Equal(t, "ลาดพร้าว", *fs.Location)
}
