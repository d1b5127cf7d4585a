package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchPhotosInput_Normalize(t *testing.T) {
	t.Run("empty text is dropped", func(t *testing.T) {
		empty := ""
		in := SearchPhotosInput{Text: &empty}
		require.NoError(t, in.Normalize(50000))
		assert.Nil(t, in.Text)
	})

	t.Run("equal from and to dates are allowed", func(t *testing.T) {
		d := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		in := SearchPhotosInput{DateFrom: &d, DateTo: &d}
		assert.NoError(t, in.Normalize(50000))
	})

	t.Run("inverted date range is rejected", func(t *testing.T) {
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		to := from.Add(-time.Hour)
		in := SearchPhotosInput{DateFrom: &from, DateTo: &to}
		err := in.Normalize(50000)
		assert.Equal(t, KindBadInput, ValidationKindOf(err))
	})

	t.Run("radius at the cap is allowed", func(t *testing.T) {
		in := SearchPhotosInput{Geo: &GeoFilter{Latitude: 0, Longitude: 0, RadiusMeters: 50000}}
		assert.NoError(t, in.Normalize(50000))
	})

	t.Run("boundary coordinates are valid", func(t *testing.T) {
		in := SearchPhotosInput{Geo: &GeoFilter{Latitude: -90, Longitude: 180, RadiusMeters: 100}}
		assert.NoError(t, in.Normalize(50000))
	})

	t.Run("out of range coordinates are rejected", func(t *testing.T) {
		for _, g := range []GeoFilter{
			{Latitude: 90.1, Longitude: 0, RadiusMeters: 100},
			{Latitude: 0, Longitude: -180.1, RadiusMeters: 100},
		} {
			in := SearchPhotosInput{Geo: &g}
			assert.Error(t, in.Normalize(50000))
		}
	})
}

func TestPaginationParams(t *testing.T) {
	t.Run("defaults applied to zero values", func(t *testing.T) {
		p := PaginationParams{}
		p.Validate()
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 20, p.PageSize)
	})

	t.Run("page size is capped", func(t *testing.T) {
		p := PaginationParams{Page: 3, PageSize: 500}
		p.Validate()
		assert.Equal(t, 100, p.PageSize)
		assert.Equal(t, 200, p.Offset())
	})
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse([]int{1, 2, 3}, 2, 20, 45)

	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrev)

	last := NewPaginatedResponse([]int{1}, 3, 20, 45)
	assert.False(t, last.HasNext)

	empty := NewPaginatedResponse([]int{}, 1, 20, 0)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
