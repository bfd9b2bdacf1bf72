package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQueryNormalize(t *testing.T) {
	tests := []struct {
		name     string
		query    ListQuery
		wantPage int
		wantSize int
	}{
		{
			name:     "defaults",
			query:    ListQuery{},
			wantPage: 1,
			wantSize: 20,
		},
		{
			name:     "negative page clamps to first",
			query:    ListQuery{Page: -3, PageSize: 10},
			wantPage: 1,
			wantSize: 10,
		},
		{
			name:     "oversized page size is capped",
			query:    ListQuery{Page: 2, PageSize: 500},
			wantPage: 2,
			wantSize: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.query.Normalize()
			assert.Equal(t, tt.wantPage, tt.query.Page)
			assert.Equal(t, tt.wantSize, tt.query.PageSize)
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 45)
	assert.Equal(t, 2, p.CurrentPage)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 45, p.TotalItems)
	assert.Equal(t, 20, p.ItemsPerPage)

	p = NewPagination(1, 20, 40)
	assert.Equal(t, 2, p.TotalPages)
}
