package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListParamsValidate(t *testing.T) {
	tests := []struct {
		name  string
		in    ListParams
		want  ListParams
	}{
		{
			name: "sıfır değerler varsayılanlara çekilir",
			in:   ListParams{},
			want: ListParams{Page: 1, PerPage: 20, SortBy: "created_at", OrderBy: "desc"},
		},
		{
			name: "negatif sayfa düzeltilir",
			in:   ListParams{Page: -3, PerPage: 10, SortBy: "title", OrderBy: "asc"},
			want: ListParams{Page: 1, PerPage: 10, SortBy: "title", OrderBy: "asc"},
		},
		{
			name: "limit üstü per_page varsayılana döner",
			in:   ListParams{Page: 2, PerPage: 500, SortBy: "title", OrderBy: "desc"},
			want: ListParams{Page: 2, PerPage: 20, SortBy: "title", OrderBy: "desc"},
		},
		{
			name: "geçersiz order_by desc olur",
			in:   ListParams{Page: 1, PerPage: 10, SortBy: "title", OrderBy: "yukari"},
			want: ListParams{Page: 1, PerPage: 10, SortBy: "title", OrderBy: "desc"},
		},
		{
			name: "büyük harf order_by normalize edilir",
			in:   ListParams{Page: 1, PerPage: 10, SortBy: "title", OrderBy: "ASC"},
			want: ListParams{Page: 1, PerPage: 10, SortBy: "title", OrderBy: "asc"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.in.Validate()
			assert.Equal(t, tt.want, tt.in)
		})
	}
}

func TestListParamsOffset(t *testing.T) {
	p := ListParams{Page: 3, PerPage: 20}
	assert.Equal(t, 40, p.Offset())

	p = ListParams{Page: 1, PerPage: 20}
	assert.Zero(t, p.Offset())
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(100, 0))
	assert.Equal(t, 5, CalculateTotalPages(100, 20))
	assert.Equal(t, 6, CalculateTotalPages(101, 20))
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
}
