package search

import (
	"strings"
	"testing"

	"github.com/sweetstem/discovery/internal/domain/search/request"
)

func TestSummarize(t *testing.T) {
	min := 25.0
	max := 75.0

	tests := []struct {
		name         string
		params       request.Params
		count        int
		semanticUsed bool
		want         []string
	}{
		{
			name:   "no results structured",
			params: request.Params{Query: "dragons"},
			count:  0,
			want:   []string{"couldn't find any products matching your criteria"},
		},
		{
			name:         "no results semantic",
			params:       request.Params{Query: "dragons"},
			count:        0,
			semanticUsed: true,
			want:         []string{"closely match your description"},
		},
		{
			name:   "single result",
			params: request.Params{Query: "chocolate strawberries"},
			count:  1,
			want:   []string{"Found 1 product", `matching "chocolate strawberries"`},
		},
		{
			name:         "semantic phrasing",
			params:       request.Params{Query: "chocolate strawberries"},
			count:        3,
			semanticUsed: true,
			want: []string{
				"Found 3 products",
				`related to "chocolate strawberries"`,
				"using AI semantic search",
			},
		},
		{
			name:   "category and band",
			params: request.Params{Category: "birthday", PriceRange: "luxury"},
			count:  2,
			want:   []string{"for birthday", "in over $100 range"},
		},
		{
			name:   "price bounds",
			params: request.Params{MinPrice: &min, MaxPrice: &max},
			count:  2,
			want:   []string{"between $25 and $75"},
		},
		{
			name:   "allergens",
			params: request.Params{Allergens: "nuts, dairy"},
			count:  2,
			want:   []string{"(safe for nuts, dairy allergies)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request.New(tt.params)
			got := Summarize(&req, tt.count, tt.semanticUsed)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("Summarize() = %q, want substring %q", got, want)
				}
			}
		})
	}
}

func TestSummarize_BandBeatsBounds(t *testing.T) {
	max := 75.0
	req := request.New(request.Params{PriceRange: "budget", MaxPrice: &max})
	got := Summarize(&req, 2, false)
	if !strings.Contains(got, "under $50") {
		t.Errorf("Summarize() = %q, want the named band", got)
	}
	if strings.Contains(got, "$75") {
		t.Errorf("Summarize() = %q, numeric bounds must not appear alongside a band", got)
	}
}
