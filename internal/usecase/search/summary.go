package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sweetstem/discovery/internal/domain/search/filter"
	"github.com/sweetstem/discovery/internal/domain/search/request"
)

// Summarize builds the one-line human-readable summary that accompanies a
// response, phrased from the request the customer actually made.
func Summarize(req *request.Request, count int, semanticUsed bool) string {
	if count == 0 {
		if semanticUsed {
			return "I couldn't find any products that closely match your description. " +
				"Try different keywords or browse our categories."
		}
		return "I couldn't find any products matching your criteria. " +
			"Try a broader search or different keywords."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d product%s", count, plural(count))

	if q := req.Query(); q != "" {
		if semanticUsed {
			fmt.Fprintf(&b, " related to %q", q)
		} else {
			fmt.Fprintf(&b, " matching %q", q)
		}
	}

	if c := req.Category(); c != "" {
		fmt.Fprintf(&b, " for %s", c)
	}

	if band := req.Band(); band != filter.BandNone {
		fmt.Fprintf(&b, " in %s range", bandText(band))
	} else if req.MinPrice() != nil || req.MaxPrice() != nil {
		switch {
		case req.MinPrice() != nil && req.MaxPrice() != nil:
			fmt.Fprintf(&b, " between $%s and $%s", priceText(*req.MinPrice()), priceText(*req.MaxPrice()))
		case req.MaxPrice() != nil:
			fmt.Fprintf(&b, " under $%s", priceText(*req.MaxPrice()))
		default:
			fmt.Fprintf(&b, " over $%s", priceText(*req.MinPrice()))
		}
	}

	if allergens := req.Allergens(); len(allergens) > 0 {
		fmt.Fprintf(&b, " (safe for %s allergies)", strings.Join(allergens, ", "))
	}

	if semanticUsed {
		b.WriteString(" using AI semantic search")
	}

	return b.String()
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func bandText(b filter.Band) string {
	switch b {
	case filter.BandBudget:
		return "under $50"
	case filter.BandMid:
		return "$50-100"
	case filter.BandPremium:
		return "over $100"
	default:
		return string(b)
	}
}

func priceText(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
