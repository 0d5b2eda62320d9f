package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/fjod/go_storefront/storefront/domain"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortRating    SortKey = "rating"
)

// AllCategories selects the unfiltered product list.
const AllCategories = "All"

func ParseSortKey(s string) (SortKey, bool) {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return k, true
	default:
		return SortNone, false
	}
}

// Predicate selects products for a derived view. A nil Predicate keeps all.
type Predicate func(domain.Product) bool

// And keeps a product only when every non-nil predicate does.
func And(preds ...Predicate) Predicate {
	return func(p domain.Product) bool {
		for _, pred := range preds {
			if pred != nil && !pred(p) {
				return false
			}
		}
		return true
	}
}

// InCategory matches products of exactly that category. The empty string and
// AllCategories match everything.
func InCategory(category string) Predicate {
	if category == "" || category == AllCategories {
		return nil
	}
	return func(p domain.Product) bool {
		return p.Category == category
	}
}

// Matches is a case-insensitive substring match on title, description and
// category. An empty query matches everything.
func Matches(query string) Predicate {
	term := strings.ToLower(query)
	if term == "" {
		return nil
	}
	return func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Description), term) ||
			strings.Contains(strings.ToLower(p.Category), term)
	}
}

// Derive returns a new slice holding the products of base that pass filter,
// stably ordered by sort. base is never modified.
func Derive(base []domain.Product, filter Predicate, sort SortKey) []domain.Product {
	out := make([]domain.Product, 0, len(base))
	for _, p := range base {
		if filter == nil || filter(p) {
			out = append(out, p)
		}
	}

	switch sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(a.Price, b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Price, a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b domain.Product) int { return cmp.Compare(b.Rating.Rate, a.Rating.Rate) })
	}
	return out
}
