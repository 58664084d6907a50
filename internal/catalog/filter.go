package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
)

// Filter holds the browse criteria applied over the cached product list.
type Filter struct {
	Category  string
	Brand     string
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating *float64
	Tags      []string
}

// SortKey names the supported result orderings.
type SortKey string

const (
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
	SortNewest    SortKey = "newest"
	SortPopular   SortKey = "popular"
)

// ParseSortKey maps raw input onto a SortKey, defaulting to newest.
func ParseSortKey(value string) SortKey {
	switch SortKey(strings.TrimSpace(value)) {
	case SortPriceAsc:
		return SortPriceAsc
	case SortPriceDesc:
		return SortPriceDesc
	case SortPopular:
		return SortPopular
	default:
		return SortNewest
	}
}

// FilterProducts applies the criteria over the slice. Price bounds use the
// effective (sale-aware) price; tag matching succeeds when any filter tag is
// present on the product.
func FilterProducts(products []models.Product, f Filter) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
			continue
		}
		price := p.EffectivePrice()
		if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.MinRating != nil && p.Rating < *f.MinRating {
			continue
		}
		if len(f.Tags) > 0 && !hasAnyTag(p.Tags, f.Tags) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func hasAnyTag(productTags []string, filterTags []string) bool {
	for _, want := range filterTags {
		for _, have := range productTags {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}
	return false
}

// SortProducts orders a copy of the slice by the requested key.
func SortProducts(products []models.Product, key SortKey) []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	switch key {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().LessThan(out[j].EffectivePrice())
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].EffectivePrice().GreaterThan(out[j].EffectivePrice())
		})
	case SortPopular:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Rating > out[j].Rating
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}

// SearchProducts lower-cases the query, splits it on spaces and matches a
// product when any term is a substring of the combined name, description,
// category, brand and tag text.
func SearchProducts(products []models.Product, query string) []models.Product {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return products
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		haystack := strings.ToLower(strings.Join([]string{
			p.Name, p.Description, p.Category, p.Brand, strings.Join(p.Tags, " "),
		}, " "))
		for _, term := range terms {
			if strings.Contains(haystack, term) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}
