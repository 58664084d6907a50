package catalog

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixtureProducts() []models.Product {
	sale := dec("45")
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	return []models.Product{
		{
			ID: uuid.New(), Name: "Amethyst Cluster", Description: "Deep purple healing crystal",
			Category: "Crystals", Brand: "GeoGlow", Price: dec("60"), SalePrice: &sale,
			Rating: 4.8, Tags: []string{"healing", "purple"}, CreatedAt: base,
		},
		{
			ID: uuid.New(), Name: "Rose Quartz Heart", Description: "Polished pink stone",
			Category: "Crystals", Brand: "StoneAge", Price: dec("25"),
			Rating: 4.2, Tags: []string{"love", "pink"}, CreatedAt: base.Add(24 * time.Hour),
		},
		{
			ID: uuid.New(), Name: "Brass Incense Holder", Description: "Handmade holder",
			Category: "Decor", Brand: "GeoGlow", Price: dec("15"),
			Rating: 3.9, Tags: []string{"home"}, CreatedAt: base.Add(48 * time.Hour),
		},
	}
}

func TestFilterProductsByCategoryAndBrand(t *testing.T) {
	products := fixtureProducts()

	got := FilterProducts(products, Filter{Category: "crystals"})
	if len(got) != 2 {
		t.Fatalf("category filter should be case-insensitive and match 2, got %d", len(got))
	}

	got = FilterProducts(products, Filter{Brand: "GeoGlow"})
	if len(got) != 2 {
		t.Fatalf("brand filter should match 2, got %d", len(got))
	}

	got = FilterProducts(products, Filter{Category: "Crystals", Brand: "StoneAge"})
	if len(got) != 1 || got[0].Name != "Rose Quartz Heart" {
		t.Fatalf("combined filter mismatch: %+v", got)
	}
}

func TestFilterProductsPriceUsesSalePrice(t *testing.T) {
	products := fixtureProducts()
	max := dec("50")

	got := FilterProducts(products, Filter{MaxPrice: &max})
	// The 60-priced amethyst is on sale at 45, so it passes the cap.
	if len(got) != 3 {
		t.Fatalf("expected all 3 under effective price 50, got %d", len(got))
	}

	min := dec("40")
	got = FilterProducts(products, Filter{MinPrice: &min})
	if len(got) != 1 || got[0].Name != "Amethyst Cluster" {
		t.Fatalf("expected only amethyst above 40, got %+v", got)
	}
}

func TestFilterProductsRatingAndTags(t *testing.T) {
	products := fixtureProducts()
	minRating := 4.5

	got := FilterProducts(products, Filter{MinRating: &minRating})
	if len(got) != 1 || got[0].Name != "Amethyst Cluster" {
		t.Fatalf("rating filter mismatch: %+v", got)
	}

	got = FilterProducts(products, Filter{Tags: []string{"pink", "home"}})
	if len(got) != 2 {
		t.Fatalf("tag filter should OR across tags and match 2, got %d", len(got))
	}
}

func TestSortProducts(t *testing.T) {
	products := fixtureProducts()

	asc := SortProducts(products, SortPriceAsc)
	if asc[0].Name != "Brass Incense Holder" || asc[2].Name != "Amethyst Cluster" {
		t.Fatalf("price-asc order wrong: %s .. %s", asc[0].Name, asc[2].Name)
	}

	desc := SortProducts(products, SortPriceDesc)
	if desc[0].Name != "Amethyst Cluster" {
		t.Fatalf("price-desc should lead with effective 45, got %s", desc[0].Name)
	}

	newest := SortProducts(products, SortNewest)
	if newest[0].Name != "Brass Incense Holder" {
		t.Fatalf("newest should lead with latest createdAt, got %s", newest[0].Name)
	}

	popular := SortProducts(products, SortPopular)
	if popular[0].Name != "Amethyst Cluster" {
		t.Fatalf("popular should lead with highest rating, got %s", popular[0].Name)
	}

	// Input slice must stay untouched.
	if products[0].Name != "Amethyst Cluster" {
		t.Fatal("sort should not mutate its input")
	}
}

func TestSearchProductsORSemantics(t *testing.T) {
	products := fixtureProducts()

	got := SearchProducts(products, "PURPLE holder")
	if len(got) != 2 {
		t.Fatalf("expected OR match over terms to return 2, got %d", len(got))
	}

	got = SearchProducts(products, "geoglow")
	if len(got) != 2 {
		t.Fatalf("brand should be searchable, got %d", len(got))
	}

	got = SearchProducts(products, "")
	if len(got) != len(products) {
		t.Fatalf("empty query should return everything, got %d", len(got))
	}

	got = SearchProducts(products, "zzz")
	if len(got) != 0 {
		t.Fatalf("no-match query should return empty, got %d", len(got))
	}
}

func TestParseSortKeyDefaultsToNewest(t *testing.T) {
	if got := ParseSortKey("price-asc"); got != SortPriceAsc {
		t.Fatalf("unexpected key %s", got)
	}
	if got := ParseSortKey("garbage"); got != SortNewest {
		t.Fatalf("unknown keys should default to newest, got %s", got)
	}
}
