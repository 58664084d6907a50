package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/akashch1512/crystalreadymades.com/api/responses"
	"github.com/akashch1512/crystalreadymades.com/api/validators"
	"github.com/akashch1512/crystalreadymades.com/internal/catalog"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
	"github.com/akashch1512/crystalreadymades.com/pkg/pagination"
)

func parseProductFilter(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	filter := catalog.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Brand:    strings.TrimSpace(q.Get("brand")),
	}

	if raw := strings.TrimSpace(q.Get("minPrice")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "minPrice must be a number")
		}
		filter.MinPrice = &value
	}
	if raw := strings.TrimSpace(q.Get("maxPrice")); raw != "" {
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return catalog.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "maxPrice must be a number")
		}
		filter.MaxPrice = &value
	}
	if raw := strings.TrimSpace(q.Get("minRating")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return catalog.Filter{}, pkgerrors.New(pkgerrors.CodeValidation, "minRating must be a number")
		}
		filter.MinRating = &value
	}
	if raw := strings.TrimSpace(q.Get("tags")); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	return filter, nil
}

// ProductsList returns a filtered, sorted, paginated slice of the catalog.
func ProductsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		filter, err := parseProductFilter(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		sortKey := catalog.ParseSortKey(r.URL.Query().Get("sort"))
		page, err := svc.ListProducts(ctx, filter, sortKey, pagination.Params{Limit: limit, Offset: offset})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// ProductsSearch looks up products matching every word of the query.
func ProductsSearch(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		query := strings.TrimSpace(r.URL.Query().Get("q"))
		rows, err := svc.SearchProducts(ctx, query)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// ProductGet returns a single active product.
func ProductGet(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.GetProduct(ctx, productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// CategoriesList returns all catalog categories.
func CategoriesList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.Categories(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// BrandsList returns all catalog brands.
func BrandsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.Brands(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
