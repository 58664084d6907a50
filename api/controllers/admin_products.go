package controllers

import (
	"net/http"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/akashch1512/crystalreadymades.com/api/responses"
	"github.com/akashch1512/crystalreadymades.com/api/validators"
	"github.com/akashch1512/crystalreadymades.com/internal/catalog"
	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
)

type productPayload struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category" validate:"required"`
	Brand       string   `json:"brand,omitempty"`
	Price       string   `json:"price" validate:"required"`
	SalePrice   *string  `json:"salePrice,omitempty"`
	InStock     bool     `json:"inStock"`
	Images      []string `json:"images,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (p productPayload) toModel() (*models.Product, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be a number")
	}
	product := &models.Product{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       price,
		InStock:     p.InStock,
		Images:      pq.StringArray(p.Images),
		Tags:        pq.StringArray(p.Tags),
		IsActive:    true,
	}
	if p.SalePrice != nil {
		sale, err := decimal.NewFromString(*p.SalePrice)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "salePrice must be a number")
		}
		product.SalePrice = &sale
	}
	return product, nil
}

// AdminProductCreate lists a new catalog product.
func AdminProductCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := payload.toModel()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, err := svc.CreateProduct(ctx, product)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminProductUpdate rewrites an existing listing.
func AdminProductUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload productPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product, err := payload.toModel()
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		product.ID = productID

		updated, err := svc.UpdateProduct(ctx, product)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// AdminProductDelete delists a product without touching order history.
func AdminProductDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := parseUUIDParam(r, "productID")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteProduct(ctx, productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
