package wishlist

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes business rules for wishlist management.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Entry, error)
	Add(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error)
	Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

type service struct {
	store    SnapshotStore
	products productLoader
}

// NewService builds a wishlist service with the required dependencies.
func NewService(store SnapshotStore, products productLoader) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	return &service{store: store, products: products}, nil
}

// List returns the user's wishlist entries.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return s.store.Load(ctx, userID)
}

// Add ensures the product exists and inserts it once. Adding an already
// wished product is a no-op.
func (s *service) Add(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return entries, nil
		}
	}
	entries = append(entries, Entry{ID: uuid.New(), ProductID: productID})
	if err := s.store.Save(ctx, userID, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Remove drops the entry regardless of prior state.
func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) ([]Entry, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	entries, err := s.store.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	kept := entries[:0]
	for _, entry := range entries {
		if entry.ProductID != productID {
			kept = append(kept, entry)
		}
	}
	if err := s.store.Save(ctx, userID, kept); err != nil {
		return nil, err
	}
	return kept, nil
}

// Contains reports whether the product is on the user's wishlist.
func (s *service) Contains(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, entry := range entries {
		if entry.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}
