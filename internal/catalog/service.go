package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/pkg/config"
	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
	"github.com/akashch1512/crystalreadymades.com/pkg/pagination"
)

type source interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

// Service serves browse/search traffic from an in-memory catalog snapshot
// that is refreshed from the repository.
type Service interface {
	Refresh(ctx context.Context) error
	ListProducts(ctx context.Context, filter Filter, sortKey SortKey, params pagination.Params) (pagination.Page[models.Product], error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	Brands(ctx context.Context) ([]models.Brand, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type snapshot struct {
	products   []models.Product
	categories []models.Category
	brands     []models.Brand
	loadedAt   time.Time
}

type service struct {
	repo source
	logg *logger.Logger

	attempts int
	delay    time.Duration

	mu    sync.RWMutex
	cache *snapshot
}

// NewService builds a catalog service with an empty cache. Callers normally
// invoke Refresh once during startup.
func NewService(repo source, cfg config.CatalogConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "catalog repository is required")
	}
	attempts := cfg.RetryAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &service{
		repo:     repo,
		logg:     logg,
		attempts: attempts,
		delay:    cfg.RetryDelay,
	}, nil
}

// Refresh reloads the snapshot with a bounded fixed-delay retry. The delay
// does not grow between attempts.
func (s *service) Refresh(ctx context.Context) error {
	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		snap, err := s.fetch(ctx)
		if err == nil {
			s.mu.Lock()
			s.cache = snap
			s.mu.Unlock()
			return nil
		}
		lastErr = err
		if s.logg != nil {
			attemptCtx := s.logg.WithFields(ctx, map[string]any{"attempt": attempt, "error": err.Error()})
			s.logg.Warn(attemptCtx, "catalog refresh failed")
		}
		if attempt == s.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, "catalog refresh exhausted retries")
}

// fetch loads all three collections, aggregating failures so one refresh
// attempt reports everything that went wrong.
func (s *service) fetch(ctx context.Context) (*snapshot, error) {
	var errs error

	products, err := s.repo.ListActive(ctx)
	errs = multierr.Append(errs, err)

	categories, err := s.repo.ListCategories(ctx)
	errs = multierr.Append(errs, err)

	brands, err := s.repo.ListBrands(ctx)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return nil, errs
	}
	return &snapshot{
		products:   products,
		categories: categories,
		brands:     brands,
		loadedAt:   time.Now().UTC(),
	}, nil
}

// ListProducts filters, sorts and paginates the cached product list.
func (s *service) ListProducts(ctx context.Context, filter Filter, sortKey SortKey, params pagination.Params) (pagination.Page[models.Product], error) {
	snap, err := s.current(ctx)
	if err != nil {
		return pagination.Page[models.Product]{}, err
	}

	matched := SortProducts(FilterProducts(snap.products, filter), sortKey)
	params = params.Normalize()

	total := int64(len(matched))
	start := params.Offset
	if start > len(matched) {
		start = len(matched)
	}
	end := start + params.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return pagination.NewPage(matched[start:end], total, params), nil
}

// SearchProducts runs the OR-term substring search over the cached list.
func (s *service) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return SearchProducts(snap.products, query), nil
}

// GetProduct prefers the cache and falls back to the repository so a fresh
// listing is reachable before the next refresh.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.RLock()
	snap := s.cache
	s.mu.RUnlock()
	if snap != nil {
		for i := range snap.products {
			if snap.products[i].ID == id {
				product := snap.products[i]
				return &product, nil
			}
		}
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

// Categories returns the cached category list.
func (s *service) Categories(ctx context.Context) ([]models.Category, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.categories, nil
}

// Brands returns the cached brand list.
func (s *service) Brands(ctx context.Context) ([]models.Brand, error) {
	snap, err := s.current(ctx)
	if err != nil {
		return nil, err
	}
	return snap.brands, nil
}

// CreateProduct lists a new product and invalidates the snapshot so the
// next read sees it.
func (s *service) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil || product.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.invalidate()
	return created, nil
}

// UpdateProduct rewrites a listing and invalidates the snapshot.
func (s *service) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product == nil || product.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	s.invalidate()
	return updated, nil
}

// DeleteProduct delists a product. Placed orders keep their frozen copy.
func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	s.invalidate()
	return nil
}

func (s *service) invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// current returns the snapshot, loading it on first use.
func (s *service) current(ctx context.Context) (*snapshot, error) {
	s.mu.RLock()
	snap := s.cache
	s.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cache, nil
}
