package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/pkg/config"
	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes the cart operations. Every mutation recomputes totals and
// persists the full snapshot before returning it.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (Snapshot, error)
	UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (Snapshot, error)
	RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) (Snapshot, error)
	ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (Snapshot, bool, error)
}

type service struct {
	store    SnapshotStore
	products productLoader
	shipping decimal.Decimal
	locks    sync.Map
}

// lockUser serializes load-modify-save cycles for one user's cart. Concurrent
// requests for different users do not contend.
func (s *service) lockUser(userID uuid.UUID) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// NewService builds a cart service backed by the snapshot store and catalog.
func NewService(store SnapshotStore, products productLoader, cfg config.CartConfig) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "snapshot store is required")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product loader is required")
	}
	shipping, err := decimal.NewFromString(cfg.ShippingFlat)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid flat shipping amount")
	}
	return &service{store: store, products: products, shipping: shipping}, nil
}

// Get loads the user's cart, falling back to an empty one.
func (s *service) Get(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	return s.load(ctx, userID)
}

// AddItem puts a product in the cart, merging with an existing line for the
// same product.
func (s *service) AddItem(ctx context.Context, userID, productID uuid.UUID, quantity int) (Snapshot, error) {
	if productID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found")
		}
		return Snapshot{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	unlock := s.lockUser(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	snap.Lines = addLine(snap.Lines, Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		SalePrice: product.SalePrice,
		Image:     image,
		Quantity:  quantity,
	})

	return s.persist(ctx, userID, snap)
}

// UpdateQuantity replaces a line's quantity; zero or negative removes it.
func (s *service) UpdateQuantity(ctx context.Context, userID, lineID uuid.UUID, quantity int) (Snapshot, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Lines = setLineQuantity(snap.Lines, lineID, quantity)
	return s.persist(ctx, userID, snap)
}

// RemoveItem drops the line; removing an absent line is a no-op.
func (s *service) RemoveItem(ctx context.Context, userID, lineID uuid.UUID) (Snapshot, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Lines = removeLine(snap.Lines, lineID)
	return s.persist(ctx, userID, snap)
}

// Clear empties the lines and resets the discount. Shipping stays as
// configured.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	snap := EmptySnapshot(s.shipping)
	if err := s.store.Save(ctx, userID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// ApplyDiscount resolves the code case-insensitively. The discount amount is
// frozen against the current subtotal; it is not re-evaluated when the cart
// changes afterwards. Unknown codes report false without touching the cart.
func (s *service) ApplyDiscount(ctx context.Context, userID uuid.UUID, code string) (Snapshot, bool, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	snap, err := s.load(ctx, userID)
	if err != nil {
		return Snapshot{}, false, err
	}

	pct, ok := LookupDiscountCode(code)
	if !ok {
		return snap, false, nil
	}

	subtotal := ComputeTotals(snap.Lines, s.shipping, decimal.Zero).Subtotal
	discount := DiscountAmount(subtotal, pct)
	normalized := normalizeCode(code)
	snap.DiscountCode = &normalized
	snap.Totals = ComputeTotals(snap.Lines, s.shipping, discount)

	if err := s.store.Save(ctx, userID, snap); err != nil {
		return Snapshot{}, false, err
	}
	return snap, true, nil
}

func (s *service) load(ctx context.Context, userID uuid.UUID) (Snapshot, error) {
	if userID == uuid.Nil {
		return Snapshot{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	snap, err := s.store.Load(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	if snap == nil {
		return EmptySnapshot(s.shipping), nil
	}
	return *snap, nil
}

// persist recomputes totals, carrying the frozen discount amount, and saves.
func (s *service) persist(ctx context.Context, userID uuid.UUID, snap Snapshot) (Snapshot, error) {
	snap.Totals = ComputeTotals(snap.Lines, s.shipping, snap.Totals.Discount)
	if err := s.store.Save(ctx, userID, snap); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}
