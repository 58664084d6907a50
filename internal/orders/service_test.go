package orders

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/internal/cart"
	"github.com/akashch1512/crystalreadymades.com/internal/notifications"
	"github.com/akashch1512/crystalreadymades.com/pkg/auth"
	"github.com/akashch1512/crystalreadymades.com/pkg/config"
	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
	"github.com/akashch1512/crystalreadymades.com/pkg/razorpay"
)

type fakeOrderRepo struct {
	byID   map[uuid.UUID]*models.Order
	saved  []*models.Order
	listed []models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{byID: map[uuid.UUID]*models.Order{}}
}

func (f *fakeOrderRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	for i := range order.Items {
		if order.Items[i].ID == uuid.Nil {
			order.Items[i].ID = uuid.New()
		}
		order.Items[i].OrderID = order.ID
	}
	f.byID[order.ID] = order
	return order, nil
}

func (f *fakeOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.byID {
		if order.UserID == userID {
			rows = append(rows, *order)
		}
	}
	return rows, nil
}

func (f *fakeOrderRepo) ListAll(ctx context.Context) ([]models.Order, error) {
	var rows []models.Order
	for _, order := range f.byID {
		rows = append(rows, *order)
	}
	return rows, nil
}

func (f *fakeOrderRepo) Save(ctx context.Context, order *models.Order) (*models.Order, error) {
	f.byID[order.ID] = order
	f.saved = append(f.saved, order)
	return order, nil
}

type fakeCartManager struct {
	snap    cart.Snapshot
	cleared int
}

func (f *fakeCartManager) Get(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeCartManager) Clear(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error) {
	f.cleared++
	f.snap = cart.EmptySnapshot(f.snap.Totals.Shipping)
	return f.snap, nil
}

type fakeAddressProvider struct {
	addr *models.Address
}

func (f *fakeAddressProvider) DefaultOrFirst(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	return f.addr, nil
}

type fakeFeed struct {
	added []notifications.AddInput
}

func (f *fakeFeed) Add(ctx context.Context, input notifications.AddInput) (*models.Notification, error) {
	f.added = append(f.added, input)
	return &models.Notification{ID: uuid.New(), UserID: input.UserID}, nil
}

type fakeGateway struct {
	verifyResult bool
	created      []razorpay.CreateOrderRequest
}

func (f *fakeGateway) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error) {
	f.created = append(f.created, req)
	return &razorpay.Order{ID: "order_test123", Amount: req.Amount, Currency: req.Currency}, nil
}

func (f *fakeGateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return f.verifyResult
}

type fakeTxRunner struct{}

func (fakeTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func fixtureSnapshot() cart.Snapshot {
	snap := cart.Snapshot{
		Lines: []cart.Line{
			{
				ID:        uuid.New(),
				ProductID: uuid.New(),
				Name:      "Amethyst Cluster",
				UnitPrice: dec("20.00"),
				Image:     "https://cdn.example.com/amethyst.jpg",
				Quantity:  2,
			},
		},
	}
	snap.Totals = cart.ComputeTotals(snap.Lines, dec("9.99"), decimal.Zero)
	return snap
}

func fixtureAddress(userID uuid.UUID) *models.Address {
	return &models.Address{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       "Asha Rao",
		Phone:      "+919800000001",
		Line1:      "12 Lotus Lane",
		City:       "Pune",
		State:      "MH",
		PostalCode: "411001",
		Country:    "IN",
	}
}

type orderFixtures struct {
	repo    *fakeOrderRepo
	carts   *fakeCartManager
	addrs   *fakeAddressProvider
	feed    *fakeFeed
	gateway *fakeGateway
	svc     Service
}

func newOrderService(t *testing.T) *orderFixtures {
	t.Helper()
	f := &orderFixtures{
		repo:    newFakeOrderRepo(),
		carts:   &fakeCartManager{snap: fixtureSnapshot()},
		addrs:   &fakeAddressProvider{},
		feed:    &fakeFeed{},
		gateway: &fakeGateway{verifyResult: true},
	}
	svc, err := NewService(
		f.repo,
		fakeTxRunner{},
		f.carts,
		f.addrs,
		f.feed,
		f.gateway,
		config.RazorpayConfig{Currency: "INR"},
		logger.New(logger.Options{ServiceName: "orders-test"}),
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	f.svc = svc
	return f
}

func TestPlaceOrderCopiesCartAndClearsIt(t *testing.T) {
	f := newOrderService(t)
	userID := uuid.New()
	f.addrs.addr = fixtureAddress(userID)
	actor := auth.Actor{UserID: userID, Role: enums.UserRoleCustomer}

	order, err := f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
	})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if order.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", order.Status)
	}
	if order.PaymentStatus != enums.PaymentStatusPending {
		t.Fatalf("expected pending payment for COD, got %s", order.PaymentStatus)
	}
	if len(order.Items) != 1 {
		t.Fatalf("expected 1 order item, got %d", len(order.Items))
	}
	item := order.Items[0]
	if item.Name != "Amethyst Cluster" || item.Quantity != 2 {
		t.Fatalf("unexpected frozen item: %+v", item)
	}
	if !item.LineTotal.Equal(dec("40.00")) {
		t.Fatalf("expected line total 40.00, got %s", item.LineTotal)
	}
	if !order.Total.Equal(dec("53.19")) {
		t.Fatalf("expected total 53.19, got %s", order.Total)
	}
	if order.ShippingAddress.City != "Pune" {
		t.Fatalf("expected shipping address snapshot, got %+v", order.ShippingAddress)
	}
	if f.carts.cleared != 1 {
		t.Fatalf("expected cart cleared once, got %d", f.carts.cleared)
	}
	if len(f.feed.added) != 1 || f.feed.added[0].Type != enums.NotificationTypeOrder {
		t.Fatalf("expected one order notification, got %+v", f.feed.added)
	}
	if !strings.Contains(f.feed.added[0].Message, "has been placed") {
		t.Fatalf("unexpected notification message %q", f.feed.added[0].Message)
	}
}

func TestPlaceOrderRequiresCartAndAddress(t *testing.T) {
	f := newOrderService(t)
	userID := uuid.New()
	actor := auth.Actor{UserID: userID, Role: enums.UserRoleCustomer}

	// No address saved yet.
	_, err := f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{PaymentMethod: enums.PaymentMethodCashOnDelivery})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without address, got %v", err)
	}

	// Empty cart.
	f.addrs.addr = fixtureAddress(userID)
	f.carts.snap = cart.EmptySnapshot(dec("9.99"))
	_, err = f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{PaymentMethod: enums.PaymentMethodCashOnDelivery})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestPlaceOrderRazorpayVerification(t *testing.T) {
	f := newOrderService(t)
	userID := uuid.New()
	f.addrs.addr = fixtureAddress(userID)
	actor := auth.Actor{UserID: userID, Role: enums.UserRoleCustomer}

	// Missing confirmation payload.
	_, err := f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{PaymentMethod: enums.PaymentMethodRazorpay})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without confirmation, got %v", err)
	}

	// Bad signature.
	f.gateway.verifyResult = false
	conf := &PaymentConfirmation{RazorpayOrderID: "order_1", RazorpayPaymentID: "pay_1", Signature: "bad"}
	_, err = f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{PaymentMethod: enums.PaymentMethodRazorpay, Payment: conf})
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad signature, got %v", err)
	}

	// Verified payment is recorded as paid.
	f.gateway.verifyResult = true
	order, err := f.svc.PlaceOrder(context.Background(), actor, PlaceOrderInput{PaymentMethod: enums.PaymentMethodRazorpay, Payment: conf})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if order.PaymentStatus != enums.PaymentStatusPaid {
		t.Fatalf("expected paid payment status, got %s", order.PaymentStatus)
	}
	if order.RazorpayPaymentID == nil || *order.RazorpayPaymentID != "pay_1" {
		t.Fatalf("expected payment id recorded, got %v", order.RazorpayPaymentID)
	}
}

func TestCreatePaymentOrderConvertsTotalToPaise(t *testing.T) {
	f := newOrderService(t)
	actor := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}

	gw, err := f.svc.CreatePaymentOrder(context.Background(), actor)
	if err != nil {
		t.Fatalf("CreatePaymentOrder returned error: %v", err)
	}
	if gw.ID != "order_test123" {
		t.Fatalf("unexpected gateway order %+v", gw)
	}
	if len(f.gateway.created) != 1 {
		t.Fatalf("expected one gateway call, got %d", len(f.gateway.created))
	}
	// 40.00 + 3.20 tax + 9.99 shipping = 53.19 rupees.
	if got := f.gateway.created[0].Amount; got != 5319 {
		t.Fatalf("expected 5319 paise, got %d", got)
	}
}

func TestCancelOrderOwnershipAndState(t *testing.T) {
	f := newOrderService(t)
	owner := uuid.New()
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID: owner,
		Status: enums.OrderStatusPending,
	})

	// A stranger sees not-found, not forbidden.
	stranger := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleCustomer}
	_, err := f.svc.CancelOrder(context.Background(), stranger, order.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found for stranger, got %v", err)
	}

	cancelled, err := f.svc.CancelOrder(context.Background(), auth.Actor{UserID: owner, Role: enums.UserRoleCustomer}, order.ID)
	if err != nil {
		t.Fatalf("CancelOrder returned error: %v", err)
	}
	if cancelled.Status != enums.OrderStatusCancelled || cancelled.CancelledAt == nil {
		t.Fatalf("expected cancelled order, got %+v", cancelled)
	}

	// Cancelling again conflicts.
	_, err = f.svc.CancelOrder(context.Background(), auth.Actor{UserID: owner, Role: enums.UserRoleCustomer}, order.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict on double cancel, got %v", err)
	}
}

func TestCancelOrderRejectedAfterShipping(t *testing.T) {
	f := newOrderService(t)
	owner := uuid.New()
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID: owner,
		Status: enums.OrderStatusShipped,
	})

	_, err := f.svc.CancelOrder(context.Background(), auth.Actor{UserID: owner, Role: enums.UserRoleCustomer}, order.ID)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for shipped order, got %v", err)
	}
}

func TestUpdateStatusAdminOnlyTransitions(t *testing.T) {
	f := newOrderService(t)
	owner := uuid.New()
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID: owner,
		Status: enums.OrderStatusPending,
	})
	admin := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	_, err := f.svc.UpdateStatus(context.Background(), auth.Actor{UserID: owner, Role: enums.UserRoleCustomer}, order.ID, enums.OrderStatusProcessing)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for non-admin, got %v", err)
	}

	// pending cannot jump straight to delivered.
	_, err = f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusDelivered)
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict for skipped step, got %v", err)
	}

	updated, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusProcessing)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.Status != enums.OrderStatusProcessing {
		t.Fatalf("expected processing, got %s", updated.Status)
	}
	if !strings.Contains(f.feed.added[len(f.feed.added)-1].Message, "is now being processed") {
		t.Fatalf("unexpected notification %q", f.feed.added[len(f.feed.added)-1].Message)
	}
}

func TestUpdateStatusShippedAssignsTracking(t *testing.T) {
	f := newOrderService(t)
	order, _ := f.repo.Create(context.Background(), &models.Order{
		UserID: uuid.New(),
		Status: enums.OrderStatusProcessing,
	})
	admin := auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}

	updated, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusShipped)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if updated.TrackingNumber == nil {
		t.Fatal("expected tracking number on shipped order")
	}
	if !regexp.MustCompile(`^TRK\d{8}$`).MatchString(*updated.TrackingNumber) {
		t.Fatalf("unexpected tracking number %q", *updated.TrackingNumber)
	}

	delivered, err := f.svc.UpdateStatus(context.Background(), admin, order.ID, enums.OrderStatusDelivered)
	if err != nil {
		t.Fatalf("UpdateStatus returned error: %v", err)
	}
	if delivered.DeliveredAt == nil {
		t.Fatal("expected delivered timestamp")
	}
}

func TestListOrdersScopesByRole(t *testing.T) {
	f := newOrderService(t)
	owner := uuid.New()
	other := uuid.New()
	f.repo.Create(context.Background(), &models.Order{UserID: owner, Status: enums.OrderStatusPending})
	f.repo.Create(context.Background(), &models.Order{UserID: other, Status: enums.OrderStatusPending})

	mine, err := f.svc.ListOrders(context.Background(), auth.Actor{UserID: owner, Role: enums.UserRoleCustomer})
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 own order, got %d", len(mine))
	}

	all, err := f.svc.ListOrders(context.Background(), auth.Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin})
	if err != nil {
		t.Fatalf("ListOrders returned error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders for admin, got %d", len(all))
	}
}
