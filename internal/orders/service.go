package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/internal/cart"
	"github.com/akashch1512/crystalreadymades.com/internal/notifications"
	"github.com/akashch1512/crystalreadymades.com/pkg/auth"
	"github.com/akashch1512/crystalreadymades.com/pkg/config"
	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	dbtypes "github.com/akashch1512/crystalreadymades.com/pkg/db/types"
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
	pkgerrors "github.com/akashch1512/crystalreadymades.com/pkg/errors"
	"github.com/akashch1512/crystalreadymades.com/pkg/logger"
	"github.com/akashch1512/crystalreadymades.com/pkg/razorpay"
)

// paiseFactor converts rupee totals into the gateway's paise amounts.
var paiseFactor = decimal.NewFromInt(100)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartManager interface {
	Get(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error)
	Clear(ctx context.Context, userID uuid.UUID) (cart.Snapshot, error)
}

type addressProvider interface {
	DefaultOrFirst(ctx context.Context, userID uuid.UUID) (*models.Address, error)
}

type feedAppender interface {
	Add(ctx context.Context, input notifications.AddInput) (*models.Notification, error)
}

type paymentGateway interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

// Service drives the order lifecycle: placement, payment, status changes
// and the shopper/admin read paths.
type Service interface {
	PlaceOrder(ctx context.Context, actor auth.Actor, input PlaceOrderInput) (*models.Order, error)
	CreatePaymentOrder(ctx context.Context, actor auth.Actor) (*razorpay.Order, error)
	GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, actor auth.Actor) ([]models.Order, error)
	CancelOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	carts     cartManager
	addresses addressProvider
	feed      feedAppender
	gateway   paymentGateway
	currency  string
	logg      *logger.Logger
}

// NewService validates the wiring and returns the order service.
func NewService(
	repo Repository,
	tx txRunner,
	carts cartManager,
	addresses addressProvider,
	feed feedAppender,
	gateway paymentGateway,
	cfg config.RazorpayConfig,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository is required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart manager is required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address provider is required")
	}
	if feed == nil {
		return nil, fmt.Errorf("notification feed is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	return &service{
		repo:      repo,
		tx:        tx,
		carts:     carts,
		addresses: addresses,
		feed:      feed,
		gateway:   gateway,
		currency:  currency,
		logg:      logg,
	}, nil
}

func (s *service) PlaceOrder(ctx context.Context, actor auth.Actor, input PlaceOrderInput) (*models.Order, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to place an order")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported payment method")
	}

	snap, err := s.carts.Get(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(snap.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	addr, err := s.addresses.DefaultOrFirst(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if addr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "add a shipping address before checkout")
	}

	paymentStatus := enums.PaymentStatusPending
	var rzpOrderID, rzpPaymentID *string
	if input.PaymentMethod == enums.PaymentMethodRazorpay {
		conf := input.Payment
		if conf == nil || conf.RazorpayOrderID == "" || conf.RazorpayPaymentID == "" || conf.Signature == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment confirmation is required for razorpay orders")
		}
		if !s.gateway.VerifyPaymentSignature(conf.RazorpayOrderID, conf.RazorpayPaymentID, conf.Signature) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment signature verification failed")
		}
		paymentStatus = enums.PaymentStatusPaid
		rzpOrderID = &conf.RazorpayOrderID
		rzpPaymentID = &conf.RazorpayPaymentID
	}

	order := &models.Order{
		UserID:            actor.UserID,
		Status:            enums.OrderStatusPending,
		Items:             itemsFromCart(snap.Lines),
		Subtotal:          snap.Totals.Subtotal,
		Discount:          snap.Totals.Discount,
		DiscountCode:      snap.DiscountCode,
		Tax:               snap.Totals.Tax,
		Shipping:          snap.Totals.Shipping,
		Total:             snap.Totals.Total,
		ShippingAddress:   snapshotAddress(addr),
		PaymentMethod:     input.PaymentMethod,
		PaymentStatus:     paymentStatus,
		RazorpayOrderID:   rzpOrderID,
		RazorpayPaymentID: rzpPaymentID,
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := s.repo.WithTx(tx).Create(ctx, order)
		if err != nil {
			return err
		}
		order = created
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
	}

	if _, err := s.carts.Clear(ctx, actor.UserID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "clearing cart after checkout failed")
	}
	s.notify(ctx, order, "Order placed", fmt.Sprintf("Your order #%s has been placed.", shortOrderID(order.ID)))

	return order, nil
}

func (s *service) CreatePaymentOrder(ctx context.Context, actor auth.Actor) (*razorpay.Order, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in to start checkout")
	}
	snap, err := s.carts.Get(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(snap.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	amount := snap.Totals.Total.Mul(paiseFactor).Round(0).IntPart()
	return s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  fmt.Sprintf("cart_%s", shortOrderID(actor.UserID)),
	})
}

func (s *service) GetOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findForActor(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *service) ListOrders(ctx context.Context, actor auth.Actor) ([]models.Order, error) {
	var (
		rows []models.Order
		err  error
	)
	if actor.IsAdmin() {
		rows, err = s.repo.ListAll(ctx)
	} else {
		rows, err = s.repo.ListByUser(ctx, actor.UserID)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if rows == nil {
		rows = []models.Order{}
	}
	return rows, nil
}

func (s *service) CancelOrder(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.findForActor(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(enums.OrderStatusCancelled) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("a %s order cannot be cancelled", order.Status))
	}
	now := time.Now().UTC()
	order.Status = enums.OrderStatusCancelled
	order.CancelledAt = &now
	if order, err = s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}
	s.notify(ctx, order, "Order update", statusMessage(order))
	return order, nil
}

func (s *service) UpdateStatus(ctx context.Context, actor auth.Actor, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if !actor.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can change order status")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, status))
	}

	now := time.Now().UTC()
	order.Status = status
	switch status {
	case enums.OrderStatusShipped:
		if order.TrackingNumber == nil {
			trk := generateTrackingNumber()
			order.TrackingNumber = &trk
		}
	case enums.OrderStatusDelivered:
		order.DeliveredAt = &now
	case enums.OrderStatusCancelled:
		order.CancelledAt = &now
	}

	if order, err = s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}
	s.notify(ctx, order, "Order update", statusMessage(order))
	return order, nil
}

// findForActor loads an order and hides other shoppers' orders behind a
// not-found so the ID space is not probeable.
func (s *service) findForActor(ctx context.Context, actor auth.Actor, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOrDependency(err)
	}
	if !actor.IsAdmin() && order.UserID != actor.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return order, nil
}

func (s *service) notify(ctx context.Context, order *models.Order, title, message string) {
	orderID := order.ID
	if _, err := s.feed.Add(ctx, notifications.AddInput{
		UserID:  order.UserID,
		Type:    enums.NotificationTypeOrder,
		Title:   title,
		Message: message,
		OrderID: &orderID,
	}); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "order_id", order.ID.String()), "appending order notification failed")
	}
}

func notFoundOrDependency(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
}

func itemsFromCart(lines []cart.Line) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		var image *string
		if line.Image != "" {
			img := line.Image
			image = &img
		}
		unit := line.EffectivePrice()
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Image:     image,
			UnitPrice: unit,
			Quantity:  line.Quantity,
			LineTotal: unit.Mul(decimal.NewFromInt(int64(line.Quantity))),
		})
	}
	return items
}

func snapshotAddress(addr *models.Address) dbtypes.AddressSnapshot {
	var line2 string
	if addr.Line2 != nil {
		line2 = *addr.Line2
	}
	return dbtypes.AddressSnapshot{
		Name:       addr.Name,
		Phone:      addr.Phone,
		Line1:      addr.Line1,
		Line2:      line2,
		City:       addr.City,
		State:      addr.State,
		PostalCode: addr.PostalCode,
		Country:    addr.Country,
	}
}

func statusMessage(order *models.Order) string {
	short := shortOrderID(order.ID)
	switch order.Status {
	case enums.OrderStatusProcessing:
		return fmt.Sprintf("Your order #%s is now being processed.", short)
	case enums.OrderStatusShipped:
		if order.TrackingNumber != nil {
			return fmt.Sprintf("Your order #%s has been shipped. Tracking number: %s.", short, *order.TrackingNumber)
		}
		return fmt.Sprintf("Your order #%s has been shipped.", short)
	case enums.OrderStatusDelivered:
		return fmt.Sprintf("Your order #%s has been delivered.", short)
	case enums.OrderStatusCancelled:
		return fmt.Sprintf("Your order #%s has been cancelled.", short)
	default:
		return fmt.Sprintf("Your order #%s was updated.", short)
	}
}

func shortOrderID(id uuid.UUID) string {
	return id.String()[:8]
}

func generateTrackingNumber() string {
	return fmt.Sprintf("TRK%08d", rand.Intn(100000000))
}
