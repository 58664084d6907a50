package orders

import (
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
)

// PaymentConfirmation carries the gateway identifiers returned to the
// storefront after a successful Razorpay checkout.
type PaymentConfirmation struct {
	RazorpayOrderID   string `json:"razorpayOrderId" validate:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" validate:"required"`
	Signature         string `json:"signature" validate:"required"`
}

// PlaceOrderInput captures everything the checkout submits when converting
// the cart into an order.
type PlaceOrderInput struct {
	PaymentMethod enums.PaymentMethod  `json:"paymentMethod" validate:"required"`
	Payment       *PaymentConfirmation `json:"payment,omitempty"`
}

// UpdateStatusInput is the admin-side status change payload.
type UpdateStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required"`
}
