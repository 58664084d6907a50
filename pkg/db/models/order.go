package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/akashch1512/crystalreadymades.com/pkg/db/types"
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
)

// Order is a placed order with its frozen totals and shipping snapshot.
type Order struct {
	ID                uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID            uuid.UUID               `gorm:"type:uuid;not null;index"`
	Status            enums.OrderStatus       `gorm:"column:status;type:text;not null;default:'pending'"`
	Items             []OrderItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Subtotal          decimal.Decimal         `gorm:"column:subtotal;type:numeric(12,2);not null"`
	Discount          decimal.Decimal         `gorm:"column:discount;type:numeric(12,2);not null;default:0"`
	DiscountCode      *string                 `gorm:"column:discount_code"`
	Tax               decimal.Decimal         `gorm:"column:tax;type:numeric(12,2);not null"`
	Shipping          decimal.Decimal         `gorm:"column:shipping;type:numeric(12,2);not null"`
	Total             decimal.Decimal         `gorm:"column:total;type:numeric(12,2);not null"`
	ShippingAddress   dbtypes.AddressSnapshot `gorm:"column:shipping_address;type:jsonb;not null"`
	PaymentMethod     enums.PaymentMethod     `gorm:"column:payment_method;type:text;not null"`
	PaymentStatus     enums.PaymentStatus     `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	RazorpayOrderID   *string                 `gorm:"column:razorpay_order_id"`
	RazorpayPaymentID *string                 `gorm:"column:razorpay_payment_id"`
	TrackingNumber    *string                 `gorm:"column:tracking_number"`
	CancelledAt       *time.Time              `gorm:"column:cancelled_at"`
	DeliveredAt       *time.Time              `gorm:"column:delivered_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
