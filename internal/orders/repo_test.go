package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akashch1512/crystalreadymades.com/pkg/db/models"
	dbtypes "github.com/akashch1512/crystalreadymades.com/pkg/db/types"
	"github.com/akashch1512/crystalreadymades.com/pkg/enums"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  subtotal TEXT NOT NULL,
  discount TEXT NOT NULL DEFAULT '0',
  discount_code TEXT,
  tax TEXT NOT NULL,
  shipping TEXT NOT NULL,
  total TEXT NOT NULL,
  shipping_address TEXT NOT NULL,
  payment_method TEXT NOT NULL,
  payment_status TEXT NOT NULL DEFAULT 'pending',
  razorpay_order_id TEXT,
  razorpay_payment_id TEXT,
  tracking_number TEXT,
  cancelled_at DATETIME,
  delivered_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  name TEXT NOT NULL,
  image TEXT,
  unit_price TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  line_total TEXT NOT NULL
);`

	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(orderItems).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM order_items")
		db.Exec("DELETE FROM orders")
	})

	return db
}

func mustDec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func seedOrder(t *testing.T, userID uuid.UUID, status enums.OrderStatus, createdAt time.Time) *models.Order {
	t.Helper()
	return &models.Order{
		ID:       uuid.New(),
		UserID:   userID,
		Status:   status,
		Subtotal: mustDec(t, "40.00"),
		Discount: decimal.Zero,
		Tax:      mustDec(t, "3.20"),
		Shipping: mustDec(t, "9.99"),
		Total:    mustDec(t, "53.19"),
		ShippingAddress: dbtypes.AddressSnapshot{
			Name:       "Asha Rao",
			Phone:      "+919800000001",
			Line1:      "12 Lotus Lane",
			City:       "Pune",
			State:      "MH",
			PostalCode: "411001",
			Country:    "IN",
		},
		PaymentMethod: enums.PaymentMethodCashOnDelivery,
		PaymentStatus: enums.PaymentStatusPending,
		Items: []models.OrderItem{
			{
				ID:        uuid.New(),
				ProductID: uuid.New(),
				Name:      "Amethyst Cluster",
				UnitPrice: mustDec(t, "20.00"),
				Quantity:  2,
				LineTotal: mustDec(t, "40.00"),
			},
		},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func TestOrdersRepositoryCreateAndFind(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	order := seedOrder(t, userID, enums.OrderStatusPending, time.Now().UTC())
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, userID, found.UserID)
	assert.Equal(t, enums.OrderStatusPending, found.Status)
	assert.True(t, found.Total.Equal(mustDec(t, "53.19")))
	assert.Equal(t, "Pune", found.ShippingAddress.City)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Amethyst Cluster", found.Items[0].Name)
	assert.Equal(t, 2, found.Items[0].Quantity)
}

func TestOrdersRepositoryFindByIDMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrdersRepositoryListByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Now().UTC().Add(-time.Hour)
	older := seedOrder(t, userID, enums.OrderStatusDelivered, base)
	newer := seedOrder(t, userID, enums.OrderStatusPending, base.Add(30*time.Minute))
	stranger := seedOrder(t, uuid.New(), enums.OrderStatusPending, base.Add(10*time.Minute))

	for _, o := range []*models.Order{older, newer, stranger} {
		_, err := repo.Create(ctx, o)
		require.NoError(t, err)
	}

	rows, err := repo.ListByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, newer.ID, rows[0].ID)
	assert.Equal(t, older.ID, rows[1].ID)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestOrdersRepositorySaveUpdatesStatus(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, uuid.New(), enums.OrderStatusPending, time.Now().UTC())
	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	trk := "TRK12345678"
	created.Status = enums.OrderStatusShipped
	created.TrackingNumber = &trk
	_, err = repo.Save(ctx, created)
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, found.Status)
	require.NotNil(t, found.TrackingNumber)
	assert.Equal(t, trk, *found.TrackingNumber)
}
