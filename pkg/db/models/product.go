package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string           `gorm:"column:name;not null"`
	Description string           `gorm:"column:description;not null;default:''"`
	Category    string           `gorm:"column:category;not null;index"`
	Brand       string           `gorm:"column:brand;not null;index"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	SalePrice   *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	Rating      float64          `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount int              `gorm:"column:review_count;not null;default:0"`
	SoldCount   int              `gorm:"column:sold_count;not null;default:0"`
	InStock     bool             `gorm:"column:in_stock;not null;default:true"`
	Images      pq.StringArray   `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	Tags        pq.StringArray   `gorm:"column:tags;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive    bool             `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// EffectivePrice is the price a shopper pays: sale price when set, list
// price otherwise.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
