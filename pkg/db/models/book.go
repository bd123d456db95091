package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Book is the sellable catalog unit. StockQuantity is mutated only by order
// placement (decrement) and cancellation (restore); it never goes negative.
type Book struct {
	ID            uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorID      uuid.UUID      `gorm:"column:vendor_id;type:uuid;not null"`
	Title         string         `gorm:"column:title;not null"`
	Author        string         `gorm:"column:author;not null"`
	ISBN          *string        `gorm:"column:isbn"`
	Description   *string        `gorm:"column:description"`
	Categories    pq.StringArray `gorm:"column:categories;type:text[]"`
	PriceCents    int            `gorm:"column:price_cents;not null"`
	StockQuantity int            `gorm:"column:stock_quantity;not null;default:0"`
	SoldCount     int            `gorm:"column:sold_count;not null;default:0"`
	IsActive      bool           `gorm:"column:is_active;not null;default:true"`
	Vendor        *Vendor        `gorm:"foreignKey:VendorID"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
