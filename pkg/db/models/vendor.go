package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
)

// Vendor is a seller account. Only books belonging to an approved, active
// vendor are purchasable.
type Vendor struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string             `gorm:"column:name;not null"`
	Email     string             `gorm:"column:email;not null"`
	Status    enums.VendorStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	IsActive  bool               `gorm:"column:is_active;not null;default:true"`
	Books     []Book             `gorm:"foreignKey:VendorID"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

// Sellable reports whether the vendor may currently sell.
func (v Vendor) Sellable() bool {
	return v.IsActive && v.Status == enums.VendorStatusApproved
}
