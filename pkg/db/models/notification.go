package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eyad6789/book-store-platfotms-sub000/pkg/enums"
)

// Notification is the fan-out record produced by the worker when it consumes
// order events. It never feeds back into order state.
type Notification struct {
	ID         uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID              `gorm:"column:user_id;type:uuid;not null"`
	Kind       enums.NotificationKind `gorm:"column:kind;type:text;not null"`
	Title      string                 `gorm:"column:title;not null"`
	Body       string                 `gorm:"column:body;not null"`
	OrderID    *uuid.UUID             `gorm:"column:order_id;type:uuid"`
	DedupeKey  *string                `gorm:"column:dedupe_key;uniqueIndex:ux_notifications_dedupe_key"`
	ReadAt     *time.Time             `gorm:"column:read_at"`
	CreatedAt  time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
