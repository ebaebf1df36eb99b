package models

import (
	"time"

	"dispend/internal/uuid"

	"gorm.io/gorm"
)

// Layouts for the string-encoded temporal columns. Timestamps carry a fixed
// millisecond precision so that string order matches chronological order.
const (
	TimestampLayout = "2006-01-02T15:04:05.000Z"
	DateLayout      = "2006-01-02"
)

// Timestamp formats t as a UTC ISO-8601 timestamp.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Date formats t as a calendar date in t's own location.
func Date(t time.Time) string {
	return t.Format(DateLayout)
}

// Base contains common columns for all tables
type Base struct {
	ID        string `gorm:"primaryKey" json:"id"`
	CreatedAt string `gorm:"not null" json:"createdAt"`
}

// BeforeCreate hook generates a UUIDv7 and creation timestamp for new records
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New()
	}
	if b.CreatedAt == "" {
		b.CreatedAt = Timestamp(time.Now())
	}
	return nil
}
