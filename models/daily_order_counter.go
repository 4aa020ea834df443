package models

import "time"

// DailyOrderCounter backs the human-facing display number: one row per
// (table, calendar day), bumped with an atomic increment inside the order
// transaction.
type DailyOrderCounter struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	TableID    uint      `gorm:"not null;uniqueIndex:idx_table_day" json:"table_id"`
	OrderDay   string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_table_day" json:"order_day"`
	LastNumber int       `gorm:"not null;default:0" json:"last_number"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
