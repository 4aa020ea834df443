package models

import "time"

// Guest is a loose diner identity, keyed by a contact string rather than a
// durable account. Created on first join and reused on every visit after.
type Guest struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Contact     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"contact"`
	DisplayName string    `gorm:"type:varchar(255);not null" json:"display_name"`
	LastSeenAt  time.Time `gorm:"not null" json:"last_seen_at"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
