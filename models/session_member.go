package models

import "time"

// SessionMember links a guest to a table session. The (session, guest) pair
// is unique; re-joining is a no-op on the existing row.
type SessionMember struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	SessionID uint         `gorm:"not null;uniqueIndex:idx_session_guest" json:"session_id"`
	Session   TableSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	GuestID   uint         `gorm:"not null;uniqueIndex:idx_session_guest" json:"guest_id"`
	Guest     Guest        `gorm:"foreignKey:GuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	JoinedAt  time.Time    `gorm:"not null" json:"joined_at"`
}
