package models

import "time"

const (
	SessionActive   = "active"
	SessionInactive = "inactive"
	SessionClosed   = "closed"
	SessionExpired  = "expired"
)

// TableSession is the shared dining context for one table. Every guest who
// joins the table while the session is active receives the same token.
// At most one session per table may be active at any instant; sessions are
// never deleted, only transitioned to closed/expired.
type TableSession struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TableID         uint       `gorm:"not null;index" json:"table_id"`
	Table           Table      `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	CreatedByID     uint       `gorm:"not null" json:"created_by_id"`
	CreatedBy       Guest      `gorm:"foreignKey:CreatedByID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Token           string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"session_token"`
	Status          string     `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	// ActiveTableID mirrors TableID while the session is non-terminal and
	// becomes NULL on close/expire. The unique index on it is what makes a
	// second concurrent session for the same table impossible: the losing
	// insert fails with a duplicate key instead of slipping through.
	ActiveTableID   *uint      `gorm:"uniqueIndex" json:"-"`
	StartedAt       time.Time  `gorm:"not null" json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	DurationMinutes int        `gorm:"not null" json:"duration_minutes"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}

// Deadline is the instant the session becomes eligible for expiration.
func (s *TableSession) Deadline() time.Time {
	return s.StartedAt.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// IsTerminal reports whether the session reached a final state.
func (s *TableSession) IsTerminal() bool {
	return s.Status == SessionClosed || s.Status == SessionExpired
}
