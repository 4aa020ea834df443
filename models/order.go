package models

import "time"

const (
	OrderPending       = "pending"
	OrderConfirmed     = "confirmed"
	OrderInPreparation = "in_preparation"
	OrderReady         = "ready"
	OrderDelivered     = "delivered"
	OrderFinalized     = "finalized"
	OrderCancelled     = "cancelled"
)

// Order is created only through the order submission transaction. Every
// monetary field is computed server-side from catalog prices at submission
// time; client-sent amounts are never trusted.
type Order struct {
	ID            uint         `gorm:"primaryKey" json:"id"`
	SessionID     uint         `gorm:"not null;index" json:"session_id"`
	Session       TableSession `gorm:"foreignKey:SessionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	DisplayNumber int          `gorm:"not null" json:"display_number"`
	Status        string       `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Subtotal      float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"subtotal"`
	Tax           float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax"`
	Discount      float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"discount"`
	Total         float64      `gorm:"type:decimal(10,2);not null;default:0.00" json:"total"`
	CustomerNote  string       `gorm:"type:text" json:"customer_note"`
	KitchenNote   string       `gorm:"type:text" json:"kitchen_note"`
	Items         []OrderItem  `gorm:"foreignKey:OrderID" json:"items"`

	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	PreparingAt *time.Time `json:"preparing_at,omitempty"`
	ReadyAt     *time.Time `json:"ready_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	FinalizedAt *time.Time `json:"finalized_at,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsTerminal reports whether the order can no longer change state.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderFinalized || o.Status == OrderCancelled
}
