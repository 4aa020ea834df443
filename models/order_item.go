package models

import "time"

type OrderItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	OrderID uint `gorm:"not null;index" json:"order_id"`
	// Omitting Order field from JSON to avoid recursive nesting
	Order     Order   `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	// UnitPrice and OptionsTotal are captured at order time and stay fixed
	// even if the catalog price changes later.
	UnitPrice    float64           `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	OptionsTotal float64           `gorm:"type:decimal(10,2);not null;default:0.00" json:"options_total"`
	Subtotal     float64           `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Note         string            `gorm:"type:text" json:"note"`
	Options      []OrderItemOption `gorm:"foreignKey:OrderItemID" json:"options"`
	CreatedAt    time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"not null" json:"updated_at"`
}
