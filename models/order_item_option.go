package models

import "time"

type OrderItemOption struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OrderItemID uint          `gorm:"not null;index" json:"order_item_id"`
	OrderItem   OrderItem     `gorm:"foreignKey:OrderItemID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	OptionID    uint          `gorm:"not null" json:"option_id"`
	Option      ProductOption `gorm:"foreignKey:OptionID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	PriceDelta  float64       `gorm:"type:decimal(10,2);not null" json:"price_delta"`
	CreatedAt   time.Time     `gorm:"not null" json:"created_at"`
}
