package models

import "time"

// ProductOption is an add-on belonging to exactly one product, priced as a
// delta on top of the product base price.
type ProductOption struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ProductID  uint      `gorm:"not null;index" json:"product_id"`
	Product    Product   `gorm:"foreignKey:ProductID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name       string    `gorm:"type:varchar(255);not null" json:"name"`
	PriceDelta float64   `gorm:"type:decimal(10,2);not null;default:0.00" json:"price_delta"`
	Active     bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
