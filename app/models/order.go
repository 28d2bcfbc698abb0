package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses.
const (
	OrderStatusPlaced  = "placed"
	OrderStatusShipped = "shipped"
)

// Order is a committed cart plus the shipping details it was placed with.
type Order struct {
	gorm.Model
	Lines  []OrderLine     `gorm:"foreignKey:OrderID" json:"lines"`
	Total  decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total"`
	Status string          `gorm:"size:50;default:placed" json:"status"`

	// Shipping details are flattened into the orders table.
	Name     string `gorm:"size:255;not null" json:"name"`
	Email    string `gorm:"size:255;not null" json:"email"`
	Line1    string `gorm:"size:255;not null" json:"line1"`
	Line2    string `gorm:"size:255" json:"line2,omitempty"`
	Line3    string `gorm:"size:255" json:"line3,omitempty"`
	City     string `gorm:"size:100;not null" json:"city"`
	State    string `gorm:"size:100;not null" json:"state"`
	Zip      string `gorm:"size:20" json:"zip,omitempty"`
	Country  string `gorm:"size:100;not null" json:"country"`
	GiftWrap bool   `json:"gift_wrap"`
}

// OrderLine is one product/quantity pair captured at order time.
// Name and unit price are copied from the product so later catalogue edits
// do not rewrite order history.
type OrderLine struct {
	gorm.Model
	OrderID     uint            `gorm:"not null;index" json:"order_id"`
	ProductID   uint            `gorm:"not null;index" json:"product_id"`
	ProductName string          `gorm:"size:255;not null" json:"product_name"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
}

// ShippingDetails is the address form submitted at checkout.
type ShippingDetails struct {
	Name     string `json:"name"  validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Line1    string `json:"line1" validate:"required"`
	Line2    string `json:"line2" validate:"nullable"`
	Line3    string `json:"line3" validate:"nullable"`
	City     string `json:"city"  validate:"required"`
	State    string `json:"state" validate:"required"`
	Zip      string `json:"zip"   validate:"nullable"`
	Country  string `json:"country" validate:"required"`
	GiftWrap bool   `json:"gift_wrap"`
}
