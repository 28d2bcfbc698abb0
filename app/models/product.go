package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product represents a catalogue item. Products are created, updated and
// deleted only through the product repository; the cart only references them.
type Product struct {
	gorm.Model
	Name          string          `gorm:"size:255;not null;index"     json:"name"`
	Description   string          `gorm:"type:text"                   json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Category      string          `gorm:"size:100;not null;index"     json:"category"`
	ImageData     []byte          `gorm:"type:blob"                   json:"-"`
	ImageMimeType string          `gorm:"size:100"                    json:"image_mime_type,omitempty"`
}

// HasImage reports whether the product carries an uploaded image.
func (p Product) HasImage() bool {
	return len(p.ImageData) > 0 && p.ImageMimeType != ""
}
