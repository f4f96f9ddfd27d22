package models

import (
	"math"

	"gorm.io/gorm"
)

// Product is a catalogue entry. Stock is the only field mutated by the order
// lifecycle; every stock write goes through an atomic UPDATE that clamps at
// zero, so Stock never goes negative even under concurrent transitions.
type Product struct {
	gorm.Model
	Name          string   `gorm:"size:255;not null;index" json:"name"`
	Description   string   `gorm:"type:text" json:"description"`
	Price         float64  `gorm:"not null;default:0" json:"price"`
	OriginalPrice float64  `gorm:"default:0" json:"originalPrice"`
	SalePrice     float64  `gorm:"default:0" json:"salePrice"`
	Category      string   `gorm:"size:100;index" json:"category"`
	Image         string   `gorm:"size:500" json:"image"`
	Stock         int      `gorm:"not null;default:0" json:"stock"`
	Rating        float64  `gorm:"default:4" json:"rating"`
	Reviews       int      `gorm:"default:0" json:"reviews"`
	Tags          []string `gorm:"serializer:json" json:"tags"`
	Features      []string `gorm:"serializer:json" json:"features"`
	IsEcoFriendly bool     `gorm:"default:false" json:"isEcoFriendly"`
	IsNew         bool     `gorm:"default:false" json:"isNew"`
	IsSale        bool     `gorm:"default:false" json:"isSale"`
	InStock       bool     `gorm:"default:true" json:"inStock"`
	IsVisible     bool     `gorm:"default:true" json:"isVisible"`
}

// DiscountPercentage derives the sale discount from price vs. originalPrice.
func (p *Product) DiscountPercentage() int {
	if p.OriginalPrice > 0 && p.Price < p.OriginalPrice {
		return int(math.Round((p.OriginalPrice - p.Price) / p.OriginalPrice * 100))
	}
	return 0
}

// Available reports whether qty units can currently be sold.
func (p *Product) Available(qty int) bool {
	return qty > 0 && qty <= p.Stock
}
