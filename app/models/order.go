package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/daliaibrahim58/greenmart/pkg/crypt"
)

// Order is a placed order. Status moves through the transition table in
// status.go; StockReserved records whether the Pending transition has already
// decremented stock, which is the guard against double-decrementing when an
// admin re-confirms an order that is already Pending.
type Order struct {
	gorm.Model
	Customer      string      `gorm:"size:255;not null;index" json:"customer"`
	Items         []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	Total         float64     `gorm:"not null;default:0" json:"total"`
	Status        OrderStatus `gorm:"size:50;default:Pending" json:"status"`
	StockReserved bool        `gorm:"default:false" json:"stockReserved"`
	Address       Address     `gorm:"-" json:"address"`
	AddressCipher string      `gorm:"column:address_cipher;size:2000" json:"-"`
	Date          string      `gorm:"size:20" json:"date"`
}

// BeforeSave encrypts the shipping address so the orders table never holds
// the customer's postal address in the clear.
func (o *Order) BeforeSave(*gorm.DB) error {
	cipher, err := crypt.EncryptJSON(o.Address)
	if err != nil {
		return err
	}
	o.AddressCipher = cipher
	return nil
}

// AfterFind restores the shipping address from its ciphertext. Orders written
// under a rotated key come back without an address rather than failing the
// whole query.
func (o *Order) AfterFind(*gorm.DB) error {
	if o.AddressCipher == "" {
		return nil
	}
	if err := crypt.DecryptJSON(o.AddressCipher, &o.Address); err != nil {
		o.Address = Address{}
	}
	return nil
}

// OrderItem is one line of an order. Name, price, image and category are
// denormalised at checkout time so the order survives later catalog edits.
type OrderItem struct {
	gorm.Model
	OrderID   uint    `gorm:"not null;index" json:"-"`
	ProductID uint    `gorm:"not null;index" json:"productId"`
	Name      string  `gorm:"size:255" json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `gorm:"not null" json:"quantity"`
	Image     string  `gorm:"size:500" json:"image"`
	Category  string  `gorm:"size:100" json:"category"`
}

// OrderDate formats t the way orders store their date column.
func OrderDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
