package models

import "gorm.io/gorm"

// User is a storefront account. Role decides which surface the account may
// use: "user" accounts shop and check out, "admin" accounts manage the
// catalog and order lifecycle.
type User struct {
	gorm.Model
	UserName string  `gorm:"size:255;not null;uniqueIndex" json:"userName"`
	Email    string  `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string  `gorm:"size:255;not null" json:"-"` // hashed, never serialised
	Role     string  `gorm:"size:50;default:user" json:"role"`
	Phone    string  `gorm:"size:50" json:"phone"`
	Address  Address `gorm:"embedded;embeddedPrefix:address_" json:"address"`
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// IsAdmin reports whether the user may perform back-office operations.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Address is a postal address embedded in users and orders.
type Address struct {
	Street  string `gorm:"size:255" json:"street" validate:"required"`
	City    string `gorm:"size:100" json:"city" validate:"required"`
	State   string `gorm:"size:100" json:"state"`
	Zip     string `gorm:"size:20" json:"zip" validate:"required"`
	Country string `gorm:"size:100" json:"country" validate:"required"`
	Phone   string `gorm:"size:50" json:"phone" validate:"required"`
}
