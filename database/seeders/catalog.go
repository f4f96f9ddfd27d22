package seeders

import (
	"gorm.io/gorm"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("products", SeedProducts)
}

// SeedUsers inserts the default admin plus two demo customers. It is
// idempotent: an already-populated table is left alone.
func SeedUsers(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	users := []struct {
		name, email, password, role, phone string
	}{
		{"Admin User", "admin@shop.com", "admin123", models.RoleAdmin, "+1234567890"},
		{"John Doe", "john@example.com", "user123", models.RoleUser, "+1234567891"},
		{"Jane Smith", "jane@example.com", "user123", models.RoleUser, "+1234567892"},
	}

	for _, u := range users {
		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return err
		}
		user := models.User{
			UserName: u.name,
			Email:    u.email,
			Password: hash,
			Role:     u.role,
			Phone:    u.phone,
		}
		if err := db.Create(&user).Error; err != nil {
			return err
		}
	}
	return nil
}

// SeedProducts inserts the starter eco catalog.
func SeedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{
			Name: "Eco Water Bottle", Price: 25, OriginalPrice: 35,
			Category: "Bottles", Description: "Sustainable stainless steel water bottle",
			Image: "https://images.unsplash.com/photo-1602143407151-7111542de6e8?w=400",
			Stock: 50, Rating: 4.5, Reviews: 120,
			Tags:     []string{"30% OFF", "Eco-Friendly"},
			Features: []string{"Eco-Friendly", "Sustainable", "BPA-Free"},
			IsEcoFriendly: true, IsSale: true, InStock: true, IsVisible: true,
		},
		{
			Name: "Bamboo Toothbrush Set", Price: 15, OriginalPrice: 15,
			Category: "Personal Care", Description: "Set of 4 biodegradable bamboo toothbrushes",
			Image: "https://images.unsplash.com/photo-1607613009820-a29f7bb81c04?w=400",
			Stock: 100, Rating: 4.8, Reviews: 85,
			Tags:     []string{"New Arrival", "Eco-Friendly"},
			Features: []string{"Eco-Friendly", "Biodegradable", "Vegan"},
			IsEcoFriendly: true, IsNew: true, InStock: true, IsVisible: true,
		},
		{
			Name: "Organic Cotton Tote Bag", Price: 20, OriginalPrice: 30,
			Category: "Bags", Description: "Reusable organic cotton shopping bag",
			Image: "https://images.unsplash.com/photo-1591195853828-11db59a44f6b?w=400",
			Stock: 75, Rating: 4.3, Reviews: 60,
			Tags:     []string{"33% OFF"},
			Features: []string{"Eco-Friendly", "Organic", "Reusable"},
			IsEcoFriendly: true, IsSale: true, InStock: true, IsVisible: true,
		},
		{
			Name: "Solar Power Bank", Price: 45, OriginalPrice: 45,
			Category: "Electronics", Description: "Portable solar-powered charger",
			Image: "https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=400",
			Stock: 30, Rating: 4.6, Reviews: 95,
			Tags:     []string{"New Arrival"},
			Features: []string{"Solar Powered", "Portable", "Fast Charging"},
			IsEcoFriendly: true, IsNew: true, InStock: true, IsVisible: true,
		},
		{
			Name: "Reusable Food Wraps", Price: 18, OriginalPrice: 25,
			Category: "Kitchen", Description: "Beeswax food wraps, pack of 5",
			Image: "https://images.unsplash.com/photo-1610701596007-11502861dcfa?w=400",
			Stock: 60, Rating: 4.4, Reviews: 70,
			Tags:     []string{"28% OFF", "Eco-Friendly"},
			Features: []string{"Eco-Friendly", "Reusable", "Natural"},
			IsEcoFriendly: true, IsSale: true, InStock: true, IsVisible: true,
		},
	}

	return db.Create(&products).Error
}
