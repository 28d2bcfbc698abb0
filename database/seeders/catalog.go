package seeders

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"gearshop/app/models"
	"gearshop/config"
	"gearshop/pkg/auth"
)

func init() {
	Register("catalog", SeedCatalog)
	Register("admin_user", SeedAdminUser)
}

// SeedCatalog inserts the demo products. Idempotent: skips when the table
// already has rows.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{Name: "Football", Description: "FIFA-approved size and weight", Category: "Soccer", Price: decimal.RequireFromString("25.00")},
		{Name: "Surf board", Description: "A boat for one person", Category: "Watersports", Price: decimal.RequireFromString("179.00")},
		{Name: "Running shoes", Description: "Protective and fashionable", Category: "Running", Price: decimal.RequireFromString("95.00")},
		{Name: "Corner flags", Description: "Give your playing field a professional touch", Category: "Soccer", Price: decimal.RequireFromString("34.95")},
		{Name: "Stadium", Description: "Flat-packed 35,000-seat stadium", Category: "Soccer", Price: decimal.RequireFromString("79500.00")},
		{Name: "Thinking cap", Description: "Improve brain efficiency by 75%", Category: "Chess", Price: decimal.RequireFromString("16.00")},
		{Name: "Unsteady chair", Description: "Secretly give your opponent a disadvantage", Category: "Chess", Price: decimal.RequireFromString("29.95")},
		{Name: "Human chess board", Description: "A fun game for the family", Category: "Chess", Price: decimal.RequireFromString("75.00")},
		{Name: "Bling-bling King", Description: "Gold-plated, diamond-studded King", Category: "Chess", Price: decimal.RequireFromString("1200.00")},
	}
	return db.Create(&products).Error
}

// SeedAdminUser creates the default admin account if no users exist.
// Override the credentials via ADMIN_EMAIL / ADMIN_PASSWORD before first run.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "secret"))
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Name:     "Admin",
		Email:    config.Get("ADMIN_EMAIL", "admin@gearshop.app"),
		Password: hash,
		Role:     "admin",
	}).Error
}
