package repositories_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gearshop/app/models"
	"gearshop/app/repositories"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderLine{}, &models.User{},
	))
	return db
}

func seedProduct(t *testing.T, repo repositories.ProductRepository, name, category, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(price),
	}
	require.NoError(t, repo.SaveProduct(p))
	return p
}

func TestProductRepository_SaveProduct_Insert(t *testing.T) {
	repo := repositories.NewProductRepository(testDB(t))

	p := seedProduct(t, repo, "Kayak", "Watersports", "275.00")
	assert.NotZero(t, p.ID)

	products, err := repo.Products()
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Kayak", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("275.00")))
}

func TestProductRepository_SaveProduct_UpdatePreservesImage(t *testing.T) {
	repo := repositories.NewProductRepository(testDB(t))

	p := seedProduct(t, repo, "Kayak", "Watersports", "275.00")
	require.NoError(t, repo.SaveProductImage(p.ID, []byte{0xFF, 0xD8}, "image/jpeg"))

	p.Name = "Sea Kayak"
	p.Price = decimal.RequireFromString("299.00")
	// Stale in-memory image fields must not leak into the update.
	p.ImageData = nil
	p.ImageMimeType = ""
	require.NoError(t, repo.SaveProduct(p))

	updated, err := repo.FindByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Sea Kayak", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("299.00")))
	assert.Equal(t, []byte{0xFF, 0xD8}, updated.ImageData)
	assert.Equal(t, "image/jpeg", updated.ImageMimeType)
}

func TestProductRepository_FindByID_AbsentReturnsNil(t *testing.T) {
	repo := repositories.NewProductRepository(testDB(t))

	p, err := repo.FindByID(42)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductRepository_DeleteProduct(t *testing.T) {
	repo := repositories.NewProductRepository(testDB(t))

	p := seedProduct(t, repo, "Lifejacket", "Watersports", "48.95")

	removed, err := repo.DeleteProduct(p.ID)
	require.NoError(t, err)
	require.NotNil(t, removed)
	assert.Equal(t, "Lifejacket", removed.Name)

	products, err := repo.Products()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestProductRepository_DeleteProduct_AbsentIsNoOp(t *testing.T) {
	repo := repositories.NewProductRepository(testDB(t))
	seedProduct(t, repo, "Kayak", "Watersports", "275.00")

	removed, err := repo.DeleteProduct(99)
	require.NoError(t, err)
	assert.Nil(t, removed)

	products, err := repo.Products()
	require.NoError(t, err)
	assert.Len(t, products, 1)
}

func TestOrderRepository_SaveAndList(t *testing.T) {
	db := testDB(t)
	repo := repositories.NewOrderRepository(db)

	order := &models.Order{
		Total:   decimal.RequireFromString("450.00"),
		Status:  models.OrderStatusPlaced,
		Name:    "Alex",
		Email:   "alex@example.com",
		Line1:   "1 High St",
		City:    "London",
		State:   "London",
		Country: "UK",
		Lines: []models.OrderLine{
			{ProductID: 1, ProductName: "P1", UnitPrice: decimal.RequireFromString("100.00"), Quantity: 4},
			{ProductID: 2, ProductName: "P2", UnitPrice: decimal.RequireFromString("50.00"), Quantity: 1},
		},
	}
	require.NoError(t, repo.Save(order))
	assert.NotZero(t, order.ID)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	require.Len(t, found.Lines, 2)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("450.00")))

	orders, p, err := repo.All(1, 10)
	require.NoError(t, err)
	assert.Len(t, orders, 1)
	assert.Equal(t, int64(1), p.Total)
}

func TestOrderRepository_MarkShipped(t *testing.T) {
	repo := repositories.NewOrderRepository(testDB(t))

	order := &models.Order{
		Total: decimal.Zero, Status: models.OrderStatusPlaced,
		Name: "A", Email: "a@b.c", Line1: "x", City: "y", State: "s", Country: "z",
	}
	require.NoError(t, repo.Save(order))
	require.NoError(t, repo.MarkShipped(order.ID))

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, found.Status)
}
