package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gearshop/app/models"
)

// ProductRepository is the catalogue store contract. The storefront only
// reads from it; the two mutations exist for the admin screens.
type ProductRepository interface {
	// Products returns the full catalogue.
	Products() ([]models.Product, error)

	// FindByID returns the product with the given ID, or (nil, nil) if no
	// such product exists.
	FindByID(id uint) (*models.Product, error)

	// SaveProduct inserts product when its ID is zero and updates the
	// existing row otherwise. Updates never touch the image columns; images
	// are uploaded through SaveProductImage.
	SaveProduct(product *models.Product) error

	// SaveProductImage stores the image payload for an existing product.
	SaveProductImage(id uint, data []byte, mimeType string) error

	// DeleteProduct removes the product and returns the removed record.
	// Deleting an absent ID is a no-op returning (nil, nil).
	DeleteProduct(id uint) (*models.Product, error)
}

// GormProductRepository is the database-backed ProductRepository.
type GormProductRepository struct {
	db *gorm.DB
}

var _ ProductRepository = (*GormProductRepository)(nil)

func NewProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Products() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("products: %w", err)
	}
	return products, nil
}

func (r *GormProductRepository) FindByID(id uint) (*models.Product, error) {
	var p models.Product
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product %d: %w", id, err)
	}
	return &p, nil
}

func (r *GormProductRepository) SaveProduct(product *models.Product) error {
	if product.ID == 0 {
		if err := r.db.Create(product).Error; err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	}

	// Update only the editable columns; image columns are owned by
	// SaveProductImage and survive catalogue edits.
	err := r.db.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"description": product.Description,
			"price":       product.Price,
			"category":    product.Category,
		}).Error
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	return nil
}

func (r *GormProductRepository) SaveProductImage(id uint, data []byte, mimeType string) error {
	err := r.db.Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"image_data":      data,
			"image_mime_type": mimeType,
		}).Error
	if err != nil {
		return fmt.Errorf("save image for product %d: %w", id, err)
	}
	return nil
}

func (r *GormProductRepository) DeleteProduct(id uint) (*models.Product, error) {
	removed, err := r.FindByID(id)
	if err != nil {
		return nil, err
	}
	if removed == nil {
		return nil, nil
	}
	if err := r.db.Delete(&models.Product{}, id).Error; err != nil {
		return nil, fmt.Errorf("delete product %d: %w", id, err)
	}
	return removed, nil
}
