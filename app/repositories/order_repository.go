package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"gearshop/app/models"
)

// OrderRepository persists committed orders.
type OrderRepository interface {
	// Save inserts order (with its lines) or updates it when ID is set.
	Save(order *models.Order) error

	// FindByID returns the order with its lines, or (nil, nil) if absent.
	FindByID(id uint) (*models.Order, error)

	// All returns one page of orders, newest first.
	All(page, limit int) ([]models.Order, Pagination, error)

	// MarkShipped flips an order's status to shipped.
	MarkShipped(id uint) error
}

// GormOrderRepository is the database-backed OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*GormOrderRepository)(nil)

func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Save(order *models.Order) error {
	if err := r.db.Save(order).Error; err != nil {
		return fmt.Errorf("save order: %w", err)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Lines").First(&order, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find order %d: %w", id, err)
	}
	return &order, nil
}

func (r *GormOrderRepository) All(page, limit int) ([]models.Order, Pagination, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Count(&total).Error; err != nil {
		return nil, Pagination{}, fmt.Errorf("count orders: %w", err)
	}

	p := NewPagination(page, limit, total)

	var orders []models.Order
	err := r.db.Preload("Lines").
		Order("id DESC").
		Offset(p.Offset()).
		Limit(p.PerPage).
		Find(&orders).Error
	if err != nil {
		return nil, Pagination{}, fmt.Errorf("list orders: %w", err)
	}
	return orders, p, nil
}

func (r *GormOrderRepository) MarkShipped(id uint) error {
	err := r.db.Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", models.OrderStatusShipped).Error
	if err != nil {
		return fmt.Errorf("mark order %d shipped: %w", id, err)
	}
	return nil
}
