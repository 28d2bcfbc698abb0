package services

import (
	"context"
	"encoding/json"
	"fmt"

	"gearshop/app/jobs"
	"gearshop/app/models"
	"gearshop/app/repositories"
	"gearshop/pkg/event"
	"gearshop/pkg/logger"
	"gearshop/pkg/queue"
	"gearshop/pkg/storage"
)

// DBOrderProcessor is the production OrderProcessor: it persists the order,
// announces it on the event bus, queues the confirmation email, and archives
// a JSON receipt on the configured storage disk.
type DBOrderProcessor struct {
	orders         repositories.OrderRepository
	archiveEnabled bool
}

var _ OrderProcessor = (*DBOrderProcessor)(nil)

func NewOrderProcessor(orders repositories.OrderRepository) *DBOrderProcessor {
	return &DBOrderProcessor{orders: orders, archiveEnabled: true}
}

// DisableArchive turns off receipt archiving (used in tests where no
// storage disk is booted).
func (p *DBOrderProcessor) DisableArchive() {
	p.archiveEnabled = false
}

func (p *DBOrderProcessor) ProcessOrder(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) (*models.Order, error) {
	order := buildOrder(cart, shipping)

	if err := p.orders.Save(order); err != nil {
		return nil, fmt.Errorf("process order: %w", err)
	}

	log := logger.WithCtx(ctx)
	log.Info("order placed", "order_id", order.ID, "total", order.Total.StringFixed(2))

	event.Fire(event.OrderPlaced, order)

	if err := queue.Dispatch(jobs.OrderConfirmationJob{
		OrderID: order.ID,
		Email:   order.Email,
		Name:    order.Name,
		Total:   order.Total.StringFixed(2),
	}); err != nil {
		// The order is committed; a lost confirmation email is not a reason
		// to fail the checkout.
		log.Warn("order confirmation dispatch failed", "order_id", order.ID, "error", err)
	}

	if p.archiveEnabled {
		p.archiveReceipt(order)
	}

	return order, nil
}

// buildOrder snapshots the cart into an order record. Product name and unit
// price are copied so later catalogue edits do not rewrite history.
func buildOrder(cart *models.Cart, shipping models.ShippingDetails) *models.Order {
	lines := cart.Lines()
	orderLines := make([]models.OrderLine, len(lines))
	for i, l := range lines {
		orderLines[i] = models.OrderLine{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			UnitPrice:   l.Product.Price,
			Quantity:    l.Quantity,
		}
	}

	return &models.Order{
		Lines:    orderLines,
		Total:    cart.Total(),
		Status:   models.OrderStatusPlaced,
		Name:     shipping.Name,
		Email:    shipping.Email,
		Line1:    shipping.Line1,
		Line2:    shipping.Line2,
		Line3:    shipping.Line3,
		City:     shipping.City,
		State:    shipping.State,
		Zip:      shipping.Zip,
		Country:  shipping.Country,
		GiftWrap: shipping.GiftWrap,
	}
}

// archiveReceipt writes the order as JSON to the storage disk. Best effort;
// the order itself is already committed.
func (p *DBOrderProcessor) archiveReceipt(order *models.Order) {
	data, err := json.MarshalIndent(order, "", "  ")
	if err != nil {
		logger.Warn("receipt marshal failed", "order_id", order.ID, "error", err)
		return
	}
	path := fmt.Sprintf("receipts/%d.json", order.ID)
	if err := storage.Put(path, data); err != nil {
		logger.Warn("receipt archive failed", "order_id", order.ID, "error", err)
	}
}
