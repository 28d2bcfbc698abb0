package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"gearshop/app/models"
	"gearshop/app/services"
)

// stubProcessor is a hand-written OrderProcessor double that records calls.
type stubProcessor struct {
	calls    int
	lastCart *models.Cart
	order    *models.Order
	err      error
}

func (s *stubProcessor) ProcessOrder(_ context.Context, cart *models.Cart, _ models.ShippingDetails) (*models.Order, error) {
	s.calls++
	s.lastCart = cart
	if s.err != nil {
		return nil, s.err
	}
	if s.order != nil {
		return s.order, nil
	}
	return &models.Order{Total: cart.Total(), Status: models.OrderStatusPlaced}, nil
}

func validShipping() models.ShippingDetails {
	return models.ShippingDetails{
		Name:    "Alex",
		Email:   "alex@example.com",
		Line1:   "1 High St",
		City:    "London",
		State:   "London",
		Country: "UK",
	}
}

func filledCart() *models.Cart {
	cart := models.NewCart()
	cart.AddItem(models.Product{
		Model: gorm.Model{ID: 1},
		Name:  "Kayak",
		Price: decimal.RequireFromString("275.00"),
	}, 2)
	return cart
}

func TestCheckout_EmptyCartRejectedWithoutInvokingProcessor(t *testing.T) {
	proc := &stubProcessor{}
	svc := services.NewCheckoutService(proc)

	result, err := svc.Submit(context.Background(), models.NewCart(), validShipping())

	require.NoError(t, err)
	assert.Equal(t, services.StateRejected, result.State)
	assert.Equal(t, "cart is empty", result.Errors["cart"])
	assert.Zero(t, proc.calls)
}

func TestCheckout_InvalidShippingRejectedWithoutInvokingProcessor(t *testing.T) {
	proc := &stubProcessor{}
	svc := services.NewCheckoutService(proc)

	shipping := validShipping()
	shipping.Name = ""
	shipping.City = ""

	result, err := svc.Submit(context.Background(), filledCart(), shipping)

	require.NoError(t, err)
	assert.Equal(t, services.StateRejected, result.State)
	assert.Contains(t, result.Errors, "name")
	assert.Contains(t, result.Errors, "city")
	assert.Zero(t, proc.calls)
}

func TestCheckout_EmptyCartCheckedBeforeShipping(t *testing.T) {
	proc := &stubProcessor{}
	svc := services.NewCheckoutService(proc)

	result, err := svc.Submit(context.Background(), models.NewCart(), models.ShippingDetails{})

	require.NoError(t, err)
	assert.Equal(t, services.StateRejected, result.State)
	assert.Equal(t, map[string]string{"cart": "cart is empty"}, result.Errors)
}

func TestCheckout_ValidSubmissionCompletes(t *testing.T) {
	proc := &stubProcessor{}
	svc := services.NewCheckoutService(proc)
	cart := filledCart()

	result, err := svc.Submit(context.Background(), cart, validShipping())

	require.NoError(t, err)
	assert.Equal(t, services.StateCompleted, result.State)
	require.NotNil(t, result.Order)
	assert.True(t, result.Order.Total.Equal(decimal.RequireFromString("550.00")))
	assert.Equal(t, 1, proc.calls)
	assert.Same(t, cart, proc.lastCart)

	// The workflow does not clear the cart; that is the caller's job.
	assert.False(t, cart.IsEmpty())
}

func TestCheckout_ProcessorFailurePropagatesUnchanged(t *testing.T) {
	downstream := errors.New("payment gateway unavailable")
	proc := &stubProcessor{err: downstream}
	svc := services.NewCheckoutService(proc)

	result, err := svc.Submit(context.Background(), filledCart(), validShipping())

	assert.ErrorIs(t, err, downstream)
	assert.Equal(t, services.CheckoutResult{}, result)
	assert.Equal(t, 1, proc.calls)
}

func TestCheckout_ResubmissionAfterRejectionSucceeds(t *testing.T) {
	proc := &stubProcessor{}
	svc := services.NewCheckoutService(proc)
	cart := filledCart()

	shipping := validShipping()
	shipping.Country = ""

	result, err := svc.Submit(context.Background(), cart, shipping)
	require.NoError(t, err)
	assert.Equal(t, services.StateRejected, result.State)

	shipping.Country = "UK"
	result, err = svc.Submit(context.Background(), cart, shipping)
	require.NoError(t, err)
	assert.Equal(t, services.StateCompleted, result.State)
	assert.Equal(t, 1, proc.calls)
}
