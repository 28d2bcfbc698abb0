package services

import (
	"context"

	"gearshop/app/models"
	"gearshop/pkg/metrics"
	"gearshop/pkg/validate"
)

// Checkout states. A submission starts in AwaitingSubmission and ends in
// either Completed or Rejected; a rejected submission may be corrected and
// resubmitted.
type CheckoutState string

const (
	StateAwaitingSubmission CheckoutState = "awaiting_submission"
	StateCompleted          CheckoutState = "completed"
	StateRejected           CheckoutState = "rejected"
)

// CheckoutResult is the outcome of one checkout submission.
type CheckoutResult struct {
	State  CheckoutState     `json:"state"`
	Errors map[string]string `json:"errors,omitempty"` // set when State == StateRejected
	Order  *models.Order     `json:"order,omitempty"`  // set when State == StateCompleted
}

// OrderProcessor commits a validated cart + shipping combination into an
// order. It is only ever invoked with a non-empty cart and valid shipping
// details.
type OrderProcessor interface {
	ProcessOrder(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) (*models.Order, error)
}

// CheckoutService validates a submission and hands it to the order
// processor. It does not clear the cart; post-order cleanup belongs to the
// calling controller.
type CheckoutService struct {
	processor OrderProcessor
}

func NewCheckoutService(processor OrderProcessor) *CheckoutService {
	return &CheckoutService{processor: processor}
}

// Submit runs the checkout workflow for one cart.
//
// Validation failures come back as a Rejected result with field → message
// pairs and a nil error; the processor is never invoked for them. An error
// from the processor itself is returned unchanged with a zero result —
// the submission stays in AwaitingSubmission from the caller's view.
func (s *CheckoutService) Submit(ctx context.Context, cart *models.Cart, shipping models.ShippingDetails) (CheckoutResult, error) {
	if cart == nil || cart.IsEmpty() {
		metrics.CheckoutRejections.WithLabelValues("empty_cart").Inc()
		return CheckoutResult{
			State:  StateRejected,
			Errors: map[string]string{"cart": "cart is empty"},
		}, nil
	}

	if errs := validate.Struct(shipping); validate.HasErrors(errs) {
		metrics.CheckoutRejections.WithLabelValues("shipping").Inc()
		return CheckoutResult{State: StateRejected, Errors: errs}, nil
	}

	order, err := s.processor.ProcessOrder(ctx, cart, shipping)
	if err != nil {
		return CheckoutResult{}, err
	}

	metrics.OrdersPlaced.Inc()
	metrics.OrderValue.Observe(order.Total.InexactFloat64())

	return CheckoutResult{State: StateCompleted, Order: order}, nil
}
