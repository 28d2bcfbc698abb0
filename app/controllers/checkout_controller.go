package controllers

import (
	"encoding/json"
	"net/http"

	"gearshop/app/models"
	"gearshop/app/services"
	"gearshop/pkg/logger"
	"gearshop/pkg/response"
	"gearshop/pkg/session"
)

// CheckoutController runs the checkout workflow and owns the post-order
// cart cleanup: a completed checkout clears the session cart, a rejected
// one leaves it untouched for resubmission.
type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Submit takes the shipping details, validates the submission, and places
// the order.
func (c *CheckoutController) Submit(w http.ResponseWriter, r *http.Request) {
	// Decode only; field validation belongs to the workflow so the
	// empty-cart check keeps precedence over shipping errors.
	var shipping models.ShippingDetails
	if err := json.NewDecoder(r.Body).Decode(&shipping); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s := session.FromCtx(r)
	cart := loadCart(s)

	result, err := c.checkout.Submit(r.Context(), cart, shipping)
	if err != nil {
		// Downstream failure — the cart is kept so the visitor can retry.
		logger.WithCtx(r.Context()).Error("checkout failed", "error", err)
		response.Error(w, http.StatusBadGateway, "order could not be processed")
		return
	}

	if result.State == services.StateRejected {
		response.ValidationError(w, result.Errors)
		return
	}

	// Completed: clearing the cart is this controller's responsibility,
	// not the workflow's.
	cart.Clear()
	saveCart(s, cart)
	if err := s.Save(w); err != nil {
		logger.WithCtx(r.Context()).Warn("session save after checkout failed", "error", err)
	}

	response.Created(w, result)
}
