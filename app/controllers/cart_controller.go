package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gearshop/app/models"
	"gearshop/app/services"
	"gearshop/pkg/metrics"
	"gearshop/pkg/response"
	"gearshop/pkg/session"
)

const cartSessionKey = "cart"

// CartController manages the session-scoped shopping cart.
type CartController struct {
	catalog *services.CatalogService
}

func NewCartController(catalog *services.CatalogService) *CartController {
	return &CartController{catalog: catalog}
}

// cartView is the JSON shape returned to the storefront.
type cartView struct {
	Lines []models.CartLine `json:"lines"`
	Total string            `json:"total"`
}

func viewOf(cart *models.Cart) cartView {
	return cartView{Lines: cart.Lines(), Total: cart.Total().StringFixed(2)}
}

// loadCart restores the session's cart, or starts a fresh one.
func loadCart(s *session.Session) *models.Cart {
	cart := models.NewCart()
	if raw, ok := s.GetString(cartSessionKey); ok {
		json.Unmarshal([]byte(raw), cart) //nolint:errcheck
	}
	return cart
}

// saveCart writes the cart back into the session. The session itself is
// persisted by Session.Save before the response body goes out.
func saveCart(s *session.Session, cart *models.Cart) {
	data, err := json.Marshal(cart)
	if err != nil {
		return
	}
	s.Set(cartSessionKey, string(data))
}

// Show returns the current cart contents and total.
func (c *CartController) Show(w http.ResponseWriter, r *http.Request) {
	s := session.FromCtx(r)
	response.Success(w, viewOf(loadCart(s)))
}

// Add puts quantity units of a product into the cart.
func (c *CartController) Add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Quantity == 0 {
		body.Quantity = 1
	}

	product, err := c.catalog.Product(body.ProductID)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if product == nil {
		response.NotFound(w)
		return
	}

	s := session.FromCtx(r)
	cart := loadCart(s)
	cart.AddItem(*product, body.Quantity)
	saveCart(s, cart)
	metrics.CartOps.WithLabelValues("add").Inc()

	if err := s.Save(w); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not persist session")
		return
	}
	response.Success(w, viewOf(cart))
}

// Remove deletes one product's line from the cart. Removing a product that
// is not in the cart succeeds with the cart unchanged.
func (c *CartController) Remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "productID"), 10, 32)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	s := session.FromCtx(r)
	cart := loadCart(s)
	cart.RemoveLine(uint(id))
	saveCart(s, cart)
	metrics.CartOps.WithLabelValues("remove").Inc()

	if err := s.Save(w); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not persist session")
		return
	}
	response.Success(w, viewOf(cart))
}

// Clear empties the cart.
func (c *CartController) Clear(w http.ResponseWriter, r *http.Request) {
	s := session.FromCtx(r)
	cart := loadCart(s)
	cart.Clear()
	saveCart(s, cart)
	metrics.CartOps.WithLabelValues("clear").Inc()

	if err := s.Save(w); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not persist session")
		return
	}
	response.Success(w, viewOf(cart))
}
