package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"gearshop/app/models"
	"gearshop/app/repositories"
	"gearshop/app/services"
	"gearshop/pkg/bind"
	"gearshop/pkg/event"
	"gearshop/pkg/response"
)

const maxImageBytes = 5 << 20 // 5 MB

// AdminController hosts the catalogue CRUD and order management screens.
// Every route is gated by the auth + role middleware.
type AdminController struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
	catalog  *services.CatalogService
}

func NewAdminController(
	products repositories.ProductRepository,
	orders repositories.OrderRepository,
	catalog *services.CatalogService,
) *AdminController {
	return &AdminController{products: products, orders: orders, catalog: catalog}
}

// productForm is the create/update payload. Price travels as a decimal
// string so no float rounding sneaks in between client and database.
type productForm struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"        validate:"required,max=255"`
	Description string `json:"description" validate:"nullable"`
	Price       string `json:"price"       validate:"required,numeric"`
	Category    string `json:"category"    validate:"required,max=100"`
}

// ListProducts returns the full catalogue, images excluded.
func (c *AdminController) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := c.products.Products()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	response.Success(w, products)
}

// SaveProduct upserts a product: ID zero creates, non-zero updates.
// Image columns are untouched; uploads go through UploadImage.
func (c *AdminController) SaveProduct(w http.ResponseWriter, r *http.Request) {
	var form productForm
	errs, err := bind.JSON(r, &form)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	price, perr := decimal.NewFromString(form.Price)
	if perr != nil || price.IsNegative() {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["price"] = "The price must be a non-negative decimal."
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	product := &models.Product{
		Name:        form.Name,
		Description: form.Description,
		Price:       price,
		Category:    form.Category,
	}
	product.ID = form.ID

	if err := c.products.SaveProduct(product); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not save product")
		return
	}

	c.catalog.InvalidateCache()
	event.Fire(event.ProductSaved, product)

	if form.ID == 0 {
		response.Created(w, product)
		return
	}
	response.Success(w, product)
}

// UploadImage attaches an image to an existing product.
func (c *AdminController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	existing, err := c.products.FindByID(id)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if existing == nil {
		response.NotFound(w)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImageBytes+1))
	if err != nil || len(data) == 0 {
		response.Error(w, http.StatusBadRequest, "missing image payload")
		return
	}
	if len(data) > maxImageBytes {
		response.Error(w, http.StatusRequestEntityTooLarge, "image exceeds 5 MB")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	if err := c.products.SaveProductImage(id, data, mimeType); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not save image")
		return
	}

	c.catalog.InvalidateCache()
	response.Success(w, map[string]interface{}{"id": id, "image_mime_type": mimeType})
}

// DeleteProduct removes a product. Deleting an unknown ID responds 404;
// the store is left unchanged either way.
func (c *AdminController) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid product id")
		return
	}

	removed, err := c.products.DeleteProduct(id)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not delete product")
		return
	}
	if removed == nil {
		response.NotFound(w)
		return
	}

	c.catalog.InvalidateCache()
	event.Fire(event.ProductDeleted, removed)
	response.Success(w, removed)
}

// ListOrders pages through placed orders, newest first.
func (c *AdminController) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	orders, pagination, err := c.orders.All(page, limit)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load orders")
		return
	}
	response.Paginated(w, orders, pagination)
}

// ShipOrder marks an order as shipped.
func (c *AdminController) ShipOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := c.orders.FindByID(id)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load order")
		return
	}
	if order == nil {
		response.NotFound(w)
		return
	}

	if err := c.orders.MarkShipped(id); err != nil {
		response.Error(w, http.StatusInternalServerError, "could not update order")
		return
	}
	response.Success(w, map[string]interface{}{"id": id, "status": models.OrderStatusShipped})
}

func parseID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	return uint(id), err
}
