package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"gearshop/app/models"
	"gearshop/app/services"
	"gearshop/pkg/response"
)

// ProductController serves the public catalogue.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// List returns one catalogue page, optionally filtered by ?category=.
func (c *ProductController) List(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	products, pagination, err := c.catalog.Page(category, page)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load products")
		return
	}
	response.Paginated(w, products, pagination)
}

// Categories returns the distinct categories for the navigation menu.
func (c *ProductController) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := c.catalog.Categories()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load categories")
		return
	}
	response.Success(w, categories)
}

// Show returns a single product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	product, err := c.findProduct(r)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if product == nil {
		response.NotFound(w)
		return
	}
	response.Success(w, product)
}

// Image streams the product's image bytes with its stored MIME type.
// Responds 404 for unknown products and for products without an image.
func (c *ProductController) Image(w http.ResponseWriter, r *http.Request) {
	product, err := c.findProduct(r)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "could not load product")
		return
	}
	if product == nil || !product.HasImage() {
		response.NotFound(w)
		return
	}

	w.Header().Set("Content-Type", product.ImageMimeType)
	w.WriteHeader(http.StatusOK)
	w.Write(product.ImageData) //nolint:errcheck
}

func (c *ProductController) findProduct(r *http.Request) (*models.Product, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return nil, nil
	}
	return c.catalog.Product(uint(id))
}
