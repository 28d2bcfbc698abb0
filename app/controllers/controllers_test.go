package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"gearshop/app/controllers"
	"gearshop/app/models"
	"gearshop/app/repositories"
	"gearshop/app/routes"
	"gearshop/app/services"
	"gearshop/pkg/auth"
	"gearshop/pkg/router"
	"gearshop/pkg/session"
)

// newStore boots a full API server over an in-memory database, seeded with
// the three demo products.
func newStore(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Product{}, &models.Order{}, &models.OrderLine{}, &models.User{},
	))

	seed := []models.Product{
		{Name: "Football", Category: "Soccer", Price: decimal.RequireFromString("25.00")},
		{Name: "Surf board", Category: "Watersports", Price: decimal.RequireFromString("179.00")},
		{Name: "Running shoes", Category: "Running", Price: decimal.RequireFromString("95.00")},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	users := repositories.NewUserRepository(db)

	catalog := services.NewCatalogService(products)
	catalog.InvalidateCache()
	t.Cleanup(catalog.InvalidateCache)

	processor := services.NewOrderProcessor(orders)
	processor.DisableArchive()
	checkout := services.NewCheckoutService(processor)
	authSvc := services.NewAuthService(users)

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProductController(catalog),
		Cart:     controllers.NewCartController(catalog),
		Checkout: controllers.NewCheckoutController(checkout),
		Admin:    controllers.NewAdminController(products, orders, catalog),
		Auth:     controllers.NewAuthController(authSvc),
		Catalog:  catalog,
	})

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

type apiEnvelope struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

// paginatedData is the data payload of response.Paginated.
type paginatedData struct {
	Items      json.RawMessage         `json:"items"`
	Pagination repositories.Pagination `json:"pagination"`
}

func itemsOf(t *testing.T, env apiEnvelope) paginatedData {
	t.Helper()
	var pd paginatedData
	require.NoError(t, json.Unmarshal(env.Data, &pd))
	return pd
}

func do(t *testing.T, client *http.Client, method, url string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	json.NewDecoder(resp.Body).Decode(&env) //nolint:errcheck
	return resp, env
}

func adminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken(1, "admin")
	require.NoError(t, err)
	return token
}

// ─── Catalogue ────────────────────────────────────────────────────────────────

func TestAPI_ListProducts(t *testing.T) {
	srv, client := newStore(t)

	resp, env := do(t, client, http.MethodGet, srv.URL+"/api/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	pd := itemsOf(t, env)
	var products []models.Product
	require.NoError(t, json.Unmarshal(pd.Items, &products))
	require.Len(t, products, 3)
	assert.Equal(t, "Football", products[0].Name)
	assert.Equal(t, int64(3), pd.Pagination.Total)
}

func TestAPI_FilterByCategory(t *testing.T) {
	srv, client := newStore(t)

	_, env := do(t, client, http.MethodGet, srv.URL+"/api/products?category=Running", nil)

	var products []models.Product
	require.NoError(t, json.Unmarshal(itemsOf(t, env).Items, &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Running shoes", products[0].Name)
}

func TestAPI_Categories(t *testing.T) {
	srv, client := newStore(t)

	_, env := do(t, client, http.MethodGet, srv.URL+"/api/categories", nil)

	var categories []string
	require.NoError(t, json.Unmarshal(env.Data, &categories))
	assert.Equal(t, []string{"Running", "Soccer", "Watersports"}, categories)
}

func TestAPI_ProductImage_MissingProductAndMissingImage(t *testing.T) {
	srv, client := newStore(t)

	resp, _ := do(t, client, http.MethodGet, srv.URL+"/api/products/99/image", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Product 1 exists but carries no image.
	resp, _ = do(t, client, http.MethodGet, srv.URL+"/api/products/1/image", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ─── Cart ─────────────────────────────────────────────────────────────────────

type cartView struct {
	Lines []models.CartLine `json:"lines"`
	Total string            `json:"total"`
}

func cartOf(t *testing.T, env apiEnvelope) cartView {
	t.Helper()
	var cv cartView
	require.NoError(t, json.Unmarshal(env.Data, &cv))
	return cv
}

func TestAPI_CartAddAndMerge(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 1, "quantity": 2})
	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 2, "quantity": 1})
	_, env := do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 1, "quantity": 3})

	cv := cartOf(t, env)
	require.Len(t, cv.Lines, 2)
	assert.Equal(t, "Football", cv.Lines[0].Product.Name)
	assert.Equal(t, 5, cv.Lines[0].Quantity)
	// 5 × 25 + 1 × 179
	assert.Equal(t, "304.00", cv.Total)
}

func TestAPI_CartPersistsAcrossRequests(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 3, "quantity": 1})
	_, env := do(t, client, http.MethodGet, srv.URL+"/api/cart", nil)

	cv := cartOf(t, env)
	require.Len(t, cv.Lines, 1)
	assert.Equal(t, "Running shoes", cv.Lines[0].Product.Name)
}

func TestAPI_CartAddUnknownProduct(t *testing.T) {
	srv, client := newStore(t)

	resp, _ := do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 99})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_CartRemoveAndClear(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 1})
	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 2})

	_, env := do(t, client, http.MethodDelete, srv.URL+"/api/cart/items/1", nil)
	cv := cartOf(t, env)
	require.Len(t, cv.Lines, 1)
	assert.Equal(t, "Surf board", cv.Lines[0].Product.Name)

	// Removing a product that is not in the cart is a no-op.
	_, env = do(t, client, http.MethodDelete, srv.URL+"/api/cart/items/3", nil)
	assert.Len(t, cartOf(t, env).Lines, 1)

	_, env = do(t, client, http.MethodDelete, srv.URL+"/api/cart", nil)
	cv = cartOf(t, env)
	assert.Empty(t, cv.Lines)
	assert.Equal(t, "0.00", cv.Total)
}

// ─── Checkout ─────────────────────────────────────────────────────────────────

func shippingBody() map[string]interface{} {
	return map[string]interface{}{
		"name":    "Alex",
		"email":   "alex@example.com",
		"line1":   "1 High St",
		"city":    "London",
		"state":   "London",
		"country": "UK",
	}
}

func TestAPI_CheckoutEmptyCartRejected(t *testing.T) {
	srv, client := newStore(t)

	resp, env := do(t, client, http.MethodPost, srv.URL+"/api/checkout", shippingBody())
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "cart is empty", env.Errors["cart"])
}

func TestAPI_CheckoutInvalidShippingRejected(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 1})

	body := shippingBody()
	delete(body, "name")
	resp, env := do(t, client, http.MethodPost, srv.URL+"/api/checkout", body)

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors, "name")

	// Cart survives a rejected checkout.
	_, cartEnv := do(t, client, http.MethodGet, srv.URL+"/api/cart", nil)
	assert.Len(t, cartOf(t, cartEnv).Lines, 1)
}

func TestAPI_CheckoutCompletesAndClearsCart(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 2, "quantity": 2})

	resp, env := do(t, client, http.MethodPost, srv.URL+"/api/checkout", shippingBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var result services.CheckoutResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, services.StateCompleted, result.State)
	require.NotNil(t, result.Order)
	assert.True(t, result.Order.Total.Equal(decimal.RequireFromString("358.00")))

	// Post-order cleanup happens at the controller layer.
	_, cartEnv := do(t, client, http.MethodGet, srv.URL+"/api/cart", nil)
	assert.Empty(t, cartOf(t, cartEnv).Lines)
}

// ─── Admin ────────────────────────────────────────────────────────────────────

func adminDo(t *testing.T, client *http.Client, token, method, url string, body interface{}) (*http.Response, apiEnvelope) {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env apiEnvelope
	json.NewDecoder(resp.Body).Decode(&env) //nolint:errcheck
	return resp, env
}

func TestAPI_AdminRequiresToken(t *testing.T) {
	srv, client := newStore(t)

	resp, _ := do(t, client, http.MethodGet, srv.URL+"/api/admin/products", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_AdminRequiresAdminRole(t *testing.T) {
	srv, client := newStore(t)

	token, err := auth.GenerateToken(7, "user")
	require.NoError(t, err)

	resp, _ := adminDo(t, client, token, http.MethodGet, srv.URL+"/api/admin/products", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestAPI_AdminCreateUpdateDeleteProduct(t *testing.T) {
	srv, client := newStore(t)
	token := adminToken(t)

	// Create.
	resp, env := adminDo(t, client, token, http.MethodPost, srv.URL+"/api/admin/products", map[string]interface{}{
		"name": "Chess board", "category": "Chess", "price": "29.95",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Product
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.NotZero(t, created.ID)

	// Update.
	resp, _ = adminDo(t, client, token, http.MethodPost, srv.URL+"/api/admin/products", map[string]interface{}{
		"id": created.ID, "name": "Chess board deluxe", "category": "Chess", "price": "39.95",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	_, showEnv := do(t, client, http.MethodGet, fmt.Sprintf("%s/api/products/%d", srv.URL, created.ID), nil)
	var updated models.Product
	require.NoError(t, json.Unmarshal(showEnv.Data, &updated))
	assert.Equal(t, "Chess board deluxe", updated.Name)

	// Delete twice: first removes, second is 404.
	resp, _ = adminDo(t, client, token, http.MethodDelete, fmt.Sprintf("%s/api/admin/products/%d", srv.URL, created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = adminDo(t, client, token, http.MethodDelete, fmt.Sprintf("%s/api/admin/products/%d", srv.URL, created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AdminSaveProductValidation(t *testing.T) {
	srv, client := newStore(t)

	resp, env := adminDo(t, client, adminToken(t), http.MethodPost, srv.URL+"/api/admin/products", map[string]interface{}{
		"name": "", "category": "", "price": "not-a-price",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, env.Errors, "name")
	assert.Contains(t, env.Errors, "category")
	assert.Contains(t, env.Errors, "price")
}

func TestAPI_AdminImageUploadThenServe(t *testing.T) {
	srv, client := newStore(t)
	token := adminToken(t)

	payload := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/admin/products/1/image", bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "image/jpeg")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	imgResp, err := client.Get(srv.URL + "/api/products/1/image")
	require.NoError(t, err)
	defer imgResp.Body.Close()
	assert.Equal(t, http.StatusOK, imgResp.StatusCode)
	assert.Equal(t, "image/jpeg", imgResp.Header.Get("Content-Type"))
}

func TestAPI_AdminListOrdersAfterCheckout(t *testing.T) {
	srv, client := newStore(t)

	do(t, client, http.MethodPost, srv.URL+"/api/cart/items", map[string]interface{}{"product_id": 1, "quantity": 4})
	resp, _ := do(t, client, http.MethodPost, srv.URL+"/api/checkout", shippingBody())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, env := adminDo(t, client, adminToken(t), http.MethodGet, srv.URL+"/api/admin/orders", nil)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(itemsOf(t, env).Items, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderStatusPlaced, orders[0].Status)
	require.Len(t, orders[0].Lines, 1)
	assert.Equal(t, 4, orders[0].Lines[0].Quantity)
}
