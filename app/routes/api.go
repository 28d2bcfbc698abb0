package routes

import (
	"net/http"

	"gearshop/app/controllers"
	appgraphql "gearshop/app/graphql"
	"gearshop/app/services"
	"gearshop/pkg/logger"
	"gearshop/pkg/metrics"
	"gearshop/pkg/middleware"
	"gearshop/pkg/response"
	"gearshop/pkg/router"
	"gearshop/pkg/ws"
)

// OrderFeed pushes placed orders to connected admin dashboards.
var OrderFeed = ws.NewHub()

// Controllers bundles the constructed controllers handed to RegisterAPI.
type Controllers struct {
	Products *controllers.ProductController
	Cart     *controllers.CartController
	Checkout *controllers.CheckoutController
	Admin    *controllers.AdminController
	Auth     *controllers.AuthController
	Catalog  *services.CatalogService
}

// RegisterAPI wires every route. Middleware stack ordering lives in
// internal/server; this file only declares paths and names.
func RegisterAPI(r *router.Router, c Controllers) {
	go OrderFeed.Run()

	api := r.Group("/api")

	// Public storefront.
	api.Get("/products", "products.list", c.Products.List)
	api.Get("/products/{id}", "products.show", c.Products.Show)
	api.Get("/products/{id}/image", "products.image", c.Products.Image)
	api.Get("/categories", "products.categories", c.Products.Categories)

	api.Get("/cart", "cart.show", c.Cart.Show)
	api.Post("/cart/items", "cart.add", c.Cart.Add)
	api.Delete("/cart/items/{productID}", "cart.remove", c.Cart.Remove)
	api.Delete("/cart", "cart.clear", c.Cart.Clear)

	api.Post("/checkout", "checkout.submit", c.Checkout.Submit)

	api.Post("/auth/login", "auth.login", c.Auth.Login)

	// Admin screens: token + role gated.
	admin := api.Group("/admin", middleware.Auth, middleware.RequireRole("admin"))
	admin.Get("/products", "admin.products.list", c.Admin.ListProducts)
	admin.Post("/products", "admin.products.save", c.Admin.SaveProduct)
	admin.Post("/products/{id}/image", "admin.products.image", c.Admin.UploadImage)
	admin.Delete("/products/{id}", "admin.products.delete", c.Admin.DeleteProduct)
	admin.Get("/orders", "admin.orders.list", c.Admin.ListOrders)
	admin.Post("/orders/{id}/ship", "admin.orders.ship", c.Admin.ShipOrder)

	// Live order feed for the admin dashboard.
	api.Get("/ws/orders", "ws.orders", func(w http.ResponseWriter, r *http.Request) {
		ws.Upgrade(w, r, OrderFeed)
	}, middleware.Auth, middleware.RequireRole("admin"))

	// Read-only GraphQL view of the catalogue.
	schema, err := appgraphql.NewCatalogSchema(c.Catalog)
	if err != nil {
		logger.Error("graphql: schema build failed", "error", err)
	} else {
		api.Post("/graphql", "graphql", appgraphql.Handler(schema))
		api.Get("/graphql", "graphql.get", appgraphql.Handler(schema))
	}

	r.Get("/healthz", "health", func(w http.ResponseWriter, _ *http.Request) {
		response.Success(w, map[string]string{"status": "ok"})
	})
	r.Mount("/metrics", metrics.Handler())
}
