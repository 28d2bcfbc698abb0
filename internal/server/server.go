// Package server boots the storefront: configuration, database, cache,
// storage, queue workers, event listeners, and the HTTP stack. All wiring is
// explicit constructor injection; there is no container.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"gearshop/app/controllers"
	"gearshop/app/jobs"
	"gearshop/app/models"
	"gearshop/app/repositories"
	"gearshop/app/routes"
	"gearshop/app/services"
	"gearshop/config"
	"gearshop/pkg/cache"
	"gearshop/pkg/database"
	"gearshop/pkg/event"
	"gearshop/pkg/logger"
	"gearshop/pkg/metrics"
	"gearshop/pkg/middleware"
	"gearshop/pkg/migration"
	"gearshop/pkg/queue"
	"gearshop/pkg/reqid"
	"gearshop/pkg/router"
	"gearshop/pkg/session"
	"gearshop/pkg/storage"
)

// Start boots every subsystem and serves HTTP until SIGINT/SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	// Tee logs into the Mongo audit collection when configured.
	var mongoHandler *logger.MongoHandler
	if config.MongoURI() != "" {
		h, err := logger.NewMongoHandler(config.MongoURI(), config.MongoDatabase(), config.MongoCollection())
		if err != nil {
			logger.Warn("audit log disabled", "error", err)
		} else {
			mongoHandler = h
			logger.UseHandler(logger.NewMultiHandler(logger.L.Handler(), h))
		}
	}

	db, err := database.Open()
	if err != nil {
		return err
	}
	if err := migration.New(db).Run(); err != nil {
		return err
	}

	if err := cache.Connect(); err != nil {
		// The in-process fallback keeps sessions and the catalogue cache
		// working; Redis only adds durability and cross-instance sharing.
		logger.Warn("redis unavailable, using in-process cache", "error", err)
	}
	storage.Connect()

	// Queue: Redis-backed when available, channel-backed otherwise.
	if cache.RDB != nil {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}
	queue.UseDB(db)
	queue.Register(jobs.OrderConfirmationJobType, func() queue.Job { return &jobs.OrderConfirmationJob{} })

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	queue.StartWorkers(ctx, 4)

	registerOrderFeed()

	r := NewRouter(db)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gearshop listening", "addr", srv.Addr, "env", config.AppEnv())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if mongoHandler != nil {
		mongoHandler.Close()
	}
	return nil
}

// NewRouter wires repositories → services → controllers → routes and mounts
// the global middleware stack. Split out so the route:list command can build
// the table without serving.
func NewRouter(db *gorm.DB) *router.Router {
	products := repositories.NewProductRepository(db)
	orders := repositories.NewOrderRepository(db)
	users := repositories.NewUserRepository(db)

	catalog := services.NewCatalogService(products)
	processor := services.NewOrderProcessor(orders)
	checkout := services.NewCheckoutService(processor)
	authSvc := services.NewAuthService(users)

	r := router.New()

	// Global middleware stack (outermost → innermost):
	//  1. Prometheus metrics — outermost for accurate total latency
	//  2. Recovery          — catches panics before they kill the goroutine
	//  3. Request ID        — inject unique ID before anything logs
	//  4. Logger            — logs request_id from context
	//  5. Session           — load/create the visitor session (carries the cart)
	//  6. CORS              — set CORS headers
	//  7. Rate limiter      — reject abusers early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Use(middleware.CORS(middleware.DefaultCORSOptions()))
	r.Use(middleware.RateLimit(200, time.Minute))

	routes.RegisterAPI(r, routes.Controllers{
		Products: controllers.NewProductController(catalog),
		Cart:     controllers.NewCartController(catalog),
		Checkout: controllers.NewCheckoutController(checkout),
		Admin:    controllers.NewAdminController(products, orders, catalog),
		Auth:     controllers.NewAuthController(authSvc),
		Catalog:  catalog,
	})

	return r
}

// registerOrderFeed fans placed orders out to connected admin dashboards.
func registerOrderFeed() {
	event.Listen(event.OrderPlaced, func(payload interface{}) {
		order, ok := payload.(*models.Order)
		if !ok {
			return
		}
		msg, err := json.Marshal(map[string]interface{}{
			"event":    "order.placed",
			"order_id": order.ID,
			"name":     order.Name,
			"total":    order.Total.StringFixed(2),
			"lines":    len(order.Lines),
		})
		if err != nil {
			return
		}
		select {
		case routes.OrderFeed.Broadcast <- msg:
		default:
			// Feed congested; dashboards reconcile via the orders list.
		}
	})
}
