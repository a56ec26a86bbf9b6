package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/plantmart/storefront-gateway/internal/api/handlers"
	"github.com/plantmart/storefront-gateway/internal/api/middleware"
	"github.com/plantmart/storefront-gateway/internal/config"
	"github.com/plantmart/storefront-gateway/internal/health"
	"github.com/plantmart/storefront-gateway/internal/metrics"
	"github.com/plantmart/storefront-gateway/internal/models"
	"github.com/plantmart/storefront-gateway/internal/ratelimit"
	service "github.com/plantmart/storefront-gateway/internal/services"
	"github.com/plantmart/storefront-gateway/internal/telemetry"
	"github.com/plantmart/storefront-gateway/pkg/marketplace"
)

func main() {

	// Logger setup
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load config
	cfg := config.MustLoad()

	// Tracing setup
	shutdownTracing, err := telemetry.Setup(context.Background(), cfg)
	if err != nil {
		slog.Error("❌ Error setting up tracing", "error", err.Error())
		os.Exit(1)
	}

	// Marketplace backend client
	backend := marketplace.New(cfg.Backend.BaseURL, cfg.Backend.Timeout)

	// Redis-backed checkout limiter; the gateway runs without it
	limiter, err := ratelimit.New(cfg)
	if err != nil {
		slog.Warn("⚠️ Checkout rate limiter disabled", slog.String("error", err.Error()))
		limiter = nil
	}

	cartService := service.NewCartService()

	var attemptLimiter service.AttemptLimiter
	if limiter != nil {
		attemptLimiter = limiter
	}

	checkoutService := service.NewCheckoutService(cartService, backend, attemptLimiter)
	sessionService := service.NewSessionService(backend, cfg.Session.CacheTTL)

	cartHandler := handlers.NewCartHandler(cartService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	orderHandler := handlers.NewOrderHandler(backend)
	inventoryHandler := handlers.NewInventoryHandler(backend)
	adminHandler := handlers.NewAdminHandler(backend)
	authMiddleware := middleware.NewAuthMiddleware(sessionService)

	healthHandler, err := health.NewHealthHandler(cfg)
	if err != nil {
		slog.Error("❌ Error setting up health checks", "error", err.Error())
		os.Exit(1)
	}

	admin := models.RoleAdmin
	seller := models.RoleSeller
	customer := models.RoleCustomer

	// Setup router
	routerMux := http.NewServeMux()
	routerMux.HandleFunc("GET /api/v1/session", sessionHandler.Me())
	routerMux.HandleFunc("POST /api/v1/session/logout", authMiddleware.RequireAuth(sessionHandler.Logout()))
	routerMux.HandleFunc("GET /api/v1/cart", authMiddleware.RequireAuth(cartHandler.GetCart()))
	routerMux.HandleFunc("POST /api/v1/cart/items", authMiddleware.RequireAuth(cartHandler.AddItem()))
	routerMux.HandleFunc("PUT /api/v1/cart/items/{id}", authMiddleware.RequireAuth(cartHandler.UpdateQuantity()))
	routerMux.HandleFunc("DELETE /api/v1/cart/items/{id}", authMiddleware.RequireAuth(cartHandler.RemoveItem()))
	routerMux.HandleFunc("DELETE /api/v1/cart", authMiddleware.RequireAuth(cartHandler.ClearCart()))
	routerMux.HandleFunc("POST /api/v1/checkout", authMiddleware.RequireRole(&customer, checkoutHandler.Checkout()))
	routerMux.HandleFunc("GET /api/v1/orders/customer", authMiddleware.RequireRole(&customer, orderHandler.CustomerOrders()))
	routerMux.HandleFunc("GET /api/v1/orders/seller", authMiddleware.RequireRole(&seller, orderHandler.SellerOrders()))
	routerMux.HandleFunc("PUT /api/v1/orders/{id}/status", authMiddleware.RequireRole(&seller, orderHandler.UpdateStatus()))
	routerMux.HandleFunc("POST /api/v1/payment/order/{id}", authMiddleware.RequireRole(&customer, orderHandler.ProcessPayment()))
	routerMux.HandleFunc("GET /api/v1/inventory/seller/{id}", inventoryHandler.SellerInventory())
	routerMux.HandleFunc("GET /api/v1/inventory", authMiddleware.RequireRole(&seller, inventoryHandler.OwnInventory()))
	routerMux.HandleFunc("POST /api/v1/inventory", authMiddleware.RequireRole(&seller, inventoryHandler.CreateItem()))
	routerMux.HandleFunc("PUT /api/v1/inventory/{id}", authMiddleware.RequireRole(&seller, inventoryHandler.UpdateItem()))
	routerMux.HandleFunc("GET /api/v1/admin/sellers/pending", authMiddleware.RequireRole(&admin, adminHandler.PendingSellers()))
	routerMux.HandleFunc("PUT /api/v1/admin/sellers/{id}/approve", authMiddleware.RequireRole(&admin, adminHandler.ApproveSeller()))
	routerMux.HandleFunc("PUT /api/v1/admin/sellers/{id}/reject", authMiddleware.RequireRole(&admin, adminHandler.RejectSeller()))
	routerMux.Handle("GET /health", healthHandler.Handler())
	routerMux.Handle("GET /metrics", metrics.Handler())

	// Middleware chaining
	var handler http.Handler = routerMux
	handler = authMiddleware.WithSession(handler)
	handler = middleware.Logging(handler)
	handler = metrics.Middleware(routerMux, handler)

	// Setup http server
	server := http.Server{
		Addr:    cfg.Addr,
		Handler: handler,
	}

	slog.Info("🚀 Gateway is starting...",
		slog.String("address", cfg.Addr),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("env", cfg.Env))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("❌ Failed to start server", slog.Any("error", err.Error()))
		}
	}()

	<-done

	slog.Warn("🛑 Shutdown signal received. Preparing to stop the server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("⚠️ Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("✅ Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("⚠️ Tracer shutdown encountered an issue", slog.String("error", err.Error()))
	}
}
