package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"storefront-bff/internal/api"
	"storefront-bff/internal/auth"
	"storefront-bff/internal/config"
	"storefront-bff/internal/history"
	"storefront-bff/internal/services"
	"storefront-bff/internal/session"
	"storefront-bff/internal/telemetry"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.NewConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.Info("Starting storefront BFF", "port", cfg.HTTPPort)

	sessionStore, err := session.NewClient(cfg.RedisAddr)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	defer sessionStore.Close()
	slog.Info("Connected to Redis", "addr", cfg.RedisAddr)

	serviceClient := services.NewServiceClient(cfg)
	assembler := history.NewAssembler(serviceClient, sessionStore)

	verifier := auth.NewStaticVerifier(cfg.AdminUsername, cfg.AdminPassword)
	issuer := auth.NewIssuer(cfg.JWTSecret)
	adminOnly := auth.NewMiddleware(cfg.JWTSecret)

	handler := api.NewHandler(
		serviceClient,
		serviceClient,
		assembler,
		sessionStore,
		sessionStore,
		verifier,
		issuer,
	)

	mux := http.NewServeMux()

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", handler.Health)

	route := func(pattern string, fn http.HandlerFunc) {
		mux.HandleFunc(pattern, telemetry.Middleware(pattern, fn))
	}

	route("POST /api/products", adminOnly.RequireAdmin(handler.SubmitProduct))
	route("PUT /api/products/{id}", adminOnly.RequireAdmin(handler.UpdateProduct))
	route("GET /api/products/{id}", handler.LoadProduct)
	route("GET /api/orders/history", handler.OrderHistory)
	route("POST /api/signup", handler.Signup)
	route("POST /api/admin/login", handler.AdminLogin)
	route("POST /api/session", handler.StartSession)
	route("DELETE /api/session", handler.EndSession)
	route("GET /api/checkout/summary", handler.CheckoutSummary)

	serverAddr := fmt.Sprintf(":%s", cfg.HTTPPort)
	slog.Info("Server listening", "addr", serverAddr)

	if err := http.ListenAndServe(serverAddr, mux); err != nil {
		slog.Error("Server shutdown error", "error", err)
		os.Exit(1)
	}
}
