package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// DefaultBaseURL is used when a caller asks for a logical service that
// has no configured base URL.
const DefaultBaseURL = "http://localhost:8080"

type Config struct {
	AuthServiceURL     string `envconfig:"AUTH_SERVICE_URL" default:"http://localhost:8087"`
	ProductServiceURL  string `envconfig:"PRODUCT_SERVICE_URL" default:"http://localhost:8082"`
	OrderServiceURL    string `envconfig:"ORDER_SERVICE_URL" default:"http://localhost:8083"`
	CartServiceURL     string `envconfig:"CART_SERVICE_URL" default:"http://localhost:8084"`
	PaymentServiceURL  string `envconfig:"PAYMENT_SERVICE_URL" default:"http://localhost:8088"`
	CategoryServiceURL string `envconfig:"CATEGORY_SERVICE_URL" default:"http://localhost:8085"`
	UserServiceURL     string `envconfig:"USER_SERVICE_URL" default:"http://localhost:8081"`

	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	HTTPPort  string `envconfig:"HTTP_PORT" default:"8090"`

	JWTSecret     string `envconfig:"JWT_SECRET" default:"default_secret_change_me"`
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin12345"`
}

// NewConfig loads the configuration once at startup: a local .env file
// if present, then environment variables with built-in localhost
// defaults. The result is read-only thereafter.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables and defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// BaseURL maps a logical service name to its configured base URL.
// Unknown names return an empty string.
func (c *Config) BaseURL(service string) string {
	switch service {
	case "auth":
		return c.AuthServiceURL
	case "product":
		return c.ProductServiceURL
	case "order":
		return c.OrderServiceURL
	case "cart":
		return c.CartServiceURL
	case "payment":
		return c.PaymentServiceURL
	case "category":
		return c.CategoryServiceURL
	case "user":
		return c.UserServiceURL
	}
	return ""
}

// Resolve builds a full URL for a logical service and path. An
// unconfigured service name is non-fatal: it logs a warning and falls
// back to the fixed default host.
func (c *Config) Resolve(service, path string) string {
	base := c.BaseURL(service)
	if base == "" {
		slog.Warn("Service not configured, using default host", "service", service)
		return DefaultBaseURL + path
	}
	return base + path
}
