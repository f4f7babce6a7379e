// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"

	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/platform/config"
	"lampolaskuri_backend/platform/logger"
	"lampolaskuri_backend/platform/ratelimit"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.RatelimitConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP and rate-limit settings only).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// PublicLimiter throttles the unauthenticated form-capture endpoints.
	PublicLimiter ratelimit.KeyLimiter
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
