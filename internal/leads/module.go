// Package leads provides the lead capture domain module.
package leads

import (
	apphttp "lampolaskuri_backend/internal/http"
	"lampolaskuri_backend/internal/leads/handler"
	"lampolaskuri_backend/internal/leads/normalizer"
	"lampolaskuri_backend/internal/leads/repository"
	"lampolaskuri_backend/internal/leads/service"
	"lampolaskuri_backend/platform/events"
	"lampolaskuri_backend/platform/logger"
	"lampolaskuri_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the leads domain module
type Module struct {
	handler       *handler.Handler
	publicHandler *handler.PublicHandler
	service       *service.Service
	repository    *repository.Repository
}

// NewModule creates a new leads module with all dependencies wired
func NewModule(pool *pgxpool.Pool, lp service.LookupProvider, eventBus *events.InMemoryBus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	norm := normalizer.New(val)
	svc := service.New(repo, norm, lp, log)
	svc.SetEventBus(eventBus)

	return &Module{
		handler:       handler.New(svc, val),
		publicHandler: handler.NewPublicHandler(svc),
		service:       svc,
		repository:    repo,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for adapters that read lead rows directly.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/leads"))

	// Public capture routes — rate-limited by the router
	m.publicHandler.RegisterRoutes(ctx.Public.Group("/leads"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
