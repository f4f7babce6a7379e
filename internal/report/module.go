package report

import (
	apphttp "lampolaskuri_backend/internal/http"
)

// Module represents the savings report module
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates a new report module with all dependencies wired
func NewModule(leads LeadReader, lp LookupProvider) *Module {
	svc := NewService(leads, lp)
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "reports"
}

// Service returns the service layer for external use
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public.Group("/reports"))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
