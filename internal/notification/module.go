// Package notification reacts to domain events: when a lead is captured it
// schedules the report email delivery through the job queue.
package notification

import (
	"context"
	"fmt"

	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/internal/scheduler"
	"lampolaskuri_backend/platform/logger"
)

// Module is not HTTP-facing; it only subscribes to the event bus.
type Module struct {
	reports scheduler.ReportScheduler // nil when the job queue is disabled
	log     *logger.Logger
}

func New(reports scheduler.ReportScheduler, log *logger.Logger) *Module {
	return &Module{reports: reports, log: log}
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.LeadCaptured{}.EventName(), m)
	bus.Subscribe(events.ReportEmailSent{}.EventName(), m)
}

// Handle dispatches events to their specific handlers.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadCaptured:
		return m.handleLeadCaptured(ctx, e)
	case events.ReportEmailSent:
		m.log.Info("report email delivered", "leadId", e.LeadID, "email", e.Email)
		return nil
	default:
		return fmt.Errorf("notification: unexpected event %s", event.EventName())
	}
}

func (m *Module) handleLeadCaptured(ctx context.Context, e events.LeadCaptured) error {
	if e.Email == nil || *e.Email == "" {
		return nil
	}
	if m.reports == nil {
		m.log.Warn("report email not scheduled, job queue disabled", "leadId", e.LeadID)
		return nil
	}

	return m.reports.EnqueueReportEmail(ctx, scheduler.ReportEmailPayload{
		LeadID: e.LeadID.String(),
	})
}
