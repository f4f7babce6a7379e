// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"lampolaskuri_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// LeadCaptured is published after a submitted lead has been normalized,
// its metrics calculated and the record persisted.
type LeadCaptured struct {
	BaseEvent
	LeadID      uuid.UUID `json:"leadId"`
	Email       *string   `json:"email,omitempty"`
	HeatingType string    `json:"heatingType"`
	Strategy    string    `json:"strategy"`
}

func (e LeadCaptured) EventName() string { return "leads.lead.captured" }

// LeadRecalculated is published when an existing lead's metrics are
// recomputed against the current lookup snapshot.
type LeadRecalculated struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	Strategy string    `json:"strategy"`
}

func (e LeadRecalculated) EventName() string { return "leads.lead.recalculated" }

// ReportEmailSent is published after the savings report has been
// generated and handed to the email provider.
type ReportEmailSent struct {
	BaseEvent
	LeadID uuid.UUID `json:"leadId"`
	Email  string    `json:"email"`
}

func (e ReportEmailSent) EventName() string { return "reports.email.sent" }
