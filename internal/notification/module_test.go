package notification

import (
	"context"
	"testing"

	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/internal/scheduler"
	"lampolaskuri_backend/platform/logger"

	"github.com/google/uuid"
)

type testScheduler struct {
	enqueued []scheduler.ReportEmailPayload
}

func (s *testScheduler) EnqueueReportEmail(_ context.Context, payload scheduler.ReportEmailPayload) error {
	s.enqueued = append(s.enqueued, payload)
	return nil
}

func strPtr(s string) *string { return &s }

func TestLeadCapturedEnqueuesReportEmail(t *testing.T) {
	sched := &testScheduler{}
	m := New(sched, logger.New("development"))

	leadID := uuid.New()
	err := m.Handle(context.Background(), events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    leadID,
		Email:     strPtr("asiakas@example.com"),
		Strategy:  "oil",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sched.enqueued) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(sched.enqueued))
	}
	if sched.enqueued[0].LeadID != leadID.String() {
		t.Fatalf("lead id = %s, want %s", sched.enqueued[0].LeadID, leadID)
	}
}

func TestLeadCapturedWithoutEmailIsSkipped(t *testing.T) {
	sched := &testScheduler{}
	m := New(sched, logger.New("development"))

	err := m.Handle(context.Background(), events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Strategy:  "gas",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if len(sched.enqueued) != 0 {
		t.Fatalf("enqueued = %d, want 0", len(sched.enqueued))
	}
}

func TestLeadCapturedWithoutQueueDoesNotFail(t *testing.T) {
	m := New(nil, logger.New("development"))

	err := m.Handle(context.Background(), events.LeadCaptured{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    uuid.New(),
		Email:     strPtr("asiakas@example.com"),
		Strategy:  "oil",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
}
