package scheduler

import (
	"context"
	"fmt"

	"lampolaskuri_backend/internal/email"
	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/internal/leads/service"
	"lampolaskuri_backend/internal/report"
	"lampolaskuri_backend/platform/config"
	"lampolaskuri_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server  *asynq.Server
	mux     *asynq.ServeMux
	leads   *service.Service
	reports *report.Service
	sender  email.Sender
	bus     events.Bus
	baseURL string
	log     *logger.Logger
}

type WorkerConfig interface {
	config.SchedulerConfig
	config.AppConfig
}

func NewWorker(cfg WorkerConfig, leads *service.Service, reports *report.Service, sender email.Sender, bus events.Bus, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:  server,
		mux:     mux,
		leads:   leads,
		reports: reports,
		sender:  sender,
		bus:     bus,
		baseURL: cfg.GetAppBaseURL(),
		log:     log,
	}

	mux.HandleFunc(TaskReportEmail, w.handleReportEmail)
	mux.HandleFunc(TaskLeadRecalculation, w.handleLeadRecalculation)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleReportEmail renders the savings report PDF for a captured lead and
// mails it. Leads without an email address are skipped, not retried.
func (w *Worker) handleReportEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReportEmailPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	lead, err := w.leads.Get(ctx, leadID)
	if err != nil {
		return err
	}

	if lead.Normalized.Email == nil || *lead.Normalized.Email == "" {
		w.log.Info("report email skipped, lead has no email", "leadId", leadID)
		return nil
	}
	toEmail := *lead.Normalized.Email

	pdf, err := w.reports.PDFForToken(ctx, lead.PublicToken)
	if err != nil {
		return err
	}

	recipientName := ""
	if lead.Normalized.Name != nil {
		recipientName = *lead.Normalized.Name
	}
	reportURL := fmt.Sprintf("%s/laskelma/%s", w.baseURL, lead.PublicToken)

	err = w.sender.SendReportEmail(ctx, toEmail, recipientName, reportURL, email.Attachment{
		Content:  pdf,
		FileName: "saastolaskelma.pdf",
		MIMEType: "application/pdf",
	})
	if err != nil {
		w.log.EmailEvent("report", toEmail, false, err.Error())
		return err
	}
	w.log.EmailEvent("report", toEmail, true, "")

	if w.bus != nil {
		w.bus.Publish(ctx, events.ReportEmailSent{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    leadID,
			Email:     toEmail,
		})
	}

	return nil
}

// handleLeadRecalculation re-runs the metric calculation for every stored
// lead against the current lookup snapshot.
func (w *Worker) handleLeadRecalculation(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRecalculationPayload(task)
	if err != nil {
		return err
	}

	processed, err := w.leads.RecalculateAll(ctx)
	if err != nil {
		return err
	}

	w.log.Info("lead recalculation sweep complete",
		"processed", processed,
		"requestedBy", payload.RequestedBy,
	)
	return nil
}
