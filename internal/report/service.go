package report

import (
	"context"
	"encoding/json"
	"time"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/platform/apperr"
)

// LeadReader is the slice of the leads service the report needs.
type LeadReader interface {
	GetByPublicToken(ctx context.Context, token string) (*transport.LeadResponse, error)
}

// LookupProvider hands out the snapshot templates are resolved against.
type LookupProvider interface {
	Snapshot(ctx context.Context) lookups.Snapshot
}

// Service renders savings reports for stored leads.
type Service struct {
	leads   LeadReader
	lookups LookupProvider
	builder *Builder
}

func NewService(leads LeadReader, lp LookupProvider) *Service {
	return &Service{leads: leads, lookups: lp, builder: NewBuilder()}
}

// ForToken resolves the report for the lead behind a public token.
func (s *Service) ForToken(ctx context.Context, token string) (Data, error) {
	lead, err := s.leads.GetByPublicToken(ctx, token)
	if err != nil {
		return Data{}, err
	}
	return s.build(ctx, lead)
}

// PDFForToken renders the report PDF for the lead behind a public token.
func (s *Service) PDFForToken(ctx context.Context, token string) ([]byte, error) {
	lead, err := s.leads.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}

	data, metrics, err := s.buildWithMetrics(ctx, lead)
	if err != nil {
		return nil, err
	}

	pdf, err := GeneratePDF(PDFInput{Report: data, Metrics: metrics})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "render report PDF", err).WithOp("report.PDFForToken")
	}
	return pdf, nil
}

func (s *Service) build(ctx context.Context, lead *transport.LeadResponse) (Data, error) {
	data, _, err := s.buildWithMetrics(ctx, lead)
	return data, err
}

func (s *Service) buildWithMetrics(ctx context.Context, lead *transport.LeadResponse) (Data, calc.Metrics, error) {
	var metrics calc.Metrics
	if err := json.Unmarshal(lead.Metrics, &metrics); err != nil {
		return Data{}, calc.Metrics{}, apperr.Wrap(apperr.KindInternal, "decode lead metrics", err).WithOp("report.build")
	}

	snapshot := s.lookups.Snapshot(ctx)
	data := s.builder.Build(lead.Normalized, metrics, snapshot, time.Now())
	return data, metrics, nil
}
