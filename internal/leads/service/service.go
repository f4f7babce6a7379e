// Package service implements the lead capture pipeline: normalize the raw
// form, calculate the savings metrics against the current lookup snapshot,
// persist, and announce the lead on the event bus.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lampolaskuri_backend/internal/calc"
	"lampolaskuri_backend/internal/events"
	"lampolaskuri_backend/internal/leads/normalizer"
	"lampolaskuri_backend/internal/leads/repository"
	"lampolaskuri_backend/internal/leads/transport"
	"lampolaskuri_backend/internal/lookups"
	"lampolaskuri_backend/platform/apperr"
	"lampolaskuri_backend/platform/logger"

	"github.com/google/uuid"
)

// LookupProvider hands out the lookup/formula snapshot calculations run against.
type LookupProvider interface {
	Snapshot(ctx context.Context) lookups.Snapshot
}

type Service struct {
	repo     *repository.Repository
	norm     *normalizer.Normalizer
	lookups  LookupProvider
	log      *logger.Logger
	eventBus events.Bus
}

func New(repo *repository.Repository, norm *normalizer.Normalizer, lp LookupProvider, log *logger.Logger) *Service {
	return &Service{repo: repo, norm: norm, lookups: lp, log: log}
}

// SetEventBus injects the event bus (set after construction to break circular deps).
func (s *Service) SetEventBus(bus events.Bus) {
	s.eventBus = bus
}

// Submit runs the full capture pipeline for one raw form submission.
func (s *Service) Submit(ctx context.Context, input transport.LeadInput) (*transport.SubmitLeadResponse, error) {
	const op = "leads.Submit"

	normalized, auditLog := s.norm.Normalize(input)

	snapshot := s.lookups.Snapshot(ctx)
	metrics := calc.ComputeMetrics(normalized, snapshot.CalcContext())

	rawJSON, err := json.Marshal(input)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marshal raw input", err).WithOp(op)
	}
	normalizedJSON, err := json.Marshal(normalized)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marshal normalized lead", err).WithOp(op)
	}
	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marshal metrics", err).WithOp(op)
	}

	lead, err := s.repo.Create(ctx, repository.CreateLeadParams{
		Raw:        rawJSON,
		Normalized: normalizedJSON,
		Metrics:    metricsJSON,
		Log:        auditLog,
		Strategy:   metrics.Current.Strategy,
		Email:      normalized.Email,
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist lead", err).WithOp(op)
	}

	s.log.CalculationEvent(lead.ID.String(), metrics.Current.Strategy, len(auditLog))

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadCaptured{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      lead.ID,
			Email:       normalized.Email,
			HeatingType: normalized.HeatingTypeText(),
			Strategy:    metrics.Current.Strategy,
		})
	}

	return &transport.SubmitLeadResponse{
		ID:          lead.ID,
		PublicToken: lead.PublicToken,
		Metrics:     lead.Metrics,
	}, nil
}

// Get returns one lead by internal ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr("leads.Get", err)
	}
	return toResponse(lead)
}

// GetByPublicToken returns one lead by its public report token.
func (s *Service) GetByPublicToken(ctx context.Context, token string) (*transport.LeadResponse, error) {
	lead, err := s.repo.GetByPublicToken(ctx, token)
	if err != nil {
		return nil, wrapRepoErr("leads.GetByPublicToken", err)
	}
	return toResponse(lead)
}

// List returns a page of leads, newest first.
func (s *Service) List(ctx context.Context, req transport.ListLeadsRequest) (*transport.ListLeadsResponse, error) {
	const op = "leads.List"

	offset := (req.Page - 1) * req.PageSize
	rows, total, err := s.repo.List(ctx, req.PageSize, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list leads", err).WithOp(op)
	}

	items := make([]transport.LeadResponse, 0, len(rows))
	for _, lead := range rows {
		resp, err := toResponse(lead)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindInternal, "decode lead", err).WithOp(op)
		}
		items = append(items, *resp)
	}

	return &transport.ListLeadsResponse{
		Items:    items,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

// Recalculate recomputes a lead's metrics against the current lookup
// snapshot and stores the result. The stored normalized record is the input;
// raw input is never re-normalized.
func (s *Service) Recalculate(ctx context.Context, id uuid.UUID) (*transport.LeadResponse, error) {
	const op = "leads.Recalculate"

	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapRepoErr(op, err)
	}

	var normalized transport.LeadNormalized
	if err := json.Unmarshal(lead.Normalized, &normalized); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "decode normalized lead", err).WithOp(op)
	}

	snapshot := s.lookups.Snapshot(ctx)
	metrics := calc.ComputeMetrics(normalized, snapshot.CalcContext())

	metricsJSON, err := json.Marshal(metrics)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "marshal metrics", err).WithOp(op)
	}

	if err := s.repo.UpdateMetrics(ctx, id, metricsJSON, metrics.Current.Strategy); err != nil {
		return nil, wrapRepoErr(op, err)
	}

	if s.eventBus != nil {
		s.eventBus.Publish(ctx, events.LeadRecalculated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    id,
			Strategy:  metrics.Current.Strategy,
		})
	}

	return s.Get(ctx, id)
}

// RecalculateAll recomputes every stored lead. Returns the number of leads
// processed and the first error per lead is logged, not fatal.
func (s *Service) RecalculateAll(ctx context.Context) (int, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "list lead ids", err).WithOp("leads.RecalculateAll")
	}

	processed := 0
	for _, id := range ids {
		if ctx.Err() != nil {
			return processed, ctx.Err()
		}
		if _, err := s.Recalculate(ctx, id); err != nil {
			s.log.Error("lead recalculation failed", "leadId", id, "error", err)
			continue
		}
		processed++
	}

	return processed, nil
}

func toResponse(lead repository.Lead) (*transport.LeadResponse, error) {
	var normalized transport.LeadNormalized
	if err := json.Unmarshal(lead.Normalized, &normalized); err != nil {
		return nil, fmt.Errorf("decode normalized lead %s: %w", lead.ID, err)
	}

	return &transport.LeadResponse{
		ID:          lead.ID,
		PublicToken: lead.PublicToken,
		Normalized:  normalized,
		Metrics:     lead.Metrics,
		Log:         lead.Log,
		CreatedAt:   lead.CreatedAt,
		UpdatedAt:   lead.UpdatedAt,
	}, nil
}

func wrapRepoErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	return apperr.Wrap(apperr.KindInternal, "lead lookup failed", err).WithOp(op)
}
