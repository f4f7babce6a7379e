package repository

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the persisted lead row. Raw input, the normalized record, the
// calculated metrics and the normalization log are stored as JSONB so the
// form can evolve without schema churn.
type Lead struct {
	ID          uuid.UUID
	PublicToken string
	Raw         json.RawMessage
	Normalized  json.RawMessage
	Metrics     json.RawMessage
	Log         []string
	Strategy    string
	Email       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CreateLeadParams struct {
	Raw        json.RawMessage
	Normalized json.RawMessage
	Metrics    json.RawMessage
	Log        []string
	Strategy   string
	Email      *string
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	token, err := newPublicToken()
	if err != nil {
		return Lead{}, err
	}

	var lead Lead
	err = r.pool.QueryRow(ctx, `
		INSERT INTO leads (public_token, raw, normalized, metrics, normalization_log, strategy, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, public_token, raw, normalized, metrics, normalization_log, strategy, email, created_at, updated_at
	`,
		token, params.Raw, params.Normalized, params.Metrics, params.Log, params.Strategy, params.Email,
	).Scan(
		&lead.ID, &lead.PublicToken, &lead.Raw, &lead.Normalized, &lead.Metrics,
		&lead.Log, &lead.Strategy, &lead.Email, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}

	return lead, nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *Repository) GetByPublicToken(ctx context.Context, token string) (Lead, error) {
	return r.getBy(ctx, "public_token = $1", token)
}

func (r *Repository) getBy(ctx context.Context, where string, arg any) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		SELECT id, public_token, raw, normalized, metrics, normalization_log, strategy, email, created_at, updated_at
		FROM leads
		WHERE `+where,
		arg,
	).Scan(
		&lead.ID, &lead.PublicToken, &lead.Raw, &lead.Normalized, &lead.Metrics,
		&lead.Log, &lead.Strategy, &lead.Email, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	if err != nil {
		return Lead{}, err
	}
	return lead, nil
}

func (r *Repository) List(ctx context.Context, limit, offset int) ([]Lead, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, public_token, raw, normalized, metrics, normalization_log, strategy, email, created_at, updated_at
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.PublicToken, &lead.Raw, &lead.Normalized, &lead.Metrics,
			&lead.Log, &lead.Strategy, &lead.Email, &lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		items = append(items, lead)
	}

	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

// UpdateMetrics replaces a lead's metrics and strategy after recalculation.
func (r *Repository) UpdateMetrics(ctx context.Context, id uuid.UUID, metrics json.RawMessage, strategy string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads
		SET metrics = $2, strategy = $3, updated_at = now()
		WHERE id = $1
	`, id, metrics, strategy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListIDs returns all lead IDs, oldest first. Used by the batch recalculation.
func (r *Repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM leads ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func newPublicToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
