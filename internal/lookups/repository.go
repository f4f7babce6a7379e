package lookups

import (
	"context"
	"encoding/json"

	"lampolaskuri_backend/internal/formula"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgRepository reads admin-managed lookup values and formulas from Postgres.
type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) ListLookups(ctx context.Context) (map[string]any, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, value
		FROM lookups
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[string]any)
	for rows.Next() {
		var (
			name string
			raw  []byte
		)
		if err := rows.Scan(&name, &raw); err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			// Legacy rows stored bare text instead of JSON.
			value = string(raw)
		}
		items[name] = value
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}

func (r *PgRepository) ListFormulas(ctx context.Context) ([]formula.Formula, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, expression, variables, COALESCE(description, '')
		FROM formulas
		WHERE is_active = true
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]formula.Formula, 0)
	for rows.Next() {
		var (
			f        formula.Formula
			varsJSON []byte
		)
		if err := rows.Scan(&f.Name, &f.Expression, &varsJSON, &f.Description); err != nil {
			return nil, err
		}
		if len(varsJSON) > 0 {
			if err := json.Unmarshal(varsJSON, &f.Variables); err != nil {
				return nil, err
			}
		}
		items = append(items, f)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return items, nil
}
