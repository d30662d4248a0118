// Package rates stores the currency-rate masterdata the pricing core consumes.
package rates

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// ErrNotFound indicates the requested currency has no stored rate.
var ErrNotFound = errors.New("rates: not found")

// Repository persists currency rates.
type Repository interface {
	List(ctx context.Context) ([]fx.Rate, error)
	Get(ctx context.Context, code string) (fx.Rate, error)
	Upsert(ctx context.Context, rate fx.Rate) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed rate store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) List(ctx context.Context) ([]fx.Rate, error) {
	const query = `
		SELECT code, rate_to_inr, effective_date
		FROM currency_rates
		ORDER BY code`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("rates: list: %w", err)
	}
	defer rows.Close()

	var out []fx.Rate
	for rows.Next() {
		var rate fx.Rate
		if err := rows.Scan(&rate.Code, &rate.ToINR, &rate.EffectiveDate); err != nil {
			return nil, fmt.Errorf("rates: scan: %w", err)
		}
		out = append(out, rate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rates: rows: %w", err)
	}
	return out, nil
}

func (r *repository) Get(ctx context.Context, code string) (fx.Rate, error) {
	const query = `
		SELECT code, rate_to_inr, effective_date
		FROM currency_rates
		WHERE code = $1`
	var rate fx.Rate
	err := r.pool.QueryRow(ctx, query, code).Scan(&rate.Code, &rate.ToINR, &rate.EffectiveDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return fx.Rate{}, ErrNotFound
	}
	if err != nil {
		return fx.Rate{}, fmt.Errorf("rates: get %s: %w", code, err)
	}
	return rate, nil
}

func (r *repository) Upsert(ctx context.Context, rate fx.Rate) error {
	const query = `
		INSERT INTO currency_rates (code, rate_to_inr, effective_date, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (code) DO UPDATE
		SET rate_to_inr = EXCLUDED.rate_to_inr,
		    effective_date = EXCLUDED.effective_date,
		    updated_at = now()`
	if _, err := r.pool.Exec(ctx, query, rate.Code, rate.ToINR, rate.EffectiveDate); err != nil {
		return fmt.Errorf("rates: upsert %s: %w", rate.Code, err)
	}
	return nil
}
