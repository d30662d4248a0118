package trips

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tripledger/tripledger/internal/platform/db"
)

var (
	// ErrNotFound indicates the trip does not exist.
	ErrNotFound = errors.New("trips: not found")
	// ErrDuplicateName indicates another trip already uses the name.
	ErrDuplicateName = errors.New("trips: duplicate name")
)

const uniqueViolation = "23505"

// Repository persists trips and their latest quotes.
type Repository interface {
	Create(ctx context.Context, trip Trip, quote StoredQuote) error
	Get(ctx context.Context, id uuid.UUID) (*Trip, error)
	List(ctx context.Context, limit, offset int) ([]Trip, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, plan Plan, quote StoredQuote) error
	GetQuote(ctx context.Context, tripID uuid.UUID) (*StoredQuote, error)
	ReplaceQuote(ctx context.Context, quote StoredQuote) error
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository builds the pgx-backed trip store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Create stores the trip and its first quote in one transaction, so a trip is
// never visible without a priced quote.
func (r *repository) Create(ctx context.Context, trip Trip, quote StoredQuote) error {
	plan, err := json.Marshal(trip.Plan)
	if err != nil {
		return fmt.Errorf("trips: marshal plan: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			INSERT INTO trips (id, name, plan, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())`
		if _, err := tx.Exec(ctx, query, trip.ID, trip.Name, plan); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return fmt.Errorf("%w: %q", ErrDuplicateName, trip.Name)
			}
			return fmt.Errorf("trips: insert: %w", err)
		}
		return replaceQuote(ctx, tx, quote)
	})
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	const query = `
		SELECT id, name, plan, created_at, updated_at
		FROM trips
		WHERE id = $1`
	return r.scanTrip(r.pool.QueryRow(ctx, query, id))
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Trip, error) {
	const query = `
		SELECT id, name, plan, created_at, updated_at
		FROM trips
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("trips: list: %w", err)
	}
	defer rows.Close()

	var out []Trip
	for rows.Next() {
		trip, err := r.scanTrip(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trips: rows: %w", err)
	}
	return out, nil
}

func (r *repository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM trips ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("trips: list ids: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("trips: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("trips: rows: %w", err)
	}
	return ids, nil
}

func (r *repository) UpdatePlan(ctx context.Context, id uuid.UUID, plan Plan, quote StoredQuote) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("trips: marshal plan: %w", err)
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		const query = `
			UPDATE trips
			SET plan = $2, updated_at = now()
			WHERE id = $1`
		tag, err := tx.Exec(ctx, query, id, raw)
		if err != nil {
			return fmt.Errorf("trips: update plan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return replaceQuote(ctx, tx, quote)
	})
}

func (r *repository) GetQuote(ctx context.Context, tripID uuid.UUID) (*StoredQuote, error) {
	const query = `
		SELECT trip_id, quote, computed_at
		FROM trip_quotes
		WHERE trip_id = $1`
	var (
		stored StoredQuote
		raw    []byte
	)
	err := r.pool.QueryRow(ctx, query, tripID).Scan(&stored.TripID, &raw, &stored.ComputedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trips: get quote: %w", err)
	}
	if err := json.Unmarshal(raw, &stored.Quote); err != nil {
		return nil, fmt.Errorf("trips: unmarshal quote: %w", err)
	}
	return &stored, nil
}

// ReplaceQuote stores the latest quote wholesale; prior results are discarded,
// matching the recompute-everything contract of the pricing core.
func (r *repository) ReplaceQuote(ctx context.Context, quote StoredQuote) error {
	return replaceQuote(ctx, r.pool, quote)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func replaceQuote(ctx context.Context, ex execer, quote StoredQuote) error {
	raw, err := json.Marshal(quote.Quote)
	if err != nil {
		return fmt.Errorf("trips: marshal quote: %w", err)
	}
	const query = `
		INSERT INTO trip_quotes (trip_id, quote, computed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (trip_id) DO UPDATE
		SET quote = EXCLUDED.quote, computed_at = EXCLUDED.computed_at`
	computedAt := quote.ComputedAt
	if computedAt.IsZero() {
		computedAt = time.Now().UTC()
	}
	if _, err := ex.Exec(ctx, query, quote.TripID, raw, computedAt); err != nil {
		return fmt.Errorf("trips: replace quote: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *repository) scanTrip(row rowScanner) (*Trip, error) {
	var (
		trip Trip
		raw  []byte
	)
	err := row.Scan(&trip.ID, &trip.Name, &raw, &trip.CreatedAt, &trip.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trips: scan: %w", err)
	}
	if err := json.Unmarshal(raw, &trip.Plan); err != nil {
		return nil, fmt.Errorf("trips: unmarshal plan: %w", err)
	}
	return &trip, nil
}
