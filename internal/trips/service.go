package trips

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tripledger/tripledger/internal/pricing"
	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// RateSource resolves the current conversion table. Implemented by the rates
// service; stubbed in tests.
type RateSource interface {
	Table(ctx context.Context) (fx.Table, error)
}

// QuoteMetrics records quote computations. Implemented by observability.Metrics.
type QuoteMetrics interface {
	QuoteComputed(tripType string, fallback bool)
}

// ServiceConfig tunes the pricing pipeline.
type ServiceConfig struct {
	// RoomSearchBudget bounds the cost-optimized room search; zero uses the
	// engine default.
	RoomSearchBudget int
	// RecomputeConcurrency bounds parallel quote recomputes; zero means 4.
	RecomputeConcurrency int
}

// Service orchestrates trip storage and quote computation.
type Service struct {
	repo    Repository
	rates   RateSource
	logger  *slog.Logger
	metrics QuoteMetrics
	cfg     ServiceConfig
}

// NewService wires the trip service.
func NewService(repo Repository, rateSource RateSource, logger *slog.Logger, metrics QuoteMetrics, cfg ServiceConfig) *Service {
	return &Service{repo: repo, rates: rateSource, logger: logger, metrics: metrics, cfg: cfg}
}

// Create stores a new trip and its first computed quote.
func (s *Service) Create(ctx context.Context, req CreateTripRequest) (*Trip, *StoredQuote, error) {
	plan := buildPlan(req.TripType, req.Scope, req.Participants, req.Stays, req.Items, req.Profit, req.GSTPercent, req.TCSPercent)
	quote, err := s.compute(ctx, plan)
	if err != nil {
		return nil, nil, err
	}

	trip := Trip{ID: uuid.New(), Name: req.Name, Plan: plan}
	stored := StoredQuote{TripID: trip.ID, Quote: quote, ComputedAt: time.Now().UTC()}
	if err := s.repo.Create(ctx, trip, stored); err != nil {
		return nil, nil, err
	}
	created, err := s.repo.Get(ctx, trip.ID)
	if err != nil {
		return nil, nil, err
	}
	return created, &stored, nil
}

// UpdatePlan replaces a trip's plan and recomputes the quote wholesale.
func (s *Service) UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*StoredQuote, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}
	plan := buildPlan(req.TripType, req.Scope, req.Participants, req.Stays, req.Items, req.Profit, req.GSTPercent, req.TCSPercent)
	quote, err := s.compute(ctx, plan)
	if err != nil {
		return nil, err
	}
	stored := StoredQuote{TripID: id, Quote: quote, ComputedAt: time.Now().UTC()}
	if err := s.repo.UpdatePlan(ctx, id, plan, stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// Get returns one trip.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Trip, error) {
	return s.repo.Get(ctx, id)
}

// List returns stored trips, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Trip, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// Quote returns the latest stored quote for a trip.
func (s *Service) Quote(ctx context.Context, tripID uuid.UUID) (*StoredQuote, error) {
	return s.repo.GetQuote(ctx, tripID)
}

// Recompute re-prices one trip against the current rate table and replaces
// its stored quote.
func (s *Service) Recompute(ctx context.Context, tripID uuid.UUID) (*StoredQuote, error) {
	trip, err := s.repo.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	quote, err := s.compute(ctx, trip.Plan)
	if err != nil {
		return nil, fmt.Errorf("recompute trip %s: %w", tripID, err)
	}
	stored := StoredQuote{TripID: tripID, Quote: quote, ComputedAt: time.Now().UTC()}
	if err := s.repo.ReplaceQuote(ctx, stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// RecomputeAll re-prices every stored trip, a bounded number at a time. A trip
// whose plan no longer prices (say, a rate was deleted) is logged and skipped
// rather than aborting the batch.
func (s *Service) RecomputeAll(ctx context.Context) error {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return err
	}
	concurrency := s.cfg.RecomputeConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)
	for _, id := range ids {
		group.Go(func() error {
			if _, err := s.Recompute(ctx, id); err != nil {
				s.logger.Warn("recompute skipped", slog.String("trip_id", id.String()), slog.Any("error", err))
			}
			return nil
		})
	}
	return group.Wait()
}

func (s *Service) compute(ctx context.Context, plan Plan) (pricing.Quote, error) {
	table, err := s.rates.Table(ctx)
	if err != nil {
		return pricing.Quote{}, fmt.Errorf("load rate table: %w", err)
	}
	quote, err := pricing.ComputeQuote(pricing.QuoteInput{
		TripType:     plan.TripType,
		Scope:        plan.Scope,
		Roster:       plan.Roster,
		Stays:        plan.Stays,
		Items:        plan.Items,
		Tax:          plan.Tax,
		Rates:        table,
		SearchBudget: s.cfg.RoomSearchBudget,
	})
	if err != nil {
		return pricing.Quote{}, err
	}
	if s.metrics != nil {
		s.metrics.QuoteComputed(string(plan.TripType), quote.Fallback)
	}
	return quote, nil
}
