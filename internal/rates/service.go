package rates

import (
	"context"
	"fmt"
	"strings"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

// Enqueuer schedules background work after a rate change. The worker re-prices
// stored quotes so they never go stale against the new table.
type Enqueuer interface {
	EnqueueQuoteRecompute(ctx context.Context, reason string) error
}

// Service exposes the rate masterdata with a cached read path.
type Service struct {
	repo     Repository
	cache    *Cache
	enqueuer Enqueuer
}

// NewService wires the repository, cache and background enqueuer.
func NewService(repo Repository, cache *Cache, enqueuer Enqueuer) *Service {
	return &Service{repo: repo, cache: cache, enqueuer: enqueuer}
}

// List returns every stored rate.
func (s *Service) List(ctx context.Context) ([]fx.Rate, error) {
	return s.cache.FetchRates(ctx, s.repo.List)
}

// Table builds the conversion table the pricing core consumes.
func (s *Service) Table(ctx context.Context) (fx.Table, error) {
	listed, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return fx.NewTable(listed)
}

// Upsert stores one rate, invalidates the cached table and schedules a
// recompute of stored quotes.
func (s *Service) Upsert(ctx context.Context, rate fx.Rate) error {
	rate.Code = strings.ToUpper(strings.TrimSpace(rate.Code))
	if rate.Code == "" || rate.Code == fx.ReportingCurrency {
		return fmt.Errorf("%w: code %q", fx.ErrInvalidRate, rate.Code)
	}
	if rate.ToINR <= 0 {
		return fmt.Errorf("%w: %s=%v", fx.ErrInvalidRate, rate.Code, rate.ToINR)
	}
	if err := s.repo.Upsert(ctx, rate); err != nil {
		return err
	}
	if err := s.cache.Bump(ctx); err != nil {
		return err
	}
	if s.enqueuer != nil {
		if err := s.enqueuer.EnqueueQuoteRecompute(ctx, "rate changed: "+rate.Code); err != nil {
			return fmt.Errorf("rates: enqueue recompute: %w", err)
		}
	}
	return nil
}
