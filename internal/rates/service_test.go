package rates

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/tripledger/tripledger/internal/pricing/fx"
)

type stubRepo struct {
	rates     []fx.Rate
	listCalls int
	upserts   []fx.Rate
}

func (s *stubRepo) List(ctx context.Context) ([]fx.Rate, error) {
	s.listCalls++
	out := make([]fx.Rate, len(s.rates))
	copy(out, s.rates)
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, code string) (fx.Rate, error) {
	for _, rate := range s.rates {
		if rate.Code == code {
			return rate, nil
		}
	}
	return fx.Rate{}, ErrNotFound
}

func (s *stubRepo) Upsert(ctx context.Context, rate fx.Rate) error {
	s.upserts = append(s.upserts, rate)
	s.rates = append(s.rates, rate)
	return nil
}

type stubEnqueuer struct {
	reasons []string
}

func (s *stubEnqueuer) EnqueueQuoteRecompute(ctx context.Context, reason string) error {
	s.reasons = append(s.reasons, reason)
	return nil
}

func newTestService(t *testing.T, repo Repository, enq Enqueuer) (*Service, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewService(repo, NewCache(client, time.Minute), enq)
	return svc, func() {
		_ = client.Close()
		mr.Close()
	}
}

func TestListCachesUntilUpsert(t *testing.T) {
	repo := &stubRepo{rates: []fx.Rate{{Code: "USD", ToINR: 83.2}}}
	enq := &stubEnqueuer{}
	svc, cleanup := newTestService(t, repo, enq)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		listed, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("List returned error: %v", err)
		}
		if len(listed) != 1 || listed[0].Code != "USD" {
			t.Fatalf("unexpected rates: %+v", listed)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected a single repository hit, got %d", repo.listCalls)
	}

	if err := svc.Upsert(ctx, fx.Rate{Code: "eur", ToINR: 90.5}); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}
	listed, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("cache was not invalidated: %+v", listed)
	}
	if repo.listCalls != 2 {
		t.Fatalf("expected reload after upsert, got %d calls", repo.listCalls)
	}
	if repo.upserts[0].Code != "EUR" {
		t.Fatalf("code should be normalised, got %q", repo.upserts[0].Code)
	}
	if len(enq.reasons) != 1 {
		t.Fatalf("expected one recompute enqueue, got %v", enq.reasons)
	}
}

func TestUpsertRejectsBadRates(t *testing.T) {
	svc, cleanup := newTestService(t, &stubRepo{}, nil)
	defer cleanup()

	err := svc.Upsert(context.Background(), fx.Rate{Code: "USD", ToINR: 0})
	if !errors.Is(err, fx.ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	err = svc.Upsert(context.Background(), fx.Rate{Code: "INR", ToINR: 1})
	if !errors.Is(err, fx.ErrInvalidRate) {
		t.Fatalf("reporting currency must not be stored, got %v", err)
	}
}

func TestTableBuildsConversionTable(t *testing.T) {
	repo := &stubRepo{rates: []fx.Rate{{Code: "USD", ToINR: 83.2}}}
	svc, cleanup := newTestService(t, repo, nil)
	defer cleanup()

	table, err := svc.Table(context.Background())
	if err != nil {
		t.Fatalf("Table returned error: %v", err)
	}
	got, err := table.Convert(2, "USD")
	if err != nil {
		t.Fatalf("Convert returned error: %v", err)
	}
	if got != 166.4 {
		t.Fatalf("expected 166.4, got %v", got)
	}
}
