package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeQuoteRecompute re-prices every stored trip quote.
	TaskTypeQuoteRecompute = "quote:recompute"
)

// QuoteRecomputePayload carries the trigger context for a recompute sweep.
type QuoteRecomputePayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requested_at"`
}

// NewQuoteRecomputeTask constructs an Asynq task.
func NewQuoteRecomputeTask(payload QuoteRecomputePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeQuoteRecompute, data), nil
}

// Recomputer re-prices every stored trip. Implemented by trips.Service.
type Recomputer interface {
	RecomputeAll(ctx context.Context) error
}

// QuoteRecomputeJob processes TaskTypeQuoteRecompute tasks.
type QuoteRecomputeJob struct {
	trips  Recomputer
	logger *slog.Logger
}

// NewQuoteRecomputeJob wires the recompute handler.
func NewQuoteRecomputeJob(trips Recomputer, logger *slog.Logger) *QuoteRecomputeJob {
	return &QuoteRecomputeJob{trips: trips, logger: logger}
}

// Handle re-prices all stored quotes against the current rate table.
func (j *QuoteRecomputeJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload QuoteRecomputePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	start := time.Now()
	if err := j.trips.RecomputeAll(ctx); err != nil {
		j.logger.Error("quote recompute", slog.String("reason", payload.Reason), slog.Any("error", err))
		return err
	}
	j.logger.Info("quote recompute done",
		slog.String("reason", payload.Reason),
		slog.Duration("took", time.Since(start)),
	)
	return nil
}
