package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/storm-data-shared/retry"

	"github.com/couchcryptid/weather-forecast-service/internal/domain"
	"github.com/couchcryptid/weather-forecast-service/internal/observability"
)

// Retry backoff for feed writes: start at 200ms, double each retry, cap at 5s.
const (
	initialBackoff = 200 * time.Millisecond
	maxBackoff     = 5 * time.Second
)

// BatchLoader writes forecast events to the feed.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.ForecastIssued) error
}

// Publisher buffers forecast events from request handlers and writes them to
// the feed in batches from a single background loop.
type Publisher struct {
	loader        BatchLoader
	queue         chan domain.ForecastIssued
	logger        *slog.Logger
	metrics       *observability.Metrics
	running       atomic.Bool
	batchSize     int
	flushInterval time.Duration
}

// New creates a Publisher with a queue of queueSize pending events.
func New(l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int, flushInterval time.Duration, queueSize int) *Publisher {
	return &Publisher{
		loader:        l,
		queue:         make(chan domain.ForecastIssued, queueSize),
		logger:        logger,
		metrics:       metrics,
		batchSize:     batchSize,
		flushInterval: flushInterval,
	}
}

// Submit enqueues an event without blocking. It returns false and drops the
// event when the queue is full.
func (p *Publisher) Submit(event domain.ForecastIssued) bool {
	select {
	case p.queue <- event:
		p.metrics.PublishQueued.Inc()
		p.metrics.PublishQueueLen.Set(float64(len(p.queue)))
		return true
	default:
		p.metrics.PublishDropped.Inc()
		p.logger.Warn("publish queue full, dropping forecast batch", "event_id", event.ID)
		return false
	}
}

// CheckReadiness returns nil while Run is active.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("forecast publisher is not running")
	}
	return nil
}

// Run drains the queue into the loader until the context is cancelled.
// Events still queued at shutdown are not delivered.
func (p *Publisher) Run(ctx context.Context) error {
	p.logger.Info("publisher started", "batch_size", p.batchSize, "flush_interval", p.flushInterval)
	p.running.Store(true)
	p.metrics.PublisherActive.Set(1)
	defer func() {
		p.running.Store(false)
		p.metrics.PublisherActive.Set(0)
	}()

	for {
		batch, ok := p.collectBatch(ctx)
		p.metrics.PublishQueueLen.Set(float64(len(p.queue)))
		if !ok {
			p.logger.Info("publisher stopping", "reason", ctx.Err(), "undelivered", len(batch)+len(p.queue))
			return nil
		}

		if !p.loadWithRetry(ctx, batch) {
			p.logger.Info("publisher stopping", "reason", ctx.Err(), "undelivered", len(batch)+len(p.queue))
			return nil
		}
	}
}

// collectBatch blocks for the first event, then gathers more until the batch
// is full or the flush interval passes. Returns false if the context ended.
func (p *Publisher) collectBatch(ctx context.Context) ([]domain.ForecastIssued, bool) {
	batch := make([]domain.ForecastIssued, 0, p.batchSize)

	select {
	case <-ctx.Done():
		return batch, false
	case ev := <-p.queue:
		batch = append(batch, ev)
	}

	timer := time.NewTimer(p.flushInterval)
	defer timer.Stop()

	for len(batch) < p.batchSize {
		select {
		case <-ctx.Done():
			return batch, false
		case <-timer.C:
			return batch, true
		case ev := <-p.queue:
			batch = append(batch, ev)
		}
	}
	return batch, true
}

// loadWithRetry writes the batch, backing off between failures until it
// succeeds. Returns false if the context ended first.
func (p *Publisher) loadWithRetry(ctx context.Context, batch []domain.ForecastIssued) bool {
	backoff := initialBackoff
	for {
		start := time.Now()
		err := p.loader.LoadBatch(ctx, batch)
		if err == nil {
			p.metrics.EventsPublished.Add(float64(len(batch)))
			p.metrics.PublishDuration.Observe(time.Since(start).Seconds())
			p.logger.Debug("forecast batch published", "events", len(batch))
			return true
		}
		if ctx.Err() != nil {
			return false
		}

		p.metrics.PublishErrors.Inc()
		p.logger.Error("load batch failed", "error", err, "batch_size", len(batch), "retry_in", backoff)
		if !retry.SleepWithContext(ctx, backoff) {
			return false
		}
		backoff = retry.NextBackoff(backoff, maxBackoff)
	}
}
