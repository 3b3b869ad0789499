// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// FallbackStore is the part of the subscriber service the flusher drives.
type FallbackStore interface {
	PendingFallback() int
	FlushFallback(ctx context.Context) (int, error)
}

// FallbackFlusher replays subscribers held in memory during a database outage
// on a cron schedule.
type FallbackFlusher struct {
	store    FallbackStore
	schedule cron.Schedule
	timeout  time.Duration
	now      func() time.Time
	done     chan bool
	stopped  chan struct{}
}

// NewFallbackFlusher creates a flusher for a standard five-field cron expression.
func NewFallbackFlusher(store FallbackStore, expr string) (*FallbackFlusher, error) {
	schedule, err := cron.ParseStandard(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid flush schedule %q: %w", expr, err)
	}
	return &FallbackFlusher{
		store:    store,
		schedule: schedule,
		timeout:  time.Minute,
		now:      time.Now,
		done:     make(chan bool),
		stopped:  make(chan struct{}),
	}, nil
}

// Run waits for each scheduled time and flushes until Stop is called.
func (f *FallbackFlusher) Run() {
	defer close(f.stopped)
	log.Info().Msg("Starting fallback flusher")

	for {
		next := f.schedule.Next(f.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-f.done:
			timer.Stop()
			log.Info().Msg("Stopping fallback flusher")
			return
		case <-timer.C:
			f.Flush()
		}
	}
}

// Stop halts the flusher. It is safe to call more than once.
func (f *FallbackFlusher) Stop() {
	select {
	case <-f.stopped:
	case f.done <- true:
		<-f.stopped
	}
}

// Flush runs one replay if anything is pending and returns how many subscribers were saved.
func (f *FallbackFlusher) Flush() int {
	pending := f.store.PendingFallback()
	if pending == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()

	flushed, err := f.store.FlushFallback(ctx)
	if err != nil {
		log.Warn().Err(err).Int("flushed", flushed).Int("pending", pending-flushed).
			Msg("Database still unavailable, keeping subscribers in memory")
		return flushed
	}
	log.Info().Int("flushed", flushed).Msg("Flushed in-memory subscribers to the database")
	return flushed
}
