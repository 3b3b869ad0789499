package email

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog/log"
)

// Kind identifies which notification a job carries.
type Kind string

const (
	KindWelcome Kind = "welcome"
	KindAdmin   Kind = "admin"
)

// Recorder stores the outcome of each notification.
type Recorder interface {
	CreateEvent(ctx context.Context, eventType, level, message string) error
}

// Options configures a Dispatcher.
type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	// AdminEmail receives a copy of every signup. Empty disables admin notifications.
	AdminEmail string
	// RetryDelay is the base backoff between attempts.
	RetryDelay time.Duration
	// SendTimeout bounds all attempts of a single job.
	SendTimeout time.Duration
}

type job struct {
	kind       Kind
	to         string
	subject    string
	body       string
	subscriber string
}

// Dispatcher sends signup notifications on a bounded pool of workers.
// Enqueueing never blocks the caller; when the queue is full the job is dropped.
type Dispatcher struct {
	provider Provider
	recorder Recorder
	opts     Options

	queue chan job
	wg    sync.WaitGroup

	mu       sync.RWMutex
	started  bool
	stopped  bool
	stopOnce sync.Once
}

// NewDispatcher creates a Dispatcher. Zero values in opts fall back to defaults.
func NewDispatcher(provider Provider, recorder Recorder, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = time.Second
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 2 * time.Minute
	}
	return &Dispatcher{
		provider: provider,
		recorder: recorder,
		opts:     opts,
		queue:    make(chan job, opts.QueueSize),
	}
}

// Start launches the worker goroutines.
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started || d.stopped {
		return
	}
	d.started = true

	log.Info().Int("workers", d.opts.Workers).Int("queue_size", d.opts.QueueSize).Msg("Starting email dispatcher")
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
}

// Stop stops accepting jobs and waits until the queued ones have been processed.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		started := d.started
		d.mu.Unlock()

		if !started {
			// Nothing will consume the queue; record what is left as dropped.
			for j := range d.queue {
				d.record(j, "dropped", nil)
			}
			return
		}
		d.wg.Wait()
		log.Info().Msg("Email dispatcher stopped")
	})
}

// NotifySubscribed queues the welcome email for email and, when configured,
// the admin notification about it.
func (d *Dispatcher) NotifySubscribed(email string) {
	d.enqueue(job{kind: KindWelcome, to: email, subject: welcomeSubject, body: welcomeBody(), subscriber: email})
	if d.opts.AdminEmail != "" {
		d.enqueue(job{kind: KindAdmin, to: d.opts.AdminEmail, subject: adminSubject, body: adminBody(email), subscriber: email})
	}
}

func (d *Dispatcher) enqueue(j job) {
	if d.tryEnqueue(j) {
		return
	}
	// Recording touches the store; keep it off the caller's goroutine.
	go d.record(j, "dropped", nil)
}

func (d *Dispatcher) tryEnqueue(j job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}
	select {
	case d.queue <- j:
		return true
	default:
		return false
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *Dispatcher) deliver(j job) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.SendTimeout)
	defer cancel()

	err := retry.Do(
		func() error {
			return d.provider.Send(ctx, j.to, j.subject, j.body)
		},
		retry.Attempts(uint(d.opts.MaxAttempts)),
		retry.Delay(d.opts.RetryDelay),
		retry.MaxDelay(30*time.Second),
		retry.MaxJitter(d.opts.RetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return !IsPermanent(err) }),
		retry.OnRetry(func(n uint, err error) {
			log.Warn().Err(err).Uint("attempt", n+1).Str("kind", string(j.kind)).Str("to", j.to).
				Msg("Email send failed, retrying")
		}),
	)
	if err != nil {
		d.record(j, "failed", err)
		return
	}
	d.record(j, "sent", nil)
}

func (d *Dispatcher) record(j job, outcome string, sendErr error) {
	eventType := fmt.Sprintf("notification.%s.%s", j.kind, outcome)
	level := "info"
	var msg string
	switch outcome {
	case "sent":
		msg = fmt.Sprintf("Sent %s email for %s.", j.kind, j.subscriber)
		log.Info().Str("kind", string(j.kind)).Str("to", j.to).Msg("Email sent")
	case "dropped":
		level = "warn"
		msg = fmt.Sprintf("Dropped %s email for %s, queue unavailable.", j.kind, j.subscriber)
		log.Warn().Str("kind", string(j.kind)).Str("to", j.to).Msg("Email queue full, notification dropped")
	default:
		level = "error"
		msg = fmt.Sprintf("Failed to send %s email for %s: %v", j.kind, j.subscriber, sendErr)
		log.Error().Err(sendErr).Str("kind", string(j.kind)).Str("to", j.to).Msg("Email send failed")
	}

	if d.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.recorder.CreateEvent(ctx, eventType, level, msg); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("Failed to record notification outcome")
	}
}
