package onboarding

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/congo-pay/payout_demo/internal/store"
	"github.com/congo-pay/payout_demo/internal/treasury"
)

var (
	// ErrQueueFull indicates the background queue cannot take another submission.
	ErrQueueFull = errors.New("onboarding queue is full")

	// ErrClosed indicates the dispatcher is shutting down.
	ErrClosed = errors.New("onboarding dispatcher is closed")
)

const (
	statusSubmitted = "submitted"
	statusFailed    = "failed"
)

// Submitter sends onboarding requests to the payments platform.
type Submitter interface {
	CreateOnboarding(ctx context.Context, req treasury.OnboardingRequest) (treasury.Onboarding, error)
}

// Options tunes a Dispatcher.
type Options struct {
	Workers   int
	QueueSize int
	Retry     RetryPolicy
}

// DefaultOptions retries transient platform failures three times.
func DefaultOptions() Options {
	return Options{
		Workers:   2,
		QueueSize: 128,
		Retry: RetryPolicy{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     10 * time.Second,
			Multiplier:   2,
			Jitter:       0.1,
			RetryIf:      treasury.IsRetryable,
		},
	}
}

type job struct {
	id  string
	req treasury.OnboardingRequest
}

// Dispatcher submits onboarding requests in the background. Callers get an
// answer as soon as the request is queued; the outcome is logged and recorded.
type Dispatcher struct {
	submitter Submitter
	activity  store.Repository
	logger    *slog.Logger
	retry     RetryPolicy

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher starts opts.Workers workers. activity and logger may be nil.
func NewDispatcher(submitter Submitter, activity store.Repository, logger *slog.Logger, opts Options) *Dispatcher {
	defaults := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = defaults.Workers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaults.QueueSize
	}
	if opts.Retry.RetryIf == nil {
		opts.Retry.RetryIf = treasury.IsRetryable
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		submitter: submitter,
		activity:  activity,
		logger:    logger,
		retry:     opts.Retry,
		queue:     make(chan job, opts.QueueSize),
		ctx:       ctx,
		cancel:    cancel,
	}
	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	return d
}

// Enqueue schedules req and returns the job id used in logs and the activity trail.
func (d *Dispatcher) Enqueue(req treasury.OnboardingRequest) (string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return "", ErrClosed
	}

	j := job{id: uuid.NewString(), req: req}
	select {
	case d.queue <- j:
		return j.id, nil
	default:
		return "", ErrQueueFull
	}
}

// Close stops accepting work and waits for queued jobs. When ctx expires first,
// in-flight submissions are cancelled.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for j := range d.queue {
		d.process(j)
	}
}

func (d *Dispatcher) process(j job) {
	var result treasury.Onboarding
	attempts, err := d.retry.retry(d.ctx, func(ctx context.Context) error {
		var err error
		result, err = d.submitter.CreateOnboarding(ctx, j.req)
		return err
	})

	activity := store.Activity{
		Kind:      store.KindOnboarding,
		Topic:     j.req.FlowAlias,
		Reference: j.id,
	}
	if err != nil {
		activity.Status = statusFailed
		activity.Payload = err.Error()
		d.logger.Error("onboarding submission failed",
			slog.String("job_id", j.id),
			slog.Int("attempts", attempts),
			slog.Any("error", err),
		)
	} else {
		activity.Status = statusSubmitted
		if result.ID != "" {
			activity.Reference = result.ID
		}
		d.logger.Info("onboarding submitted",
			slog.String("job_id", j.id),
			slog.String("onboarding_id", result.ID),
			slog.String("status", result.Status),
			slog.Int("attempts", attempts),
		)
	}

	if d.activity != nil {
		if err := d.activity.Record(context.Background(), activity); err != nil {
			d.logger.Warn("record onboarding activity", slog.String("job_id", j.id), slog.Any("error", err))
		}
	}
}
