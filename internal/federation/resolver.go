package federation

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// DefaultMaxRetries bounds how often a failed fetch is retried.
	DefaultMaxRetries = 50

	defaultInitialInterval = time.Second
	defaultMaxInterval     = 30 * time.Second
	defaultMultiplier      = 2
)

// Attempt outcomes reported to a Recorder.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeEmpty   = "empty"
)

// Recorder observes individual fetch attempts.
type Recorder interface {
	ObserveFetchAttempt(outcome string)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxRetries overrides DefaultMaxRetries.
func WithMaxRetries(n uint64) Option {
	return func(r *Resolver) {
		r.maxRetries = n
	}
}

// WithBackOff overrides the delay policy between attempts (primarily for tests).
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(r *Resolver) {
		r.newBackOff = newBackOff
	}
}

// WithRecorder reports every attempt to rec.
func WithRecorder(rec Recorder) Option {
	return func(r *Resolver) {
		r.recorder = rec
	}
}

// Resolver fetches and normalizes federation metadata. Calls are independent
// of each other and may run concurrently.
type Resolver struct {
	fetcher    Fetcher
	logger     *zap.Logger
	maxRetries uint64
	newBackOff func() backoff.BackOff
	recorder   Recorder
}

// NewResolver builds a Resolver. A nil fetcher defaults to an HTTPFetcher and
// a nil logger discards retry diagnostics.
func NewResolver(fetcher Fetcher, logger *zap.Logger, opts ...Option) *Resolver {
	if fetcher == nil {
		fetcher = NewHTTPFetcher(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		fetcher:    fetcher,
		logger:     logger,
		maxRetries: DefaultMaxRetries,
		newBackOff: defaultBackOff,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultInitialInterval
	b.Multiplier = defaultMultiplier
	b.MaxInterval = defaultMaxInterval
	b.RandomizationFactor = 0
	// The retry count is the only budget.
	b.MaxElapsedTime = 0
	return b
}

// Resolve fetches the metadata at url and normalizes it. Transient failures
// are retried with exponential backoff, each retry logged at warn level. A
// fetch that returns no descriptor fails immediately with ErrNoMetadata.
// Once retries are exhausted the last error is returned wrapped in a
// *FetchError.
func (r *Resolver) Resolve(ctx context.Context, url string) (*Metadata, error) {
	var (
		result   *Metadata
		attempts int
	)

	operation := func() error {
		attempts++
		desc, err := r.fetcher.Fetch(ctx, url)
		if err != nil {
			r.observe(OutcomeError)
			return err
		}
		if desc == nil {
			r.observe(OutcomeEmpty)
			return backoff.Permanent(ErrNoMetadata)
		}
		result = Normalize(desc)
		r.observe(OutcomeSuccess)
		return nil
	}

	notify := func(err error, wait time.Duration) {
		r.logger.Warn("retrying federation metadata fetch",
			zap.Int("attempt", attempts),
			zap.Error(err),
			zap.String("url", url),
			zap.Duration("backoff", wait),
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), r.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &FetchError{URL: url, Attempts: attempts, Err: err}
	}
	return result, nil
}

func (r *Resolver) observe(outcome string) {
	if r.recorder != nil {
		r.recorder.ObserveFetchAttempt(outcome)
	}
}
