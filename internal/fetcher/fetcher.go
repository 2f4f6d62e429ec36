// Package fetcher polls one backend endpoint and keeps the normalized result
// as panel state.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"call-insights-dashboard/internal/observability/logging"
	"call-insights-dashboard/internal/observability/metrics"
)

// maxBodyBytes caps how much of a backend response is read.
const maxBodyBytes = 10 << 20

// CacheBustParam is the query parameter carrying the request time in epoch
// milliseconds. The backend ignores it.
const CacheBustParam = "t"

// Codec converts backend responses into panel state of type T.
type Codec[T any] interface {
	// Placeholder is the state shown before any cycle completes.
	Placeholder() T
	// Decode handles a completed HTTP exchange. A non-nil error is treated as
	// a parse failure and routed to Fail.
	Decode(status int, body []byte) (T, Outcome, error)
	// Fail handles transport and parse failures. When replace is false the
	// last-known state is kept.
	Fail(err error) (value T, replace bool)
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// State is a snapshot of a fetcher's panel state.
type State[T any] struct {
	Loading   bool
	Value     T
	Outcome   Outcome
	Cycle     uint64
	Err       error
	UpdatedAt time.Time
}

// Options carries the optional collaborators of a Fetcher.
type Options struct {
	Client  Doer
	Now     func() time.Time
	Metrics *metrics.Metrics
}

// Fetcher issues cache-busted GETs against one endpoint. Overlapping Refresh
// calls are allowed; only the most recently issued one may update the state.
type Fetcher[T any] struct {
	name     string
	endpoint *url.URL
	client   Doer
	codec    Codec[T]
	now      func() time.Time
	seq      *Sequencer
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu    sync.RWMutex
	state State[T]
}

// New creates a Fetcher named name for endpoint.
func New[T any](name, endpoint string, codec Codec[T], opts Options) (*Fetcher[T], error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetcher %s: parse endpoint: %w", name, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("fetcher %s: endpoint %q must be absolute", name, endpoint)
	}

	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}

	return &Fetcher[T]{
		name:     name,
		endpoint: u,
		client:   opts.Client,
		codec:    codec,
		now:      opts.Now,
		seq:      NewSequencer(),
		metrics:  opts.Metrics,
		logger:   logging.WithEndpoint(name, u.String()),
		state:    State[T]{Value: codec.Placeholder()},
	}, nil
}

// Name returns the fetcher name used in logs and metrics.
func (f *Fetcher[T]) Name() string {
	return f.name
}

// State returns the current snapshot. Values are replaced wholesale per
// cycle, so callers must treat them as read-only.
func (f *Fetcher[T]) State() State[T] {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.state
}

// Reset returns the state to the placeholder and supersedes every request
// still in flight.
func (f *Fetcher[T]) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq.Next()
	f.state = State[T]{Value: f.codec.Placeholder()}
}

// Refresh runs one fetch cycle and returns its outcome. Failures never
// propagate: they are logged and folded into the state by the codec.
func (f *Fetcher[T]) Refresh(ctx context.Context) Outcome {
	f.mu.Lock()
	id := f.seq.Next()
	f.state.Loading = true
	f.mu.Unlock()

	start := time.Now()
	f.metrics.RecordFetchStart(f.name)
	value, outcome, replace, err := f.fetch(ctx)
	f.metrics.RecordFetchEnd(f.name)

	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seq.IsCurrent(id) {
		f.metrics.RecordStaleDropped(f.name)
		f.metrics.RecordFetch(f.name, OutcomeSuperseded.String(), time.Since(start).Seconds())
		f.logger.Debug().
			Uint64("cycle", id).
			Uint64("current", f.seq.Current()).
			Str("outcome", outcome.String()).
			Msg("Dropping superseded response")
		return OutcomeSuperseded
	}

	f.state.Loading = false
	f.state.Outcome = outcome
	f.state.Cycle = id
	f.state.Err = err
	f.state.UpdatedAt = f.now()
	if replace {
		f.state.Value = value
	}
	f.metrics.RecordFetch(f.name, outcome.String(), time.Since(start).Seconds())
	return outcome
}

func (f *Fetcher[T]) fetch(ctx context.Context) (T, Outcome, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.requestURL(), nil)
	if err != nil {
		return f.fail(err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := f.client.Do(req)
	if err != nil {
		return f.fail(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return f.fail(fmt.Errorf("read body: %w", err))
	}

	value, outcome, err := f.codec.Decode(resp.StatusCode, body)
	if err != nil {
		return f.fail(err)
	}

	f.logger.Debug().
		Int("status", resp.StatusCode).
		Str("outcome", outcome.String()).
		Msg("Fetch completed")
	return value, outcome, true, nil
}

func (f *Fetcher[T]) fail(err error) (T, Outcome, bool, error) {
	if errors.Is(err, context.Canceled) {
		f.logger.Debug().Err(err).Msg("Fetch canceled")
	} else {
		f.logger.Error().Err(err).Msg("Fetch error")
	}
	value, replace := f.codec.Fail(err)
	return value, OutcomeFailed, replace, err
}

// requestURL stamps the endpoint with the current time to defeat caches.
func (f *Fetcher[T]) requestURL() string {
	u := *f.endpoint
	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String()
}
