package host

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Priority orders queued requests. The rate limiter itself is FIFO; the
// priority travels with the request so alternative schedulers can honour it.
type Priority int

const (
	PriorityLow Priority = iota
	PriorityNormal
	PriorityHigh
)

// Scheduler executes outbound requests on behalf of the plugin. All
// network traffic goes through a Scheduler; the plugin never owns an
// HTTP client of its own.
type Scheduler interface {
	Schedule(ctx context.Context, req *http.Request, priority Priority) (*http.Response, error)
}

// RateLimited is a Scheduler with a fixed requests-per-second ceiling and
// a per-request timeout. It never retries.
type RateLimited struct {
	limiter *rate.Limiter
	client  *http.Client
	timeout time.Duration
}

func NewRateLimited(requestsPerSecond float64, timeout time.Duration) *RateLimited {
	return &RateLimited{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		client:  &http.Client{},
		timeout: timeout,
	}
}

func (s *RateLimited) Schedule(ctx context.Context, req *http.Request, priority Priority) (*http.Response, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	resp, err := s.client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		log.Debug().Str("url", req.URL.String()).Err(err).Msg("request failed")
		return nil, err
	}

	// The timeout context has to outlive this call so the body stays readable.
	resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}

	log.Debug().Str("url", req.URL.String()).Int("status", resp.StatusCode).Msg("request done")
	return resp, nil
}

type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
