// Package supabase implements the persistence ports against Supabase
// PostgREST: table CRUD under /rest/v1/<table> and stored procedures under
// /rest/v1/rpc/<fn>. Every call goes through a bulkhead, the circuit
// breaker and (for idempotent calls) retry with backoff.
package supabase

import (
	"context"
	"errors"
	"net/http"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/resilience"
	"github.com/boddenberg/spendwise-api/internal/port"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("supabase")

var _ port.Store = (*Client)(nil)

// Client wraps HTTP calls to Supabase PostgREST API.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	serviceRoleKey string
	cb             *gobreaker.CircuitBreaker
	bulkhead       *resilience.Bulkhead
	cfg            resilience.Config
	logger         *zap.Logger
}

// NewClient creates a Supabase client.
func NewClient(httpClient *http.Client, baseURL, apiKey, serviceRoleKey string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         apiKey,
		serviceRoleKey: serviceRoleKey,
		cb:             cb,
		bulkhead:       resilience.NewBulkhead(cfg.MaxConcurrency),
		cfg:            cfg,
		logger:         logger,
	}
}

// IsSuccessful tells the circuit breaker which outcomes are healthy.
// Caller errors (not found, conflict, validation) and cancellations mean the
// backend answered, so they do not count as failures.
func IsSuccessful(err error) bool {
	if err == nil || isCallerError(err) {
		return true
	}
	return errors.Is(err, context.Canceled)
}

func isCallerError(err error) bool {
	var nf *domain.ErrNotFound
	var cf *domain.ErrConflict
	var ve *domain.ErrValidation
	return errors.As(err, &nf) || errors.As(err, &cf) || errors.As(err, &ve)
}

// isClientStatus reports a 4xx answer that a retry cannot fix.
func isClientStatus(err error) bool {
	var se *statusError
	if !errors.As(err, &se) {
		return false
	}
	return se.Status >= 400 && se.Status < 500 &&
		se.Status != http.StatusRequestTimeout && se.Status != http.StatusTooManyRequests
}

// exec runs fn under the bulkhead and breaker. Idempotent calls are retried;
// inserts and increments run once.
func (c *Client) exec(ctx context.Context, service string, idempotent bool, fn func() error) error {
	if err := c.bulkhead.Acquire(ctx); err != nil {
		return err
	}
	defer c.bulkhead.Release()

	_, err := c.cb.Execute(func() (any, error) {
		if !idempotent {
			return nil, fn()
		}
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			err := fn()
			if err != nil && (isCallerError(err) || isClientStatus(err)) {
				return resilience.Permanent(err)
			}
			return err
		})
	})
	return c.wrapErr(service, err)
}

func (c *Client) wrapErr(service string, err error) error {
	switch {
	case err == nil:
		return nil
	case resilience.IsBreakerOpen(err):
		return &domain.ErrCircuitOpen{Service: "supabase"}
	case isCallerError(err), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return &domain.ErrExternalService{Service: "supabase/" + service, Err: err}
	}
}

// Ping checks PostgREST reachability with a cheap read.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Supabase.Ping")
	defer span.End()

	return c.exec(ctx, "ping", true, func() error {
		_, err := c.doGet(ctx, from("profiles").sel("user_id").limit(1).String())
		return err
	})
}
