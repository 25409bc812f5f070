// Package service provides the business logic layer (use cases).
// FinanceService owns every owner-scoped operation: CRUD over the
// finance entities, the cross-entity mutation sequences and the derived
// metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/boddenberg/spendwise-api/internal/domain"
	"github.com/boddenberg/spendwise-api/internal/infra/observability"
	"github.com/boddenberg/spendwise-api/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("service/finance")

// defaultCASAttempts bounds compare-and-swap retries on contended rows.
const defaultCASAttempts = 5

// FinanceService orchestrates the finance operations via the store.
type FinanceService struct {
	store       port.Store
	trends      port.Cache[*domain.Trends]
	events      port.EventPublisher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
	casAttempts int
}

// Option customizes a FinanceService.
type Option func(*FinanceService)

// WithClock replaces time.Now (tests pin "today").
func WithClock(now func() time.Time) Option {
	return func(s *FinanceService) { s.now = now }
}

// WithTrendsCache caches trend series per owner.
func WithTrendsCache(c port.Cache[*domain.Trends]) Option {
	return func(s *FinanceService) { s.trends = c }
}

// WithEvents publishes domain events after successful mutations.
func WithEvents(p port.EventPublisher) Option {
	return func(s *FinanceService) { s.events = p }
}

// WithCASAttempts overrides the compare-and-swap retry bound.
func WithCASAttempts(n int) Option {
	return func(s *FinanceService) {
		if n > 0 {
			s.casAttempts = n
		}
	}
}

// NewFinanceService creates the service with all dependencies injected.
func NewFinanceService(store port.Store, metrics *observability.Metrics, logger *zap.Logger, opts ...Option) *FinanceService {
	s := &FinanceService{
		store:       store,
		metrics:     metrics,
		logger:      logger,
		now:         time.Now,
		casAttempts: defaultCASAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready checks the store backend.
func (s *FinanceService) Ready(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "FinanceService.Ready")
	defer span.End()
	return s.store.Ping(ctx)
}

// today is the current calendar day in UTC.
func (s *FinanceService) today() domain.Date {
	return domain.DateOf(s.now().UTC())
}

func (s *FinanceService) startOp(ctx context.Context, name, userID string) (context.Context, func()) {
	ctx, span := tracer.Start(ctx, "FinanceService."+name)
	span.SetAttributes(attribute.String("user.id", userID))
	start := time.Now()
	return ctx, func() {
		s.metrics.RecordRequestDuration(name, time.Since(start))
		span.End()
	}
}

// publish emits an event once the mutation committed. Failures are logged;
// they never undo the mutation.
func (s *FinanceService) publish(ctx context.Context, eventType, userID, resourceID string, data any) {
	if s.events == nil {
		return
	}
	e := domain.Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		ResourceID: resourceID,
		OccurredAt: s.now().UTC(),
		Data:       data,
	}
	err := s.events.Publish(context.WithoutCancel(ctx), e)
	s.metrics.IncrEvent(eventType, err == nil)
	if err != nil {
		s.logger.Warn("event publish failed",
			zap.String("type", eventType),
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

// grant upserts badges and returns those newly earned. A failed grant is
// logged and skipped: the mutation that qualified for it already committed.
func (s *FinanceService) grant(ctx context.Context, userID string, badges ...string) []string {
	granted := []string{}
	for _, b := range badges {
		ok, err := s.store.GrantAchievement(ctx, userID, b)
		if err != nil {
			s.logger.Warn("achievement grant failed",
				zap.String("user_id", userID),
				zap.String("badge_id", b),
				zap.Error(err),
			)
			continue
		}
		if ok {
			granted = append(granted, b)
			s.publish(ctx, domain.EventAchievementGranted, userID, b, nil)
		}
	}
	return granted
}

// invalidateTrends drops every cached trend series of the owner.
func (s *FinanceService) invalidateTrends(userID string) {
	if s.trends != nil {
		s.trends.DeletePrefix(trendsKeyPrefix(userID))
	}
}

func trendsKeyPrefix(userID string) string {
	return fmt.Sprintf("trends:%s:", userID)
}

// asStoreFailure keeps typed store errors and wraps anything else so the
// caller sees an external-service failure.
func asStoreFailure(err error) error {
	var ext *domain.ErrExternalService
	var open *domain.ErrCircuitOpen
	if errors.As(err, &ext) || errors.As(err, &open) {
		return err
	}
	return &domain.ErrExternalService{Service: "store", Err: err}
}

func isNotFound(err error) bool {
	var nf *domain.ErrNotFound
	return errors.As(err, &nf)
}

// retryCAS repeats a read-modify-compare-and-set cycle until it applies.
// Running out of attempts is a conflict the caller may retry.
func (s *FinanceService) retryCAS(ctx context.Context, what string, cycle func(ctx context.Context) (bool, error)) error {
	for attempt := 1; attempt <= s.casAttempts; attempt++ {
		applied, err := cycle(ctx)
		if err != nil {
			return err
		}
		if applied {
			return nil
		}
		s.logger.Debug("compare-and-set lost, retrying", zap.String("resource", what), zap.Int("attempt", attempt))
	}
	return &domain.ErrConflict{Message: what + " was modified concurrently, please retry"}
}
