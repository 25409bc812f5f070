package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// saga runs the ordered steps of one cross-entity mutation. Each completed
// step registers its undo; on failure the undos run newest first.
type saga struct {
	svc    *FinanceService
	op     string
	userID string
	undos  []compensation
}

type compensation struct {
	step string
	undo func(ctx context.Context) error
}

func (s *FinanceService) newSaga(op, userID string) *saga {
	return &saga{svc: s, op: op, userID: userID}
}

// step runs do and, on success, registers undo (nil when nothing to revert).
// On failure it compensates and returns the failure as a store error.
func (sg *saga) step(ctx context.Context, name string, do, undo func(ctx context.Context) error) error {
	if err := do(ctx); err != nil {
		return sg.abort(ctx, name, err)
	}
	if undo != nil {
		sg.undos = append(sg.undos, compensation{step: name, undo: undo})
	}
	return nil
}

// done registers the undo of a step that ran outside step (a CAS loop).
func (sg *saga) done(name string, undo func(ctx context.Context) error) {
	sg.undos = append(sg.undos, compensation{step: name, undo: undo})
}

// abort compensates every completed step. Compensation runs even when the
// request context was cancelled.
func (sg *saga) abort(ctx context.Context, failedStep string, cause error) error {
	log := sg.svc.logger.With(
		zap.String("operation", sg.op),
		zap.String("user_id", sg.userID),
		zap.String("failed_step", failedStep),
	)
	log.Error("mutation step failed, compensating", zap.Error(cause), zap.Int("steps", len(sg.undos)))

	undoCtx := context.WithoutCancel(ctx)
	clean := true
	for i := len(sg.undos) - 1; i >= 0; i-- {
		c := sg.undos[i]
		err := c.undo(undoCtx)
		sg.svc.metrics.IncrCompensation(c.step, err == nil)
		if err != nil {
			clean = false
			log.Error("compensation failed", zap.String("step", c.step), zap.Error(err))
		}
	}
	sg.undos = nil

	status := "compensated"
	if !clean {
		status = "failed"
	}
	sg.svc.metrics.IncrMutation(sg.op, status)
	return asStoreFailure(fmt.Errorf("%s: %s: %w", sg.op, failedStep, cause))
}

// commit records a successful sequence.
func (sg *saga) commit() {
	sg.undos = nil
	sg.svc.metrics.IncrMutation(sg.op, "success")
}
