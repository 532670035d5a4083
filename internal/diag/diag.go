// Package diag wraps the engine's taxonomized error channel with
// structured logging (go.uber.org/zap) and per-frame aggregation
// (go.uber.org/multierr), the way rupor-github-fb2cng wires zap through
// its own tooling. It is additive: the spec's per-occurrence callback
// still fires exactly as specified; this package gives a host a
// ready-made handler instead of requiring it to write one to exercise
// the error channel at all.
package diag

import (
	"fmt"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kryvoslayout/clay/internal/layout"
)

// Reporter logs every error it receives and accumulates a combined error
// for the frame, so a host can both get real-time structured logs and
// inspect "did anything go wrong this frame" after EndLayout returns.
type Reporter struct {
	log *zap.Logger

	mu      sync.Mutex
	frameErr error
}

// NewReporter builds a Reporter around a production zap.Logger. Callers
// that want development-mode (human-readable, more verbose) logging
// should construct their own *zap.Logger and use NewReporterWithLogger.
func NewReporter() (*Reporter, error) {
	l, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("diag: build logger: %w", err)
	}
	return NewReporterWithLogger(l), nil
}

// NewReporterWithLogger builds a Reporter around a caller-supplied
// logger, e.g. zap.NewDevelopment() for local debugging or zap.NewNop()
// in tests that don't want log noise.
func NewReporterWithLogger(l *zap.Logger) *Reporter {
	return &Reporter{log: l}
}

// Handler returns an ErrorHandler bound to this Reporter, suitable for
// passing straight to clay.Initialize.
func (r *Reporter) Handler() layout.ErrorHandler {
	return r.Handle
}

// Handle logs one error occurrence and folds it into the frame's combined
// error. It never panics and never blocks.
func (r *Reporter) Handle(e layout.ErrorData) {
	r.log.Error("clay layout error",
		zap.String("type", errorTypeName(e.Type)),
		zap.String("message", e.Message),
	)
	r.mu.Lock()
	r.frameErr = multierr.Append(r.frameErr, fmt.Errorf("%s: %s", errorTypeName(e.Type), e.Message))
	r.mu.Unlock()
}

// FrameErr returns the combined error accumulated since the last
// ResetFrame, or nil if nothing was reported.
func (r *Reporter) FrameErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frameErr
}

// ResetFrame clears the accumulated frame error. Call it at the start of
// each frame (e.g. right before BeginLayout) so FrameErr reflects only
// the frame just completed.
func (r *Reporter) ResetFrame() {
	r.mu.Lock()
	r.frameErr = nil
	r.mu.Unlock()
}

// Sync flushes the underlying logger; call it before process exit.
func (r *Reporter) Sync() error {
	return r.log.Sync()
}

func errorTypeName(t layout.ErrorType) string {
	switch t {
	case layout.ErrTextMeasurementFunctionNotProvided:
		return "TEXT_MEASUREMENT_FUNCTION_NOT_PROVIDED"
	case layout.ErrArenaCapacityExceeded:
		return "ARENA_CAPACITY_EXCEEDED"
	case layout.ErrElementsCapacityExceeded:
		return "ELEMENTS_CAPACITY_EXCEEDED"
	case layout.ErrTextMeasurementCapacityExceeded:
		return "TEXT_MEASUREMENT_CAPACITY_EXCEEDED"
	case layout.ErrDuplicateID:
		return "DUPLICATE_ID"
	case layout.ErrFloatingContainerParentNotFound:
		return "FLOATING_CONTAINER_PARENT_NOT_FOUND"
	case layout.ErrPercentageOver1:
		return "PERCENTAGE_OVER_1"
	case layout.ErrUnbalancedOpenClose:
		return "UNBALANCED_OPEN_CLOSE"
	default:
		return "INTERNAL_ERROR"
	}
}
