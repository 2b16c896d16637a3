package pipeline

import (
	"time"

	"go.uber.org/zap"

	"github.com/111110100/ph-election-smartmatic/internal/adapter"
	"github.com/111110100/ph-election-smartmatic/internal/logger"
)

// Timer measures one named scope against the injected clock.
type Timer struct {
	clock adapter.Clock
	scope string
	start time.Time
}

// StartTimer begins timing a named scope.
func StartTimer(clock adapter.Clock, scope string) *Timer {
	return &Timer{clock: clock, scope: scope, start: clock.Now()}
}

// Stop returns the elapsed time and traces it at debug level.
func (t *Timer) Stop() time.Duration {
	took := t.clock.Since(t.start)
	logger.Debug("Scope finished",
		zap.String("scope", t.scope),
		zap.Duration("took", took))
	return took
}
