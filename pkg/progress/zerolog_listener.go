package progress

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/torrust/tracker-deployer/pkg/log"
)

// ZerologListener logs every callback through pkg/log's component-logger
// pattern, at info level for start/complete and warn/error for failures —
// grounded on the teacher's WithComponent/WithCommand child-logger shape.
type ZerologListener struct {
	logger zerolog.Logger
}

// NewZerologListener builds a listener that logs through the given
// command-scoped logger (typically log.WithCommand(name)).
func NewZerologListener(logger zerolog.Logger) *ZerologListener {
	return &ZerologListener{logger: logger}
}

func (l *ZerologListener) OnCommandStarted(command string, totalSteps int) {
	l.logger.Info().Str("command", command).Int("total_steps", totalSteps).Msg("command started")
}

func (l *ZerologListener) OnStepStarted(stepIndex int, stepName string) {
	l.logger.Info().Int("step_index", stepIndex).Str("step", stepName).Msg("step started")
}

func (l *ZerologListener) OnStepCompleted(stepIndex int, stepName string, elapsed time.Duration) {
	l.logger.Info().Int("step_index", stepIndex).Str("step", stepName).Dur("elapsed", elapsed).Msg("step completed")
}

func (l *ZerologListener) OnStepFailed(stepIndex int, stepName string, errorKind string, elapsed time.Duration) {
	l.logger.Warn().Int("step_index", stepIndex).Str("step", stepName).Str("error_kind", errorKind).Dur("elapsed", elapsed).Msg("step failed")
}

func (l *ZerologListener) OnCommandCompleted(command string, elapsed time.Duration) {
	l.logger.Info().Str("command", command).Dur("elapsed", elapsed).Msg("command completed")
}

func (l *ZerologListener) OnCommandFailed(command string, errorKind string, elapsed time.Duration) {
	l.logger.Error().Str("command", command).Str("error_kind", errorKind).Dur("elapsed", elapsed).Msg("command failed")
}

var _ Listener = (*ZerologListener)(nil)

// WithComponent returns a ZerologListener scoped through log.WithComponent,
// the convenience path most commands use instead of building their own
// zerolog.Logger.
func WithComponent(component string) *ZerologListener {
	return NewZerologListener(log.WithComponent(component))
}
