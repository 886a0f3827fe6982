package vm

import "github.com/rs/zerolog"

// TraceObserver logs every observed event at debug level. It never halts
// execution.
type TraceObserver struct {
	logger zerolog.Logger
	cfg    ObserverConfig
}

// NewTraceObserver returns an observer that writes events to logger using
// the given step mode.
func NewTraceObserver(logger zerolog.Logger, mode StepMode) *TraceObserver {
	return &TraceObserver{logger: logger, cfg: NewObserverConfig(mode)}
}

func (o *TraceObserver) Config() ObserverConfig {
	return o.cfg
}

func (o *TraceObserver) OnStep(event StepEvent) bool {
	o.logger.Debug().
		Int64("step", event.Step).
		Stringer("op", event.Op).
		Int("pointer", event.Pointer).
		Uint8("cell", event.Cell).
		Int("depth", event.Depth).
		Msg("step")
	return true
}

func (o *TraceObserver) OnLoop(event LoopEvent) bool {
	o.logger.Debug().
		Stringer("action", event.Action).
		Stringer("at", event.Op.Loc.Begin()).
		Int("pointer", event.Pointer).
		Int("depth", event.Depth).
		Msg("loop")
	return true
}

var _ Observer = (*TraceObserver)(nil)
