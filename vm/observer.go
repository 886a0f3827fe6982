package vm

import "github.com/deepnoodle-ai/bfi/token"

// StepMode controls when OnStep callbacks are triggered.
type StepMode uint8

const (
	// StepAll calls OnStep for every operation.
	// Use for: detailed tracing, operation-level debugging.
	StepAll StepMode = iota

	// StepNone never calls OnStep.
	// Use for: observers that only need loop events.
	StepNone

	// StepSampled calls OnStep every N operations.
	// Use for: statistical profiling of long-running programs.
	StepSampled

	// StepOnLine calls OnStep when the source line changes.
	// Use for: coverage tools, line-level debugging.
	StepOnLine
)

// ObserverConfig specifies what events an observer wants to receive.
// Use NewObserverConfig() to create configs with safe defaults.
type ObserverConfig struct {
	// StepMode controls OnStep callback frequency.
	StepMode StepMode

	// SampleInterval is the number of operations between OnStep calls
	// when StepMode is StepSampled. Values <= 0 are treated as 1.
	SampleInterval int

	// ObserveLoops enables OnLoop callbacks.
	ObserveLoops bool
}

// NewObserverConfig creates a config with safe defaults.
// ObserveLoops defaults to true.
func NewObserverConfig(mode StepMode) ObserverConfig {
	return ObserverConfig{
		StepMode:       mode,
		SampleInterval: 1000,
		ObserveLoops:   true,
	}
}

// NormalizeConfig validates and clamps config values.
func NormalizeConfig(cfg ObserverConfig) ObserverConfig {
	if cfg.StepMode == StepSampled && cfg.SampleInterval <= 0 {
		cfg.SampleInterval = 1
	}
	return cfg
}

// Observer receives execution events from a Machine. Implementations can be
// used for tracing, profiling or coverage without modifying the
// interpreter.
//
// Implementations can embed NoOpObserver to provide default no-op
// implementations for methods they don't need.
//
// Observer methods are called synchronously during execution.
type Observer interface {
	// Config returns the observer's configuration.
	// Called once at the start of each run.
	Config() ObserverConfig

	// OnStep is called before an operation executes, based on the StepMode
	// in the observer's config. Returns false to halt execution.
	OnStep(event StepEvent) bool

	// OnLoop is called when a loop is skipped, entered, repeated or exited
	// (if ObserveLoops is true). Returns false to halt execution.
	OnLoop(event LoopEvent) bool
}

// StepEvent describes a single operation about to execute.
type StepEvent struct {
	// Step is the 1-based count of operations executed so far, including
	// this one.
	Step int64

	// Op is the operation being executed.
	Op token.Op

	// Pointer is the data pointer before the operation.
	Pointer int

	// Cell is the value of the addressed cell before the operation.
	Cell byte

	// Depth is the loop nesting depth of the operation.
	Depth int
}

// LoopAction describes what happened at a loop bracket.
type LoopAction uint8

const (
	// LoopSkip means a LoopOpen saw a zero cell and skipped the body.
	LoopSkip LoopAction = iota
	// LoopEnter means a LoopOpen saw a non-zero cell and entered the body.
	LoopEnter
	// LoopRepeat means a LoopClose saw a non-zero cell and restarted the
	// body.
	LoopRepeat
	// LoopExit means a LoopClose saw a zero cell and left the body.
	LoopExit
)

func (a LoopAction) String() string {
	switch a {
	case LoopSkip:
		return "skip"
	case LoopEnter:
		return "enter"
	case LoopRepeat:
		return "repeat"
	case LoopExit:
		return "exit"
	}
	return "unknown"
}

// LoopEvent describes a decision taken at a loop bracket.
type LoopEvent struct {
	Action  LoopAction
	Op      token.Op
	Pointer int
	Depth   int
}

// NoOpObserver is an Observer implementation that does nothing.
// Embed this in your observer to provide default implementations
// for methods you don't need.
type NoOpObserver struct{}

func (NoOpObserver) Config() ObserverConfig {
	return NewObserverConfig(StepAll)
}

func (NoOpObserver) OnStep(StepEvent) bool { return true }
func (NoOpObserver) OnLoop(LoopEvent) bool { return true }

// Ensure NoOpObserver implements Observer.
var _ Observer = NoOpObserver{}
