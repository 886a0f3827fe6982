package vm

import "github.com/rs/zerolog"

// Option is a configuration function for a Machine.
type Option func(*Machine)

// WithContextCheckInterval sets how often the Machine checks ctx.Done()
// during execution. The interval is specified in number of operations. A
// value of 0 disables checking. The default is DefaultContextCheckInterval.
func WithContextCheckInterval(interval int) Option {
	return func(m *Machine) {
		m.contextCheckInterval = interval
	}
}

// WithStepLimit stops execution with ErrStepLimitExceeded once limit
// operations have run. A limit of 0 means no limit, which is the default.
func WithStepLimit(limit int64) Option {
	return func(m *Machine) {
		m.stepLimit = limit
	}
}

// WithObserver sets an observer for execution events.
//
// Observer methods are called synchronously during execution, so
// implementations should be fast to avoid impacting performance.
// Returning false from any observer method halts execution with ErrHalted.
func WithObserver(observer Observer) Option {
	return func(m *Machine) {
		m.observer = observer
	}
}

// WithLogger sets the logger used for debug output. The default discards
// everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}
