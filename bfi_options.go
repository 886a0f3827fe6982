package bfi

import (
	"github.com/deepnoodle-ai/bfi/parser"
	"github.com/deepnoodle-ai/bfi/vm"
	"github.com/rs/zerolog"
)

// Option configures a parse or an evaluation.
type Option func(*options)

type options struct {
	filename   string
	noCollapse bool
	stepLimit  int64
	observer   vm.Observer
	logger     *zerolog.Logger
}

func collectOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

func (o *options) parserOpts() []parser.Option {
	var opts []parser.Option
	if o.filename != "" {
		opts = append(opts, parser.WithFilename(o.filename))
	}
	if o.noCollapse {
		opts = append(opts, parser.WithoutCollapse())
	}
	return opts
}

func (o *options) vmOpts() []vm.Option {
	var opts []vm.Option
	if o.stepLimit > 0 {
		opts = append(opts, vm.WithStepLimit(o.stepLimit))
	}
	if o.observer != nil {
		opts = append(opts, vm.WithObserver(o.observer))
	}
	if o.logger != nil {
		opts = append(opts, vm.WithLogger(*o.logger))
	}
	return opts
}

// WithFilename sets the filename for the source code being evaluated.
// This is used in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithoutCollapse keeps every operator as its own operation instead of
// merging runs. Output and final tape are the same either way; only the
// step count differs.
func WithoutCollapse() Option {
	return func(o *options) {
		o.noCollapse = true
	}
}

// WithStepLimit stops evaluation with vm.ErrStepLimitExceeded after limit
// operations. Use it to bound programs that may not terminate.
func WithStepLimit(limit int64) Option {
	return func(o *options) {
		o.stepLimit = limit
	}
}

// WithObserver sets an observer for execution events.
func WithObserver(observer vm.Observer) Option {
	return func(o *options) {
		o.observer = observer
	}
}

// WithLogger sets the logger used by the interpreter for debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}
