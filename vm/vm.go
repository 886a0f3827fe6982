// Package vm provides a Machine that executes a parsed program tree against
// a byte tape.
package vm

import (
	"context"
	"fmt"
	"sync"

	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/token"
	"github.com/rs/zerolog"
)

// DefaultContextCheckInterval is the number of operations between checks
// of ctx.Done(). Set to 0 to disable.
const DefaultContextCheckInterval = 1000

// Machine walks a program tree, one level at a time. Loop bodies are
// executed by recursing into Internal nodes; a LoopClose that sees a
// non-zero cell restarts its level from the beginning.
//
// A Machine can be reused for several runs but runs one program at a time.
type Machine struct {
	contextCheckInterval int
	stepLimit            int64
	observer             Observer
	observerCfg          ObserverConfig
	logger               zerolog.Logger

	runMutex sync.Mutex
	running  bool

	// per-run state
	tape     *Tape
	ptr      int
	output   []rune
	steps    int64
	lastLine int
	done     <-chan struct{}
	ctx      context.Context
}

// New creates a Machine configured by options.
func New(options ...Option) *Machine {
	m := &Machine{
		contextCheckInterval: DefaultContextCheckInterval,
		logger:               zerolog.Nop(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// Interpret runs tree against tape starting at *ptr, with no step limit and
// no cancellation. The pointer is updated in place. It returns the output
// produced, which is kept up to the point of failure if a runtime error
// occurs.
func Interpret(tree ast.Tree, tape *Tape, ptr *int) ([]rune, error) {
	return New().Run(context.Background(), tree, tape, ptr)
}

// Steps returns the number of operations executed by the most recent run.
func (m *Machine) Steps() int64 {
	return m.steps
}

// Run executes tree against tape starting at *ptr. The pointer is updated
// in place, including when an error is returned. Errors raised by the
// program are *RuntimeError values; cancellation returns ctx.Err().
func (m *Machine) Run(ctx context.Context, tree ast.Tree, tape *Tape, ptr *int) ([]rune, error) {
	if tape == nil || ptr == nil {
		return nil, fmt.Errorf("vm: tape and pointer are required")
	}
	if *ptr < 0 {
		return nil, fmt.Errorf("vm: invalid pointer %d", *ptr)
	}
	if err := m.start(ctx, tape, *ptr); err != nil {
		return nil, err
	}
	defer m.stop()

	m.logger.Debug().Int("pointer", m.ptr).Int("tape_len", tape.Len()).Msg("run started")
	err := m.exec(tree, 0)
	*ptr = m.ptr
	m.logger.Debug().
		Int64("steps", m.steps).
		Int("output_len", len(m.output)).
		Int("tape_len", tape.Len()).
		Int("pointer", m.ptr).
		AnErr("error", err).
		Msg("run finished")
	return m.output, err
}

func (m *Machine) start(ctx context.Context, tape *Tape, ptr int) error {
	m.runMutex.Lock()
	defer m.runMutex.Unlock()
	if m.running {
		return fmt.Errorf("vm is already running")
	}
	m.running = true
	m.ctx = ctx
	m.done = ctx.Done()
	m.tape = tape
	m.ptr = ptr
	m.output = nil
	m.steps = 0
	m.lastLine = -1
	if m.observer != nil {
		m.observerCfg = NormalizeConfig(m.observer.Config())
	}
	return nil
}

func (m *Machine) stop() {
	m.runMutex.Lock()
	defer m.runMutex.Unlock()
	m.running = false
	m.tape = nil
	m.ctx = nil
	m.done = nil
}

// exec runs one level of the tree. The index i is the level's cursor:
// skipping a loop advances it past the body and repeating a loop resets it.
func (m *Machine) exec(level ast.Tree, depth int) error {
	for i := 0; i < len(level); i++ {
		switch node := level[i].(type) {
		case *ast.Internal:
			if err := m.exec(node.Children, depth+1); err != nil {
				return err
			}
		case *ast.Leaf:
			op := node.Op
			if err := m.beforeStep(op, depth); err != nil {
				return err
			}
			switch op.Kind {
			case token.Increment:
				cell := m.tape.Cell(m.ptr)
				*cell += byte(op.Count)
			case token.Decrement:
				cell := m.tape.Cell(m.ptr)
				*cell -= byte(op.Count)
			case token.MoveRight:
				m.ptr += op.Count
			case token.MoveLeft:
				if op.Count > m.ptr {
					return newRuntimeError(ErrPointerUnderflow, op, m.ptr)
				}
				m.ptr -= op.Count
			case token.Output:
				value := rune(*m.tape.Cell(m.ptr))
				for n := 0; n < op.Count; n++ {
					m.output = append(m.output, value)
				}
			case token.Input:
				return newRuntimeError(ErrInputUnsupported, op, m.ptr)
			case token.LoopOpen:
				action := LoopEnter
				if *m.tape.Cell(m.ptr) == 0 {
					action = LoopSkip
					i++
				}
				if err := m.loopEvent(action, op, depth); err != nil {
					return err
				}
			case token.LoopClose:
				action := LoopExit
				if *m.tape.Cell(m.ptr) != 0 {
					action = LoopRepeat
					i = -1
				}
				if err := m.loopEvent(action, op, depth); err != nil {
					return err
				}
			default:
				return fmt.Errorf("vm: unknown operation %s", op.Kind)
			}
		default:
			return fmt.Errorf("vm: unexpected node type %T", node)
		}
	}
	return nil
}

// beforeStep enforces the step limit, polls the context and notifies the
// observer before op runs.
func (m *Machine) beforeStep(op token.Op, depth int) error {
	if m.stepLimit > 0 && m.steps >= m.stepLimit {
		return newRuntimeError(ErrStepLimitExceeded, op, m.ptr)
	}
	m.steps++
	if m.done != nil && m.contextCheckInterval > 0 && m.steps%int64(m.contextCheckInterval) == 0 {
		select {
		case <-m.done:
			return m.ctx.Err()
		default:
		}
	}
	if m.observer == nil || !m.shouldObserveStep(op) {
		return nil
	}
	event := StepEvent{
		Step:    m.steps,
		Op:      op,
		Pointer: m.ptr,
		Cell:    m.tape.Peek(m.ptr),
		Depth:   depth,
	}
	if !m.observer.OnStep(event) {
		return newRuntimeError(ErrHalted, op, m.ptr)
	}
	return nil
}

func (m *Machine) shouldObserveStep(op token.Op) bool {
	switch m.observerCfg.StepMode {
	case StepAll:
		return true
	case StepSampled:
		return m.steps%int64(m.observerCfg.SampleInterval) == 0
	case StepOnLine:
		line := op.Loc.Begin().Line
		if line == m.lastLine {
			return false
		}
		m.lastLine = line
		return true
	}
	return false
}

func (m *Machine) loopEvent(action LoopAction, op token.Op, depth int) error {
	m.logger.Trace().
		Stringer("action", action).
		Stringer("at", op.Loc.Begin()).
		Int("pointer", m.ptr).
		Int("depth", depth).
		Msg("loop")
	if m.observer == nil || !m.observerCfg.ObserveLoops {
		return nil
	}
	event := LoopEvent{Action: action, Op: op, Pointer: m.ptr, Depth: depth}
	if !m.observer.OnLoop(event) {
		return newRuntimeError(ErrHalted, op, m.ptr)
	}
	return nil
}
