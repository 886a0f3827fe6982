package vm

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/deepnoodle-ai/bfi/ast"
	"github.com/deepnoodle-ai/bfi/parser"
	"github.com/deepnoodle-ai/bfi/token"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, source string, opts ...parser.Option) ast.Tree {
	t.Helper()
	tree, err := parser.Parse(source, opts...)
	require.NoError(t, err)
	return tree
}

func run(t *testing.T, source string) ([]rune, *Tape, int, error) {
	t.Helper()
	tape := NewTape()
	ptr := 0
	out, err := Interpret(parse(t, source), tape, &ptr)
	return out, tape, ptr, err
}

func TestMultiplyLoop(t *testing.T) {
	out, tape, ptr, err := run(t, "++++++[>++++++++++<-]>.")
	require.NoError(t, err)
	require.Equal(t, []rune{60}, out)
	require.Equal(t, []byte{0, 60}, tape.Bytes())
	require.Equal(t, 1, ptr)
}

func TestHelloWorld(t *testing.T) {
	source := `++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>
---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.`
	out, _, _, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, "Hello World!\n", string(out))
}

func TestOutputInsideLoopIsKept(t *testing.T) {
	// Prints 'A' three times from inside the loop body.
	out, _, _, err := run(t, "+++[>" + strings.Repeat("+", 65) + ".[-]<-]")
	require.NoError(t, err)
	require.Equal(t, "AAA", string(out))
}

func TestOutputRepeatsCurrentValue(t *testing.T) {
	out, _, _, err := run(t, "+++++...")
	require.NoError(t, err)
	require.Equal(t, []rune{5, 5, 5}, out)
}

func TestOutputHighBytes(t *testing.T) {
	out, _, _, err := run(t, "-.")
	require.NoError(t, err)
	require.Equal(t, []rune{255}, out)
	require.Equal(t, "ÿ", string(out))
}

func TestWrapping(t *testing.T) {
	tests := []struct {
		source string
		cell   byte
	}{
		{"-", 255},
		{"--", 254},
		{strings.Repeat("+", 256), 0},
		{strings.Repeat("+", 300), 44},
		{strings.Repeat("-", 257), 255},
		{"+" + strings.Repeat("-", 3), 254},
	}
	for _, tt := range tests {
		_, tape, _, err := run(t, tt.source)
		require.NoError(t, err)
		require.Equal(t, tt.cell, tape.Peek(0), "source of length %d", len(tt.source))
	}
}

func TestMoveRightIsUnbounded(t *testing.T) {
	source := strings.Repeat(">", 5000) + "+"
	_, tape, ptr, err := run(t, source)
	require.NoError(t, err)
	require.Equal(t, 5000, ptr)
	require.Equal(t, 5001, tape.Len())
	require.Equal(t, byte(1), tape.Peek(5000))
}

func TestMoveWithoutTouchingDoesNotGrow(t *testing.T) {
	_, tape, ptr, err := run(t, ">>>")
	require.NoError(t, err)
	require.Equal(t, 3, ptr)
	require.Equal(t, 0, tape.Len())
}

func TestPointerUnderflow(t *testing.T) {
	out, tape, ptr, err := run(t, "<")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrPointerUnderflow))
	require.Empty(t, out)
	require.Equal(t, 0, ptr)
	require.Equal(t, 0, tape.Len())

	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, token.MoveLeft, rerr.Op.Kind)
	require.Equal(t, 0, rerr.Pointer)
	require.Equal(t, "runtime error: pointer underflow at 1:1", err.Error())
}

func TestPointerUnderflowStopsExecution(t *testing.T) {
	out, tape, ptr, err := run(t, "+.>>+<<<+.")
	require.True(t, errors.Is(err, ErrPointerUnderflow))
	require.Equal(t, []rune{1}, out)
	require.Equal(t, 2, ptr)
	require.Equal(t, []byte{1, 0, 1}, tape.Bytes())
}

func TestInputUnsupported(t *testing.T) {
	out, _, _, err := run(t, "+.,.")
	require.True(t, errors.Is(err, ErrInputUnsupported))
	require.Equal(t, []rune{1}, out)

	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, token.Position{Line: 0, Column: 2}, rerr.Op.Loc.Begin())
}

func TestSkipLoopWhenZero(t *testing.T) {
	// The body would underflow if it ran.
	out, _, _, err := run(t, "[<<<].")
	require.NoError(t, err)
	require.Equal(t, []rune{0}, out)
}

func TestNestedLoops(t *testing.T) {
	// 3 * 4 * 5 = 60 in cell 2
	_, tape, _, err := run(t, "+++[>++++[>+++++<-]<-]")
	require.NoError(t, err)
	require.Equal(t, []byte{0, 0, 60}, tape.Bytes())
}

func TestCallerSuppliedState(t *testing.T) {
	tape := NewTapeFrom([]byte{0, 0, 3})
	ptr := 2
	out, err := Interpret(parse(t, "[<+>-]<."), tape, &ptr)
	require.NoError(t, err)
	require.Equal(t, []rune{3}, out)
	require.Equal(t, 1, ptr)
	require.Equal(t, []byte{0, 3, 0}, tape.Bytes())
}

func TestInvalidArguments(t *testing.T) {
	ptr := 0
	_, err := Interpret(nil, nil, &ptr)
	require.Error(t, err)
	_, err = Interpret(nil, NewTape(), nil)
	require.Error(t, err)
	ptr = -1
	_, err = Interpret(nil, NewTape(), &ptr)
	require.Error(t, err)
}

func TestEmptyProgram(t *testing.T) {
	out, tape, ptr, err := run(t, "")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Equal(t, 0, tape.Len())
	require.Equal(t, 0, ptr)
}

func TestInfiniteLoopStepLimit(t *testing.T) {
	tape := NewTape()
	ptr := 0
	m := New(WithStepLimit(10000))
	_, err := m.Run(context.Background(), parse(t, "+[]"), tape, &ptr)
	require.True(t, errors.Is(err, ErrStepLimitExceeded))
	require.Equal(t, int64(10000), m.Steps())
	require.Equal(t, byte(1), tape.Peek(0))
}

func TestStepLimitNotReached(t *testing.T) {
	m := New(WithStepLimit(4))
	tape := NewTape()
	ptr := 0
	// Collapsed: '+' x3, '.', '>' = 3 steps
	out, err := m.Run(context.Background(), parse(t, "+++.>"), tape, &ptr)
	require.NoError(t, err)
	require.Equal(t, []rune{3}, out)
	require.Equal(t, int64(3), m.Steps())
}

func TestContextCancellation(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	m := New(WithContextCheckInterval(100))
	tape := NewTape()
	ptr := 0
	_, err := m.Run(ctx, parse(t, "+[]"), tape, &ptr)
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestMachineReuse(t *testing.T) {
	m := New()
	tree := parse(t, "++.")
	for i := 0; i < 3; i++ {
		tape := NewTape()
		ptr := 0
		out, err := m.Run(context.Background(), tree, tape, &ptr)
		require.NoError(t, err)
		require.Equal(t, []rune{2}, out)
	}
}

func TestRuntimeErrorFormatting(t *testing.T) {
	source := "+\n  <<"
	_, _, _, err := run(t, source)
	var rerr *RuntimeError
	require.True(t, errors.As(err, &rerr))

	friendly := rerr.WithSource("prog.b", source).FriendlyErrorMessage()
	require.Contains(t, friendly, "runtime error[E3001]: pointer underflow")
	require.Contains(t, friendly, "--> prog.b:2:3")
	require.Contains(t, friendly, " 2 |   <<")
	require.Contains(t, friendly, "^^")
	require.Contains(t, friendly, "data pointer was at cell 0")
}

// randomProgram returns a balanced program without input operators.
func randomProgram(rng *rand.Rand) string {
	var gen func(depth int) string
	gen = func(depth int) string {
		var b strings.Builder
		n := rng.Intn(8)
		for i := 0; i < n; i++ {
			if depth < 3 && rng.Intn(5) == 0 {
				b.WriteByte('[')
				b.WriteString(gen(depth + 1))
				b.WriteByte(']')
				continue
			}
			c := "+-<>."[rng.Intn(5)]
			b.WriteString(strings.Repeat(string(c), 1+rng.Intn(4)))
		}
		return b.String()
	}
	return gen(0)
}

func TestCollapsedMatchesUncollapsed(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	compared := 0
	for i := 0; i < 500; i++ {
		source := randomProgram(rng)

		rawTape := NewTapeFrom(make([]byte, 16))
		rawPtr := 8
		raw := New(WithStepLimit(20000))
		rawOut, err := raw.Run(context.Background(), parse(t, source, parser.WithoutCollapse()), rawTape, &rawPtr)
		if err != nil {
			continue
		}

		tape := NewTapeFrom(make([]byte, 16))
		ptr := 8
		m := New()
		out, err := m.Run(context.Background(), parse(t, source), tape, &ptr)
		require.NoError(t, err, source)
		require.Equal(t, rawOut, out, source)
		require.Equal(t, rawTape.Bytes(), tape.Bytes(), source)
		require.Equal(t, rawPtr, ptr, source)
		require.LessOrEqual(t, m.Steps(), raw.Steps())
		compared++
	}
	require.Greater(t, compared, 100)
}
