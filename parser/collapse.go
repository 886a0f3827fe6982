package parser

import "github.com/deepnoodle-ai/bfi/token"

// Collapse merges each maximal run of identical repeatable operations into a
// single operation whose count is the sum of the run's counts and whose
// location spans the whole run. Loop brackets are passed through unchanged,
// one per bracket. The input slice is not modified.
func Collapse(ops []token.Op) []token.Op {
	out := make([]token.Op, 0, len(ops))
	for _, op := range ops {
		if n := len(out); n > 0 && op.Kind.Repeatable() && out[n-1].Kind == op.Kind {
			last := &out[n-1]
			loc, ok := last.Loc.Merge(op.Loc)
			if !ok {
				// Operations out of source order do not form a run.
				out = append(out, op)
				continue
			}
			last.Count += op.Count
			last.Loc = loc
			continue
		}
		out = append(out, op)
	}
	return out
}
