// Package expander implements the argument expander (X): walking a
// resolved Argument's retrieval chain against live registers, or passing a
// literal straight through, and converting the result to the shape a
// run-time (or compile-time) behavior expects. It is grounded on the
// teacher's vm/executor.go operand-fetch path and vm/memory.go's
// bounds-checked load, generalized from fixed-width memory words to
// Bliks' sparse, string-keyed register file.
package expander

import (
	"strconv"
	"strings"

	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

// maxTraceLen caps how many hops are shown in a retrieval-chain error trace
// before it is truncated with an ellipsis.
const maxTraceLen = 6

// Expand resolves each Argument to a value ready for a behavior: a string
// for String/Name-expected arguments, a float64 for Pointer/Number-expected
// ones. registers is nil at compile time. A compile-time dispatch only
// inspects expanded values when the corresponding parameter is Fixed (the
// resolver's fixed-parameter check guarantees those never carry a
// retrieval); a retrieval on a non-Fixed parameter can't be resolved yet,
// so it is passed through as a placeholder instead of erroring here — see
// walkRetrieval.
func Expand(args []program.Argument, registers map[int]string) ([]any, *diag.Error) {
	out := make([]any, len(args))
	for i, arg := range args {
		raw, err := expandOne(arg, registers, i+1)
		if err != nil {
			return nil, err
		}
		if types.Is(arg.Expected, types.Number) {
			n, ok := types.ParseFloat(raw)
			if !ok {
				return nil, diag.New(arg.Pos, "argument %d expanded to %q, which is not a valid number", i+1, raw)
			}
			out[i] = n
		} else {
			out[i] = raw
		}
	}
	return out, nil
}

func expandOne(arg program.Argument, registers map[int]string, argNum int) (string, *diag.Error) {
	if arg.Kind == program.ArgValue {
		return arg.Value, nil
	}
	return walkRetrieval(arg, registers, argNum)
}

// walkRetrieval performs arg.Depth register hops starting from arg.Value,
// failing if any intermediate value is not a Pointer, or if the final
// value does not satisfy arg.Expected. At compile time (registers == nil)
// there are no register values to hop through yet, so the chain is not
// walked at all; a placeholder from placeholderFor is returned instead,
// and the real walk happens against live registers on every run-time step.
func walkRetrieval(arg program.Argument, registers map[int]string, argNum int) (string, *diag.Error) {
	if registers == nil {
		return placeholderFor(arg.Expected), nil
	}

	trace := []string{arg.Value}
	current := arg.Value

	for hop := 0; hop < arg.Depth; hop++ {
		if types.Of(current) != types.Pointer {
			return "", diag.New(arg.Pos,
				"expected pointer during retrieval, but got %s (a %s)",
				formatTrace(trace), types.Of(current))
		}

		idx, err := strconv.Atoi(current)
		if err != nil {
			return "", diag.New(arg.Pos, "expected pointer during retrieval, but got %s (a %s)",
				formatTrace(trace), types.Of(current))
		}

		next := registers[idx]
		current = next
		trace = append(trace, current)
	}

	// A Pointer-expecting retrieval fails the same way whether the
	// non-pointer value turns up mid-chain or at the final hop.
	if arg.Expected == types.Pointer {
		if types.Of(current) != types.Pointer {
			return "", diag.New(arg.Pos,
				"expected pointer during retrieval, but got %s (a %s)",
				formatTrace(trace), types.Of(current))
		}
		return current, nil
	}

	if !types.Is(types.Of(current), arg.Expected) {
		return "", diag.New(arg.Pos,
			"function expects a %s for argument %d, but retrieval expanded to %s (a %s)",
			arg.Expected, argNum, formatTrace(trace), types.Of(current))
	}
	return current, nil
}

// placeholderFor returns "0" when expected is Pointer or Number (so it
// converts to a number; it is not itself a Pointer) and "" otherwise, for
// the argument slot a compile-time-only dispatch never actually reads.
func placeholderFor(expected types.ValueType) string {
	if types.Is(expected, types.Number) {
		return "0"
	}
	return ""
}

func formatTrace(trace []string) string {
	quoted := make([]string, len(trace))
	for i, v := range trace {
		quoted[i] = "'" + v + "'"
	}
	if len(quoted) > maxTraceLen {
		head := quoted[:maxTraceLen/2]
		tail := quoted[len(quoted)-maxTraceLen/2:]
		quoted = append(append(append([]string{}, head...), "..."), tail...)
	}
	return strings.Join(quoted, " -> ")
}
