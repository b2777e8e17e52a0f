package types

import (
	"fmt"
	"strings"
)

// Parameter is one entry in a ParameterList.
type Parameter struct {
	Type  ValueType
	Fixed bool // true: the argument at this position must be a literal, never a retrieval
}

// ParameterList describes the arity and per-position types of a built-in's
// arguments. Optional parameters must all trail the required ones; at most
// one variadic parameter is allowed, and it must be last.
type ParameterList struct {
	Params   []Parameter
	Min, Max int // Max is -1 for unbounded (variadic)
}

// Unbounded is the sentinel ParameterList.Max takes when the list ends in a
// variadic parameter.
const Unbounded = -1

// At returns the effective parameter for the i-th (0-based) argument: the
// i-th parameter if present, otherwise the last parameter (so a trailing
// variadic parameter repeats indefinitely).
func (pl ParameterList) At(i int) Parameter {
	if i < len(pl.Params) {
		return pl.Params[i]
	}
	return pl.Params[len(pl.Params)-1]
}

var letterTypes = map[byte]ValueType{
	'p': Pointer,
	'n': Number,
	's': String,
	'N': Name,
}

// ParseParams parses a whitespace-separated parameter-spec string of the
// grammar `!? letter [?|*]`. The `!` prefix marks a parameter fixed (it may
// never be supplied as a retrieval); a trailing `?` marks it optional; a
// trailing `*` marks it variadic (at most one, and it must be last).
func ParseParams(spec string) (ParameterList, error) {
	atoms := strings.Fields(spec)
	params := make([]Parameter, 0, len(atoms))

	sawOptional := false
	sawVariadic := false
	numOptional := 0

	for _, atom := range atoms {
		if sawVariadic {
			return ParameterList{}, fmt.Errorf("parameter %q follows a variadic parameter, which must be last", atom)
		}

		rest := atom
		fixed := false
		if strings.HasPrefix(rest, "!") {
			fixed = true
			rest = rest[1:]
		}

		if rest == "" {
			return ParameterList{}, fmt.Errorf("malformed parameter atom %q: missing type letter", atom)
		}

		letter := rest[0]
		valueType, ok := letterTypes[letter]
		if !ok {
			return ParameterList{}, fmt.Errorf("malformed parameter atom %q: unknown type letter %q", atom, letter)
		}
		rest = rest[1:]

		optional := false
		variadic := false
		if rest != "" {
			switch rest {
			case "?":
				optional = true
			case "*":
				variadic = true
			default:
				return ParameterList{}, fmt.Errorf("malformed parameter atom %q: unexpected suffix %q", atom, rest)
			}
		}

		if optional {
			sawOptional = true
			numOptional++
		} else if !variadic && sawOptional {
			return ParameterList{}, fmt.Errorf("parameter %q is required but follows an optional parameter", atom)
		}
		if variadic {
			sawVariadic = true
		}

		params = append(params, Parameter{Type: valueType, Fixed: fixed})
	}

	if len(params) == 0 {
		return ParameterList{Params: params, Min: 0, Max: 0}, nil
	}

	total := len(params)
	min := total - numOptional
	if sawVariadic {
		min--
	}
	max := total
	if sawVariadic {
		max = Unbounded
	}

	return ParameterList{Params: params, Min: min, Max: max}, nil
}
