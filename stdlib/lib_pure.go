// Pure computation: arithmetic, string helpers, comparisons, and boolean
// logic. None of this family participates at compile time; every entry
// here is plain stdlib-only Go (fmt/math/rand/strings), justified in the
// grounding ledger since no example repo imports a helper library for
// arithmetic or string manipulation this small.
package stdlib

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

func registerPure(lib Library) {
	registerArithmetic(lib)
	registerStrings(lib)
	registerComparisons(lib)
	registerBooleans(lib)
	registerConversions(lib)
	registerRandom(lib)

	lib["set"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), args[1].(string))
			return nil, nil
		},
	}
}

func binaryNumeric(name string, f func(a, b float64) (float64, error)) FuncDescriptor {
	return FuncDescriptor{
		Params: must("p n n"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			result, err := f(args[1].(float64), args[2].(float64))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(result))
			return nil, nil
		},
	}
}

func registerArithmetic(lib Library) {
	lib["add"] = binaryNumeric("add", func(a, b float64) (float64, error) { return a + b, nil })
	lib["sub"] = binaryNumeric("sub", func(a, b float64) (float64, error) { return a - b, nil })
	lib["mul"] = binaryNumeric("mul", func(a, b float64) (float64, error) { return a * b, nil })
	lib["div"] = binaryNumeric("div", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("division by zero")
		}
		return a / b, nil
	})
	lib["mod"] = binaryNumeric("mod", func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, fmt.Errorf("modulo by zero")
		}
		return float64(int64(a) % int64(b)), nil
	})

	lib["neg"] = FuncDescriptor{
		Params: must("p n"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(-args[1].(float64)))
			return nil, nil
		},
	}
}

func registerStrings(lib Library) {
	lib["concat"] = FuncDescriptor{
		Params: must("p s s*"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			var sb strings.Builder
			for _, a := range args[1:] {
				sb.WriteString(a.(string))
			}
			ifc.SetRegister(int(args[0].(float64)), sb.String())
			return nil, nil
		},
	}

	lib["upper"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), strings.ToUpper(args[1].(string)))
			return nil, nil
		},
	}

	lib["lower"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), strings.ToLower(args[1].(string)))
			return nil, nil
		},
	}

	lib["len"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			n := float64(len([]rune(args[1].(string))))
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(n))
			return nil, nil
		},
	}

	lib["sub$"] = FuncDescriptor{
		Params: must("p s n n?"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			runes := []rune(args[1].(string))
			start := int(args[2].(float64))
			length := len(runes) - start
			if len(args) > 3 {
				length = int(args[3].(float64))
			}
			if start < 0 || start > len(runes) {
				return nil, fmt.Errorf("sub$: start index %d out of range", start)
			}
			end := start + length
			if length < 0 || end > len(runes) {
				return nil, fmt.Errorf("sub$: length %d out of range at start %d", length, start)
			}
			ifc.SetRegister(int(args[0].(float64)), string(runes[start:end]))
			return nil, nil
		},
	}

	lib["index"] = FuncDescriptor{
		Params: must("p s s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			pos := strings.Index(args[1].(string), args[2].(string))
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(float64(pos+1)))
			return nil, nil
		},
	}
}

func boolToValue(b bool) string {
	if b {
		return "true"
	}
	return ""
}

// compareValues orders a and b numerically if both parse as numbers,
// falling back to a lexical comparison otherwise.
func compareValues(a, b string) int {
	na, aOK := types.ParseFloat(a)
	nb, bOK := types.ParseFloat(b)
	if aOK && bOK {
		switch {
		case na < nb:
			return -1
		case na > nb:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(a, b)
}

func registerComparisons(lib Library) {
	cmp := func(name string, test func(c int) bool) FuncDescriptor {
		return FuncDescriptor{
			Params: must("p s s"),
			Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
				c := compareValues(args[1].(string), args[2].(string))
				ifc.SetRegister(int(args[0].(float64)), boolToValue(test(c)))
				return nil, nil
			},
		}
	}

	lib["equal"] = cmp("equal", func(c int) bool { return c == 0 })
	lib["notequal"] = cmp("notequal", func(c int) bool { return c != 0 })
	lib["less"] = cmp("less", func(c int) bool { return c < 0 })
	lib["greater"] = cmp("greater", func(c int) bool { return c > 0 })
	lib["lessoreq"] = cmp("lessoreq", func(c int) bool { return c <= 0 })
	lib["greatereq"] = cmp("greatereq", func(c int) bool { return c >= 0 })
}

func registerBooleans(lib Library) {
	lib["not"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), boolToValue(!types.Truthy(args[1].(string))))
			return nil, nil
		},
	}
	lib["and"] = FuncDescriptor{
		Params: must("p s s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ok := types.Truthy(args[1].(string)) && types.Truthy(args[2].(string))
			ifc.SetRegister(int(args[0].(float64)), boolToValue(ok))
			return nil, nil
		},
	}
	lib["or"] = FuncDescriptor{
		Params: must("p s s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ok := types.Truthy(args[1].(string)) || types.Truthy(args[2].(string))
			ifc.SetRegister(int(args[0].(float64)), boolToValue(ok))
			return nil, nil
		},
	}
}

func registerConversions(lib Library) {
	lib["tonum"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			n, ok := types.ParseFloat(args[1].(string))
			if !ok {
				return nil, fmt.Errorf("tonum: %q is not a number", args[1].(string))
			}
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(n))
			return nil, nil
		},
	}
	lib["tostr"] = FuncDescriptor{
		Params: must("p s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), args[1].(string))
			return nil, nil
		},
	}
}

// registerRandom wires the two built-ins this module exempts from the
// determinism invariant.
func registerRandom(lib Library) {
	lib["random"] = FuncDescriptor{
		Params: must("p"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(rand.Float64()))
			return nil, nil
		},
	}
	lib["randomint"] = FuncDescriptor{
		Params: must("p n n"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			lo := int(args[1].(float64))
			hi := int(args[2].(float64))
			if hi < lo {
				return nil, fmt.Errorf("randomint: high %d is less than low %d", hi, lo)
			}
			n := lo + rand.IntN(hi-lo+1)
			ifc.SetRegister(int(args[0].(float64)), types.FormatFloat(float64(n)))
			return nil, nil
		},
	}
}
