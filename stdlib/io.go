// I/O family: read, readnum, poll, pollnum, write, writef. Grounded on
// vm/syscall.go's console read/write calls, generalized from the teacher's
// fixed SWI numbers to named built-ins, and on its per-instance buffered
// reader for how a blocking read is modeled without a real blocking
// syscall.
package stdlib

import (
	"fmt"
	"strings"

	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

func registerIO(lib Library) {
	lib["read"] = FuncDescriptor{
		Params: must("p"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			value, _ := ifc.PopBuffer()
			ifc.SetRegister(int(args[0].(float64)), value)
			return nil, nil
		},
	}

	lib["readnum"] = FuncDescriptor{
		Params: must("p"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			value, ok := ifc.PopBuffer()
			if ok && !types.IsNumeric(value) {
				return nil, fmt.Errorf("readnum: %q is not a number", value)
			}
			ifc.SetRegister(int(args[0].(float64)), value)
			return nil, nil
		},
	}

	lib["poll"] = FuncDescriptor{
		Params: must("p"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			value, ok := ifc.PopBuffer()
			if !ok {
				ifc.NextInstruction = curIndex
				return program.NeedInput{}, nil
			}
			ifc.SetRegister(int(args[0].(float64)), value)
			return nil, nil
		},
	}

	lib["pollnum"] = FuncDescriptor{
		Params: must("p"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			value, ok := ifc.PopBuffer()
			if !ok {
				ifc.NextInstruction = curIndex
				return program.NeedInput{}, nil
			}
			if !types.IsNumeric(value) {
				return nil, fmt.Errorf("pollnum: %q is not a number", value)
			}
			ifc.SetRegister(int(args[0].(float64)), value)
			return nil, nil
		},
	}

	lib["write"] = FuncDescriptor{
		Params: must("s*"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			var sb strings.Builder
			for _, a := range args {
				sb.WriteString(a.(string))
			}
			return sb.String(), nil
		},
	}

	lib["writef"] = FuncDescriptor{
		Params: must("!s s*"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			format := args[0].(string)
			rest := args[1:]
			return formatTemplate(format, rest), nil
		},
	}
}

// formatTemplate substitutes each '%' placeholder in format with the next
// value in rest, in order. A '%%' escapes to a literal '%'. Placeholders
// beyond len(rest) are left as '%'.
func formatTemplate(format string, rest []any) string {
	var sb strings.Builder
	next := 0
	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			sb.WriteByte(ch)
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			sb.WriteByte('%')
			i++
			continue
		}
		if next < len(rest) {
			sb.WriteString(rest[next].(string))
			next++
		} else {
			sb.WriteByte('%')
		}
	}
	return sb.String()
}
