// Control-flow scaffolding: the family of built-ins that establish and
// walk the label/jump-destination side-tables described for the resolver.
// Grounded on parser/symbols.go's SymbolTable/NumericLabelTable (the
// define-then-resolve shape) and vm/branch.go (the forward/backward
// target-search a branch instruction performs at run time).
package stdlib

import (
	"errors"
	"fmt"

	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

func elseLabel(level int) string { return fmt.Sprintf("_ELSE%d", level) }
func endifLabel(level int) string { return fmt.Sprintf("_ENDIF%d", level) }
func loopLabel(level int) string { return fmt.Sprintf("_LOOP%d", level) }
func loopEndLabel(level int) string { return fmt.Sprintf("_END%d", level) }

func registerControl(lib Library) {
	lib["begin"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.BeginSet {
				return errors.New("beginning has already been defined")
			}
			b.SetBegin(b.CurInstruction)
			return nil
		},
	}

	lib[">"] = FuncDescriptor{
		Params: must("!N"),
		Compile: func(b *program.Builder, args []any) error {
			b.DefineLabel(args[0].(string), b.CurInstruction)
			return nil
		},
	}

	lib["let"] = FuncDescriptor{
		Params: must("!N !p"),
		Compile: func(b *program.Builder, args []any) error {
			name := args[0].(string)
			value := args[1].(float64)
			b.Macros[name] = types.FormatFloat(value)
			return nil
		},
	}

	lib["func"] = FuncDescriptor{
		Params: must("!N"),
		Compile: func(b *program.Builder, args []any) error {
			name := args[0].(string)
			if b.LabelExists(name) {
				return fmt.Errorf("cannot define function because this label already exists: %q", name)
			}
			b.DefineLabel(name, b.CurInstruction)
			return nil
		},
	}

	registerConditionals(lib)
	registerLoops(lib)
	registerCallsAndJumps(lib)

	lib["stop"] = FuncDescriptor{
		Params: must(""),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			ifc.NextInstruction = -1
			return nil, nil
		},
	}

	lib["throw"] = FuncDescriptor{
		Params: must("s"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			return nil, errors.New(args[0].(string))
		},
	}

	lib["assert"] = FuncDescriptor{
		Params: must("s s?"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			if types.Truthy(args[0].(string)) {
				return nil, nil
			}
			msg := "value was false"
			if len(args) > 1 {
				msg = args[1].(string)
			}
			return nil, errors.New(msg)
		},
	}

	lib["==="] = FuncDescriptor{
		Params: must(""),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			return nil, errors.New("reached a '===' boundary marker")
		},
	}
}

func registerConditionals(lib Library) {
	testBranch := func(invert bool) RunFunc {
		return func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			cond := types.Truthy(args[0].(string))
			taken := cond
			if invert {
				taken = !cond
			}
			if taken {
				return nil, nil
			}
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpForward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		}
	}

	enterIf := func(b *program.Builder) {
		b.IfLevel++
		b.SetJumpDest(b.CurInstruction, elseLabel(b.IfLevel))
	}

	lib["if"] = FuncDescriptor{
		Params:  must("s"),
		Compile: func(b *program.Builder, args []any) error { enterIf(b); return nil },
		Run:     testBranch(false),
	}
	lib["ifnot"] = FuncDescriptor{
		Params:  must("s"),
		Compile: func(b *program.Builder, args []any) error { enterIf(b); return nil },
		Run:     testBranch(true),
	}

	lib["else"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.IfLevel == 0 {
				return errors.New("else without a matching if")
			}
			level := b.IfLevel
			// The if's false-branch jump lands on the first instruction
			// after this else, which itself jumps past the else branch.
			b.DefineLabel(elseLabel(level), b.CurInstruction+1)
			b.SetJumpDest(b.CurInstruction, endifLabel(level))
			return nil
		},
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpForward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["endif"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.IfLevel == 0 {
				return errors.New("endif without a matching if")
			}
			level := b.IfLevel
			// No else was seen for this if: the if's false-branch jump
			// lands here directly. An else of this if recorded its _ELSE
			// entry after the last _ENDIF of any earlier sibling at the
			// same level.
			elses := b.Labels[elseLabel(level)]
			endifs := b.Labels[endifLabel(level)]
			sawElse := len(elses) > 0 &&
				(len(endifs) == 0 || elses[len(elses)-1] > endifs[len(endifs)-1])
			if !sawElse {
				b.DefineLabel(elseLabel(level), b.CurInstruction)
			}
			b.DefineLabel(endifLabel(level), b.CurInstruction)
			b.IfLevel--
			return nil
		},
	}
}

func registerLoops(lib Library) {
	enterLoop := func(b *program.Builder, needsEnd bool) {
		b.LoopLevel++
		b.DefineLabel(loopLabel(b.LoopLevel), b.CurInstruction)
		if needsEnd {
			b.SetJumpDest(b.CurInstruction, loopEndLabel(b.LoopLevel))
		}
	}

	lib["repeat"] = FuncDescriptor{
		Params:  must(""),
		Compile: func(b *program.Builder, args []any) error { enterLoop(b, false); return nil },
	}

	lib["while"] = FuncDescriptor{
		Params:  must("s"),
		Compile: func(b *program.Builder, args []any) error { enterLoop(b, true); return nil },
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			if types.Truthy(args[0].(string)) {
				return nil, nil
			}
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpForward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["for"] = FuncDescriptor{
		Params:  must("p n n n?"),
		Compile: func(b *program.Builder, args []any) error { enterLoop(b, true); return nil },
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			reg := int(args[0].(float64))
			i := args[1].(float64)
			stop := args[2].(float64)
			step := 1.0
			if len(args) > 3 {
				step = args[3].(float64)
			}
			if step == 0 {
				return nil, errors.New("for step cannot be zero")
			}
			next := i + step
			ifc.SetRegister(reg, types.FormatFloat(next))
			if (step > 0 && next > stop) || (step < 0 && next < stop) {
				label, _ := prog.JumpDest(curIndex)
				idx, err := program.JumpForward(prog, label, curIndex)
				if err != nil {
					return nil, err
				}
				ifc.NextInstruction = idx
			}
			return nil, nil
		},
	}

	lib["end"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.LoopLevel == 0 {
				return errors.New("end without a matching loop")
			}
			level := b.LoopLevel
			b.SetJumpDest(b.CurInstruction, loopLabel(level))
			b.DefineLabel(loopEndLabel(level), b.CurInstruction+1)
			b.LoopLevel--
			return nil
		},
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpBackward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["break"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.LoopLevel == 0 {
				return errors.New("break outside a loop")
			}
			b.SetJumpDest(b.CurInstruction, loopEndLabel(b.LoopLevel))
			return nil
		},
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpForward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["continue"] = FuncDescriptor{
		Params: must(""),
		Compile: func(b *program.Builder, args []any) error {
			if b.LoopLevel == 0 {
				return errors.New("continue outside a loop")
			}
			b.SetJumpDest(b.CurInstruction, loopLabel(b.LoopLevel))
			return nil
		},
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			label, _ := prog.JumpDest(curIndex)
			idx, err := program.JumpBackward(prog, label, curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}
}

func registerCallsAndJumps(lib Library) {
	lib["goto"] = FuncDescriptor{
		Params: must("!N"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			idx, err := program.GotoLabel(prog, args[0].(string))
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["jump"] = FuncDescriptor{
		Params: must("!N"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			idx, err := program.JumpForward(prog, args[0].(string), curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	// jumpback is this module's symmetric counterpart to jump, landing on
	// the nearest prior occurrence of a label instead of the next one.
	lib["jumpback"] = FuncDescriptor{
		Params: must("!N"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			idx, err := program.JumpBackward(prog, args[0].(string), curIndex)
			if err != nil {
				return nil, err
			}
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["call"] = FuncDescriptor{
		Params: must("!N"),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			if ifc.Call.ReturnTarget != -1 {
				return nil, errors.New("call failed: already inside a function call")
			}
			idx, err := program.GotoLabel(prog, args[0].(string))
			if err != nil {
				return nil, err
			}
			ifc.Call.ReturnTarget = curIndex
			ifc.NextInstruction = idx
			return nil, nil
		},
	}

	lib["return"] = FuncDescriptor{
		Params: must(""),
		Run: func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error) {
			if ifc.Call.ReturnTarget == -1 {
				return nil, errors.New("return without a matching call")
			}
			ifc.NextInstruction = ifc.Call.ReturnTarget + 1
			ifc.Call.ReturnTarget = -1
			return nil, nil
		},
	}
}
