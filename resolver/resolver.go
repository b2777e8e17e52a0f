// Package resolver implements the resolver/compiler (R): the ten-step
// per-line algorithm that turns parsed instruction-lines and a standard
// library into a CompiledProgram. It runs compile-time built-ins as it
// goes, which is how control-flow scaffolding establishes its label and
// jump-destination tables before the machine ever sees an instruction.
//
// Grounded on parser/parser.go's Parser.firstPass (a single forward pass
// that validates and accumulates as it goes, rather than building an
// intermediate AST) and parser/symbols.go's SymbolTable/NumericLabelTable
// (the define-then-resolve bookkeeping that this package's dependency,
// program.Builder, carries forward).
package resolver

import (
	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/expander"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/stdlib"
	"github.com/RiskoZoSlovenska/bliks-lang/token"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

// Resolve turns parsed instruction-lines into a CompiledProgram, running
// every compile-time built-in along the way. It returns the first error
// encountered, if any.
func Resolve(lines []token.Line, lib stdlib.Library) (*program.CompiledProgram, *diag.Error) {
	b := program.NewBuilder()

	for _, line := range lines {
		if err := resolveLine(b, line, lib); err != nil {
			return nil, err
		}
	}

	return b.Finish(), nil
}

func resolveLine(b *program.Builder, line token.Line, lib stdlib.Library) *diag.Error {
	head := line.Tokens[0]
	if head.Type != token.Name {
		return diag.New(head.Pos, "expected function name, got a %s", head.Type)
	}

	desc, ok := lib.Lookup(head.Value)
	if !ok {
		return diag.New(head.Pos, "no such function '%s'", head.Value)
	}

	args := append([]token.Token(nil), line.Tokens[1:]...)

	if err := checkArity(head, desc.Params, len(args)); err != nil {
		return err
	}
	if err := lowerBackRetrievals(args); err != nil {
		return err
	}
	if err := expandMacros(b, desc.Params, args); err != nil {
		return err
	}
	if err := typecheckRetrievals(args); err != nil {
		return err
	}
	if err := typecheckLiterals(desc.Params, args); err != nil {
		return err
	}
	if err := checkFixedParams(desc.Params, args); err != nil {
		return err
	}

	built := buildArguments(desc.Params, args)

	if desc.Compile != nil {
		b.CurInstruction = len(b.Instructions) + 1
		expanded, xerr := expander.Expand(built, nil)
		if xerr != nil {
			return xerr
		}
		if err := desc.Compile(b, expanded); err != nil {
			return diag.New(head.Pos, "%s", err.Error())
		}
	}

	if desc.Run != nil {
		b.Emit(program.Instruction{
			FuncName: head.Value,
			Args:     built,
			Num:      len(b.Instructions) + 1,
			Pos:      head.Pos,
		})
	}

	return nil
}

func checkArity(head token.Token, params types.ParameterList, n int) *diag.Error {
	if n < params.Min {
		return diag.New(head.Pos, "'%s' expects at least %d argument(s), got %d", head.Value, params.Min, n)
	}
	if params.Max != types.Unbounded && n > params.Max {
		return diag.New(head.Pos, "'%s' expects at most %d argument(s), got %d", head.Value, params.Max, n)
	}
	return nil
}

// lowerBackRetrievals rewrites every BackRetrieval in args (other than a
// leading one, which is always an error) into an equivalent Retrieval
// targeting the first argument, per spec.md's back-retrieval lowering step.
func lowerBackRetrievals(args []token.Token) *diag.Error {
	if len(args) == 0 {
		return nil
	}
	if args[0].Type == token.BackRetrieval {
		return diag.New(args[0].Pos, "the first argument cannot be a back retrieval")
	}

	first := args[0]
	for i := 1; i < len(args); i++ {
		if args[i].Type != token.BackRetrieval {
			continue
		}
		inner, depth, err := backRetrievalTarget(first, args[i].Pos)
		if err != nil {
			return err
		}
		args[i] = token.Token{Type: token.Retrieval, Inner: inner, Depth: depth, Pos: args[i].Pos}
	}
	return nil
}

// backRetrievalTarget computes the inner token and depth a back retrieval
// lowers to: the first argument's own inner payload and one more hop than
// it, or the first argument itself at depth one if it isn't a retrieval.
func backRetrievalTarget(first token.Token, pos token.Pos) (*token.Token, int, *diag.Error) {
	switch first.Type {
	case token.BackRetrieval:
		// Unreachable: lowerBackRetrievals rejects a leading back
		// retrieval before calling this; kept as a defensive check.
		return nil, 0, diag.New(pos, "back retrieval inside a retrieval")
	case token.Retrieval:
		if first.Inner.Type == token.BackRetrieval {
			return nil, 0, diag.New(pos, "back retrieval inside a retrieval")
		}
		inner := *first.Inner
		return &inner, first.Depth + 1, nil
	default:
		inner := first
		return &inner, 1, nil
	}
}

// expandMacros replaces every surface Name token whose parameter doesn't
// expect a Name, plus every Name nested inside a Retrieval regardless of
// the surrounding parameter's type, with the Literal its macro expands to.
func expandMacros(b *program.Builder, params types.ParameterList, args []token.Token) *diag.Error {
	for i := range args {
		switch args[i].Type {
		case token.Name:
			if params.At(i).Type == types.Name {
				continue
			}
			value, ok := b.Macros[args[i].Value]
			if !ok {
				return diag.New(args[i].Pos, "macro '%s' is not defined", args[i].Value)
			}
			args[i] = token.Token{Type: token.Literal, Value: value, Pos: args[i].Pos}

		case token.Retrieval:
			if args[i].Inner.Type != token.Name {
				continue
			}
			value, ok := b.Macros[args[i].Inner.Value]
			if !ok {
				return diag.New(args[i].Inner.Pos, "macro '%s' is not defined", args[i].Inner.Value)
			}
			inner := token.Token{Type: token.Literal, Value: value, Pos: args[i].Inner.Pos}
			args[i].Inner = &inner
		}
	}
	return nil
}

func typecheckRetrievals(args []token.Token) *diag.Error {
	for _, a := range args {
		if a.Type != token.Retrieval {
			continue
		}
		if got := types.OfToken(*a.Inner); got != types.Pointer {
			return diag.New(a.Inner.Pos, "retrieval target must be a pointer, but '%s' is a %s", a.Inner.Value, got)
		}
	}
	return nil
}

func typecheckLiterals(params types.ParameterList, args []token.Token) *diag.Error {
	for i, a := range args {
		if a.Type != token.Literal {
			continue
		}
		expected := params.At(i).Type
		actual := types.Of(a.Value)
		if !types.Is(actual, expected) {
			return diag.New(a.Pos, "function expects a %s for argument %d, but got '%s' (a %s)", expected, i+1, a.Value, actual)
		}
	}
	return nil
}

func checkFixedParams(params types.ParameterList, args []token.Token) *diag.Error {
	for i, a := range args {
		if params.At(i).Fixed && a.Type == token.Retrieval {
			return diag.New(a.Pos, "argument %d cannot be a retrieval", i+1)
		}
	}
	return nil
}

func buildArguments(params types.ParameterList, args []token.Token) []program.Argument {
	built := make([]program.Argument, len(args))
	for i, a := range args {
		expected := params.At(i).Type
		switch a.Type {
		case token.Retrieval:
			built[i] = program.Argument{
				Kind:     program.ArgRetrieval,
				Expected: expected,
				Value:    a.Inner.Value,
				Depth:    a.Depth,
				Pos:      a.Pos,
			}
		default: // Literal, or Name at a Name-typed parameter
			built[i] = program.Argument{
				Kind:     program.ArgValue,
				Expected: expected,
				Value:    a.Value,
				Pos:      a.Pos,
			}
		}
	}
	return built
}
