// Package stdlib is the standard library registry (L): an immutable
// catalog of named built-ins, each a ParameterList plus an optional
// compile-time behavior and an optional run-time behavior. Its
// name-to-descriptor dispatch is grounded on the teacher's
// vm/syscall.go SWI table (a flat map from call number to handler), here
// keyed by function name instead of a numeric code, and on
// parser/macros.go's MacroTable for the shape of a small, statically built
// name registry.
package stdlib

import (
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

// CompileFunc runs during resolution, with the program builder and the
// argument list already expanded to literal values. The resolver rejects a
// retrieval at a Fixed parameter; a retrieval at a non-Fixed parameter
// arrives as a placeholder value (see expander.walkRetrieval).
type CompileFunc func(b *program.Builder, args []any) error

// RunFunc runs during a machine step, with live arguments expanded against
// the current registers. It returns the step's output (nil, a string, or
// program.NeedInput) and an error, if any.
type RunFunc func(ifc *program.Interface, prog *program.CompiledProgram, curIndex int, args []any) (any, error)

// FuncDescriptor is one catalog entry. At least one of Compile or Run must
// be non-nil.
type FuncDescriptor struct {
	Params  types.ParameterList
	Compile CompileFunc
	Run     RunFunc
}

// Library is the full, immutable set of built-ins available to a
// compilation. It is a plain map because, once built by New, nothing in
// the package ever mutates it.
type Library map[string]FuncDescriptor

// Lookup returns the descriptor for name and whether it exists.
func (l Library) Lookup(name string) (FuncDescriptor, bool) {
	d, ok := l[name]
	return d, ok
}

// must panics on a malformed parameter spec; only ever called with the
// literal specs below, so a panic here means a bug in this file, not in
// user input.
func must(spec string) types.ParameterList {
	pl, err := types.ParseParams(spec)
	if err != nil {
		panic("stdlib: invalid built-in parameter spec " + spec + ": " + err.Error())
	}
	return pl
}

// New builds the default standard library: control-flow scaffolding, I/O,
// and pure computation.
func New() Library {
	lib := make(Library)
	registerControl(lib)
	registerIO(lib)
	registerPure(lib)
	return lib
}
