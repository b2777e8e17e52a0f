// Package bliks is the public library surface described in spec.md §6:
// compile a source string to a CompiledProgram, bind a Machine to it, and
// format a pipeline error for display. It exists as its own importable
// package (rather than being inlined into cmd/bliks, the way the teacher
// inlines its own wiring directly in cmd/dwscript/cmd/run.go) because
// spec.md requires this wiring to be usable as a library, not just from a
// CLI.
package bliks

import (
	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/lexer"
	"github.com/RiskoZoSlovenska/bliks-lang/machine"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/resolver"
	"github.com/RiskoZoSlovenska/bliks-lang/stdlib"
)

// Machine re-exports machine.Machine so callers of this package never need
// to import the machine package directly.
type Machine = machine.Machine

// CompiledProgram re-exports program.CompiledProgram for the same reason.
type CompiledProgram = program.CompiledProgram

// DefaultLibrary returns the built-in standard library (control flow, I/O,
// and pure computation). Compile and MachineFromSource use this when no
// library is supplied.
func DefaultLibrary() stdlib.Library {
	return stdlib.New()
}

// Compile lexes and resolves source into a CompiledProgram. A nil lib uses
// DefaultLibrary(). The returned error, when non-nil, is the first parse
// or resolve error and can be rendered with FormatError.
func Compile(source string, lib stdlib.Library) (*CompiledProgram, error) {
	if lib == nil {
		lib = DefaultLibrary()
	}

	lines, lexErr := lexer.Tokenize(source)
	if lexErr != nil {
		return nil, lexErr
	}

	prog, resErr := resolver.Resolve(lines, lib)
	if resErr != nil {
		return nil, resErr
	}
	return prog, nil
}

// MachineFromCompiled binds a Machine to an already-resolved program. A
// nil lib uses DefaultLibrary(); numRegisters of machine.Unbounded (0)
// leaves the register count unbounded.
func MachineFromCompiled(prog *CompiledProgram, lib stdlib.Library, numRegisters int) *Machine {
	if lib == nil {
		lib = DefaultLibrary()
	}
	return machine.New(prog, lib, numRegisters)
}

// MachineFromSource compiles source and binds a fresh Machine to the
// result in one step.
func MachineFromSource(source string, lib stdlib.Library, numRegisters int) (*Machine, error) {
	prog, err := Compile(source, lib)
	if err != nil {
		return nil, err
	}
	return MachineFromCompiled(prog, lib, numRegisters), nil
}

// FormatError renders an error produced by Compile or a Machine step as a
// human-readable, caret-annotated diagnostic.
func FormatError(err error, source, sourceName string) string {
	return diag.Format(err, source, sourceName)
}
