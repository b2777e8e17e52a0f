// Package program defines the shapes shared by the resolver, the standard
// library, and the machine: the compiled instruction stream, its label and
// jump-destination side-tables, and the transient per-step interface a
// run-time behavior observes and mutates. Keeping these in their own
// package (rather than on the resolver or the machine) is what lets
// stdlib's FuncDescriptors be imported by both without a cycle, mirroring
// how the teacher repo's vm package owns the CPU state that both the
// executor and the syscall table close over.
package program

import (
	"github.com/RiskoZoSlovenska/bliks-lang/token"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
)

// ArgKind distinguishes a plain literal argument from one that must be
// resolved through the register file at run time.
type ArgKind int

const (
	ArgValue ArgKind = iota
	ArgRetrieval
)

func (k ArgKind) String() string {
	switch k {
	case ArgValue:
		return "literal"
	case ArgRetrieval:
		return "retrieval"
	default:
		return "unknown"
	}
}

// Argument is a resolved, type-checked operand: a literal value ready to
// use as-is, or a retrieval description (starting payload + hop count) to
// be walked against live registers by the expander.
type Argument struct {
	Kind     ArgKind
	Expected types.ValueType
	Value    string
	Depth    int
	Pos      token.Pos
}

// Instruction is one resolved, emitted line of the program.
type Instruction struct {
	FuncName string
	Args     []Argument
	Num      int
	Pos      token.Pos
}

// CompiledProgram is the immutable output of resolution. Its instructions,
// labels, and jump-destinations are fixed once resolution succeeds and may
// be shared by any number of machines.
type CompiledProgram struct {
	Instructions []Instruction
	Begin        int
	Labels       map[string][]int
	JumpDests    map[int]string
}

// LabelIndices returns the instruction-indices recorded under name, or nil
// if the label was never defined.
func (p *CompiledProgram) LabelIndices(name string) []int {
	return p.Labels[name]
}

// JumpDest returns the label name recorded at instruction index idx (1-based)
// and whether one was recorded.
func (p *CompiledProgram) JumpDest(idx int) (string, bool) {
	name, ok := p.JumpDests[idx]
	return name, ok
}
