// Package machine implements the stepwise register machine (M): a
// cooperative interpreter over a CompiledProgram that draws on the
// argument expander every step and dispatches into the standard library's
// run-time behaviors.
//
// Grounded on vm/executor.go's VM.Step (fetch, decode/expand operands,
// execute, post-step bookkeeping, error-vs-halt state split) and on
// vm/syscall.go's distinction between an expected blocking condition
// (returned as a value) and a fatal execution error (returned as a Go
// error) — the same split spec.md's poll/pollnum "-1" sentinel draws.
package machine

import (
	"fmt"

	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/expander"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/stdlib"
)

// Unbounded is the sentinel Machine.MaxRegisters takes when register count
// is not limited.
const Unbounded = 0

// Machine owns one run of a CompiledProgram: its registers, its input
// buffer, and its program counter. The CompiledProgram and library it
// references are shared, read-only, and may back any number of other
// machines simultaneously.
type Machine struct {
	program *program.CompiledProgram
	lib     stdlib.Library

	registers map[int]string
	buffer    []string

	nextInstruction int
	call            *program.CallState

	// MaxRegisters is the highest register index a step may write.
	// Zero (Unbounded) means no limit.
	MaxRegisters int
}

// New creates a Machine bound to prog and lib, with its program counter at
// prog.Begin and an empty register file and input buffer. maxRegisters of
// Unbounded (0) disables the limit.
func New(prog *program.CompiledProgram, lib stdlib.Library, maxRegisters int) *Machine {
	return &Machine{
		program:         prog,
		lib:             lib,
		registers:       make(map[int]string),
		nextInstruction: prog.Begin,
		call:            program.NewCallState(),
		MaxRegisters:    maxRegisters,
	}
}

// Push enqueues a value at the back of the machine's input buffer, for a
// future poll/pollnum (or read/readnum) to consume.
func (m *Machine) Push(value string) {
	m.buffer = append(m.buffer, value)
}

// Register returns the current value of register idx, and whether it has
// ever been written.
func (m *Machine) Register(idx int) (string, bool) {
	v, ok := m.registers[idx]
	return v, ok
}

// PeekInstruction reports the 1-based index and function name of the
// instruction the next Step call will execute, and whether one exists.
// Intended for trace output (cmd/bliks's --trace), not for driving
// execution itself.
func (m *Machine) PeekInstruction() (index int, funcName string, ok bool) {
	if m.nextInstruction < 1 || m.nextInstruction > len(m.program.Instructions) {
		return 0, "", false
	}
	ins := m.program.Instructions[m.nextInstruction-1]
	return m.nextInstruction, ins.FuncName, true
}

func (m *Machine) popBuffer() (string, bool) {
	if len(m.buffer) == 0 {
		return "", false
	}
	v := m.buffer[0]
	m.buffer = m.buffer[1:]
	return v, true
}

// Step executes exactly one instruction. running is false only on normal
// termination (the program counter ran off the end of the instruction
// stream) or a fatal error; a poll/pollnum suspension keeps running true
// and returns program.NeedInput{} as output. err, when non-nil, is a
// *diag.Error positioned at the failing instruction.
func (m *Machine) Step() (running bool, output any, err error) {
	if m.nextInstruction < 1 || m.nextInstruction > len(m.program.Instructions) {
		return false, nil, nil
	}

	ins := m.program.Instructions[m.nextInstruction-1]
	curIndex := m.nextInstruction
	m.nextInstruction++

	desc, ok := m.lib.Lookup(ins.FuncName)
	if !ok || desc.Run == nil {
		return false, nil, diag.New(ins.Pos, "instruction '%s' has no run-time behavior", ins.FuncName)
	}

	expanded, xerr := expander.Expand(ins.Args, m.registers)
	if xerr != nil {
		return false, nil, xerr
	}

	ifc := &program.Interface{
		PopBuffer:       m.popBuffer,
		CurInstruction:  ins,
		NextInstruction: m.nextInstruction,
		Call:            m.call,
	}

	out, rerr := desc.Run(ifc, m.program, curIndex, expanded)
	if rerr != nil {
		return false, nil, diag.New(ins.Pos, "%s", rerr.Error())
	}

	if err := m.flush(ifc); err != nil {
		return false, nil, diag.New(ins.Pos, "%s", err.Error())
	}

	m.nextInstruction = ifc.NextInstruction
	return true, out, nil
}

// flush commits a step's staged register writes, enforcing MaxRegisters.
func (m *Machine) flush(ifc *program.Interface) error {
	for idx, value := range ifc.Registers {
		if m.MaxRegisters != Unbounded && idx > m.MaxRegisters {
			return fmt.Errorf("register index %d exceeds the configured maximum of %d", idx, m.MaxRegisters)
		}
		m.registers[idx] = value
	}
	return nil
}

// StepUntilOutput repeatedly steps until either the machine stops running
// or a step produces non-nil output, and returns that final result.
func (m *Machine) StepUntilOutput() (running bool, output any, err error) {
	for {
		running, output, err = m.Step()
		if !running || output != nil || err != nil {
			return running, output, err
		}
	}
}
