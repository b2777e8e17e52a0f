package machine_test

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/lexer"
	"github.com/RiskoZoSlovenska/bliks-lang/machine"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/resolver"
	"github.com/RiskoZoSlovenska/bliks-lang/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, source string) *program.CompiledProgram {
	t.Helper()
	lines, lexErr := lexer.Tokenize(source)
	require.Nil(t, lexErr)
	prog, resErr := resolver.Resolve(lines, stdlib.New())
	require.Nil(t, resErr)
	return prog
}

func runToCompletion(t *testing.T, m *machine.Machine) []any {
	t.Helper()
	var outputs []any
	for {
		running, out, err := m.Step()
		require.NoError(t, err)
		if out != nil {
			outputs = append(outputs, out)
		}
		if !running {
			return outputs
		}
	}
}

func TestEmptyProgramTerminatesImmediately(t *testing.T) {
	prog := mustCompile(t, "")
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	running, out, err := m.Step()
	assert.False(t, running)
	assert.Nil(t, out)
	require.NoError(t, err)
}

func TestDeterminismAcrossMachines(t *testing.T) {
	prog := mustCompile(t, `
		poll 1
		add 2 @1 @1
		write @2
	`)
	lib := stdlib.New()

	run := func() []any {
		m := machine.New(prog, lib, machine.Unbounded)
		m.Push("4")
		return runToCompletion(t, m)
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	require.Len(t, first, 1)
	assert.Equal(t, "8", first[0])
}

func TestPollSuspendsThenResumesOnPush(t *testing.T) {
	prog := mustCompile(t, "poll 1")
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	running, out, err := m.Step()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, program.NeedInput{}, out)

	m.Push("x")
	running, out, err = m.Step()
	require.NoError(t, err)
	assert.True(t, running) // one more step to fall off the end
	assert.Nil(t, out)

	v, ok := m.Register(1)
	require.True(t, ok)
	assert.Equal(t, "x", v)
}

func TestRegisterOverflowErrors(t *testing.T) {
	prog := mustCompile(t, "set 3 \"hi\"")
	m := machine.New(prog, stdlib.New(), 2)

	running, _, err := m.Step()
	assert.False(t, running)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the configured maximum")
}

func TestStopHaltsOnNextStep(t *testing.T) {
	prog := mustCompile(t, "stop\nset 1 \"unreachable\"")
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	running, _, err := m.Step()
	require.NoError(t, err)
	assert.True(t, running)

	running, _, err = m.Step()
	require.NoError(t, err)
	assert.False(t, running)

	_, ok := m.Register(1)
	assert.False(t, ok)
}

func TestStepUntilOutputStopsAtFirstOutput(t *testing.T) {
	prog := mustCompile(t, `
		set 1 "a"
		write @1
		set 2 "b"
	`)
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	running, out, err := m.StepUntilOutput()
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, "a", out)
}

func TestPeekInstructionReportsUpcomingStep(t *testing.T) {
	prog := mustCompile(t, `set 1 "a"`+"\n"+`write @1`)
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	idx, funcName, ok := m.PeekInstruction()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "set", funcName)

	_, _, err := m.Step()
	require.NoError(t, err)

	idx, funcName, ok = m.PeekInstruction()
	require.True(t, ok)
	assert.Equal(t, 2, idx)
	assert.Equal(t, "write", funcName)

	_, _, err = m.Step()
	require.NoError(t, err)

	_, _, ok = m.PeekInstruction()
	assert.False(t, ok)
}

func TestCallAndReturn(t *testing.T) {
	prog := mustCompile(t, `
		begin
		call greet
		write "done"
		stop
		func greet
		write "hi"
		return
	`)
	m := machine.New(prog, stdlib.New(), machine.Unbounded)

	outputs := runToCompletion(t, m)
	assert.Equal(t, []any{"hi", "done"}, outputs)
}
