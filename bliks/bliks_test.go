package bliks_test

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/bliks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileAndRunRoundTrip(t *testing.T) {
	prog, err := bliks.Compile(`
		set 1 "hello"
		write @1
	`, nil)
	require.NoError(t, err)

	m := bliks.MachineFromCompiled(prog, nil, 0)
	running, out, stepErr := m.StepUntilOutput()
	require.NoError(t, stepErr)
	assert.True(t, running)
	assert.Equal(t, "hello", out)
}

func TestMachineFromSourceCompileError(t *testing.T) {
	_, err := bliks.MachineFromSource("nosuchfunc 1", nil, 0)
	require.Error(t, err)

	formatted := bliks.FormatError(err, "nosuchfunc 1", "<test>")
	assert.Contains(t, formatted, "no such function")
}

func TestFormatErrorRendersCaret(t *testing.T) {
	source := "add 3.2 3 3"
	_, err := bliks.Compile(source, nil)
	require.Error(t, err)

	formatted := bliks.FormatError(err, source, "<test>")
	assert.Contains(t, formatted, "<test>:1:")
	assert.Contains(t, formatted, "^")
}
