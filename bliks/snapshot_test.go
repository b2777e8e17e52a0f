package bliks_test

import (
	"encoding/json"
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/bliks"
	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"
)

// transcript records a deterministic view of one machine run: the output
// sequence and the final register file, both of which are plain strings,
// numbers, and tables per spec.md's "only strings, numbers, tables"
// invariant, making the snapshot itself deterministic JSON.
type transcript struct {
	Outputs   []any          `json:"outputs"`
	Registers map[int]string `json:"registers"`
}

func TestSnapshotCompiledProgram_ArithmeticAndMacros(t *testing.T) {
	prog, err := bliks.Compile(`
		let total 1
		> nice
		set total 2
		begin
		add total total @total
		write @total
	`, nil)
	require.NoError(t, err)

	out, err := json.MarshalIndent(prog, "", "  ")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(out))
}

func TestSnapshotCompiledProgram_ControlFlow(t *testing.T) {
	prog, err := bliks.Compile(`
		set 1 "x"
		if 1
			set 2 "yes"
		else
			set 2 "no"
		endif
		while 1
			set 3 "loop"
			break
		end
	`, nil)
	require.NoError(t, err)

	out, err := json.MarshalIndent(prog, "", "  ")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(out))
}

func TestSnapshotTranscript_CallReturnAndOutput(t *testing.T) {
	m, err := bliks.MachineFromSource(`
		begin
		call greet
		write "done"
		stop
		func greet
		write "hi"
		return
	`, nil, 0)
	require.NoError(t, err)

	var outputs []any
	for {
		running, out, stepErr := m.Step()
		require.NoError(t, stepErr)
		if out != nil {
			outputs = append(outputs, out)
		}
		if !running {
			break
		}
	}

	snap := transcript{Outputs: outputs, Registers: map[int]string{}}
	for i := 0; i < 8; i++ {
		if v, ok := m.Register(i); ok {
			snap.Registers[i] = v
		}
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	require.NoError(t, err)
	snaps.MatchSnapshot(t, string(out))
}
