package expander_test

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/expander"
	"github.com/RiskoZoSlovenska/bliks-lang/program"
	"github.com/RiskoZoSlovenska/bliks-lang/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandLiteralValue(t *testing.T) {
	args := []program.Argument{
		{Kind: program.ArgValue, Expected: types.Number, Value: "3.5"},
		{Kind: program.ArgValue, Expected: types.String, Value: "hi"},
	}
	out, err := expander.Expand(args, nil)
	require.Nil(t, err)
	assert.Equal(t, 3.5, out[0])
	assert.Equal(t, "hi", out[1])
}

func TestExpandRetrievalSucceeds(t *testing.T) {
	registers := map[int]string{1: "2", 2: "b"}
	args := []program.Argument{
		{Kind: program.ArgRetrieval, Expected: types.String, Value: "1", Depth: 2},
	}
	out, err := expander.Expand(args, registers)
	require.Nil(t, err)
	assert.Equal(t, "b", out[0])
}

// Worked example: expanding a depth-2 retrieval starting at "1" through
// registers {1: "2", 2: "b"} when the argument expects a Pointer fails at
// the final hop, because "b" is a string.
func TestExpandRetrievalFailsOnFinalTypeMismatch(t *testing.T) {
	registers := map[int]string{1: "2", 2: "b"}
	args := []program.Argument{
		{Kind: program.ArgRetrieval, Expected: types.Pointer, Value: "1", Depth: 2},
	}
	_, err := expander.Expand(args, registers)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "expected pointer during retrieval")
	assert.Contains(t, err.Error(), "'1' -> '2' -> 'b'")
}

func TestExpandRetrievalFailsMidChainOnNonPointer(t *testing.T) {
	registers := map[int]string{1: "b"}
	args := []program.Argument{
		{Kind: program.ArgRetrieval, Expected: types.String, Value: "1", Depth: 2},
	}
	_, err := expander.Expand(args, registers)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "expected pointer during retrieval")
}

// At compile time (registers == nil) a retrieval can't be resolved yet, so
// Expand must not fail even when the expected type would otherwise reject
// whatever the empty-string default would be (e.g. Pointer/Number).
func TestExpandRetrievalAtCompileTimePassesThrough(t *testing.T) {
	args := []program.Argument{
		{Kind: program.ArgRetrieval, Expected: types.Pointer, Value: "1", Depth: 1},
		{Kind: program.ArgRetrieval, Expected: types.Number, Value: "1", Depth: 1},
		{Kind: program.ArgRetrieval, Expected: types.String, Value: "1", Depth: 1},
	}
	out, err := expander.Expand(args, nil)
	require.Nil(t, err)
	assert.Equal(t, 0.0, out[0])
	assert.Equal(t, 0.0, out[1])
	assert.Equal(t, "", out[2])
}

func TestExpandMissingRegisterDefaultsEmpty(t *testing.T) {
	registers := map[int]string{}
	args := []program.Argument{
		{Kind: program.ArgRetrieval, Expected: types.String, Value: "1", Depth: 1},
	}
	out, err := expander.Expand(args, registers)
	require.Nil(t, err)
	assert.Equal(t, "", out[0])
}
