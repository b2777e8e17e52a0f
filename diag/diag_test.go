package diag_test

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPointsAtCorrectLineAndColumn(t *testing.T) {
	source := "begin\nadd 3.2 3 3\n"
	// position of "3.2" (1-based byte offset)
	pos := token.Pos(len("begin\nadd ") + 1)
	err := diag.New(pos, "function expects a pointer for argument 1, but got '3.2' (a number)")

	out := diag.Format(err, source, "test.blk")
	require.Contains(t, out, "test.blk:2:")
	require.Contains(t, out, "add 3.2 3 3")
	assert.Contains(t, out, "^")
}

func TestFormatNonDiagError(t *testing.T) {
	out := diag.Format(assertError{}, "source", "name")
	assert.Contains(t, out, "boom")
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
