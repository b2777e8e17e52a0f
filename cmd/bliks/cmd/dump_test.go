package cmd

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/bliks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDumpJSON(t *testing.T) {
	prog, err := bliks.Compile(`set 1 "hi"`, nil)
	require.NoError(t, err)

	err = renderDump(prog, "json")
	assert.NoError(t, err)
}

func TestRenderDumpYAML(t *testing.T) {
	prog, err := bliks.Compile(`set 1 "hi"`, nil)
	require.NoError(t, err)

	err = renderDump(prog, "yaml")
	assert.NoError(t, err)
}

func TestRenderDumpUnknownFormat(t *testing.T) {
	prog, err := bliks.Compile(`set 1 "hi"`, nil)
	require.NoError(t, err)

	err = renderDump(prog, "xml")
	assert.Error(t, err)
}
