package lexer_test

import (
	"testing"

	"github.com/RiskoZoSlovenska/bliks-lang/lexer"
	"github.com/RiskoZoSlovenska/bliks-lang/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeSimpleInstruction(t *testing.T) {
	lines, err := lexer.Tokenize("add 1 2 3\n")
	require.Nil(t, err)
	require.Len(t, lines, 1)
	require.Len(t, lines[0].Tokens, 4)

	assert.Equal(t, token.Name, lines[0].Tokens[0].Type)
	assert.Equal(t, "add", lines[0].Tokens[0].Value)
	for _, tok := range lines[0].Tokens[1:] {
		assert.Equal(t, token.Literal, tok.Type)
	}
}

func TestTokenizeSeparatorsEquivalentToNewline(t *testing.T) {
	lines, err := lexer.Tokenize("add 1 2 3; sub 4 5 6:mul 1 1 1")
	require.Nil(t, err)
	require.Len(t, lines, 3)
}

func TestTokenizeSkipsCommentsAndBlankLines(t *testing.T) {
	lines, err := lexer.Tokenize("# a comment\n\nadd 1 2 3 # trailing\n\n")
	require.Nil(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "add", lines[0].Tokens[0].Value)
}

func TestTokenizeStringEscapes(t *testing.T) {
	lines, err := lexer.Tokenize(`write "a$nb$tc$qd$24e"` + "\n")
	require.Nil(t, err)
	require.Len(t, lines[0].Tokens, 2)
	assert.Equal(t, "a\nb\tc\"d$e", lines[0].Tokens[1].Value)
}

func TestTokenizeRetrieval(t *testing.T) {
	lines, err := lexer.Tokenize("write @@name\n")
	require.Nil(t, err)
	tok := lines[0].Tokens[1]
	require.Equal(t, token.Retrieval, tok.Type)
	assert.Equal(t, 2, tok.Depth)
	require.NotNil(t, tok.Inner)
	assert.Equal(t, token.Name, tok.Inner.Type)
	assert.Equal(t, "name", tok.Inner.Value)
}

// Back-retrieval lowering (spec worked example): "add @@1 < <" lexes as a
// name, a depth-2 retrieval over the literal "1", and two bare
// back-retrievals; lowering them into real retrievals is the resolver's job.
func TestTokenizeBackRetrievalLoweringSource(t *testing.T) {
	lines, err := lexer.Tokenize("add @@1 < <\n")
	require.Nil(t, err)
	toks := lines[0].Tokens
	require.Len(t, toks, 4)

	assert.Equal(t, token.Name, toks[0].Type)

	require.Equal(t, token.Retrieval, toks[1].Type)
	assert.Equal(t, 2, toks[1].Depth)
	require.NotNil(t, toks[1].Inner)
	assert.Equal(t, token.Literal, toks[1].Inner.Type)
	assert.Equal(t, "1", toks[1].Inner.Value)

	assert.Equal(t, token.BackRetrieval, toks[2].Type)
	assert.Equal(t, token.BackRetrieval, toks[3].Type)
}

func TestTokenizeNumberForms(t *testing.T) {
	for _, word := range []string{"3", "-4", "3.2", "+3.2e10", "1e-5", "0"} {
		lines, err := lexer.Tokenize(word + "\n")
		require.Nil(t, err, word)
		assert.Equal(t, token.Literal, lines[0].Tokens[0].Type, word)
	}
}

func TestTokenizeMalformedNumber(t *testing.T) {
	_, err := lexer.Tokenize("3.\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "malformed number")
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := lexer.Tokenize(`write "unterminated`)
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "unterminated string")
}

func TestTokenizeInvalidEscape(t *testing.T) {
	_, err := lexer.Tokenize(`write "a$zb"` + "\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "invalid escape")
}

func TestTokenizeIllegalCharacterInName(t *testing.T) {
	_, err := lexer.Tokenize("fo(o 1 2\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "illegal character")
}

func TestTokenizeEmptyRetrieval(t *testing.T) {
	_, err := lexer.Tokenize("write @\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "empty retrieval")
}

func TestTokenizeMalformedBackRetrieval(t *testing.T) {
	_, err := lexer.Tokenize("write <foo\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "malformed back retrieval")
}

func TestTokenizeRetrievalOfBackRetrievalRejected(t *testing.T) {
	_, err := lexer.Tokenize("add @< 2 3\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "back retrieval inside a retrieval")
}

func TestTokenizeExpectedSpaceAfterString(t *testing.T) {
	_, err := lexer.Tokenize(`write "hi"there` + "\n")
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "expected space")
}
