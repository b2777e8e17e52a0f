// Package lexer turns Bliks source text into instruction-lines of tokens.
// Its cursor/NextToken shape is grounded on parser.Lexer in the teacher
// repo (readChar/peekChar plus a character switch in NextToken), adapted to
// Bliks' own grammar: comments at '#', newline/';'/':' as equivalent
// instruction separators, '$'-escaped strings, '@'-prefixed retrievals, a
// bare '<' as back-retrieval, and a restricted name character set.
package lexer

import (
	"github.com/RiskoZoSlovenska/bliks-lang/diag"
	"github.com/RiskoZoSlovenska/bliks-lang/token"
)

const nameChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789_.!&%>="

func isNameChar(ch byte) bool {
	for i := 0; i < len(nameChars); i++ {
		if nameChars[i] == ch {
			return true
		}
	}
	return false
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isBreak(ch byte) bool {
	return ch == 0 || ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' ||
		ch == ';' || ch == ':' || ch == '#'
}

// Lexer tokenizes Bliks source into instruction-lines.
type Lexer struct {
	input string
	pos   int  // index of the next unread byte
	ch    byte // current byte, 0 at EOF
}

// New creates a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.pos]
	}
	l.pos++
}

func (l *Lexer) peekChar() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
}

// curPos returns the 1-based byte offset of the current character.
func (l *Lexer) curPos() token.Pos {
	return token.Pos(l.pos)
}

func (l *Lexer) skipSpacesAndTabs() {
	for l.ch == ' ' || l.ch == '\t' {
		l.readChar()
	}
}

func (l *Lexer) skipComment() {
	for l.ch != '\n' && l.ch != 0 {
		l.readChar()
	}
}

// Tokenize lexes the entire source into instruction-lines, skipping blank
// lines. It returns the first error encountered, if any.
func Tokenize(source string) ([]token.Line, *diag.Error) {
	l := New(source)
	var lines []token.Line
	var cur []token.Token

	for {
		l.skipSpacesAndTabs()

		if l.ch == '#' {
			l.skipComment()
			continue
		}

		if l.ch == 0 {
			if len(cur) > 0 {
				lines = append(lines, token.Line{Tokens: cur})
			}
			return lines, nil
		}

		if l.ch == '\n' || l.ch == '\r' || l.ch == ';' || l.ch == ':' {
			if l.ch == '\r' && l.peekChar() == '\n' {
				l.readChar()
			}
			l.readChar()
			if len(cur) > 0 {
				lines = append(lines, token.Line{Tokens: cur})
				cur = nil
			}
			continue
		}

		tok, err := l.nextToken()
		if err != nil {
			return nil, err
		}
		cur = append(cur, tok)
	}
}

// nextToken lexes one token at the current position. The caller has
// already skipped whitespace/comments/separators/EOF.
func (l *Lexer) nextToken() (token.Token, *diag.Error) {
	switch {
	case l.ch == '"':
		return l.readString()
	case l.ch == '@':
		return l.readRetrieval()
	case l.ch == '<':
		return l.readBackRetrieval()
	default:
		return l.readWord()
	}
}

func (l *Lexer) readString() (token.Token, *diag.Error) {
	startPos := l.curPos()
	l.readChar() // consume opening quote

	var out []byte
	for {
		switch {
		case l.ch == 0 || l.ch == '\n':
			return token.Token{}, diag.New(l.curPos(), "unterminated string literal")
		case l.ch == '"':
			l.readChar() // consume closing quote
			if err := l.requireBreakAfterString(); err != nil {
				return token.Token{}, err
			}
			return token.Token{Type: token.Literal, Value: string(out), Pos: startPos}, nil
		case l.ch == '$':
			b, err := l.readEscape()
			if err != nil {
				return token.Token{}, err
			}
			out = append(out, b...)
		default:
			out = append(out, l.ch)
			l.readChar()
		}
	}
}

// requireBreakAfterString enforces that a string's closing quote is
// immediately followed by a separator, whitespace, comment, or EOF.
func (l *Lexer) requireBreakAfterString() *diag.Error {
	if isBreak(l.ch) {
		return nil
	}
	return diag.New(l.curPos(), "expected space after string literal, got %q", string(l.ch))
}

// readEscape consumes a '$'-introduced escape sequence and returns its
// expansion.
func (l *Lexer) readEscape() ([]byte, *diag.Error) {
	escPos := l.curPos()
	l.readChar() // consume '$'

	switch l.ch {
	case '$':
		l.readChar()
		return []byte{'$'}, nil
	case 'n':
		l.readChar()
		return []byte{'\n'}, nil
	case 't':
		l.readChar()
		return []byte{'\t'}, nil
	case 'q':
		l.readChar()
		return []byte{'"'}, nil
	case 0, '\n':
		return nil, diag.New(escPos, "invalid escape: unterminated '$' at end of string")
	default:
		if isHexDigit(l.ch) && isHexDigit(l.peekChar()) {
			hi := hexValue(l.ch)
			l.readChar()
			lo := hexValue(l.ch)
			l.readChar()
			return []byte{byte(hi<<4 | lo)}, nil
		}
		return nil, diag.New(escPos, "invalid escape character %q", string(l.ch))
	}
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case ch >= '0' && ch <= '9':
		return int(ch - '0')
	case ch >= 'a' && ch <= 'f':
		return int(ch-'a') + 10
	default:
		return int(ch-'A') + 10
	}
}

func (l *Lexer) readRetrieval() (token.Token, *diag.Error) {
	startPos := l.curPos()
	depth := 0
	for l.ch == '@' {
		depth++
		l.readChar()
	}

	if isBreak(l.ch) {
		return token.Token{}, diag.New(l.curPos(), "empty retrieval: '@' must be followed by a name or literal")
	}

	inner, err := l.nextToken()
	if err != nil {
		return token.Token{}, err
	}
	if inner.Type == token.BackRetrieval {
		return token.Token{}, diag.New(inner.Pos, "back retrieval inside a retrieval")
	}

	innerCopy := inner
	return token.Token{Type: token.Retrieval, Inner: &innerCopy, Depth: depth, Pos: startPos}, nil
}

func (l *Lexer) readBackRetrieval() (token.Token, *diag.Error) {
	pos := l.curPos()
	l.readChar() // consume '<'

	if !isBreak(l.ch) {
		return token.Token{}, diag.New(l.curPos(), "malformed back retrieval: '<' must stand alone")
	}
	return token.Token{Type: token.BackRetrieval, Pos: pos}, nil
}

// readWord reads a maximal run of non-breaking characters and classifies
// it as a Number literal or a Name.
func (l *Lexer) readWord() (token.Token, *diag.Error) {
	startPos := l.curPos()
	start := l.pos - 1

	for !isBreak(l.ch) {
		l.readChar()
	}
	word := l.input[start : l.pos-1]

	if looksLikeNumberStart(word) {
		if !isWellFormedNumber(word) {
			return token.Token{}, diag.New(startPos, "malformed number %q", word)
		}
		return token.Token{Type: token.Literal, Value: word, Pos: startPos}, nil
	}

	for i := 0; i < len(word); i++ {
		if !isNameChar(word[i]) {
			return token.Token{}, diag.New(startPos, "illegal character %q in name %q", string(word[i]), word)
		}
	}
	return token.Token{Type: token.Name, Value: word, Pos: startPos}, nil
}

func looksLikeNumberStart(word string) bool {
	i := 0
	if i < len(word) && (word[i] == '+' || word[i] == '-') {
		i++
	}
	return i < len(word) && isDigit(word[i])
}

// isWellFormedNumber validates the full grammar: optional sign, at least
// one digit, optional '.'+digits, optional e/E + optional sign + digits.
func isWellFormedNumber(word string) bool {
	i := 0
	n := len(word)

	if i < n && (word[i] == '+' || word[i] == '-') {
		i++
	}

	digitsStart := i
	for i < n && isDigit(word[i]) {
		i++
	}
	if i == digitsStart {
		return false
	}

	if i < n && word[i] == '.' {
		i++
		fracStart := i
		for i < n && isDigit(word[i]) {
			i++
		}
		if i == fracStart {
			return false
		}
	}

	if i < n && (word[i] == 'e' || word[i] == 'E') {
		i++
		if i < n && (word[i] == '+' || word[i] == '-') {
			i++
		}
		expStart := i
		for i < n && isDigit(word[i]) {
			i++
		}
		if i == expStart {
			return false
		}
	}

	return i == n
}
