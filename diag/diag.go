// Package diag implements Bliks' error reporter: every error produced by
// the parser, resolver, or machine carries a message and a byte position
// into the source; Format renders that pair as a human-readable,
// caret-annotated diagnostic, the way parser.Error renders a Position in
// the teacher repo this module is grounded on.
package diag

import (
	"fmt"
	"strings"

	"github.com/RiskoZoSlovenska/bliks-lang/token"
)

// maxContextWidth bounds how much of an overlong source line is shown
// around the caret.
const maxContextWidth = 60

// Error is the single error type produced anywhere in the Bliks pipeline:
// a message paired with the byte offset that caused it.
type Error struct {
	Msg string
	Pos token.Pos
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (at byte %d)", e.Msg, int(e.Pos))
}

// New constructs a positioned error.
func New(pos token.Pos, format string, args ...any) *Error {
	return &Error{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// Format converts an error produced by Bliks (message, byte-position) into
// a human-readable diagnostic: the message, followed by a two-line quote
// of the offending source line with a caret under the offending column.
func Format(err error, source, sourceName string) string {
	bErr, ok := err.(*Error)
	if !ok {
		return fmt.Sprintf("%s: %s", sourceName, err.Error())
	}

	line, col, lineNum := locate(source, int(bErr.Pos))
	trimmed, caretCol := trimLeadingWhitespace(line, col)
	display, displayCaretCol := truncate(trimmed, caretCol)

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%d:%d: %s\n", sourceName, lineNum, col+1, bErr.Msg)
	sb.WriteString(display)
	sb.WriteByte('\n')
	sb.WriteString(caretLine(display, displayCaretCol))
	return sb.String()
}

// locate finds the line containing byte offset pos (1-based), returning
// the raw line text, the 0-based column of pos within that line, and the
// 1-based line number.
func locate(source string, pos int) (line string, col int, lineNum int) {
	if pos < 1 {
		pos = 1
	}
	byteIdx := pos - 1
	if byteIdx > len(source) {
		byteIdx = len(source)
	}

	lineNum = 1
	lineStart := 0
	for i := 0; i < byteIdx && i < len(source); i++ {
		if source[i] == '\n' {
			lineNum++
			lineStart = i + 1
		}
	}

	lineEnd := len(source)
	if idx := strings.IndexByte(source[lineStart:], '\n'); idx >= 0 {
		lineEnd = lineStart + idx
	}

	line = source[lineStart:lineEnd]
	col = byteIdx - lineStart
	if col > len(line) {
		col = len(line)
	}
	return line, col, lineNum
}

// trimLeadingWhitespace strips leading spaces/tabs from line, adjusting
// col to still point at the same character. Tabs are preserved verbatim so
// the caret can be rendered with matching indentation.
func trimLeadingWhitespace(line string, col int) (string, int) {
	i := 0
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	if i > col {
		i = col
	}
	return line[i:], col - i
}

// truncate shortens an overlong line to a fixed-width window centered on
// the caret, adding ellipses where content was dropped.
func truncate(line string, col int) (string, int) {
	if len(line) <= maxContextWidth {
		return line, col
	}

	half := maxContextWidth / 2
	start := col - half
	if start < 0 {
		start = 0
	}
	end := start + maxContextWidth
	if end > len(line) {
		end = len(line)
		start = end - maxContextWidth
		if start < 0 {
			start = 0
		}
	}

	prefix := ""
	if start > 0 {
		prefix = "..."
		start += 3 // room for the ellipsis without losing width budget
		if start > col {
			start = col
		}
	}
	suffix := ""
	if end < len(line) {
		suffix = "..."
	}

	return prefix + line[start:end] + suffix, col - start + len(prefix)
}

// caretLine renders a line of spaces with a single '^' under caretCol,
// preserving tabs in display so alignment survives tab-width rendering.
func caretLine(display string, caretCol int) string {
	var sb strings.Builder
	for i := 0; i < caretCol && i < len(display); i++ {
		if display[i] == '\t' {
			sb.WriteByte('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	sb.WriteByte('^')
	return sb.String()
}
