package phptok

import "bytes"

// Tokenize scans PHP source into a Stream. The scan is a single left-to-right
// pass; comments, heredocs, variables and backtick strings are emitted as
// opaque KindOther tokens so that parentheses and commas inside them never
// reach the rewriter's depth tracking. Whitespace produces no tokens.
//
// String literals keep their raw text including the surrounding quotes.
// A backslash escapes the following byte inside any quoted form, so a literal
// like 'a(b' or 'it\'s' is always a single token.
func Tokenize(data []byte) *Stream {
	s := &Stream{lineOffsets: computeLineOffsets(data)}
	i := 0
	for i < len(data) {
		b := data[i]
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			i++
		case b == '\'' || b == '"':
			end := scanQuoted(data, i, b)
			s.push(KindString, data, i, end)
			i = end
		case b == '(':
			s.push(KindOpenParen, data, i, i+1)
			i++
		case b == ')':
			s.push(KindCloseParen, data, i, i+1)
			i++
		case b == ',':
			s.push(KindComma, data, i, i+1)
			i++
		case isIdentStart(b):
			end := scanIdent(data, i)
			s.push(KindIdent, data, i, end)
			i = end
		case b == '$':
			// PHP variable: $__ must not look like the __ call site.
			end := i + 1
			if end < len(data) && isIdentStart(data[end]) {
				end = scanIdent(data, end)
			}
			s.push(KindOther, data, i, end)
			i = end
		case b == '/' && i+1 < len(data) && data[i+1] == '/':
			end := scanLineEnd(data, i)
			s.push(KindOther, data, i, end)
			i = end
		case b == '/' && i+1 < len(data) && data[i+1] == '*':
			end := scanBlockComment(data, i)
			s.push(KindOther, data, i, end)
			i = end
		case b == '#':
			if i+1 < len(data) && data[i+1] == '[' {
				// PHP 8 attribute opener, not a comment
				s.push(KindOther, data, i, i+2)
				i += 2
				break
			}
			end := scanLineEnd(data, i)
			s.push(KindOther, data, i, end)
			i = end
		case b == '<' && i+2 < len(data) && data[i+1] == '<' && data[i+2] == '<':
			end := scanHeredoc(data, i)
			s.push(KindOther, data, i, end)
			i = end
		case b == '`':
			end := scanQuoted(data, i, '`')
			s.push(KindOther, data, i, end)
			i = end
		default:
			s.push(KindOther, data, i, i+1)
			i++
		}
	}
	return s
}

func (s *Stream) push(kind Kind, data []byte, start, end int) {
	s.tokens = append(s.tokens, Token{
		Kind:      kind,
		Text:      string(data[start:end]),
		ByteStart: start,
		ByteEnd:   end,
	})
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func scanIdent(data []byte, start int) int {
	i := start + 1
	for i < len(data) && isIdentByte(data[i]) {
		i++
	}
	return i
}

// scanQuoted consumes a quoted region starting at the opening delimiter and
// returns the offset just past the closing one. An unterminated literal runs
// to the end of input.
func scanQuoted(data []byte, start int, delim byte) int {
	i := start + 1
	for i < len(data) {
		switch data[i] {
		case '\\':
			i += 2
		case delim:
			return i + 1
		default:
			i++
		}
	}
	return len(data)
}

func scanLineEnd(data []byte, start int) int {
	if idx := bytes.IndexByte(data[start:], '\n'); idx >= 0 {
		return start + idx
	}
	return len(data)
}

func scanBlockComment(data []byte, start int) int {
	if idx := bytes.Index(data[start+2:], []byte("*/")); idx >= 0 {
		return start + 2 + idx + 2
	}
	return len(data)
}

// scanHeredoc consumes a heredoc or nowdoc body, from "<<<" through the end
// of the terminating label. PHP 7.3 flexible syntax is honored: the closing
// label may be indented and need not sit on a line of its own.
func scanHeredoc(data []byte, start int) int {
	i := start + 3
	for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
		i++
	}
	var quote byte
	if i < len(data) && (data[i] == '\'' || data[i] == '"') {
		quote = data[i]
		i++
	}
	labelStart := i
	for i < len(data) && isIdentByte(data[i]) {
		i++
	}
	label := data[labelStart:i]
	if len(label) == 0 {
		return scanLineEnd(data, start)
	}
	if quote != 0 && i < len(data) && data[i] == quote {
		i++
	}
	// body starts on the next line
	i = scanLineEnd(data, i)
	for i < len(data) {
		if data[i] == '\n' {
			i++
		}
		lineStart := i
		for i < len(data) && (data[i] == ' ' || data[i] == '\t') {
			i++
		}
		if bytes.HasPrefix(data[i:], label) {
			end := i + len(label)
			if end >= len(data) || !isIdentByte(data[end]) {
				return end
			}
		}
		i = scanLineEnd(data, lineStart)
		if i >= len(data) {
			break
		}
	}
	return len(data)
}

func computeLineOffsets(data []byte) []int {
	offsets := make([]int, 0, bytes.Count(data, []byte{'\n'})+1)
	offsets = append(offsets, 0)
	for i, b := range data {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}
