// Package phptok turns PHP source into the flat token stream the domain
// rewriter consumes. It is not a PHP parser: only the token kinds the rule
// cares about are distinguished, everything else is KindOther.
package phptok

import "sort"

// Kind classifies a token. Only the kinds the rewriter inspects get their
// own value; comments, operators, whitespace runs, heredocs and the like all
// collapse into KindOther.
type Kind uint8

const (
	KindOther Kind = iota
	KindIdent
	KindOpenParen
	KindCloseParen
	KindComma
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindIdent:
		return "ident"
	case KindOpenParen:
		return "open-paren"
	case KindCloseParen:
		return "close-paren"
	case KindComma:
		return "comma"
	case KindString:
		return "string"
	default:
		return "other"
	}
}

// Token は字句 1 個分です。Text は引用符やエスケープを含む生のソース片を
// そのまま保持します。
type Token struct {
	Kind      Kind
	Text      string
	ByteStart int
	ByteEnd   int
}

// Stream is an indexed, immutable token sequence for one file. Positions are
// plain indices into the sequence; the stream owns the mapping back to
// line/column.
type Stream struct {
	tokens      []Token
	lineOffsets []int
}

// Len returns the number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// At returns the token at index i. i must be in [0, Len()).
func (s *Stream) At(i int) Token { return s.tokens[i] }

// NextOfKind returns the index of the first token of the given kind at or
// after from, or -1 when there is none.
func (s *Stream) NextOfKind(kind Kind, from int) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(s.tokens); i++ {
		if s.tokens[i].Kind == kind {
			return i
		}
	}
	return -1
}

// LineCol maps a byte offset to a 1-based line and column.
func (s *Stream) LineCol(offset int) (line, col int) {
	idx := sort.Search(len(s.lineOffsets), func(i int) bool { return s.lineOffsets[i] > offset })
	if idx == 0 {
		return 1, offset + 1
	}
	return idx, offset - s.lineOffsets[idx-1] + 1
}
