package metaparse

import (
	"strings"

	"github.com/dekarrin/ll1gen/internal/generr"
	"github.com/dekarrin/ll1gen/internal/setutil"
)

// scanner walks the grammar-description text left to right. The whole
// grammar description is read into memory up front by the caller, so the
// scanner only needs to track a byte offset into that string plus a small
// stack of save points for the handful of places the meta-language grammar
// requires a bounded lookahead (skipping whitespace before peeking at the
// next keyword).
type scanner struct {
	src  string
	pos  int
	save setutil.Stack[int]
}

func newScanner(src string) *scanner {
	return &scanner{src: src}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) mark() {
	s.save.Push(s.pos)
}

func (s *scanner) restore() {
	s.pos = s.save.Pop()
}

func (s *scanner) commit() {
	s.save.Pop()
}

// errorf builds a MetaParseError anchored at the scanner's current
// position.
func (s *scanner) errorf(message string) error {
	return generr.NewMetaParseError(s.pos, message)
}

// skipSpace advances past spaces, tabs, newlines, and carriage returns.
func (s *scanner) skipSpace() {
	for !s.eof() {
		switch s.src[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

// expectLiteral skips whitespace, then requires the exact literal text to
// appear next, consuming it. Used for fixed keywords and punctuation
// ("Prelude", "{", "->", ";", ...).
func (s *scanner) expectLiteral(lit string) error {
	s.skipSpace()
	if !strings.HasPrefix(s.src[s.pos:], lit) {
		return s.errorf("expected " + quote(lit))
	}
	s.pos += len(lit)
	return nil
}

// tryLiteral skips whitespace and consumes lit if present, reporting
// whether it matched. It never errors.
func (s *scanner) tryLiteral(lit string) bool {
	s.skipSpace()
	if strings.HasPrefix(s.src[s.pos:], lit) {
		s.pos += len(lit)
		return true
	}
	return false
}

// peekLiteral skips whitespace and reports whether lit appears next,
// without consuming anything.
func (s *scanner) peekLiteral(lit string) bool {
	s.skipSpace()
	return strings.HasPrefix(s.src[s.pos:], lit)
}

// ident consumes a maximal run of ASCII letters after skipping leading
// whitespace. Fails if there isn't at least one.
func (s *scanner) ident() (string, error) {
	s.skipSpace()
	start := s.pos
	for !s.eof() && isAlpha(s.src[s.pos]) {
		s.pos++
	}
	if s.pos == start {
		return "", s.errorf("expected an alphabetic identifier")
	}
	return s.src[start:s.pos], nil
}

// regexLiteral consumes a double-quoted regex literal. The returned text
// includes the surrounding quotes, so it can be spliced directly into
// generated source as a Go string literal without re-quoting.
func (s *scanner) regexLiteral() (string, error) {
	s.skipSpace()
	if s.eof() || s.src[s.pos] != '"' {
		return "", s.errorf("expected a quoted regular expression")
	}
	start := s.pos
	s.pos++
	for !s.eof() && s.src[s.pos] != '"' {
		s.pos++
	}
	if s.eof() {
		return "", s.errorf("unterminated regular expression literal")
	}
	s.pos++ // closing quote
	return s.src[start:s.pos], nil
}

// balanced scans a balanced run of (left, right) delimiters. The opening
// delimiter must be the current character; the returned text is everything
// between (and not including) the outermost pair, with nested pairs
// included verbatim. A small stack
// tracks nesting depth so arbitrarily deep nested pairs are handled without
// recursion blowing the call stack on pathological input.
func (s *scanner) balanced(left, right byte) (string, error) {
	if s.eof() || s.src[s.pos] != left {
		return "", s.errorf("expected " + string(left))
	}
	start := s.pos
	var depth setutil.Stack[byte]
	depth.Push(left)
	s.pos++
	for !depth.Empty() {
		if s.eof() {
			return "", s.errorf("unterminated " + string(left) + string(right) + " block")
		}
		switch s.src[s.pos] {
		case left:
			depth.Push(left)
		case right:
			depth.Pop()
		}
		s.pos++
	}
	// start+1 .. pos-1 is the inner text, excluding the outer pair.
	return s.src[start+1 : s.pos-1], nil
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func quote(s string) string {
	return "\"" + s + "\""
}
