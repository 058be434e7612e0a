package querybuilder

import "strings"

// declareFunc registers a resolved marker and returns the parameter ID its
// token should carry.
type declareFunc func(Marker) (string, error)

// Scanner splits a query fragment into text and parameter tokens.
//
// Markers open and close with the same sigil. A marker that is still open at
// a token boundary was not a marker after all and is written back as text.
type Scanner struct {
	input string
	line  int // current line number (1-based)

	tokens []Token
	text   strings.Builder

	sigil      byte // zero when no marker is open
	name       strings.Builder
	hint       strings.Builder
	inBracket  bool
	hadBracket bool
}

// NewScanner creates a scanner for the given fragment.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input, line: 1}
}

// Scan tokenizes the fragment. Each complete marker is passed to declare,
// whose result becomes the value of the parameter token.
//
// All syntax characters are ASCII, so the input is scanned byte by byte and
// text bytes are copied through untouched, valid UTF-8 or not.
func (s *Scanner) Scan(declare declareFunc) ([]Token, error) {
	for i := 0; i < len(s.input); i++ {
		r := s.input[i]
		switch {
		case isBoundary(r):
			if r == '\n' {
				s.line++
			}
			if s.sigil != 0 {
				s.text.WriteString(s.pendingMarker())
				s.resetMarker()
			}
			s.text.WriteByte(r)

		case isSigil(r):
			if s.sigil == 0 {
				s.flushText()
				s.sigil = r
				continue
			}
			if r != s.sigil {
				return nil, newSyntaxError(s.line, "marker mismatch: expected '%c', found '%c'", s.sigil, r)
			}
			if err := s.closeMarker(declare); err != nil {
				return nil, err
			}

		case r == '[' && s.sigil != 0:
			if s.sigil == '#' {
				return nil, newSyntaxError(s.line, "marker '#' does not support type-hints")
			}
			if s.inBracket || s.hadBracket {
				return nil, newSyntaxError(s.line, "unexpected type-hint")
			}
			s.inBracket = true
			s.hadBracket = true

		case r == ']' && s.sigil != 0:
			if !s.inBracket {
				return nil, newSyntaxError(s.line, "unexpected ']'")
			}
			s.inBracket = false

		case s.sigil != 0:
			if s.inBracket {
				s.hint.WriteByte(r)
			} else {
				s.name.WriteByte(r)
			}

		default:
			s.text.WriteByte(r)
		}
	}

	if s.sigil != 0 {
		s.text.WriteString(s.pendingMarker())
		s.resetMarker()
	}
	if strings.TrimSpace(s.text.String()) != "" {
		s.flushText()
	}

	return s.tokens, nil
}

func (s *Scanner) closeMarker(declare declareFunc) error {
	if s.inBracket {
		return newSyntaxError(s.line, "unterminated type-hint")
	}
	m, err := resolveMarker(rune(s.sigil), s.hint.String(), s.name.String(), s.line)
	if err != nil {
		return err
	}
	id, err := declare(m)
	if err != nil {
		return err
	}
	s.tokens = append(s.tokens, Token{Type: TokenParam, Value: id})
	s.resetMarker()
	return nil
}

// pendingMarker rebuilds the raw text of an unfinished marker.
func (s *Scanner) pendingMarker() string {
	var b strings.Builder
	b.WriteByte(s.sigil)
	if s.hadBracket {
		b.WriteByte('[')
		b.WriteString(s.hint.String())
		if !s.inBracket {
			b.WriteByte(']')
		}
	}
	b.WriteString(s.name.String())
	return b.String()
}

func (s *Scanner) resetMarker() {
	s.sigil = 0
	s.name.Reset()
	s.hint.Reset()
	s.inBracket = false
	s.hadBracket = false
}

func (s *Scanner) flushText() {
	if s.text.Len() == 0 {
		return
	}
	s.tokens = append(s.tokens, Token{Type: TokenText, Value: s.text.String()})
	s.text.Reset()
}

func isBoundary(r byte) bool {
	switch r {
	case ' ', '\t', '\r', '\n', '(', ')', ',':
		return true
	}
	return false
}

func isSigil(r byte) bool {
	return r == '@' || r == '#' || r == '$'
}
