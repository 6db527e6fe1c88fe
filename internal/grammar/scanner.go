package grammar

// Scanner walks an input string, matching one lexeme at a time.
// Spaces and tabs between lexemes are skipped; they are never part of one.
type Scanner struct {
	input string
	pos   int
}

// NewScanner returns a Scanner positioned at the start of input.
func NewScanner(input string) *Scanner {
	return &Scanner{input: input}
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }

// SkipSpace advances past spaces and tabs.
func (s *Scanner) SkipSpace() {
	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
	}
}

// Match tries rules in order at the current position. The first rule that
// matches wins: the scanner advances past its lexeme and the rule and
// lexeme are returned. Later rules are not consulted, even if they would
// match a longer prefix.
func (s *Scanner) Match(rules ...Rule) (Rule, string, bool) {
	s.SkipSpace()
	rest := s.input[s.pos:]
	for _, r := range rules {
		if n := Match(r, rest); n > 0 {
			s.pos += n
			return r, rest[:n], true
		}
	}
	return RuleInvalid, "", false
}

// AtEnd reports whether only spaces and tabs remain.
func (s *Scanner) AtEnd() bool {
	for i := s.pos; i < len(s.input); i++ {
		if !isSpace(s.input[i]) {
			return false
		}
	}
	return true
}

// Rest returns the unconsumed input.
func (s *Scanner) Rest() string { return s.input[s.pos:] }

// Pos returns the byte offset of the next unconsumed character.
func (s *Scanner) Pos() int { return s.pos }
