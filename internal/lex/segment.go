package lex

// Segmenter groups a growing token stream into complete top-level forms,
// spec.md 4.2's segment(tokens) -> {segments, remainder, depth}. It is
// stateful across calls so a REPL can feed it one line at a time: Feed
// appends line's tokens to the pending remainder, then peels off as many
// complete segments as the paren depth allows.
type Segmenter struct {
	pending []Token
	depth   int
}

// Feed lexes line and folds its tokens into the segmenter's state,
// returning any newly-completed top-level forms. Remaining incomplete
// tokens stay buffered and are visible via Remainder.
func (s *Segmenter) Feed(line string) ([][]Token, error) {
	toks, err := Lex(line)
	if err != nil {
		return nil, err
	}
	s.pending = append(s.pending, toks...)
	return s.drain(), nil
}

// Remainder returns the trailing incomplete token run buffered so far.
func (s *Segmenter) Remainder() []Token { return s.pending }

// Depth returns the current open-paren nesting depth, used by the REPL to
// indent continuation prompts by depth*2 spaces.
func (s *Segmenter) Depth() int { return s.depth }

// drain peels complete top-level forms off the front of s.pending. A form
// is complete when, starting from depth 0, parens close back to depth 0 (a
// list form), or immediately for an atom/reader-abbreviation token that
// does not open a list of its own (abbreviations are resolved by the
// parser, not here, so a quote token alone does not end a segment -- it is
// folded into whatever form follows it).
func (s *Segmenter) drain() [][]Token {
	var segments [][]Token
	for {
		end, ok := s.completeFormEnd(s.pending)
		if !ok {
			break
		}
		segments = append(segments, s.pending[:end:end])
		s.pending = s.pending[end:]
	}
	return segments
}

// completeFormEnd scans toks from the start for one complete top-level
// form (an atom, or a parenthesized/vector form closing back to depth 0,
// with any run of leading abbreviation markers folded in) and returns the
// index just past it.
func (s *Segmenter) completeFormEnd(toks []Token) (int, bool) {
	i := 0
	n := len(toks)
	// Abbreviation markers (', `, ,, ,@) prefix the form that follows them
	// and do not themselves close anything.
	for i < n {
		switch toks[i].Kind {
		case KindQuote, KindQuasiquote, KindUnquote, KindUnquoteSplicing:
			i++
			continue
		}
		break
	}
	if i >= n {
		s.depth = 0
		return 0, false
	}
	switch toks[i].Kind {
	case KindLParen, KindVectorOpen:
		depth := 1
		j := i + 1
		for j < n && depth > 0 {
			switch toks[j].Kind {
			case KindLParen, KindVectorOpen:
				depth++
			case KindRParen:
				depth--
			}
			j++
		}
		s.depth = depth
		if depth > 0 {
			return 0, false
		}
		return j, true
	case KindRParen:
		// An unmatched close paren at top level; let the parser report it
		// as the unexpected-close-paren error rather than stalling here.
		s.depth = 0
		return i + 1, true
	default:
		s.depth = 0
		return i + 1, true
	}
}
