package extraction

// Match applies the ordered pattern list for field against text and
// returns the first non-empty match. It is a pure function over the
// text and the pattern list; no scoring happens across patterns.
func (ps PatternSet) Match(text string, field Field) (string, bool) {
	value, _, ok := ps.match(text, field)
	return value, ok
}

// match additionally reports the 1-based rank of the winning pattern.
func (ps PatternSet) match(text string, field Field) (string, int, bool) {
	for i, p := range ps[field] {
		if value, ok := p.find(text); ok {
			return value, i + 1, true
		}
	}
	return "", 0, false
}
