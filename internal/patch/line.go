package patch

// lineMatcher resolves a 1-based line number against the current
// buffer and replaces that line's text.
type lineMatcher struct{}

func (lineMatcher) apply(buf *Buffer, p Patch, _ Normalization) (Outcome, error) {
	if p.LineNumber < 1 || p.LineNumber > buf.LineCount() {
		return Outcome{}, newError(CodeLineOutOfRange,
			"line %d is out of range (file has %d lines)", p.LineNumber, buf.LineCount())
	}
	buf.SetLine(p.LineNumber-1, p.Content)
	return Outcome{Status: StatusApplied, LinesChanged: 1}, nil
}
