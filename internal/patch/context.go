package patch

import "strings"

// Normalization controls how buffer lines and context lines are
// canonicalized before block comparison. Context blocks are commonly
// pasted from differently-formatted sources, so by default different
// line-ending styles are equated and trailing whitespace is ignored.
// Leading whitespace is always significant: it carries indentation.
type Normalization struct {
	// EquateLineEndings strips carriage returns before comparing.
	EquateLineEndings bool `json:"equate_line_endings"`
	// TrimTrailingWhitespace ignores trailing spaces and tabs per line.
	TrimTrailingWhitespace bool `json:"trim_trailing_whitespace"`
}

// DefaultNormalization returns the tolerant default.
func DefaultNormalization() Normalization {
	return Normalization{EquateLineEndings: true, TrimTrailingWhitespace: true}
}

func (n Normalization) canon(line string) string {
	if n.EquateLineEndings {
		line = strings.TrimRight(line, "\r")
		line = strings.ReplaceAll(line, "\r", "")
	}
	if n.TrimTrailingWhitespace {
		line = strings.TrimRight(line, " \t")
	}
	return line
}

// contextMatcher resolves a multi-line literal block to a position in
// the buffer and replaces the whole block. Selection policy matches
// patternMatcher, except that zero matches is an error rather than a
// skip: a caller who supplies context expects it to exist.
type contextMatcher struct{}

func (contextMatcher) apply(buf *Buffer, p Patch, norm Normalization) (Outcome, error) {
	starts := findBlocks(buf, p.Context, norm)

	var start int
	switch {
	case p.Occurrence > 0:
		if p.Occurrence > len(starts) {
			return Outcome{}, newError(CodeOccurrenceOutOfRange,
				"context block has %d matches, occurrence %d requested", len(starts), p.Occurrence)
		}
		start = starts[p.Occurrence-1]
	case len(starts) == 0:
		return Outcome{}, newError(CodeNotFound,
			"context block (%d lines, starting %q) not found", len(p.Context), firstLine(p.Context))
	case len(starts) > 1:
		e := newError(CodeAmbiguous,
			"context block matches %d locations; specify an occurrence or extend the context", len(starts))
		e.Count = len(starts)
		for _, s := range starts {
			e.Lines = append(e.Lines, s+1)
		}
		return Outcome{}, e
	default:
		start = starts[0]
	}

	buf.ReplaceRange(start, len(p.Context), append([]string(nil), p.Replacement...))

	changed := len(p.Context)
	if len(p.Replacement) > changed {
		changed = len(p.Replacement)
	}
	return Outcome{Status: StatusApplied, LinesChanged: changed}, nil
}

// findBlocks returns the 0-based start index of every contiguous run
// of buffer lines equal to context under the given normalization.
func findBlocks(buf *Buffer, context []string, norm Normalization) []int {
	if len(context) == 0 || len(context) > buf.LineCount() {
		return nil
	}

	want := make([]string, len(context))
	for i, line := range context {
		want[i] = norm.canon(line)
	}

	var starts []int
	last := buf.LineCount() - len(want)
	for i := 0; i <= last; i++ {
		match := true
		for j, w := range want {
			if norm.canon(buf.Line(i+j)) != w {
				match = false
				break
			}
		}
		if match {
			starts = append(starts, i)
		}
	}
	return starts
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
