package patch

import (
	"regexp"
	"strings"
)

// patternMatcher resolves a regular expression against the buffer's
// full text and replaces a single selected match.
//
// Selection policy: an explicit occurrence picks the Nth match in
// document order; without one the pattern must match exactly once.
// Zero matches without an occurrence is a no-op (Skipped), because a
// pattern's absence is common and non-fatal. Two or more matches
// without an occurrence is an error: the engine never guesses.
type patternMatcher struct{}

func (patternMatcher) apply(buf *Buffer, p Patch, _ Normalization) (Outcome, error) {
	re, err := regexp.Compile(p.Find)
	if err != nil {
		return Outcome{}, newError(CodeInvalidPatch, "invalid pattern %q: %v", p.Find, err)
	}

	text := buf.Text()
	matches := re.FindAllStringSubmatchIndex(text, -1)

	var match []int
	switch {
	case p.Occurrence > 0:
		if p.Occurrence > len(matches) {
			return Outcome{}, newError(CodeOccurrenceOutOfRange,
				"pattern %q has %d matches, occurrence %d requested", p.Find, len(matches), p.Occurrence)
		}
		match = matches[p.Occurrence-1]
	case len(matches) == 0:
		return Outcome{Status: StatusSkipped, Reason: "pattern not found"}, nil
	case len(matches) > 1:
		e := newError(CodeAmbiguous, "pattern %q matches %d times; specify an occurrence", p.Find, len(matches))
		e.Count = len(matches)
		for _, m := range matches {
			e.Lines = append(e.Lines, lineOfOffset(text, m[0]))
		}
		return Outcome{}, e
	default:
		match = matches[0]
	}

	replacement := re.ExpandString(nil, p.Replace, text, match)
	updated := text[:match[0]] + string(replacement) + text[match[1]:]
	changed := countLinesChanged(text, updated)
	buf.SetText(updated)

	return Outcome{Status: StatusApplied, LinesChanged: changed}, nil
}

// lineOfOffset returns the 1-based line number containing the byte offset.
func lineOfOffset(text string, offset int) int {
	return strings.Count(text[:offset], "\n") + 1
}

// countLinesChanged compares the line ranges touched by an in-place
// text substitution: the longest common prefix and suffix of the two
// line slices bracket the differing region.
func countLinesChanged(before, after string) int {
	oldLines := strings.Split(before, "\n")
	newLines := strings.Split(after, "\n")

	start := 0
	for start < len(oldLines) && start < len(newLines) && oldLines[start] == newLines[start] {
		start++
	}
	endOld, endNew := len(oldLines), len(newLines)
	for endOld > start && endNew > start && oldLines[endOld-1] == newLines[endNew-1] {
		endOld--
		endNew--
	}

	changed := endOld - start
	if endNew-start > changed {
		changed = endNew - start
	}
	if changed == 0 && before != after {
		changed = 1
	}
	return changed
}
