package patch

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

const diffContextLines = 3

type diffLine struct {
	op   byte // ' ', '-', '+'
	text string
}

// UnifiedDiff renders a unified diff of two texts for the dry-run
// preview. The diff is computed line-wise; an empty string means the
// texts are identical.
func UnifiedDiff(name, before, after string) string {
	if before == after {
		return ""
	}

	lines := diffLines(before, after)

	var b strings.Builder
	fmt.Fprintf(&b, "--- a/%s\n+++ b/%s\n", name, name)

	// Line numbers before each flat index, for hunk headers.
	oldAt := make([]int, len(lines)+1)
	newAt := make([]int, len(lines)+1)
	oldAt[0], newAt[0] = 1, 1
	for i, dl := range lines {
		oldAt[i+1], newAt[i+1] = oldAt[i], newAt[i]
		if dl.op != '+' {
			oldAt[i+1]++
		}
		if dl.op != '-' {
			newAt[i+1]++
		}
	}

	i := 0
	for i < len(lines) {
		if lines[i].op == ' ' {
			i++
			continue
		}

		start := i - diffContextLines
		if start < 0 {
			start = 0
		}

		// Extend the hunk across change runs separated by at most
		// 2*context equal lines.
		end := i + 1
		for j := end; j < len(lines); j++ {
			if lines[j].op != ' ' {
				end = j + 1
			} else if j-end >= 2*diffContextLines {
				break
			}
		}
		stop := end + diffContextLines
		if stop > len(lines) {
			stop = len(lines)
		}

		oldCount, newCount := 0, 0
		for _, dl := range lines[start:stop] {
			if dl.op != '+' {
				oldCount++
			}
			if dl.op != '-' {
				newCount++
			}
		}
		oldStart, newStart := oldAt[start], newAt[start]
		if oldCount == 0 {
			oldStart--
		}
		if newCount == 0 {
			newStart--
		}
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", oldStart, oldCount, newStart, newCount)
		for _, dl := range lines[start:stop] {
			b.WriteByte(dl.op)
			b.WriteString(dl.text)
			b.WriteByte('\n')
		}

		i = stop
	}

	return b.String()
}

// diffLines computes a flat, line-granular edit script using go-diff's
// line-mode optimization.
func diffLines(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	beforeChars, afterChars, lineArray := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffMain(beforeChars, afterChars, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	var out []diffLine
	for _, d := range diffs {
		chunk := strings.Split(d.Text, "\n")
		if len(chunk) > 0 && chunk[len(chunk)-1] == "" {
			chunk = chunk[:len(chunk)-1]
		}
		for _, line := range chunk {
			switch d.Type {
			case diffmatchpatch.DiffEqual:
				out = append(out, diffLine{' ', line})
			case diffmatchpatch.DiffDelete:
				out = append(out, diffLine{'-', line})
			case diffmatchpatch.DiffInsert:
				out = append(out, diffLine{'+', line})
			}
		}
	}
	return out
}
