package patch

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

// Buffer is the in-memory, line-oriented representation of one file
// during a request. It remembers whether the file used CRLF endings
// and whether it ended with a newline so that output is written back
// in the same convention. The CRLF flag is set when any CRLF appears,
// so a mixed-ending file re-encodes uniformly as CRLF once an edit is
// persisted; a request that applies nothing never re-encodes at all.
type Buffer struct {
	lines        []string
	crlf         bool
	finalNewline bool
}

// NewBuffer decodes raw file bytes into a Buffer. Bytes that contain
// NUL or are not valid UTF-8 are rejected with an encoding error.
func NewBuffer(data []byte) (*Buffer, error) {
	if bytes.IndexByte(data, 0) >= 0 {
		return nil, newError(CodeEncoding, "file appears to be binary (NUL byte present)")
	}
	if !utf8.Valid(data) {
		return nil, newError(CodeEncoding, "file is not valid UTF-8")
	}

	text := string(data)
	crlf := strings.Contains(text, "\r\n")
	norm := strings.ReplaceAll(text, "\r\n", "\n")

	b := &Buffer{crlf: crlf}
	if norm == "" {
		return b, nil
	}
	b.finalNewline = strings.HasSuffix(norm, "\n")
	if b.finalNewline {
		norm = norm[:len(norm)-1]
	}
	b.lines = strings.Split(norm, "\n")
	return b, nil
}

// LineCount returns the current number of lines.
func (b *Buffer) LineCount() int {
	return len(b.lines)
}

// Line returns the text of the 0-based line index, without terminator.
func (b *Buffer) Line(i int) string {
	return b.lines[i]
}

// Lines returns a copy of the current line slice.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	return out
}

// SetLine replaces the text of the 0-based line index.
func (b *Buffer) SetLine(i int, text string) {
	b.lines[i] = text
}

// ReplaceRange substitutes count lines starting at the 0-based index
// with repl. repl may have a different length than count.
func (b *Buffer) ReplaceRange(start, count int, repl []string) {
	out := make([]string, 0, len(b.lines)-count+len(repl))
	out = append(out, b.lines[:start]...)
	out = append(out, repl...)
	out = append(out, b.lines[start+count:]...)
	b.lines = out
}

// Text returns the buffer content joined with "\n", including the
// final newline when the file had one. Pattern matching runs against
// this normalized form regardless of the on-disk ending style.
func (b *Buffer) Text() string {
	if len(b.lines) == 0 {
		return ""
	}
	text := strings.Join(b.lines, "\n")
	if b.finalNewline {
		text += "\n"
	}
	return text
}

// SetText replaces the whole content from normalized ("\n") text.
// The ending style and trailing-newline convention are re-derived from
// the new text so that insertions and deletions of the final newline
// round-trip correctly.
func (b *Buffer) SetText(text string) {
	if text == "" {
		b.lines = nil
		b.finalNewline = false
		return
	}
	b.finalNewline = strings.HasSuffix(text, "\n")
	if b.finalNewline {
		text = text[:len(text)-1]
	}
	b.lines = strings.Split(text, "\n")
}

// Bytes re-encodes the buffer in the original line-ending convention.
func (b *Buffer) Bytes() []byte {
	text := b.Text()
	if b.crlf {
		text = strings.ReplaceAll(text, "\n", "\r\n")
	}
	return []byte(text)
}

// Clone returns an independent copy of the buffer.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{
		lines:        b.Lines(),
		crlf:         b.crlf,
		finalNewline: b.finalNewline,
	}
}
