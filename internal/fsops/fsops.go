// Package fsops provides the plain file operations surrounding the
// patch engine: stat, classification, copy/move/delete, directory
// listing, and tree search. All paths are expected to have passed the
// path guard already.
package fsops

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// sniffLen bounds how many bytes are inspected for text/binary
// classification.
const sniffLen = 8192

// FileType classifies a path for clients that must not patch binaries.
type FileType string

const (
	TypeText      FileType = "text"
	TypeBinary    FileType = "binary"
	TypeDirectory FileType = "directory"
	TypeMissing   FileType = "missing"
)

// Classify returns the FileType of path.
func Classify(path string) FileType {
	info, err := os.Stat(path)
	if err != nil {
		return TypeMissing
	}
	if info.IsDir() {
		return TypeDirectory
	}
	f, err := os.Open(path)
	if err != nil {
		return TypeBinary
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, _ := io.ReadFull(f, buf)
	sample := buf[:n]
	if bytes.IndexByte(sample, 0) >= 0 {
		return TypeBinary
	}
	// Ignore a rune split at the sample boundary.
	for len(sample) > 0 && !utf8.Valid(sample) {
		if r, _ := utf8.DecodeLastRune(sample); r != utf8.RuneError {
			break
		}
		sample = sample[:len(sample)-1]
	}
	if !utf8.Valid(sample) {
		return TypeBinary
	}
	return TypeText
}

// Info describes one file or directory.
type Info struct {
	Path     string    `json:"path"`
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	IsDir    bool      `json:"is_dir"`
	Modified time.Time `json:"modified"`
	Mode     string    `json:"mode"`
	Type     FileType  `json:"type"`
	Lines    int       `json:"lines,omitempty"`
}

// Stat gathers Info for path; rel is the client-facing path reported
// back (typically relative to the guard root).
func Stat(path, rel string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}
	info := Info{
		Path:     rel,
		Name:     fi.Name(),
		Size:     fi.Size(),
		IsDir:    fi.IsDir(),
		Modified: fi.ModTime(),
		Mode:     fi.Mode().String(),
		Type:     Classify(path),
	}
	if info.Type == TypeText {
		if data, err := os.ReadFile(path); err == nil {
			info.Lines = countLines(data)
		}
	}
	return info, nil
}

func countLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}
	n := bytes.Count(data, []byte{'\n'})
	if data[len(data)-1] != '\n' {
		n++
	}
	return n
}

// Copy duplicates src to dst, creating parent directories and
// preserving the permission bits.
func Copy(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}

// Move renames src to dst, falling back to copy+delete across devices.
func Move(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	if err := Copy(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

// Delete removes path. Directories require recursive to be set.
func Delete(path string, recursive bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		if !recursive {
			return fmt.Errorf("%s is a directory; recursive delete not requested", path)
		}
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// List returns the entries under dir matching pattern (a glob against
// the base name; "*" lists everything). Hidden entries are skipped
// unless includeHidden is set. rel values are reported relative to root.
func List(root, dir, pattern string, recursive, includeHidden bool) ([]Info, error) {
	if pattern == "" {
		pattern = "*"
	}
	var out []Info
	walk := func(path string, d os.DirEntry) error {
		name := d.Name()
		if !includeHidden && strings.HasPrefix(name, ".") {
			return nil
		}
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		info, err := Stat(path, rel)
		if err != nil {
			return nil // raced with deletion
		}
		out = append(out, info)
		return nil
	}

	if recursive {
		err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if path == dir {
				return nil
			}
			if d.IsDir() && !includeHidden && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return walk(path, d)
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if err := walk(filepath.Join(dir, entry.Name()), entry); err != nil {
				return nil, err
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// SearchMatch is one content hit inside a file.
type SearchMatch struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// Search walks dir for files whose name matches pattern and, when
// contentRe is non-nil, returns the lines matching it. With a nil
// contentRe every matching file is reported once with Line 0.
func Search(root, dir, pattern string, contentRe *regexp.Regexp, maxDepth int) ([]SearchMatch, error) {
	var out []SearchMatch
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if maxDepth > 0 && d.IsDir() {
			rel, rerr := filepath.Rel(dir, path)
			if rerr == nil && rel != "." && strings.Count(rel, string(filepath.Separator))+1 > maxDepth {
				return filepath.SkipDir
			}
		}
		if d.IsDir() {
			return nil
		}
		ok, merr := filepath.Match(pattern, d.Name())
		if merr != nil {
			return merr
		}
		if !ok {
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil {
			rel = path
		}
		if contentRe == nil {
			out = append(out, SearchMatch{File: rel})
			return nil
		}
		if Classify(path) != TypeText {
			return nil
		}
		data, rerr2 := os.ReadFile(path)
		if rerr2 != nil {
			return nil
		}
		for i, line := range strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n") {
			if contentRe.MatchString(line) {
				out = append(out, SearchMatch{File: rel, Line: i + 1, Text: line})
			}
		}
		return nil
	})
	return out, err
}

// ReplaceResult summarizes the edits Replace made to one file.
type ReplaceResult struct {
	File         string `json:"file"`
	Replacements int    `json:"replacements"`
}

// Replace performs a regex replace-all across every text file under
// dir whose name matches pattern. With dryRun set, files are left
// untouched and only the would-be counts are reported.
func Replace(root, dir, pattern string, re *regexp.Regexp, replacement string, dryRun bool) ([]ReplaceResult, error) {
	var out []ReplaceResult
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ok, merr := filepath.Match(pattern, d.Name())
		if merr != nil {
			return merr
		}
		if !ok || Classify(path) != TypeText {
			return nil
		}
		data, rerr := os.ReadFile(path)
		if rerr != nil {
			return rerr
		}
		count := len(re.FindAllIndex(data, -1))
		if count == 0 {
			return nil
		}
		rel, rerr2 := filepath.Rel(root, path)
		if rerr2 != nil {
			rel = path
		}
		out = append(out, ReplaceResult{File: rel, Replacements: count})
		if dryRun {
			return nil
		}
		updated := re.ReplaceAll(data, []byte(replacement))
		info, rerr3 := os.Stat(path)
		if rerr3 != nil {
			return rerr3
		}
		return os.WriteFile(path, updated, info.Mode().Perm())
	})
	return out, err
}
