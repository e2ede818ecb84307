package fs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// IgnoreFileName is read from the top of a directory passed to a batch upload.
const IgnoreFileName = ".secuploadignore"

// defaultIgnorePatterns are always applied on top of configured and file patterns.
var defaultIgnorePatterns = []string{IgnoreFileName}

type ignorePattern struct {
	glob     string
	fullPath bool // match against the relative path instead of the base name
}

// IgnoreMatcher decides which files a batch upload skips.
// Patterns without '/' match the base name at any depth; patterns with '/'
// match the whole path relative to the directory being uploaded.
// A nil *IgnoreMatcher matches nothing.
type IgnoreMatcher struct {
	patterns []ignorePattern
}

// NewIgnoreMatcher builds a matcher from raw lines. Blank lines and '#'
// comments are dropped, as are globs filepath.Match would reject.
func NewIgnoreMatcher(lines []string) *IgnoreMatcher {
	m := &IgnoreMatcher{}
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, err := filepath.Match(line, ""); err != nil {
			continue
		}
		m.patterns = append(m.patterns, ignorePattern{
			glob:     line,
			fullPath: strings.Contains(line, "/"),
		})
	}
	return m
}

// LoadIgnoreMatcher combines the default patterns, extra (usually from
// configuration) and the patterns in dir's ignore file, if it has one.
func LoadIgnoreMatcher(dir string, extra []string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(filepath.Join(dir, IgnoreFileName))
	if err != nil {
		return nil, err
	}

	lines := make([]string, 0, len(defaultIgnorePatterns)+len(extra)+len(fromFile))
	lines = append(lines, defaultIgnorePatterns...)
	lines = append(lines, extra...)
	lines = append(lines, fromFile...)
	return NewIgnoreMatcher(lines), nil
}

// Match reports whether relativePath should be skipped.
func (m *IgnoreMatcher) Match(relativePath string) bool {
	if m == nil {
		return false
	}

	slashed := filepath.ToSlash(relativePath)
	base := filepath.Base(relativePath)
	for _, p := range m.patterns {
		target := base
		if p.fullPath {
			target = slashed
		}
		if ok, _ := filepath.Match(p.glob, target); ok {
			return true
		}
	}
	return false
}

// ParseIgnoreFile returns the lines of the ignore file at path.
// A missing file yields no patterns and no error.
func ParseIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening ignore file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ignore file: %w", err)
	}
	return lines, nil
}
