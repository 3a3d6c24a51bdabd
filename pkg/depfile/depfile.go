// Package depfile parses GCC-style dependency files: the .d output of
// `cc -MMD`, as referenced by a blueprint rule's `dependency_file` entry.
package depfile

import (
	"os"
	"strings"
)

// Parse reads a GCC-style dependency file from data and returns its
// listed dependency paths. The first line up to the first `:` names the
// target and is ignored; the remaining whitespace-separated tokens are
// dependency paths. Trailing backslash-newline continuations and
// carriage returns are stripped before splitting.
func Parse(data []byte) []string {
	text := strings.ReplaceAll(string(data), "\r", "")
	text = strings.ReplaceAll(text, "\\\n", " ")

	if idx := strings.IndexByte(text, ':'); idx >= 0 {
		text = text[idx+1:]
	}

	fields := strings.Fields(text)
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		paths = append(paths, f)
	}
	return paths
}

// ParseFile reads path and parses it as a GCC-style dependency file.
func ParseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data), nil
}
