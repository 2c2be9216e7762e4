// ABOUTME: Parses raw course-list text into course entries.
// ABOUTME: Handles trimming, delimiter splitting, merging, and deduplication.

package courses

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyInput indicates no usable course entries were found after
// normalization. Callers must supply at least one course.
var ErrEmptyInput = errors.New("no course entries provided")

// Entry is one parsed course line. CourseID is the first delimited token;
// AuxiliaryInfo holds the remaining tokens in order. Only the first auxiliary
// element is currently meaningful (the block location for the problem
// responses report).
type Entry struct {
	CourseID      string
	AuxiliaryInfo []string
}

// Options controls normalization behavior.
type Options struct {
	// Dedupe keeps only the first occurrence of each exact raw line,
	// preserving original order. It compares the full line text, not the
	// parsed course ID, so two lines sharing a course ID but differing in
	// auxiliary info are distinct.
	Dedupe bool
}

// Normalize parses raw multi-line text into ordered entries. Lines are
// trimmed, empty lines dropped, and each remaining line split on commas,
// semicolons, or runs of whitespace. Returns ErrEmptyInput when nothing
// usable remains.
func Normalize(raw string, opts Options) ([]Entry, error) {
	lines := splitLines(raw)
	if opts.Dedupe {
		lines = dedupe(lines)
	}

	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, parseLine(line))
	}

	if len(entries) == 0 {
		return nil, ErrEmptyInput
	}
	return entries, nil
}

// Merge concatenates raw text sources in order before normalization, e.g.
// a textarea plus an uploaded file.
func Merge(sources ...string) string {
	return strings.Join(sources, "\n")
}

func splitLines(raw string) []string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func dedupe(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	var unique []string
	for _, line := range lines {
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		unique = append(unique, line)
	}
	return unique
}

func parseLine(line string) Entry {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || unicode.IsSpace(r)
	})
	if len(tokens) == 0 {
		// A line of nothing but delimiters yields an empty course ID,
		// same as splitting it would.
		return Entry{}
	}
	return Entry{CourseID: tokens[0], AuxiliaryInfo: tokens[1:]}
}
