package dataprocessing

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	newlineRun    = regexp.MustCompile(`\n+`)
	whitespaceRun = regexp.MustCompile(`\s+`)
	nonWordChars  = regexp.MustCompile(`[^\p{L}\p{N}_]`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// placeholderPrefix marks source-generated labels for unnamed columns, the
// way spreadsheet readers emit "Unnamed: 3" for blank header cells.
const placeholderPrefix = "Unnamed"

// IsPlaceholderLabel reports whether a raw label is a source-generated
// placeholder for an unnamed column.
func IsPlaceholderLabel(label string) bool {
	return label == "" || strings.HasPrefix(label, placeholderPrefix) ||
		strings.HasPrefix(label, "col_")
}

// CleanColumnName normalizes a single raw column label: surrounding
// whitespace is stripped, newline and whitespace runs collapse to a single
// underscore, anything that is not a letter, digit or underscore is removed,
// and repeated or trailing underscores collapse. Empty or placeholder labels
// become col_<idx>.
func CleanColumnName(label string, idx int) string {
	if IsPlaceholderLabel(label) {
		return fmt.Sprintf("col_%d", idx)
	}
	clean := strings.TrimSpace(label)
	clean = newlineRun.ReplaceAllString(clean, "_")
	clean = whitespaceRun.ReplaceAllString(clean, "_")
	clean = nonWordChars.ReplaceAllString(clean, "")
	clean = strings.Trim(underscoreRun.ReplaceAllString(clean, "_"), "_")
	if clean == "" {
		return fmt.Sprintf("col_%d", idx)
	}
	return clean
}

// CleanColumnNames normalizes every label in order. The result is not yet
// guaranteed unique; callers follow up with DedupeColumns.
func CleanColumnNames(labels []string) []string {
	out := make([]string, len(labels))
	for i, label := range labels {
		out[i] = CleanColumnName(label, i)
	}
	return out
}

// DedupeColumns makes a label list unique by suffixing the second and later
// occurrences of a label with _1, _2, … The first occurrence keeps its name.
// Every downstream component assumes columns are unique, so this runs after
// each cleaning or promotion step.
func DedupeColumns(labels []string) []string {
	seen := make(map[string]int, len(labels))
	out := make([]string, len(labels))
	for i, label := range labels {
		if n, ok := seen[label]; ok {
			seen[label] = n + 1
			out[i] = fmt.Sprintf("%s_%d", label, n+1)
		} else {
			seen[label] = 0
			out[i] = label
		}
	}
	return out
}

// NormalizeKey reduces a label to its matching form: trimmed, lower-cased,
// newline and whitespace runs collapsed to single underscores. Both mapping
// keys and observed column labels go through this before lookup so that
// incidental spacing or casing differences never cause a missed mapping.
func NormalizeKey(name string) string {
	clean := strings.ToLower(strings.TrimSpace(name))
	clean = newlineRun.ReplaceAllString(clean, "_")
	clean = whitespaceRun.ReplaceAllString(clean, "_")
	clean = strings.Trim(underscoreRun.ReplaceAllString(clean, "_"), "_")
	return clean
}
