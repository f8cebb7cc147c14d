package dataprocessing

import (
	"fmt"
	"strconv"
	"strings"
)

// HeaderPromoterConfig holds the string-ratio thresholds of the header
// detection heuristic. The defaults reproduce the observed behaviour on the
// project's source workbooks; they are configuration, not truths, so tune
// them against real files rather than trusting them.
type HeaderPromoterConfig struct {
	StringRatio      float64 // promote when this fraction of non-null cells is non-numeric text
	PlaceholderRatio float64 // lower bar applied when most labels are still placeholders
}

// DefaultHeaderPromoterConfig returns the standard thresholds.
func DefaultHeaderPromoterConfig() HeaderPromoterConfig {
	return HeaderPromoterConfig{
		StringRatio:      0.5,
		PlaceholderRatio: 0.3,
	}
}

// HeaderPromoter recovers tables whose true header row was consumed as data,
// which happens when a sheet carries a title or legend row above the real
// header.
type HeaderPromoter struct {
	cfg HeaderPromoterConfig
}

// NewHeaderPromoter creates a promoter with the given thresholds. Zero
// thresholds fall back to the defaults.
func NewHeaderPromoter(cfg HeaderPromoterConfig) *HeaderPromoter {
	def := DefaultHeaderPromoterConfig()
	if cfg.StringRatio <= 0 {
		cfg.StringRatio = def.StringRatio
	}
	if cfg.PlaceholderRatio <= 0 {
		cfg.PlaceholderRatio = def.PlaceholderRatio
	}
	return &HeaderPromoter{cfg: cfg}
}

// Promote inspects the table's first data row and, if it looks like a header,
// promotes it to the column labels (re-cleaning and re-deduplicating them)
// and drops it from the data. The table is modified in place.
func (p *HeaderPromoter) Promote(t *Table) bool {
	if t == nil || len(t.Rows) == 0 {
		return false
	}
	first := t.Rows[0]
	if !p.looksLikeHeader(t.Columns, first) {
		return false
	}

	labels := make([]string, len(t.Columns))
	for i := range t.Columns {
		var cell Value
		if i < len(first) {
			cell = first[i]
		}
		if s, ok := cell.AsText(); ok && strings.TrimSpace(s) != "" {
			labels[i] = strings.TrimSpace(s)
		} else {
			labels[i] = fmt.Sprintf("col_%d", i)
		}
	}
	t.Columns = DedupeColumns(CleanColumnNames(labels))
	t.Rows = t.Rows[1:]
	return true
}

// looksLikeHeader applies the string-ratio heuristic: a header row has mostly
// textual, non-numeric cells. When the current labels are still mostly
// placeholders the bar is lowered, since a sheet without usable labels is the
// typical victim of a swallowed header.
func (p *HeaderPromoter) looksLikeHeader(columns []string, row []Value) bool {
	nonNull := 0
	stringLike := 0
	for _, cell := range row {
		if cell.IsNull() {
			continue
		}
		nonNull++
		if s, ok := cell.AsText(); ok && !isBareNumber(s) {
			stringLike++
		}
	}
	if nonNull == 0 {
		return false
	}
	ratio := float64(stringLike) / float64(nonNull)
	if ratio > p.cfg.StringRatio {
		return true
	}
	if mostlyPlaceholders(columns) && float64(stringLike) > float64(len(row))*p.cfg.PlaceholderRatio {
		return true
	}
	return false
}

// mostlyPlaceholders reports whether any column label is still a generated
// placeholder, indicating the original header cells were blank.
func mostlyPlaceholders(columns []string) bool {
	for _, c := range columns {
		if strings.HasPrefix(c, "col_") {
			return true
		}
	}
	return false
}

// isBareNumber reports whether a string parses as a plain number.
func isBareNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
