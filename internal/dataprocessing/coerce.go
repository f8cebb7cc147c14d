package dataprocessing

import (
	"strconv"
	"strings"
	"time"
)

// Column-name tokens that trigger type coercion. Inference is name-based,
// not content-based: a column is a date column because it is called one.
var (
	dateTokens    = []string{"تاريخ", "date"}
	numericTokens = []string{"عدد", "نسبة", "رقم", "number", "count", "percentage"}
)

// dateLayouts is the ordered list of layouts tried when parsing date cells.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"02-01-2006",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"02-Jan-06",
}

// CoercionRule pairs a column-name predicate with a cell action. Rules are
// evaluated in order and the first match wins, which keeps the heuristic
// testable in isolation from the rest of the pipeline.
type CoercionRule struct {
	Name   string
	Match  func(column string) bool
	Coerce func(v Value) Value
}

// TypeCoercer casts date-like and numeric-like columns based on keyword
// matches against their (already canonical or cleaned) names. Values that
// fail to parse become null; coercion never errors.
type TypeCoercer struct {
	rules []CoercionRule
}

// NewTypeCoercer creates a coercer with the default date and numeric rules.
func NewTypeCoercer() *TypeCoercer {
	return &TypeCoercer{rules: DefaultCoercionRules()}
}

// DefaultCoercionRules returns the standard ordered rule table: date columns
// first, numeric columns second.
func DefaultCoercionRules() []CoercionRule {
	return []CoercionRule{
		{
			Name:   "date",
			Match:  matchesAnyToken(dateTokens),
			Coerce: CoerceTime,
		},
		{
			Name:   "numeric",
			Match:  matchesAnyToken(numericTokens),
			Coerce: CoerceNumber,
		},
	}
}

// Apply coerces every column whose name matches a rule. Other columns are
// untouched.
func (c *TypeCoercer) Apply(t *Table) {
	if t == nil {
		return
	}
	for idx, col := range t.Columns {
		rule := c.ruleFor(col)
		if rule == nil {
			continue
		}
		for r := range t.Rows {
			if idx < len(t.Rows[r]) {
				t.Rows[r][idx] = rule.Coerce(t.Rows[r][idx])
			}
		}
	}
}

// ruleFor returns the first rule matching the column name, or nil.
func (c *TypeCoercer) ruleFor(column string) *CoercionRule {
	for i := range c.rules {
		if c.rules[i].Match(column) {
			return &c.rules[i]
		}
	}
	return nil
}

// matchesAnyToken builds a case-insensitive substring predicate over tokens.
func matchesAnyToken(tokens []string) func(string) bool {
	return func(column string) bool {
		lower := strings.ToLower(column)
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				return true
			}
		}
		return false
	}
}

// CoerceTime parses a cell as a timestamp. Already-typed timestamps pass
// through; unparsable values become null.
func CoerceTime(v Value) Value {
	switch v.Kind() {
	case KindTime:
		return v
	case KindText:
		s := strings.TrimSpace(v.text)
		if s == "" {
			return Null()
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return Timestamp(ts)
			}
		}
		return Null()
	default:
		return Null()
	}
}

// CoerceNumber parses a cell as a float. Thousands separators and a trailing
// percent sign are tolerated; unparsable values become null.
func CoerceNumber(v Value) Value {
	switch v.Kind() {
	case KindNumber:
		return v
	case KindText:
		s := strings.TrimSpace(v.text)
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimSuffix(s, "%")
		s = strings.TrimSpace(s)
		if s == "" {
			return Null()
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
		return Null()
	default:
		return Null()
	}
}
