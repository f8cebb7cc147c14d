package dataprocessing

import (
	"strings"

	"salama/pkg/contracts/domain"
)

// statusTokens mark columns carrying an open/closed state.
var statusTokens = []string{"حالة", "status", "state"}

// StatusCanonicalizer maps the many observed spellings of open/closed states
// to the two canonical values. Treating "in review" and "pending" as open and
// "completed" as closed is a business decision of this dataset, carried here
// as configuration rather than a hard-coded rule.
type StatusCanonicalizer struct {
	synonyms map[string]string
}

// DefaultStatusSynonyms returns the synonym table observed across the source
// registers, bilingual variants included.
func DefaultStatusSynonyms() map[string]string {
	return map[string]string{
		"مفتوح - Open":    domain.StatusOpen,
		"مغلق - Close":    domain.StatusClosed,
		"مغلق - Closed":   domain.StatusClosed,
		"Closed - Close":  domain.StatusClosed,
		"Open":            domain.StatusOpen,
		"Close":           domain.StatusClosed,
		"Closed":          domain.StatusClosed,
		"مكتمل":           domain.StatusClosed,
		"complete":        domain.StatusClosed,
		"completed":       domain.StatusClosed,
		"قيد المراجعة":    domain.StatusOpen,
		"in review":       domain.StatusOpen,
		"pending":         domain.StatusOpen,
	}
}

// NewStatusCanonicalizer creates a canonicalizer with the given synonym
// table. A nil table selects the defaults.
func NewStatusCanonicalizer(synonyms map[string]string) *StatusCanonicalizer {
	if synonyms == nil {
		synonyms = DefaultStatusSynonyms()
	}
	return &StatusCanonicalizer{synonyms: synonyms}
}

// Apply canonicalizes every status-designated column. Values outside the
// synonym table pass through unchanged, so a status column may still carry
// more than the two canonical values; consumers that count closed records
// therefore match by substring, not equality.
func (s *StatusCanonicalizer) Apply(t *Table) {
	if t == nil {
		return
	}
	for idx, col := range t.Columns {
		if !isStatusColumn(col) {
			continue
		}
		for r := range t.Rows {
			if idx >= len(t.Rows[r]) {
				continue
			}
			if text, ok := t.Rows[r][idx].AsText(); ok {
				if canonical, found := s.synonyms[text]; found {
					t.Rows[r][idx] = Text(canonical)
				}
			}
		}
	}
}

// Synonyms exposes the active table, used by tests to verify closure over
// the two canonical values.
func (s *StatusCanonicalizer) Synonyms() map[string]string {
	return s.synonyms
}

func isStatusColumn(name string) bool {
	lower := strings.ToLower(name)
	for _, tok := range statusTokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
