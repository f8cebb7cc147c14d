package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"salama/pkg/contracts/domain"
)

func TestStatusCanonicalizerApply(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bilingual open", in: "مفتوح - Open", want: domain.StatusOpen},
		{name: "bilingual closed", in: "مغلق - Closed", want: domain.StatusClosed},
		{name: "english open", in: "Open", want: domain.StatusOpen},
		{name: "english closed", in: "Closed", want: domain.StatusClosed},
		{name: "completed counts as closed", in: "مكتمل", want: domain.StatusClosed},
		{name: "in review counts as open", in: "قيد المراجعة", want: domain.StatusOpen},
		{name: "pending counts as open", in: "pending", want: domain.StatusOpen},
		{name: "unknown passes through", in: "معلق مؤقتا", want: "معلق مؤقتا"},
		{name: "already canonical untouched", in: domain.StatusOpen, want: domain.StatusOpen},
	}

	canonicalizer := NewStatusCanonicalizer(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable([]string{"الحالة"})
			table.Rows = [][]Value{{Text(tt.in)}}

			canonicalizer.Apply(table)

			assert.Equal(t, tt.want, table.Rows[0][0].String())
		})
	}
}

func TestStatusCanonicalizerOnlyTouchesStatusColumns(t *testing.T) {
	table := NewTable([]string{"الوصف", "الحالة"})
	table.Rows = [][]Value{{Text("Open"), Text("Open")}}

	NewStatusCanonicalizer(nil).Apply(table)

	assert.Equal(t, "Open", table.Rows[0][0].String(), "non-status column untouched")
	assert.Equal(t, domain.StatusOpen, table.Rows[0][1].String())
}

func TestDefaultStatusSynonymsClosure(t *testing.T) {
	// Every synonym must land on one of the two canonical values; a third
	// value would silently leak into every consumer.
	for raw, canonical := range DefaultStatusSynonyms() {
		assert.Contains(t, []string{domain.StatusOpen, domain.StatusClosed}, canonical,
			"synonym %q maps outside the canonical set", raw)
	}
}

func TestIsStatusColumn(t *testing.T) {
	assert.True(t, isStatusColumn("الحالة"))
	assert.True(t, isStatusColumn("حالة_البلاغ"))
	assert.True(t, isStatusColumn("Status"))
	assert.True(t, isStatusColumn("record_state"))
	assert.False(t, isStatusColumn("الوصف"))
}
