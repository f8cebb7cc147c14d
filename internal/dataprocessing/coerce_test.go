package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeCoercerApply(t *testing.T) {
	coercer := NewTypeCoercer()

	table := NewTable([]string{"التاريخ", "عدد_الملاحظات", "نسبة_المخاطرة", "الوصف"})
	table.Rows = [][]Value{
		{Text("2024-03-15"), Text("12"), Text("0.85"), Text("تسرب")},
		{Text("not a date"), Text("abc"), Text("75%"), Text("حريق")},
		{Null(), Text("1,250"), Null(), Null()},
	}

	coercer.Apply(table)

	ts, ok := table.Rows[0][0].AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), ts)

	n, ok := table.Rows[0][1].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 12.0, n)

	// Unparsable cells become null, never errors.
	assert.True(t, table.Rows[1][0].IsNull())
	assert.True(t, table.Rows[1][1].IsNull())

	pct, ok := table.Rows[1][2].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 75.0, pct)

	thousands, ok := table.Rows[2][1].AsNumber()
	require.True(t, ok)
	assert.Equal(t, 1250.0, thousands)

	// Non-matching columns stay text.
	desc, ok := table.Rows[0][3].AsText()
	require.True(t, ok)
	assert.Equal(t, "تسرب", desc)
}

func TestCoercionMatchesByName(t *testing.T) {
	coercer := NewTypeCoercer()
	tests := []struct {
		column   string
		wantRule string
	}{
		{column: "التاريخ", wantRule: "date"},
		{column: "تاريخ_الافتتاح", wantRule: "date"},
		{column: "Inspection Date", wantRule: "date"},
		{column: "عدد_العمال", wantRule: "numeric"},
		{column: "نسبة_الإنجاز", wantRule: "numeric"},
		{column: "record_count", wantRule: "numeric"},
		{column: "الوصف", wantRule: ""},
		{column: "الحالة", wantRule: ""},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			rule := coercer.ruleFor(tt.column)
			if tt.wantRule == "" {
				assert.Nil(t, rule)
			} else {
				require.NotNil(t, rule)
				assert.Equal(t, tt.wantRule, rule.Name)
			}
		})
	}
}

func TestCoerceTime(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{name: "iso date", in: Text("2024-01-31"), want: Timestamp(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))},
		{name: "slash date", in: Text("31/01/2024"), want: Timestamp(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC))},
		{name: "already a timestamp", in: Timestamp(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)), want: Timestamp(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))},
		{name: "garbage becomes null", in: Text("غير معروف"), want: Null()},
		{name: "blank becomes null", in: Text("  "), want: Null()},
		{name: "number becomes null", in: Number(42), want: Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(CoerceTime(tt.in)))
		})
	}
}

func TestCoerceNumber(t *testing.T) {
	tests := []struct {
		name string
		in   Value
		want Value
	}{
		{name: "plain integer", in: Text("42"), want: Number(42)},
		{name: "decimal", in: Text("0.7"), want: Number(0.7)},
		{name: "percent suffix stripped", in: Text("85%"), want: Number(85)},
		{name: "thousands separator stripped", in: Text("1,000"), want: Number(1000)},
		{name: "already a number", in: Number(3.5), want: Number(3.5)},
		{name: "text becomes null", in: Text("كثير"), want: Null()},
		{name: "timestamp becomes null", in: Timestamp(time.Now()), want: Null()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(CoerceNumber(tt.in)))
		})
	}
}
