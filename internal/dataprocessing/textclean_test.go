package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	table := NewTable([]string{"الوصف", "عدد"})
	table.Rows = [][]Value{
		{Text("  تسرب مياه  "), Number(3)},
		{Text("nan"), Number(1)},
		{Text(""), Null()},
		{Text("سليم"), Number(0)},
	}

	CleanText(table)

	assert.Equal(t, "تسرب مياه", table.Rows[0][0].String())
	assert.True(t, table.Rows[1][0].IsNull(), "literal nan becomes null")
	assert.True(t, table.Rows[2][0].IsNull(), "empty string becomes null")
	assert.Equal(t, "سليم", table.Rows[3][0].String())

	// Non-text cells untouched.
	n, ok := table.Rows[0][1].AsNumber()
	assert.True(t, ok)
	assert.Equal(t, 3.0, n)
}

func TestCleanTextIdempotent(t *testing.T) {
	table := NewTable([]string{"a"})
	table.Rows = [][]Value{
		{Text(" x ")},
		{Text("nan")},
		{Number(1)},
	}

	CleanText(table)
	first := make([][]Value, len(table.Rows))
	for i, row := range table.Rows {
		first[i] = append([]Value(nil), row...)
	}

	CleanText(table)
	for i, row := range table.Rows {
		for j, v := range row {
			assert.True(t, first[i][j].Equal(v), "row %d col %d changed on second pass", i, j)
		}
	}
}
