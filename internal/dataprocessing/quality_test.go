package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salama/pkg/contracts/domain"
)

func TestComputeQualityReport(t *testing.T) {
	table := NewTable([]string{"a", "b"})
	table.Rows = [][]Value{
		{Text("x"), Number(1)},
		{Text("x"), Number(1)},
		{Null(), Number(2)},
	}

	reports := ComputeQualityReport(map[domain.DatasetKind]*Table{domain.KindInspections: table})
	require.Contains(t, reports, domain.KindInspections)
	report := reports[domain.KindInspections]

	assert.Equal(t, 3, report.TotalRows)
	assert.Equal(t, 2, report.TotalColumns)
	assert.Equal(t, 1, report.MissingCells)
	assert.InDelta(t, 100.0/6.0, report.MissingPercentage, 0.001)
	assert.Equal(t, 1, report.DuplicateRows, "second identical row counted once")
	assert.Equal(t, map[string]string{"a": "text", "b": "number"}, report.ColumnKinds)
	assert.Positive(t, report.MemoryBytes)
}

func TestQualityMissingPercentageBounded(t *testing.T) {
	allNull := NewTable([]string{"a"})
	allNull.Rows = [][]Value{{Null()}, {Null()}}

	report := qualityOf(allNull)
	assert.Equal(t, 100.0, report.MissingPercentage)
	assert.GreaterOrEqual(t, report.MissingPercentage, 0.0)
	assert.LessOrEqual(t, report.MissingPercentage, 100.0)
}

func TestQualityDistinguishesKindsInDuplicates(t *testing.T) {
	// Text "1" and Number 1 render identically but are different cells; the
	// duplicate counter must not conflate them.
	table := NewTable([]string{"a"})
	table.Rows = [][]Value{
		{Text("1")},
		{Number(1)},
	}
	assert.Equal(t, 0, countDuplicateRows(table))
}

func TestInferColumnKindsDominant(t *testing.T) {
	table := NewTable([]string{"mixed"})
	table.Rows = [][]Value{
		{Timestamp(time.Now())},
		{Timestamp(time.Now())},
		{Text("stray")},
	}
	kinds := inferColumnKinds(table)
	assert.Equal(t, "timestamp", kinds["mixed"])
}
