package dataprocessing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salama/pkg/contracts/domain"
)

func TestComputeKPIs(t *testing.T) {
	table := NewTable([]string{domain.ColDate, domain.ColStatus, domain.ColDepartment, domain.ColActivity})
	table.Rows = [][]Value{
		{Timestamp(time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)), Text(domain.StatusOpen), Text("التشغيل"), Text("لحام")},
		{Timestamp(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), Text(domain.StatusClosed), Text("التشغيل"), Text("رفع")},
		{Null(), Text(domain.StatusClosed), Text("الصيانة"), Null()},
	}

	kpis := ComputeKPIs(map[domain.DatasetKind]*Table{domain.KindInspections: table})
	require.Contains(t, kpis, domain.KindInspections)
	kpi := kpis[domain.KindInspections]

	assert.Equal(t, 3, kpi.TotalRecords)

	require.NotNil(t, kpi.DateRange)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), kpi.DateRange.Min)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), kpi.DateRange.Max)

	assert.Equal(t, map[string]int{domain.StatusOpen: 1, domain.StatusClosed: 2}, kpi.StatusDistribution)
	assert.Equal(t, map[string]int{"التشغيل": 2, "الصيانة": 1}, kpi.DepartmentDistribution)
	assert.Equal(t, map[string]int{"لحام": 1, "رفع": 1}, kpi.ActivityDistribution)
}

func TestComputeKPIsSectorFallback(t *testing.T) {
	table := NewTable([]string{domain.ColSector})
	table.Rows = [][]Value{{Text("قطاع الشمال")}}

	kpis := ComputeKPIs(map[domain.DatasetKind]*Table{domain.KindIncidents: table})
	assert.Equal(t, map[string]int{"قطاع الشمال": 1}, kpis[domain.KindIncidents].DepartmentDistribution)
}

func TestComputeKPIsSkipsEmptyDatasets(t *testing.T) {
	kpis := ComputeKPIs(map[domain.DatasetKind]*Table{
		domain.KindInspections: NewTable([]string{"a"}),
	})
	assert.Empty(t, kpis)
}

func TestComputeKPIsNoDateColumn(t *testing.T) {
	table := NewTable([]string{domain.ColStatus})
	table.Rows = [][]Value{{Text(domain.StatusOpen)}}

	kpis := ComputeKPIs(map[domain.DatasetKind]*Table{domain.KindInspections: table})
	assert.Nil(t, kpis[domain.KindInspections].DateRange)
}
