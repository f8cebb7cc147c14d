package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

func TestStatusDistribution(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColStatus})
	for _, s := range []string{domain.StatusOpen, domain.StatusClosed, domain.StatusClosed, "معلق"} {
		table.Rows = append(table.Rows, []dataprocessing.Value{dataprocessing.Text(s)})
	}

	counts := StatusDistribution(table, nil)

	require.Len(t, counts, 2)
	assert.Equal(t, StatusCount{Status: domain.StatusClosed, Count: 2}, counts[0])
	assert.Equal(t, StatusCount{Status: domain.StatusOpen, Count: 1}, counts[1])

	assert.Nil(t, StatusDistribution(nil, nil))
}

func TestDepartmentCompliancePerformance(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColDepartment, domain.ColStatus})
	rows := [][2]string{
		{"الصيانة", domain.StatusClosed},
		{"الصيانة", domain.StatusOpen},
		{"التشغيل", domain.StatusClosed},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []dataprocessing.Value{
			dataprocessing.Text(r[0]), dataprocessing.Text(r[1]),
		})
	}

	out := DepartmentCompliancePerformance(table, nil)

	require.Len(t, out, 2)
	assert.Equal(t, DepartmentCompliance{Department: "التشغيل", ComplianceRate: 100.0}, out[0])
	assert.Equal(t, DepartmentCompliance{Department: "الصيانة", ComplianceRate: 50.0}, out[1])
}

func TestRiskLevelDistributionZeroFilled(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColClassification})
	for _, s := range []string{domain.RiskHigh, domain.RiskHigh, domain.RiskLow} {
		table.Rows = append(table.Rows, []dataprocessing.Value{dataprocessing.Text(s)})
	}

	out := RiskLevelDistribution(table, nil)

	require.Len(t, out, 3)
	byLevel := map[string]int{}
	for _, lc := range out {
		byLevel[lc.Level] = lc.Count
	}
	assert.Equal(t, map[string]int{
		domain.RiskHigh:   2,
		domain.RiskMedium: 0,
		domain.RiskLow:    1,
	}, byLevel)
}

func TestRiskLevelDistributionDerivesFromRatio(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColRiskRatio})
	for _, r := range []float64{0.9, 0.5, 0.1} {
		table.Rows = append(table.Rows, []dataprocessing.Value{dataprocessing.Number(r)})
	}

	out := RiskLevelDistribution(table, nil)

	byLevel := map[string]int{}
	for _, lc := range out {
		byLevel[lc.Level] = lc.Count
	}
	assert.Equal(t, 1, byLevel[domain.RiskHigh])
	assert.Equal(t, 1, byLevel[domain.RiskMedium])
	assert.Equal(t, 1, byLevel[domain.RiskLow])
}

func TestMonthlyTimeSeries(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColDate})
	dates := []time.Time{
		time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
	}
	for _, d := range dates {
		table.Rows = append(table.Rows, []dataprocessing.Value{dataprocessing.Timestamp(d)})
	}
	table.Rows = append(table.Rows, []dataprocessing.Value{dataprocessing.Null()})

	points := MonthlyTimeSeries(table, nil)

	require.Len(t, points, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), points[0].Date)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), points[1].Date)
	assert.Equal(t, 1, points[1].Count)
}

func TestMonthlyRiskTrend(t *testing.T) {
	table := dataprocessing.NewTable([]string{domain.ColDate, domain.ColRiskRatio})
	rows := []struct {
		date  time.Time
		ratio float64
	}{
		{time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), 0.8},
		{time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), 0.8},
		{time.Date(2024, 2, 3, 0, 0, 0, 0, time.UTC), 0.2},
	}
	for _, r := range rows {
		table.Rows = append(table.Rows, []dataprocessing.Value{
			dataprocessing.Timestamp(r.date), dataprocessing.Number(r.ratio),
		})
	}

	points := MonthlyRiskTrend(table, nil)

	require.Len(t, points, 2)
	assert.InDelta(t, 0.8, points[0].RiskScore, 1e-9)
	assert.Equal(t, domain.RiskHigh, points[0].RiskLevel)
	assert.InDelta(t, 0.2, points[1].RiskScore, 1e-9)
	assert.Equal(t, domain.RiskLow, points[1].RiskLevel)
}

func TestBinRiskScore(t *testing.T) {
	assert.Equal(t, domain.RiskLow, binRiskScore(0.3))
	assert.Equal(t, domain.RiskMedium, binRiskScore(0.31))
	assert.Equal(t, domain.RiskMedium, binRiskScore(0.7))
	assert.Equal(t, domain.RiskHigh, binRiskScore(0.71))
}

func TestActivityHeatmap(t *testing.T) {
	inspections := dataprocessing.NewTable([]string{domain.ColDepartment, domain.ColActivity})
	inspections.Rows = [][]dataprocessing.Value{
		{dataprocessing.Text("الصيانة"), dataprocessing.Text("لحام")},
		{dataprocessing.Text("الصيانة"), dataprocessing.Text("لحام")},
		{dataprocessing.Text("التشغيل"), dataprocessing.Text("رفع")},
	}

	matrix := ActivityHeatmap(map[domain.DatasetKind]*dataprocessing.Table{
		domain.KindInspections: inspections,
		"metadata":             inspections, // not well-known, must be ignored
	}, nil)

	require.NotNil(t, matrix)
	assert.Equal(t, []string{"التشغيل", "الصيانة"}, matrix.Departments)
	assert.Equal(t, []string{"رفع", "لحام"}, matrix.Activities)
	require.Len(t, matrix.Counts, 2)
	assert.Equal(t, []int{1, 0}, matrix.Counts[0])
	assert.Equal(t, []int{0, 2}, matrix.Counts[1])
}

func TestActivityHeatmapEmpty(t *testing.T) {
	assert.Nil(t, ActivityHeatmap(map[domain.DatasetKind]*dataprocessing.Table{}, nil))
}
