package analytics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

func TestInsightsFullDataset(t *testing.T) {
	inspections := inspectionsTable("التشغيل",
		domain.StatusClosed, domain.StatusClosed, domain.StatusClosed, domain.StatusOpen,
	)

	assessments := assessmentsTable("أعمال الحفر",
		domain.RiskHigh, domain.RiskHigh, domain.RiskHigh, domain.RiskLow,
	)

	incidents := dataprocessing.NewTable([]string{domain.ColSector, domain.ColStatus})
	for _, status := range []string{domain.StatusClosed, domain.StatusOpen} {
		incidents.Rows = append(incidents.Rows, []dataprocessing.Value{
			dataprocessing.Text("قطاع الشمال"), dataprocessing.Text(status),
		})
	}

	unified := map[domain.DatasetKind]*dataprocessing.Table{
		domain.KindInspections:     inspections,
		domain.KindRiskAssessments: assessments,
		domain.KindIncidents:       incidents,
	}
	kpis := dataprocessing.ComputeKPIs(unified)

	svc := NewService(nil, fixedNow)
	insights := svc.Insights(context.Background(), unified, kpis, nil)

	require.Len(t, insights, 4)

	titles := make([]string, len(insights))
	for i, in := range insights {
		titles[i] = in.Title
	}
	assert.Equal(t, []string{
		"اكتمال البيانات",
		"معدل الامتثال الإجمالي",
		"النشاط الأكثر خطورة",
		"معدل إغلاق الحوادث",
	}, titles)

	for _, in := range insights {
		assert.NotEmpty(t, in.Description, in.Title)
		assert.NotEmpty(t, in.Recommendation, in.Title)
		assert.NotEmpty(t, in.Priority, in.Title)
	}

	// 3 of 4 inspections closed: 75% sits in the middle compliance band.
	assert.Equal(t, domain.PriorityMedium, insights[1].Priority)
	// 3 of 4 assessments high risk: 75% is the urgent risk band.
	assert.Equal(t, domain.PriorityUrgent, insights[2].Priority)
	// 1 of 2 incidents closed: 50% closure is a high priority finding.
	assert.Equal(t, domain.PriorityHigh, insights[3].Priority)
}

func TestInsightsEmptyData(t *testing.T) {
	svc := NewService(nil, fixedNow)
	insights := svc.Insights(context.Background(), nil, nil, nil)
	assert.Empty(t, insights)
}

func TestClassifyOverallCompliance(t *testing.T) {
	tests := []struct {
		rate     float64
		priority string
	}{
		{rate: 69.9, priority: domain.PriorityHigh},
		{rate: 70, priority: domain.PriorityMedium},
		{rate: 84.9, priority: domain.PriorityMedium},
		{rate: 85, priority: domain.PriorityLow},
	}
	for _, tt := range tests {
		priority, recommendation := classifyOverallCompliance(tt.rate)
		assert.Equal(t, tt.priority, priority, "rate %v", tt.rate)
		assert.NotEmpty(t, recommendation)
	}
}

func TestClassifyOverallClosure(t *testing.T) {
	tests := []struct {
		rate     float64
		priority string
	}{
		{rate: 50, priority: domain.PriorityHigh},
		{rate: 70, priority: domain.PriorityMedium},
		{rate: 90, priority: domain.PriorityLow},
	}
	for _, tt := range tests {
		priority, recommendation := classifyOverallClosure(tt.rate)
		assert.Equal(t, tt.priority, priority, "rate %v", tt.rate)
		assert.NotEmpty(t, recommendation)
	}
}

func TestPriorityLabel(t *testing.T) {
	assert.Equal(t, domain.PriorityUrgent, priorityLabel(1))
	assert.Equal(t, domain.PriorityMedium, priorityLabel(2))
	assert.Equal(t, domain.PriorityLow, priorityLabel(3))
}
