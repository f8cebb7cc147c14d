package analytics

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"salama/internal/dataprocessing"
	"salama/pkg/contracts/domain"
)

// Insight is one headline finding generated from the aggregated summaries.
type Insight struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Priority       string `json:"priority"`
}

// Service bundles the three analyzers behind one dependency for the
// transport layer and derives cross-cutting insights from their output.
type Service struct {
	logger     *slog.Logger
	Compliance *ComplianceAnalyzer
	Risk       *RiskAnalyzer
	Incidents  *IncidentAnalyzer
}

// NewService creates the analytics service. The now function is forwarded to
// the compliance analyzer and defaults to time.Now.
func NewService(logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		logger:     logger,
		Compliance: NewComplianceAnalyzer(logger, now),
		Risk:       NewRiskAnalyzer(logger),
		Incidents:  NewIncidentAnalyzer(logger),
	}
}

// Insights derives headline findings: data completeness, the overall
// compliance rate, the most critical risk activity and the incident closure
// rate, each with a priority and a recommendation.
func (s *Service) Insights(ctx context.Context, unified map[domain.DatasetKind]*dataprocessing.Table, kpis map[domain.DatasetKind]dataprocessing.KPISummary, filters *domain.Filters) []Insight {
	var insights []Insight

	totalRecords := 0
	for _, kpi := range kpis {
		totalRecords += kpi.TotalRecords
	}
	if totalRecords > 0 {
		insights = append(insights, Insight{
			Title:          "اكتمال البيانات",
			Description:    fmt.Sprintf("يحتوي النظام على %d سجل عبر %d مجموعة بيانات.", totalRecords, len(kpis)),
			Recommendation: "تأكد من تحديث البيانات بانتظام للحصول على رؤى دقيقة.",
			Priority:       domain.PriorityMedium,
		})
	}

	if compliance := s.Compliance.Compute(ctx, unified[domain.KindInspections], filters); len(compliance) > 0 {
		var sum float64
		for _, r := range compliance {
			sum += r.CompliancePercent
		}
		overall := sum / float64(len(compliance))
		priority, recommendation := classifyOverallCompliance(overall)
		insights = append(insights, Insight{
			Title:          "معدل الامتثال الإجمالي",
			Description:    fmt.Sprintf("معدل الامتثال الإجمالي الحالي هو %.1f%%.", overall),
			Recommendation: recommendation,
			Priority:       priority,
		})
	}

	if risks := s.Risk.Compute(ctx, unified[domain.KindRiskAssessments], filters); len(risks) > 0 {
		critical := risks[0]
		for _, r := range risks[1:] {
			if r.Priority < critical.Priority {
				critical = r
			}
		}
		insights = append(insights, Insight{
			Title: "النشاط الأكثر خطورة",
			Description: fmt.Sprintf("النشاط الأكثر خطورة هو %q بمستوى مخاطر %q ونسبة مخاطر %.1f%%.",
				critical.Activity, critical.RiskLevel, critical.RiskPercent),
			Recommendation: critical.Recommendation,
			Priority:       priorityLabel(critical.Priority),
		})
	}

	if incidents := s.Incidents.Compute(ctx, unified[domain.KindIncidents], filters); len(incidents) > 0 {
		totalClosed, totalRecommendations := 0, 0
		for _, r := range incidents {
			totalClosed += r.Closed
			totalRecommendations += r.Recommendations
		}
		closure := percentage(totalClosed, totalRecommendations)
		priority, recommendation := classifyOverallClosure(closure)
		insights = append(insights, Insight{
			Title:          "معدل إغلاق الحوادث",
			Description:    fmt.Sprintf("معدل إغلاق توصيات الحوادث الإجمالي هو %.1f%%.", closure),
			Recommendation: recommendation,
			Priority:       priority,
		})
	}

	return insights
}

func classifyOverallCompliance(rate float64) (priority, recommendation string) {
	switch {
	case rate < 70:
		return domain.PriorityHigh, "معدل الامتثال منخفض. يجب التركيز على إغلاق الحالات المفتوحة."
	case rate < 85:
		return domain.PriorityMedium, "معدل الامتثال جيد ولكن يمكن تحسينه."
	default:
		return domain.PriorityLow, "معدل الامتثال ممتاز. حافظ على هذا الأداء."
	}
}

func classifyOverallClosure(rate float64) (priority, recommendation string) {
	switch {
	case rate < 70:
		return domain.PriorityHigh, "معدل إغلاق الحوادث منخفض. يجب تسريع الإجراءات التصحيحية للحوادث المفتوحة."
	case rate < 90:
		return domain.PriorityMedium, "معدل إغلاق الحوادث جيد. استمر في المتابعة لتحقيق نسبة أعلى."
	default:
		return domain.PriorityLow, "معدل إغلاق الحوادث ممتاز. حافظ على فعالية عمليات الإغلاق."
	}
}

// priorityLabel maps the numeric risk priority to its display label.
func priorityLabel(priority int) string {
	switch priority {
	case 1:
		return domain.PriorityUrgent
	case 2:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
