package domain

// DatasetKind identifies the canonical category a source sheet or file is
// unified under. The well-known kinds cover the safety and compliance
// registers; anything else round-trips through KindOf as an "other" kind.
type DatasetKind string

const (
	KindInspections      DatasetKind = "inspections"
	KindIncidents        DatasetKind = "incidents"
	KindRiskAssessments  DatasetKind = "risk_assessments"
	KindSafetyChecks     DatasetKind = "safety_checks"
	KindRecommendations  DatasetKind = "recommendations"
	KindContractorAudits DatasetKind = "contractor_audits"
)

// wellKnownKinds holds the kinds with dedicated analytics support.
var wellKnownKinds = map[DatasetKind]bool{
	KindInspections:      true,
	KindIncidents:        true,
	KindRiskAssessments:  true,
	KindSafetyChecks:     true,
	KindRecommendations:  true,
	KindContractorAudits: true,
}

// KindOf returns the DatasetKind for a manifest tag. Unknown tags are
// preserved as-is so metadata sheets (e.g. identifiers) keep their identity.
func KindOf(tag string) DatasetKind {
	return DatasetKind(tag)
}

// IsWellKnown reports whether the kind is one of the core safety registers.
func (k DatasetKind) IsWellKnown() bool {
	return wellKnownKinds[k]
}

func (k DatasetKind) String() string {
	return string(k)
}

// Canonical column vocabulary. The source registers are authored in Arabic,
// so the canonical labels are the Arabic ones the column mapper produces.
const (
	ColDate           = "التاريخ"       // record date
	ColStatus         = "الحالة"        // open/closed status
	ColDepartment     = "الإدارة"       // responsible department
	ColSector         = "القطاع"        // sector (department fallback)
	ColActivity       = "النشاط"        // activity classification
	ColClassification = "التصنيف"       // classification / risk level
	ColRiskRatio      = "نسبة_المخاطرة" // numeric risk ratio (0..1)
	ColRecommendation = "التوصية_المقترحة"
	ColDescription    = "الوصف"
	ColRecordNumber   = "الرقم"
	ColIncidentType   = "نوع_الحادث"
	ColPriority       = "الأولوية"
	ColRiskLevel      = "مستوى المخاطر"
)

// Canonical status values. Every recognised open/closed spelling maps to one
// of these two; unrecognised values pass through untouched.
const (
	StatusOpen   = "مفتوح"
	StatusClosed = "مغلق"
)

// Canonical risk level labels.
const (
	RiskHigh         = "عالي"
	RiskMedium       = "متوسط"
	RiskLow          = "منخفض"
	RiskUndetermined = "غير محدد"
)

// Priority labels used by the compliance classification.
const (
	PriorityLow    = "منخفض"
	PriorityMedium = "متوسط"
	PriorityHigh   = "عالي"
	PriorityUrgent = "عاجل"
)

// FilterAll is the sentinel option meaning "no restriction" in filter lists.
const FilterAll = "الكل"
