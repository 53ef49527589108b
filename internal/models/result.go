package models

// AssessmentStatus summarises what the resolver could establish about the
// assessed record.
type AssessmentStatus string

const (
	AssessmentFound   AssessmentStatus = "found"
	AssessmentPartial AssessmentStatus = "partial"
	AssessmentAbsent  AssessmentStatus = "absent"
)

// PropertyDataResult is the immutable outcome of one resolution. Assessment is
// nil when no source could be matched at all; a non-nil record with zero
// monetary fields means only partial (GIS) data was found.
type PropertyDataResult struct {
	Address     string            `json:"address"`
	City        string            `json:"city"`
	Assessment  *AssessmentRecord `json:"assessment"`
	Comparables []ComparableSale  `json:"comparables"`
	Market      MarketStatistics  `json:"market"`
}

// AssessmentStatus reports found, partial or absent.
func (r PropertyDataResult) AssessmentStatus() AssessmentStatus {
	switch {
	case r.Assessment == nil:
		return AssessmentAbsent
	case r.Assessment.TotalAssessedValue == 0:
		return AssessmentPartial
	default:
		return AssessmentFound
	}
}

// NeedsManualEntry is true when callers should prompt a user for the
// assessment values.
func (r PropertyDataResult) NeedsManualEntry() bool {
	return r.Assessment == nil
}
