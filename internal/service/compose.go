package service

import "property-resolver/internal/models"

// Compose assembles the result of one resolution. The assessment record and
// the comparables are copied so the result shares no memory with the chains.
// A nil assessment stays nil: it means nothing matched, which callers treat
// differently from a record whose monetary values are zero.
func Compose(address, city string, assessment *models.AssessmentRecord, comparables []models.ComparableSale, stats models.MarketStatistics) models.PropertyDataResult {
	result := models.PropertyDataResult{
		Address:     address,
		City:        city,
		Comparables: make([]models.ComparableSale, len(comparables)),
		Market:      stats,
	}
	copy(result.Comparables, comparables)
	if assessment != nil {
		rec := *assessment
		result.Assessment = &rec
	}
	return result
}
