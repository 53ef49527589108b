package normalize

import (
	"math"
	"strings"

	"property-resolver/internal/models"
)

const zoningEstimatedNote = "zoning estimated from city default"

// Assessment converts an adapter hit into an AssessmentRecord. Zoning falls
// back to EstimateZoning(city) and the provenance notes the estimate.
func Assessment(raw models.RawRecord, city string, prov models.Provenance) models.AssessmentRecord {
	rec := models.AssessmentRecord{
		ParcelID:           strings.TrimSpace(raw.ParcelID),
		Address:            strings.Join(strings.Fields(raw.Address), " "),
		LandValue:          ParseCurrency(raw.LandValue),
		ImprovementValue:   ParseCurrency(raw.ImprovementValue),
		TotalAssessedValue: ParseCurrency(raw.TotalValue),
		LotSize:            ParseLotSize(raw.LotSize),
		Zoning:             strings.TrimSpace(raw.Zoning),
		PropertyType:       strings.TrimSpace(raw.PropertyType),
		LegalDescription:   strings.TrimSpace(raw.LegalDescription),
		Provenance:         prov,
	}
	rec.Provenance.MarketDerived = rec.Provenance.MarketDerived || raw.MarketDerived
	rec.Provenance.Note = joinNotes(rec.Provenance.Note, raw.Note)

	if rec.TotalAssessedValue == 0 && rec.LandValue > 0 && rec.ImprovementValue > 0 {
		rec.TotalAssessedValue = rec.LandValue + rec.ImprovementValue
	}
	if y := int(ParseNumber(raw.YearBuilt)); y >= 1700 && y <= 2200 {
		rec.YearBuilt = &y
	}
	if a := ParseLotSize(raw.FloorArea); a > 0 {
		rec.FloorArea = &a
	}
	if rec.Zoning == "" {
		rec.Zoning = EstimateZoning(city)
		rec.Provenance.Note = joinNotes(rec.Provenance.Note, zoningEstimatedNote)
	}
	return rec
}

// Comparable converts a listing hit into a ComparableSale.
func Comparable(raw models.RawComparable, source string) models.ComparableSale {
	c := models.ComparableSale{
		ListingID:    strings.TrimSpace(raw.ListingID),
		Address:      strings.Join(strings.Fields(raw.Address), " "),
		ListPrice:    ParseCurrency(raw.ListPrice),
		PropertyType: strings.TrimSpace(raw.PropertyType),
		Source:       source,
	}
	if p := ParseCurrency(raw.SoldPrice); p > 0 {
		c.SoldPrice = &p
	}
	if s := strings.TrimSpace(raw.DaysOnMarket); s != "" && numericRunPattern.MatchString(s) {
		d := int(math.Round(ParseNumber(s)))
		c.DaysOnMarket = &d
	}
	if t := ParseDate(raw.ListDate); !t.IsZero() {
		c.ListDate = &t
	}
	if t := ParseDate(raw.SoldDate); !t.IsZero() {
		c.SoldDate = &t
	}
	if b := ParseNumber(raw.Bedrooms); b > 0 {
		n := int(b)
		c.Bedrooms = &n
	}
	if b := ParseNumber(raw.Bathrooms); b > 0 {
		c.Bathrooms = &b
	}
	if a := ParseLotSize(raw.FloorArea); a > 0 {
		c.FloorArea = &a
	}
	return c
}

func joinNotes(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	default:
		return a + "; " + b
	}
}
