package models

// SourceKind classifies the external source that produced a record. The
// Integrity Guard decides what a record may claim based on this value.
type SourceKind string

const (
	// KindListingDerived is a listing feed: a price opinion, never an assessment.
	KindListingDerived SourceKind = "listing-derived"
	// KindGovernmentAssessment is an assessment authority search or roll.
	KindGovernmentAssessment SourceKind = "government-assessment"
	// KindMunicipalOpenData is a city open-data portal publishing assessed values.
	KindMunicipalOpenData SourceKind = "municipal-open-data"
	// KindGISParcelOnly is a geocoder/GIS parcel service; zoning and lot size only.
	KindGISParcelOnly SourceKind = "gis-parcel-only"
)

// IsGovernment reports whether monetary values from this kind of source may be
// presented as an official assessment.
func (k SourceKind) IsGovernment() bool {
	return k == KindGovernmentAssessment || k == KindMunicipalOpenData
}

// Provenance records which source produced an assessment record.
type Provenance struct {
	Kind   SourceKind `json:"kind"`
	Source string     `json:"source"`
	Note   string     `json:"note,omitempty"`
	// MarketDerived is set when the source computed its values from market
	// prices (listing price, comparable averages) rather than an assessment.
	MarketDerived bool `json:"market_derived,omitempty"`
}

// AssessmentRecord is an assessed-property record for a single parcel.
// TotalAssessedValue is zero when unknown; a non-zero value is only ever
// accompanied by a government Provenance.Kind.
type AssessmentRecord struct {
	ParcelID           string     `json:"parcel_id"`
	Address            string     `json:"address"`
	LandValue          float64    `json:"land_value"`
	ImprovementValue   float64    `json:"improvement_value"`
	TotalAssessedValue float64    `json:"total_assessed_value"`
	LotSize            float64    `json:"lot_size_sqft"`
	Zoning             string     `json:"zoning"`
	PropertyType       string     `json:"property_type"`
	YearBuilt          *int       `json:"year_built,omitempty"`
	FloorArea          *float64   `json:"floor_area_sqft,omitempty"`
	LegalDescription   string     `json:"legal_description,omitempty"`
	Provenance         Provenance `json:"provenance"`
}

// HasMonetaryValues reports whether any of the valuation fields are set.
func (r AssessmentRecord) HasMonetaryValues() bool {
	return r.LandValue != 0 || r.ImprovementValue != 0 || r.TotalAssessedValue != 0
}
