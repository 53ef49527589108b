package models

// RawRecord is an assessment-shaped hit exactly as an adapter read it, before
// field normalization. Numeric fields stay textual because sources disagree
// on units, separators and currency symbols.
type RawRecord struct {
	// Source names the concrete endpoint when an adapter fronts several (a
	// per-city portal, for example). Empty means the adapter's own name.
	Source           string
	ParcelID         string
	Address          string
	LandValue        string
	ImprovementValue string
	TotalValue       string
	LotSize          string
	Zoning           string
	PropertyType     string
	YearBuilt        string
	FloorArea        string
	LegalDescription string
	MarketDerived    bool
	Note             string
}

// RawComparable is a listing hit before normalization.
type RawComparable struct {
	ListingID    string
	Address      string
	ListPrice    string
	SoldPrice    string
	DaysOnMarket string
	ListDate     string
	SoldDate     string
	PropertyType string
	Bedrooms     string
	Bathrooms    string
	FloorArea    string
}
