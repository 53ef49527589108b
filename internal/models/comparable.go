package models

import "time"

// ComparableSale is a sold or active listing used as a market comparable.
// Optional fields are nil when the source did not provide a usable value.
type ComparableSale struct {
	ListingID    string     `json:"listing_id,omitempty"`
	Address      string     `json:"address,omitempty"`
	ListPrice    float64    `json:"list_price"`
	SoldPrice    *float64   `json:"sold_price,omitempty"`
	DaysOnMarket *int       `json:"days_on_market,omitempty"`
	ListDate     *time.Time `json:"list_date,omitempty"`
	SoldDate     *time.Time `json:"sold_date,omitempty"`
	PropertyType string     `json:"property_type,omitempty"`
	Bedrooms     *int       `json:"bedrooms,omitempty"`
	Bathrooms    *float64   `json:"bathrooms,omitempty"`
	FloorArea    *float64   `json:"floor_area_sqft,omitempty"`
	Source       string     `json:"source,omitempty"`
}

// Price returns the sold price when present, otherwise the list price.
func (c ComparableSale) Price() float64 {
	if c.SoldPrice != nil && *c.SoldPrice > 0 {
		return *c.SoldPrice
	}
	return c.ListPrice
}
