package models

// ParcelLocation is a geocoded point for a civic address, as returned by a
// government geocoder, together with the zoning found at that point.
type ParcelLocation struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoning    string  `json:"zoning,omitempty"`
}
