package normalize

// DefaultZoning is returned for cities without a known typical zoning code.
const DefaultZoning = "Residential"

// typicalZoning holds the most common single-family zone per city key.
var typicalZoning = map[string]string{
	"vancouver":       "RS-1",
	"north vancouver": "RS-1",
	"west vancouver":  "RS3",
	"burnaby":         "R5",
	"surrey":          "RF",
	"maple ridge":     "RS-1",
	"pitt meadows":    "RS-1",
	"coquitlam":       "RS-1",
	"port coquitlam":  "RS1",
	"richmond":        "RS1/E",
	"langley":         "RS-1",
	"abbotsford":      "RS3",
	"victoria":        "R1-B",
	"kelowna":         "RU1",
	"calgary":         "R-C1",
	"edmonton":        "RF1",
	"toronto":         "RD",
	"ottawa":          "R1",
}

// EstimateZoning returns a typical residential zoning code for the city, or
// DefaultZoning when the city is unknown. It is an estimate, never a parcel
// lookup.
func EstimateZoning(city string) string {
	if z, ok := typicalZoning[CityKey(city)]; ok {
		return z
	}
	return DefaultZoning
}
