package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	lotSizeUnitPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(square\s*feet|square\s*foot|sq\.?\s*ft\.?|sqft|sf|ft2|acres?|ac|hectares?|ha|square\s*met(?:er|re)s?|sq\.?\s*m|m2)\b`)
	firstDigitsPattern = regexp.MustCompile(`\d+`)
)

// square feet per unit
var areaUnitFactors = map[string]float64{
	"ft":       1,
	"acre":     43560,
	"hectare":  107639.104,
	"metre_sq": 10.7639104,
}

// ParseLotSize converts free-text lot sizes such as "5,533 sq ft", "0.25 acres"
// or "512 m²" to square feet. Text without a recognisable unit falls back to
// the first run of digits. It returns 0 when nothing numeric is present.
func ParseLotSize(text string) float64 {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "²", "2")

	if m := lotSizeUnitPattern.FindStringSubmatch(s); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0
		}
		return roundArea(v * areaUnitFactors[unitKey(m[2])])
	}

	d := firstDigitsPattern.FindString(s)
	if d == "" {
		return 0
	}
	v, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0
	}
	return v
}

func unitKey(unit string) string {
	u := strings.Join(strings.Fields(strings.ReplaceAll(unit, ".", "")), "")
	switch {
	case strings.HasPrefix(u, "ac"):
		return "acre"
	case strings.HasPrefix(u, "ha"), strings.HasPrefix(u, "hectare"):
		return "hectare"
	case u == "m2", u == "sqm", strings.HasPrefix(u, "squaremet"):
		return "metre_sq"
	default:
		return "ft"
	}
}

func roundArea(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}
