package normalize

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	unitHousePattern  = regexp.MustCompile(`^(\d+[a-z]?)-(\d+[a-z]?)$`)
	postalPartPattern = regexp.MustCompile(`^([a-z]\d[a-z]|\d[a-z]\d)$`)
)

// Tokens that never identify a street on their own: street types,
// directionals, unit markers and province codes.
var insignificantTokens = setOf(
	"street", "st", "avenue", "ave", "av", "road", "rd", "drive", "dr",
	"boulevard", "blvd", "crescent", "cres", "court", "ct", "place", "pl",
	"lane", "ln", "way", "highway", "hwy", "terrace", "tce", "trail", "close",
	"circle", "cir", "parkway", "pkwy", "square", "sq", "row", "gate", "grove",
	"mews",
	"n", "s", "e", "w", "ne", "nw", "se", "sw", "north", "south", "east", "west",
	"unit", "apt", "suite", "ste",
	"bc", "ab", "sk", "mb", "on", "qc", "ns", "nb", "pe", "nl", "canada",
)

var unitMarkers = setOf("unit", "apt", "suite", "ste")

// Address is a civic address split into the parts used for matching.
type Address struct {
	HouseNumber string
	// Street holds the significant street-name tokens, without street types,
	// directionals, unit markers or province codes.
	Street []string
}

// Tokens lower-cases text, replaces punctuation with spaces and splits on
// whitespace.
func Tokens(text string) []string {
	return strings.Fields(strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, text))
}

// CityKey is the canonical form of a city name used for registry and table
// lookups: "Maple Ridge, BC" becomes "maple ridge".
func CityKey(city string) string {
	var kept []string
	for _, t := range Tokens(city) {
		if t == "bc" || t == "canada" || t == "city" || t == "of" {
			continue
		}
		kept = append(kept, t)
	}
	return strings.Join(kept, " ")
}

// ParseAddress extracts the house number and the significant street tokens.
// A trailing city name is dropped so that it does not count as a street-name
// match; the last street token is always kept, so "22 Maple Crescent" in
// Maple Ridge still has a street.
func ParseAddress(address, city string) Address {
	var a Address

	var raw []string
	for _, f := range strings.Fields(strings.ToLower(address)) {
		f = strings.Trim(f, ",.#")
		if m := unitHousePattern.FindStringSubmatch(f); m != nil && a.HouseNumber == "" {
			a.HouseNumber = m[2]
			continue
		}
		raw = append(raw, Tokens(f)...)
	}

	cityTokens := make(map[string]bool)
	for _, t := range Tokens(city) {
		cityTokens[t] = true
	}

	afterUnit := false
	for _, t := range raw {
		if unitMarkers[t] {
			afterUnit = true
			continue
		}
		if afterUnit {
			afterUnit = false
			continue
		}
		if a.HouseNumber == "" && startsWithDigit(t) {
			a.HouseNumber = t
			continue
		}
		if insignificantTokens[t] || postalPartPattern.MatchString(t) {
			continue
		}
		a.Street = append(a.Street, t)
	}
	for len(a.Street) > 1 && cityTokens[a.Street[len(a.Street)-1]] {
		a.Street = a.Street[:len(a.Street)-1]
	}
	return a
}

// MatchAddress reports whether candidate refers to the requested address: the
// candidate must contain the requested house number as a token and at least
// one significant street-name token. Anything looser is rejected.
func MatchAddress(requested, city, candidate string) bool {
	want := ParseAddress(requested, city)
	if want.HouseNumber == "" || len(want.Street) == 0 {
		return false
	}

	have := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(candidate)) {
		f = strings.Trim(f, ",.#")
		if m := unitHousePattern.FindStringSubmatch(f); m != nil {
			have[m[1]] = true
			have[m[2]] = true
			continue
		}
		for _, t := range Tokens(f) {
			have[t] = true
		}
	}

	if !have[want.HouseNumber] {
		return false
	}
	for _, t := range want.Street {
		if have[t] {
			return true
		}
	}
	return false
}

// CanonicalAddress is the upper-case, comma-free, single-spaced form used by
// assessment rolls keyed on situs address.
func CanonicalAddress(address string) string {
	address = strings.ToUpper(strings.TrimSpace(address))
	address = strings.ReplaceAll(address, ",", "")
	return strings.Join(strings.Fields(address), " ")
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}

func setOf(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}
