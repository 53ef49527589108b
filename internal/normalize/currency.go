package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	numericRunPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)
	currencyReplacer  = strings.NewReplacer("c$", "", "cad", "", "usd", "", "$", "", ",", "", " ", "", "\u00a0", "")
)

// ParseCurrency extracts the leading numeric run from a monetary string such
// as "$1,234,500" or "CAD 985 000.50". It returns 0 when no number is present.
func ParseCurrency(text string) float64 {
	s := currencyReplacer.Replace(strings.ToLower(strings.TrimSpace(text)))
	run := numericRunPattern.FindString(s)
	if run == "" {
		return 0
	}
	d, err := decimal.NewFromString(run)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// ParseNumber extracts the first numeric run from text, ignoring thousands
// separators. It returns 0 when none is present.
func ParseNumber(text string) float64 {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	run := numericRunPattern.FindString(s)
	if run == "" {
		return 0
	}
	d, err := decimal.NewFromString(run)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
