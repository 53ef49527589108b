// Package integrity holds the single policy that decides whether a candidate
// record may be presented as an official assessment.
package integrity

import (
	"errors"
	"fmt"

	"property-resolver/internal/models"
)

// ErrIntegrityViolation is wrapped by every rejection.
var ErrIntegrityViolation = errors.New("integrity violation")

const gisOnlyNote = "gis parcel only: monetary fields unavailable"

// Violation describes a deliberate rejection. It is not a source failure: the
// data existed and was refused.
type Violation struct {
	Kind   models.SourceKind
	Source string
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("integrity: rejected %s candidate from %q: %s", v.Kind, v.Source, v.Reason)
}

func (v *Violation) Unwrap() error { return ErrIntegrityViolation }

// Guard enforces that no market-derived number is labelled as an assessment.
// It is stateless and safe for concurrent use.
type Guard struct{}

// NewGuard creates a new guard
func NewGuard() *Guard {
	return &Guard{}
}

// Accept returns the record that may be used as the assessment for kind, or a
// *Violation.
//
//   - listing-derived: always rejected.
//   - government-assessment, municipal-open-data: passed through unchanged
//     unless the source flagged its values as market-derived.
//   - gis-parcel-only: passed through with land, improvement and total values
//     zeroed and a provenance note.
func (g *Guard) Accept(candidate models.AssessmentRecord, kind models.SourceKind) (*models.AssessmentRecord, error) {
	source := candidate.Provenance.Source

	switch kind {
	case models.KindListingDerived:
		return nil, &Violation{Kind: kind, Source: source, Reason: "listing price is a price opinion, not an assessment"}

	case models.KindGovernmentAssessment, models.KindMunicipalOpenData:
		if candidate.Provenance.MarketDerived && candidate.HasMonetaryValues() {
			return nil, &Violation{Kind: kind, Source: source, Reason: "values were estimated from market prices"}
		}
		out := candidate
		out.Provenance.Kind = kind
		return &out, nil

	case models.KindGISParcelOnly:
		out := candidate
		out.LandValue = 0
		out.ImprovementValue = 0
		out.TotalAssessedValue = 0
		out.Provenance.Kind = kind
		out.Provenance.MarketDerived = false
		if out.Provenance.Note == "" {
			out.Provenance.Note = gisOnlyNote
		} else {
			out.Provenance.Note = gisOnlyNote + "; " + out.Provenance.Note
		}
		return &out, nil

	default:
		return nil, &Violation{Kind: kind, Source: source, Reason: "unknown source kind"}
	}
}
