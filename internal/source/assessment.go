package source

import (
	"context"
	"net/url"
	"strings"

	"property-resolver/internal/models"
)

const valuationMarketEstimate = "market-estimate"

type assessmentDoc struct {
	PID              Text `json:"pid"`
	Address          Text `json:"address"`
	LandValue        Text `json:"landValue"`
	ImprovementValue Text `json:"improvementValue"`
	TotalValue       Text `json:"totalValue"`
	LotSize          Text `json:"lotSize"`
	Zoning           Text `json:"zoning"`
	PropertyType     Text `json:"propertyType"`
	YearBuilt        Text `json:"yearBuilt"`
	FloorArea        Text `json:"floorArea"`
	LegalDescription Text `json:"legalDescription"`
	ValuationBasis   Text `json:"valuationBasis"`
}

// AssessmentSearch queries a government assessment search service.
type AssessmentSearch struct {
	baseURL string
	client  *Client
}

// NewAssessmentSearch creates an adapter for the assessment search at baseURL.
func NewAssessmentSearch(baseURL string, client *Client) *AssessmentSearch {
	return &AssessmentSearch{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (a *AssessmentSearch) Name() string            { return a.client.Name() }
func (a *AssessmentSearch) Kind() models.SourceKind { return models.KindGovernmentAssessment }

// Lookup returns the first search hit for address in city.
func (a *AssessmentSearch) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("city", city)

	var page struct {
		Results []assessmentDoc `json:"results"`
	}
	found, err := a.client.GetJSON(ctx, a.baseURL+"/assessments?"+q.Encode(), &page)
	if err != nil {
		return nil, err
	}
	if !found || len(page.Results) == 0 {
		return nil, nil
	}

	d := page.Results[0]
	rec := &models.RawRecord{
		ParcelID:         d.PID.String(),
		Address:          d.Address.String(),
		LandValue:        d.LandValue.String(),
		ImprovementValue: d.ImprovementValue.String(),
		TotalValue:       d.TotalValue.String(),
		LotSize:          d.LotSize.String(),
		Zoning:           d.Zoning.String(),
		PropertyType:     d.PropertyType.String(),
		YearBuilt:        d.YearBuilt.String(),
		FloorArea:        d.FloorArea.String(),
		LegalDescription: d.LegalDescription.String(),
	}
	if strings.EqualFold(d.ValuationBasis.String(), valuationMarketEstimate) {
		rec.MarketDerived = true
		rec.Note = "valuation basis: market estimate"
	}
	return rec, nil
}
