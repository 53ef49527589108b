package source

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"property-resolver/internal/models"
	"property-resolver/internal/normalize"
)

// listingDoc is one listing as served by the listing feeds.
type listingDoc struct {
	MLSNumber    Text `json:"mlsNumber"`
	Address      Text `json:"address"`
	ListPrice    Text `json:"listPrice"`
	SoldPrice    Text `json:"soldPrice"`
	DaysOnMarket Text `json:"daysOnMarket"`
	ListDate     Text `json:"listDate"`
	SoldDate     Text `json:"soldDate"`
	PropertyType Text `json:"propertyType"`
	Bedrooms     Text `json:"bedrooms"`
	Bathrooms    Text `json:"bathrooms"`
	FloorArea    Text `json:"floorArea"`
	LotSize      Text `json:"lotSize"`
	YearBuilt    Text `json:"yearBuilt"`
}

type listingPage struct {
	Listings []listingDoc `json:"listings"`
}

func (d listingDoc) comparable() models.RawComparable {
	return models.RawComparable{
		ListingID:    d.MLSNumber.String(),
		Address:      d.Address.String(),
		ListPrice:    d.ListPrice.String(),
		SoldPrice:    d.SoldPrice.String(),
		DaysOnMarket: d.DaysOnMarket.String(),
		ListDate:     d.ListDate.String(),
		SoldDate:     d.SoldDate.String(),
		PropertyType: d.PropertyType.String(),
		Bedrooms:     d.Bedrooms.String(),
		Bathrooms:    d.Bathrooms.String(),
		FloorArea:    d.FloorArea.String(),
	}
}

// ActiveListings reads the active listing feed. It serves comparables and is
// also queried as the first assessment step, where its asking-price derived
// records are always refused by the integrity guard.
type ActiveListings struct {
	baseURL string
	client  *Client
}

// NewActiveListings creates an adapter for the active listing feed at baseURL.
func NewActiveListings(baseURL string, client *Client) *ActiveListings {
	return &ActiveListings{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (a *ActiveListings) Name() string            { return a.client.Name() }
func (a *ActiveListings) Kind() models.SourceKind { return models.KindListingDerived }

// Lookup returns the first listing matching address as an assessment-shaped
// record. The list price stands in for the total value and the record is
// flagged market derived.
func (a *ActiveListings) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("city", city)

	var page listingPage
	found, err := a.client.GetJSON(ctx, a.baseURL+"/listings?"+q.Encode(), &page)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	for _, d := range page.Listings {
		if !normalize.MatchAddress(address, city, d.Address.String()) {
			continue
		}
		return listingRecord(d), nil
	}
	return nil, nil
}

func listingRecord(d listingDoc) *models.RawRecord {
	return &models.RawRecord{
		Address:       d.Address.String(),
		TotalValue:    d.ListPrice.String(),
		LotSize:       d.LotSize.String(),
		PropertyType:  d.PropertyType.String(),
		YearBuilt:     d.YearBuilt.String(),
		FloorArea:     d.FloorArea.String(),
		MarketDerived: true,
		Note:          fmt.Sprintf("listing %s asking price", d.MLSNumber.String()),
	}
}

// Comparables returns up to limit active listings in city.
func (a *ActiveListings) Comparables(ctx context.Context, city string, limit int) ([]models.RawComparable, error) {
	return fetchListings(ctx, a.client, a.baseURL+"/listings", city, limit)
}

// SoldListings reads the recent-sales feed.
type SoldListings struct {
	baseURL string
	client  *Client
}

// NewSoldListings creates an adapter for the sold listing feed at baseURL.
func NewSoldListings(baseURL string, client *Client) *SoldListings {
	return &SoldListings{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (s *SoldListings) Name() string { return s.client.Name() }

// Comparables returns up to limit recent sales in city.
func (s *SoldListings) Comparables(ctx context.Context, city string, limit int) ([]models.RawComparable, error) {
	return fetchListings(ctx, s.client, s.baseURL+"/sold", city, limit)
}

func fetchListings(ctx context.Context, client *Client, endpoint, city string, limit int) ([]models.RawComparable, error) {
	q := url.Values{}
	q.Set("city", city)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var page listingPage
	found, err := client.GetJSON(ctx, endpoint+"?"+q.Encode(), &page)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	out := make([]models.RawComparable, 0, len(page.Listings))
	for _, d := range page.Listings {
		out = append(out, d.comparable())
	}
	return out, nil
}
