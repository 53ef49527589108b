package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"property-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingsBody = `{"listings":[
	{"mlsNumber":"R2900001","address":"20387 Dale Dr, Maple Ridge","listPrice":"$1,049,000","daysOnMarket":12,"listDate":"2024-03-01","propertyType":"House","bedrooms":4,"bathrooms":2.5,"floorArea":"2,150 sq ft","lotSize":"7,200 sq ft","yearBuilt":1988},
	{"mlsNumber":"R2900002","address":"11950 Laity St","listPrice":899000,"soldPrice":"915,000","daysOnMarket":"9","soldDate":"2024-02-20","floorArea":1800}
]}`

func TestActiveListings_Lookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/listings", r.URL.Path)
		assert.Equal(t, "20387 Dale Dr", r.URL.Query().Get("address"))
		assert.Equal(t, "Maple Ridge", r.URL.Query().Get("city"))
		_, _ = w.Write([]byte(listingsBody))
	}))
	defer srv.Close()

	a := NewActiveListings(srv.URL+"/", NewClient("active-listings", ClientConfig{}))
	rec, err := a.Lookup(context.Background(), "20387 Dale Dr", "Maple Ridge")
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Equal(t, models.KindListingDerived, a.Kind())
	assert.Equal(t, "active-listings", a.Name())
	assert.True(t, rec.MarketDerived)
	assert.Equal(t, "$1,049,000", rec.TotalValue)
	assert.Equal(t, "7,200 sq ft", rec.LotSize)
	assert.Equal(t, "1988", rec.YearBuilt)
	assert.Empty(t, rec.ParcelID)
}

func TestActiveListings_LookupEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"listings":[]}`))
	}))
	defer srv.Close()

	a := NewActiveListings(srv.URL, NewClient("active-listings", ClientConfig{}))
	rec, err := a.Lookup(context.Background(), "1 Nowhere Rd", "Maple Ridge")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestSoldListings_Comparables(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedLen int
		expectError bool
	}{
		{name: "two sales", status: http.StatusOK, body: listingsBody, expectedLen: 2},
		{name: "unknown city", status: http.StatusNotFound, body: ``, expectedLen: 0},
		{name: "feed down", status: http.StatusServiceUnavailable, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/sold", r.URL.Path)
				assert.Equal(t, "15", r.URL.Query().Get("limit"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewSoldListings(srv.URL, NewClient("sold-listings", ClientConfig{}))
			comps, err := s.Comparables(context.Background(), "Maple Ridge", 15)
			if tt.expectError {
				assert.ErrorIs(t, err, ErrUnavailable)
				return
			}
			require.NoError(t, err)
			assert.Len(t, comps, tt.expectedLen)
			if tt.expectedLen > 0 {
				assert.Equal(t, "R2900002", comps[1].ListingID)
				assert.Equal(t, "915,000", comps[1].SoldPrice)
				assert.Equal(t, "899000", comps[1].ListPrice)
				assert.Equal(t, "9", comps[1].DaysOnMarket)
			}
		})
	}
}
