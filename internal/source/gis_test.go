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

type staticZoning struct {
	code string
}

func (s staticZoning) ZoningAt(lat, lon float64) (string, bool) {
	return s.code, s.code != ""
}

func gisServer(t *testing.T, geocode, parcel string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/addresses.json", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(geocode))
	})
	mux.HandleFunc("/parcels/query", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "-122.612300,49.219800", r.URL.Query().Get("geometry"))
		assert.Equal(t, "4326", r.URL.Query().Get("inSR"))
		_, _ = w.Write([]byte(parcel))
	})
	return httptest.NewServer(mux)
}

const geocodeHit = `{"features":[{"geometry":{"coordinates":[-122.6123,49.2198]},"properties":{"fullAddress":"20387 Dale Dr, Maple Ridge, BC","score":97}}]}`

func TestGISParcel_Lookup(t *testing.T) {
	tests := []struct {
		name         string
		geocode      string
		parcel       string
		zoning       ZoningLookup
		expectNil    bool
		expectZoning string
		expectLot    string
	}{
		{
			name:         "parcel with zoning",
			geocode:      geocodeHit,
			parcel:       `{"features":[{"attributes":{"PID":"012-345-678","ZONING":"RS-1","PARCEL_AREA_SQFT":7200}}]}`,
			expectZoning: "RS-1",
			expectLot:    "7200 sq ft",
		},
		{
			name:         "zoning from local layer",
			geocode:      geocodeHit,
			parcel:       `{"features":[{"attributes":{"PID":"012-345-678","FEATURE_AREA_SQM":668.9}}]}`,
			zoning:       staticZoning{code: "RS-2"},
			expectZoning: "RS-2",
			expectLot:    "668.9 m2",
		},
		{
			name:      "low score",
			geocode:   `{"features":[{"geometry":{"coordinates":[-122.6123,49.2198]},"properties":{"fullAddress":"Maple Ridge, BC","score":40}}]}`,
			expectNil: true,
		},
		{
			name:      "no parcel",
			geocode:   geocodeHit,
			parcel:    `{"features":[]}`,
			expectNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := gisServer(t, tt.geocode, tt.parcel)
			defer srv.Close()

			g := NewGISParcel(srv.URL+"/addresses.json", srv.URL+"/parcels", 70, NewClient("gis-parcel", ClientConfig{}), tt.zoning)
			assert.Equal(t, models.KindGISParcelOnly, g.Kind())

			rec, err := g.Lookup(context.Background(), "20387 Dale Dr", "Maple Ridge")
			require.NoError(t, err)
			if tt.expectNil {
				assert.Nil(t, rec)
				return
			}
			require.NotNil(t, rec)
			assert.Equal(t, "012-345-678", rec.ParcelID)
			assert.Equal(t, "20387 Dale Dr, Maple Ridge, BC", rec.Address)
			assert.Equal(t, tt.expectZoning, rec.Zoning)
			assert.Equal(t, tt.expectLot, rec.LotSize)
			assert.Empty(t, rec.TotalValue)
		})
	}
}
