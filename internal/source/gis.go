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

// ZoningLookup resolves the zoning code at a WGS84 point.
type ZoningLookup interface {
	ZoningAt(lat, lon float64) (string, bool)
}

// GISParcel geocodes an address and reads the parcel fabric at that point.
// It yields identity and physical attributes only; the integrity guard strips
// any monetary field it might carry.
type GISParcel struct {
	geocoderURL string
	parcelURL   string
	minScore    float64
	client      *Client
	zoning      ZoningLookup
}

// NewGISParcel creates the GIS adapter. zoning may be nil.
func NewGISParcel(geocoderURL, parcelURL string, minScore float64, client *Client, zoning ZoningLookup) *GISParcel {
	return &GISParcel{
		geocoderURL: geocoderURL,
		parcelURL:   strings.TrimRight(parcelURL, "/"),
		minScore:    minScore,
		client:      client,
		zoning:      zoning,
	}
}

func (g *GISParcel) Name() string            { return g.client.Name() }
func (g *GISParcel) Kind() models.SourceKind { return models.KindGISParcelOnly }

// Locate geocodes address in city. It returns nil when the geocoder has no
// match at or above the configured score.
func (g *GISParcel) Locate(ctx context.Context, address, city string) (*models.ParcelLocation, error) {
	q := url.Values{}
	q.Set("addressString", address)
	q.Set("localityName", city)
	q.Set("maxResults", "1")

	var doc struct {
		Features []struct {
			Geometry struct {
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties struct {
				FullAddress Text `json:"fullAddress"`
				Score       Text `json:"score"`
			} `json:"properties"`
		} `json:"features"`
	}
	found, err := g.client.GetJSON(ctx, g.geocoderURL+"?"+q.Encode(), &doc)
	if err != nil {
		return nil, err
	}
	if !found || len(doc.Features) == 0 {
		return nil, nil
	}

	f := doc.Features[0]
	if len(f.Geometry.Coordinates) < 2 {
		return nil, nil
	}
	if score := normalize.ParseNumber(f.Properties.Score.String()); g.minScore > 0 && score < g.minScore {
		return nil, nil
	}

	return &models.ParcelLocation{
		Address:   f.Properties.FullAddress.String(),
		Longitude: f.Geometry.Coordinates[0],
		Latitude:  f.Geometry.Coordinates[1],
	}, nil
}

// Lookup returns the parcel containing the geocoded address.
func (g *GISParcel) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	loc, err := g.Locate(ctx, address, city)
	if err != nil || loc == nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("geometry", fmt.Sprintf("%s,%s", formatCoord(loc.Longitude), formatCoord(loc.Latitude)))
	q.Set("geometryType", "esriGeometryPoint")
	q.Set("inSR", "4326")
	q.Set("spatialRel", "esriSpatialRelIntersects")
	q.Set("outFields", "*")
	q.Set("returnGeometry", "false")
	q.Set("f", "json")

	var page struct {
		Features []struct {
			Attributes map[string]Text `json:"attributes"`
		} `json:"features"`
	}
	found, err := g.client.GetJSON(ctx, g.parcelURL+"/query?"+q.Encode(), &page)
	if err != nil {
		return nil, err
	}
	if !found || len(page.Features) == 0 {
		return nil, nil
	}

	attrs := page.Features[0].Attributes
	rec := &models.RawRecord{
		ParcelID: attrs["PID"].String(),
		Address:  loc.Address,
		Zoning:   attrs["ZONING"].String(),
	}
	if sqft := attrs["PARCEL_AREA_SQFT"].String(); sqft != "" {
		rec.LotSize = sqft + " sq ft"
	} else if sqm := attrs["FEATURE_AREA_SQM"].String(); sqm != "" {
		rec.LotSize = sqm + " m2"
	}
	if rec.Zoning == "" && g.zoning != nil {
		if code, ok := g.zoning.ZoningAt(loc.Latitude, loc.Longitude); ok {
			rec.Zoning = code
			rec.Note = "zoning from local layer"
		}
	}
	return rec, nil
}

func formatCoord(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
