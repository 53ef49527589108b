package source

import (
	"fmt"
	"math"
	"strings"

	shp "github.com/jonas-p/go-shp"
)

// zoningAttrs are the DBF columns tried, in order, for the zoning code.
var zoningAttrs = []string{"ZONING", "BASE_ZONIN", "ZONE_CODE"}

// zoningFeature is a polygon (possibly multi-part) from a zoning shapefile
// together with its attribute table values.
type zoningFeature struct {
	Parts  [][][2]float64 // each part is a closed ring of [lat, lon] points
	Attrs  map[string]string
	MinLat float64
	MinLon float64
	MaxLat float64
	MaxLon float64
}

// ZoningLayer is an in-memory set of zoning polygons in WGS84. Safe for
// concurrent reads once loaded.
type ZoningLayer struct {
	features []zoningFeature
}

// LoadZoningLayer reads every shapefile in paths. Later layers are searched
// after earlier ones, so overlays should come last.
func LoadZoningLayer(paths ...string) (*ZoningLayer, error) {
	l := &ZoningLayer{}
	for _, p := range paths {
		feats, err := loadZoningShapefile(p)
		if err != nil {
			return nil, fmt.Errorf("source: load zoning shapefile %s: %w", p, err)
		}
		l.features = append(l.features, feats...)
	}
	return l, nil
}

// Len reports the number of polygons loaded.
func (l *ZoningLayer) Len() int { return len(l.features) }

// ZoningAt returns the zoning code of the first polygon containing the point.
func (l *ZoningLayer) ZoningAt(lat, lon float64) (string, bool) {
	for _, z := range l.features {
		if lat < z.MinLat || lat > z.MaxLat || lon < z.MinLon || lon > z.MaxLon {
			continue
		}
		if !z.contains(lat, lon) {
			continue
		}
		for _, name := range zoningAttrs {
			if v := strings.TrimSpace(z.Attrs[name]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}

// contains applies the even-odd rule across every ring of the feature, so a
// point inside a hole is outside the polygon.
func (z zoningFeature) contains(lat, lon float64) bool {
	inside := false
	for _, ring := range z.Parts {
		if pointInPolygon(lat, lon, ring) {
			inside = !inside
		}
	}
	return inside
}

func loadZoningShapefile(path string) ([]zoningFeature, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	fields := r.Fields()

	var features []zoningFeature
	for r.Next() {
		idx, shape := r.Shape()
		poly, ok := shape.(*shp.Polygon)
		if !ok {
			continue
		}

		numParts := len(poly.Parts)
		parts := make([][][2]float64, numParts)

		minLat, minLon := math.MaxFloat64, math.MaxFloat64
		maxLat, maxLon := -math.MaxFloat64, -math.MaxFloat64

		for partIdx := 0; partIdx < numParts; partIdx++ {
			start := poly.Parts[partIdx]
			end := int32(len(poly.Points))
			if partIdx+1 < numParts {
				end = poly.Parts[partIdx+1]
			}
			ring := make([][2]float64, 0, int(end-start))
			for i := start; i < end; i++ {
				pt := poly.Points[i]
				ring = append(ring, [2]float64{pt.Y, pt.X})
				minLat = math.Min(minLat, pt.Y)
				maxLat = math.Max(maxLat, pt.Y)
				minLon = math.Min(minLon, pt.X)
				maxLon = math.Max(maxLon, pt.X)
			}
			parts[partIdx] = ring
		}

		attrs := make(map[string]string, len(fields))
		for i, f := range fields {
			attrs[strings.ToUpper(f.String())] = strings.Trim(r.ReadAttribute(idx, i), "\x00 ")
		}

		features = append(features, zoningFeature{
			Parts:  parts,
			Attrs:  attrs,
			MinLat: minLat,
			MinLon: minLon,
			MaxLat: maxLat,
			MaxLon: maxLon,
		})
	}
	return features, nil
}

// pointInPolygon is the ray-casting test; shapefile rings are already closed.
func pointInPolygon(lat, lon float64, ring [][2]float64) bool {
	inside := false
	j := len(ring) - 1
	for i := 0; i < len(ring); i++ {
		yi, xi := ring[i][0], ring[i][1]
		yj, xj := ring[j][0], ring[j][1]
		if ((yi > lat) != (yj > lat)) && (lon < (xj-xi)*(lat-yi)/(yj-yi)+xi) {
			inside = !inside
		}
		j = i
	}
	return inside
}
