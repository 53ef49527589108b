package source

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"property-resolver/internal/models"
	"property-resolver/internal/normalize"
)

// Query dialects understood by the registry.
const (
	DialectODS    = "ods"
	DialectArcGIS = "arcgis"
)

// FieldMap names the dataset columns that carry each record field. A portal
// sets either Address or the HouseNumber/Street pair.
type FieldMap struct {
	PID              string   `yaml:"pid"`
	Address          string   `yaml:"address"`
	HouseNumber      string   `yaml:"house_number"`
	Street           string   `yaml:"street"`
	LandValue        string   `yaml:"land_value"`
	ImprovementValue string   `yaml:"improvement_value"`
	TotalValue       string   `yaml:"total_value"`
	LotSize          string   `yaml:"lot_size"`
	Zoning           string   `yaml:"zoning"`
	PropertyType     string   `yaml:"property_type"`
	YearBuilt        string   `yaml:"year_built"`
	FloorArea        string   `yaml:"floor_area"`
	Legal            []string `yaml:"legal"`
}

// Portal describes one municipal open-data endpoint.
type Portal struct {
	City    string   `yaml:"city"`
	Dialect string   `yaml:"dialect"`
	BaseURL string   `yaml:"base_url"`
	Dataset string   `yaml:"dataset"`
	Fields  FieldMap `yaml:"fields"`
}

func (p Portal) validate() error {
	if normalize.CityKey(p.City) == "" {
		return fmt.Errorf("portal without city")
	}
	if p.Dialect != DialectODS && p.Dialect != DialectArcGIS {
		return fmt.Errorf("portal %s: unknown dialect %q", p.City, p.Dialect)
	}
	if p.BaseURL == "" {
		return fmt.Errorf("portal %s: base_url is required", p.City)
	}
	if p.Dialect == DialectODS && p.Dataset == "" {
		return fmt.Errorf("portal %s: dataset is required for ods", p.City)
	}
	if p.Fields.Address == "" && (p.Fields.HouseNumber == "" || p.Fields.Street == "") {
		return fmt.Errorf("portal %s: address or house_number/street fields are required", p.City)
	}
	return nil
}

// DefaultPortals returns the portals known without any configuration.
func DefaultPortals() []Portal {
	return []Portal{
		{
			City:    "Vancouver",
			Dialect: DialectODS,
			BaseURL: "https://opendata.vancouver.ca",
			Dataset: "property-tax-report",
			Fields: FieldMap{
				PID:              "pid",
				HouseNumber:      "from_civic_number",
				Street:           "street_name",
				LandValue:        "current_land_value",
				ImprovementValue: "current_improvement_value",
				Zoning:           "zoning_district",
				YearBuilt:        "year_built",
				Legal:            []string{"legal_type", "lot", "block", "plan", "district_lot"},
			},
		},
	}
}

// LoadPortals reads a YAML portal list of the form `portals: [...]`.
func LoadPortals(path string) ([]Portal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: read portals: %w", err)
	}
	var doc struct {
		Portals []Portal `yaml:"portals"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("source: parse portals: %w", err)
	}
	for _, p := range doc.Portals {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
	}
	return doc.Portals, nil
}

// MergePortals returns base with every override replacing the portal of the
// same city.
func MergePortals(base, overrides []Portal) []Portal {
	byCity := make(map[string]Portal, len(base)+len(overrides))
	for _, p := range base {
		byCity[normalize.CityKey(p.City)] = p
	}
	for _, p := range overrides {
		byCity[normalize.CityKey(p.City)] = p
	}
	out := make([]Portal, 0, len(byCity))
	for _, p := range byCity {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return normalize.CityKey(out[i].City) < normalize.CityKey(out[j].City)
	})
	return out
}

type portalClient struct {
	portal Portal
	client *Client
}

// Registry routes lookups to the open-data portal of the requested city.
// Cities without a portal are absent without any network call.
type Registry struct {
	portals map[string]portalClient
}

// NewRegistry creates a registry over portals, giving each its own client.
func NewRegistry(portals []Portal, cfg ClientConfig) *Registry {
	r := &Registry{portals: make(map[string]portalClient, len(portals))}
	for _, p := range portals {
		key := normalize.CityKey(p.City)
		r.portals[key] = portalClient{
			portal: p,
			client: NewClient("opendata:"+key, cfg),
		}
	}
	return r
}

func (r *Registry) Name() string            { return "municipal-open-data" }
func (r *Registry) Kind() models.SourceKind { return models.KindMunicipalOpenData }

// Portals lists the configured portals ordered by city.
func (r *Registry) Portals() []Portal {
	out := make([]Portal, 0, len(r.portals))
	for _, pc := range r.portals {
		out = append(out, pc.portal)
	}
	sort.Slice(out, func(i, j int) bool {
		return normalize.CityKey(out[i].City) < normalize.CityKey(out[j].City)
	})
	return out
}

// Lookup queries the city's portal for address.
func (r *Registry) Lookup(ctx context.Context, address, city string) (*models.RawRecord, error) {
	pc, ok := r.portals[normalize.CityKey(city)]
	if !ok {
		return nil, nil
	}
	want := normalize.ParseAddress(address, city)
	if want.HouseNumber == "" || len(want.Street) == 0 {
		return nil, nil
	}

	rows, err := pc.query(ctx, want)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	best := rows[0]
	for _, row := range rows {
		if normalize.MatchAddress(address, city, pc.portal.address(row)) {
			best = row
			break
		}
	}
	rec := pc.portal.record(best)
	rec.Source = pc.client.Name()
	return &rec, nil
}

func (pc portalClient) query(ctx context.Context, want normalize.Address) ([]map[string]Text, error) {
	p := pc.portal
	token := strings.ToUpper(want.Street[0])

	switch p.Dialect {
	case DialectArcGIS:
		var where string
		if p.Fields.Address != "" {
			where = fmt.Sprintf("UPPER(%s) LIKE '%s %%%s%%'", p.Fields.Address, arcgisQuote(want.HouseNumber), arcgisQuote(token))
		} else {
			where = fmt.Sprintf("%s = '%s' AND UPPER(%s) LIKE '%%%s%%'",
				p.Fields.HouseNumber, arcgisQuote(want.HouseNumber), p.Fields.Street, arcgisQuote(token))
		}
		q := url.Values{}
		q.Set("where", where)
		q.Set("outFields", "*")
		q.Set("returnGeometry", "false")
		q.Set("f", "json")

		var page struct {
			Features []struct {
				Attributes map[string]Text `json:"attributes"`
			} `json:"features"`
		}
		found, err := pc.client.GetJSON(ctx, strings.TrimRight(p.BaseURL, "/")+"/query?"+q.Encode(), &page)
		if err != nil || !found {
			return nil, err
		}
		rows := make([]map[string]Text, 0, len(page.Features))
		for _, f := range page.Features {
			rows = append(rows, f.Attributes)
		}
		return rows, nil

	default:
		var where string
		if p.Fields.Address != "" {
			where = fmt.Sprintf(`search(%s, "%s %s")`, p.Fields.Address, want.HouseNumber, odsQuote(token))
		} else {
			where = fmt.Sprintf(`%s = "%s" AND search(%s, "%s")`,
				p.Fields.HouseNumber, odsQuote(want.HouseNumber), p.Fields.Street, odsQuote(token))
		}
		q := url.Values{}
		q.Set("where", where)
		q.Set("limit", "20")

		var page struct {
			Results []map[string]Text `json:"results"`
		}
		endpoint := fmt.Sprintf("%s/api/explore/v2.1/catalog/datasets/%s/records?%s",
			strings.TrimRight(p.BaseURL, "/"), url.PathEscape(p.Dataset), q.Encode())
		found, err := pc.client.GetJSON(ctx, endpoint, &page)
		if err != nil || !found {
			return nil, err
		}
		return page.Results, nil
	}
}

func (p Portal) address(row map[string]Text) string {
	if p.Fields.Address != "" {
		return row[p.Fields.Address].String()
	}
	return strings.TrimSpace(row[p.Fields.HouseNumber].String() + " " + row[p.Fields.Street].String())
}

func (p Portal) record(row map[string]Text) models.RawRecord {
	get := func(field string) string {
		if field == "" {
			return ""
		}
		return row[field].String()
	}

	var legal []string
	for _, f := range p.Fields.Legal {
		if v := get(f); v != "" {
			legal = append(legal, v)
		}
	}

	return models.RawRecord{
		ParcelID:         get(p.Fields.PID),
		Address:          p.address(row),
		LandValue:        get(p.Fields.LandValue),
		ImprovementValue: get(p.Fields.ImprovementValue),
		TotalValue:       get(p.Fields.TotalValue),
		LotSize:          get(p.Fields.LotSize),
		Zoning:           get(p.Fields.Zoning),
		PropertyType:     get(p.Fields.PropertyType),
		YearBuilt:        get(p.Fields.YearBuilt),
		FloorArea:        get(p.Fields.FloorArea),
		LegalDescription: strings.Join(legal, " "),
	}
}

func arcgisQuote(s string) string { return strings.ReplaceAll(s, "'", "''") }

func odsQuote(s string) string { return strings.ReplaceAll(s, `"`, `\"`) }
