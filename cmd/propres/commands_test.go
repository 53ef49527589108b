package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"property-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDollars(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{2760000, "$2,760,000"},
		{-1500.4, "-$1,500"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, dollars(tt.in))
	}
}

func TestPrintResult(t *testing.T) {
	year := 1954
	tests := []struct {
		name     string
		result   models.PropertyDataResult
		contains []string
		excludes []string
	}{
		{
			name: "found",
			result: models.PropertyDataResult{
				Address: "1234 W 41st Ave",
				City:    "Vancouver",
				Assessment: &models.AssessmentRecord{
					ParcelID:           "009-111-333",
					LandValue:          2450000,
					ImprovementValue:   310000,
					TotalAssessedValue: 2760000,
					Zoning:             "RS-1",
					YearBuilt:          &year,
					Provenance:         models.Provenance{Kind: models.KindMunicipalOpenData, Source: "opendata:vancouver"},
				},
				Market: models.MarketStatistics{Trend: models.TrendStable},
			},
			contains: []string{"found", "009-111-333", "$2,760,000", "opendata:vancouver", "1954"},
			excludes: []string{"enter values manually"},
		},
		{
			name: "absent",
			result: models.PropertyDataResult{
				Address: "1 Nowhere Rd",
				City:    "Maple Ridge",
				Market:  models.MarketStatistics{Trend: models.TrendStable},
			},
			contains: []string{"absent", "enter values manually", "Comparables:"},
			excludes: []string{"Total"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, printResult(&buf, tt.result))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, buf.String(), s)
			}
		})
	}
}

func TestPortalsCmd(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte("LOG_FORMAT=json\nCACHE_TTL=0\n"), 0o600))

	var buf bytes.Buffer
	root := newRootCmd(context.Background(), &buf)
	root.SetArgs([]string{"portals", "--config", dir})

	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "CITY")
	assert.Contains(t, buf.String(), "Vancouver")
	assert.Contains(t, buf.String(), "ods")
}

func TestResolveCmd_RequiresCity(t *testing.T) {
	var buf bytes.Buffer
	root := newRootCmd(context.Background(), &buf)
	root.SetArgs([]string{"resolve", "20387 Dale Drive"})

	assert.Error(t, root.Execute())
}
