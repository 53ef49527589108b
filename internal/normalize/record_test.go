package normalize

import (
	"testing"
	"time"

	"property-resolver/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessment(t *testing.T) {
	prov := models.Provenance{Kind: models.KindMunicipalOpenData, Source: "opendata:maple ridge"}

	t.Run("full record", func(t *testing.T) {
		raw := models.RawRecord{
			ParcelID:         " 012-345-678 ",
			Address:          "20387  Dale Dr",
			LandValue:        "$812,000",
			ImprovementValue: "$288,000",
			TotalValue:       "$1,100,000",
			LotSize:          "5,533 sq ft",
			Zoning:           "RS-1",
			PropertyType:     "Single Family",
			YearBuilt:        "1978",
			FloorArea:        "2,150 sqft",
		}

		rec := Assessment(raw, "Maple Ridge", prov)

		assert.Equal(t, "012-345-678", rec.ParcelID)
		assert.Equal(t, "20387 Dale Dr", rec.Address)
		assert.Equal(t, 812000.0, rec.LandValue)
		assert.Equal(t, 288000.0, rec.ImprovementValue)
		assert.Equal(t, 1100000.0, rec.TotalAssessedValue)
		assert.Equal(t, 5533.0, rec.LotSize)
		assert.Equal(t, "RS-1", rec.Zoning)
		require.NotNil(t, rec.YearBuilt)
		assert.Equal(t, 1978, *rec.YearBuilt)
		require.NotNil(t, rec.FloorArea)
		assert.Equal(t, 2150.0, *rec.FloorArea)
		assert.Equal(t, prov, rec.Provenance)
	})

	t.Run("total derived from components and zoning estimated", func(t *testing.T) {
		raw := models.RawRecord{ParcelID: "1", LandValue: "500000", ImprovementValue: "250000", YearBuilt: "unknown"}

		rec := Assessment(raw, "Surrey", prov)

		assert.Equal(t, 750000.0, rec.TotalAssessedValue)
		assert.Equal(t, "RF", rec.Zoning)
		assert.Equal(t, zoningEstimatedNote, rec.Provenance.Note)
		assert.Nil(t, rec.YearBuilt)
		assert.Nil(t, rec.FloorArea)
	})

	t.Run("market derived flag carried", func(t *testing.T) {
		rec := Assessment(models.RawRecord{TotalValue: "999000", MarketDerived: true, Zoning: "RS-1"}, "Vancouver", prov)
		assert.True(t, rec.Provenance.MarketDerived)
	})
}

func TestComparable(t *testing.T) {
	raw := models.RawComparable{
		ListingID:    "R2845123",
		Address:      "20411 Dale Dr",
		ListPrice:    "$1,049,000",
		SoldPrice:    "$1,020,000",
		DaysOnMarket: "18",
		ListDate:     "2024-02-01",
		SoldDate:     "2024-02-19T00:00:00Z",
		PropertyType: "House",
		Bedrooms:     "4",
		Bathrooms:    "2.5",
		FloorArea:    "2,230 sq ft",
	}

	c := Comparable(raw, "sold-listings")

	assert.Equal(t, "R2845123", c.ListingID)
	assert.Equal(t, 1049000.0, c.ListPrice)
	require.NotNil(t, c.SoldPrice)
	assert.Equal(t, 1020000.0, *c.SoldPrice)
	require.NotNil(t, c.DaysOnMarket)
	assert.Equal(t, 18, *c.DaysOnMarket)
	require.NotNil(t, c.ListDate)
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *c.ListDate)
	require.NotNil(t, c.SoldDate)
	assert.Equal(t, time.Date(2024, 2, 19, 0, 0, 0, 0, time.UTC), *c.SoldDate)
	require.NotNil(t, c.Bedrooms)
	assert.Equal(t, 4, *c.Bedrooms)
	require.NotNil(t, c.Bathrooms)
	assert.Equal(t, 2.5, *c.Bathrooms)
	require.NotNil(t, c.FloorArea)
	assert.Equal(t, 2230.0, *c.FloorArea)
	assert.Equal(t, "sold-listings", c.Source)

	empty := Comparable(models.RawComparable{ListPrice: "n/a"}, "active-listings")
	assert.Equal(t, 0.0, empty.ListPrice)
	assert.Nil(t, empty.SoldPrice)
	assert.Nil(t, empty.DaysOnMarket)
	assert.Nil(t, empty.SoldDate)
	assert.Nil(t, empty.FloorArea)
}
