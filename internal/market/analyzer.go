// Package market derives aggregate statistics from a comparable-sales sample.
package market

import (
	"math"
	"sort"

	"property-resolver/internal/models"
)

const (
	// trendThreshold is the relative change between the earliest and latest
	// sold prices beyond which the market is called rising or falling.
	trendThreshold = 0.05
	// trendWindow is how many sales are averaged at each end of the sample.
	trendWindow = 2
	// minTrendSample is the smallest dated sample that gets a non-stable trend.
	minTrendSample = 3
)

// Analyze computes MarketStatistics for comps. An empty or unusable sample
// yields zero values and TrendStable.
func Analyze(comps []models.ComparableSale) models.MarketStatistics {
	stats := models.MarketStatistics{Trend: TrendOf(comps)}

	var (
		perArea    []float64
		daysOnMkt  []float64
		priceCount int
	)
	for _, c := range comps {
		price := c.Price()
		if price <= 0 {
			continue
		}
		priceCount++
		if priceCount == 1 || price < stats.PriceRange.Min {
			stats.PriceRange.Min = price
		}
		if price > stats.PriceRange.Max {
			stats.PriceRange.Max = price
		}
		if c.FloorArea != nil && *c.FloorArea > 0 {
			perArea = append(perArea, price / *c.FloorArea)
		}
	}
	for _, c := range comps {
		if c.DaysOnMarket != nil && *c.DaysOnMarket >= 0 {
			daysOnMkt = append(daysOnMkt, float64(*c.DaysOnMarket))
		}
	}

	stats.SampleSize = priceCount
	stats.AveragePricePerArea = round2(mean(perArea))
	stats.AverageDaysOnMarket = round2(mean(daysOnMkt))
	return stats
}

// TrendOf classifies the direction of sold prices.
//
// This is a coarse heuristic, not a forecasting model and not a statistically
// validated trend test: sales with both a sold date and a sold price are
// ordered by date, and the mean of the earliest two is compared with the mean
// of the latest two. A change above +5% is rising, below -5% is falling.
// Fewer than three dated sales is always stable.
func TrendOf(comps []models.ComparableSale) models.Trend {
	type point struct {
		at    int64
		price float64
	}

	var pts []point
	for _, c := range comps {
		if c.SoldDate == nil || c.SoldDate.IsZero() || c.SoldPrice == nil || *c.SoldPrice <= 0 {
			continue
		}
		pts = append(pts, point{at: c.SoldDate.UnixNano(), price: *c.SoldPrice})
	}
	if len(pts) < minTrendSample {
		return models.TrendStable
	}

	sort.SliceStable(pts, func(i, j int) bool { return pts[i].at < pts[j].at })

	var early, late float64
	for i := 0; i < trendWindow; i++ {
		early += pts[i].price
		late += pts[len(pts)-1-i].price
	}
	early /= trendWindow
	late /= trendWindow

	change := (late - early) / early
	switch {
	case change > trendThreshold:
		return models.TrendRising
	case change < -trendThreshold:
		return models.TrendFalling
	default:
		return models.TrendStable
	}
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
