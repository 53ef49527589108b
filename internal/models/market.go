package models

// Trend is the coarse direction of comparable sold prices over time.
type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

// PriceRange is the minimum and maximum usable comparable price.
type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// MarketStatistics is derived from a comparable set on every resolution and
// is never stored on its own.
type MarketStatistics struct {
	AveragePricePerArea float64    `json:"average_price_per_sqft"`
	Trend               Trend      `json:"trend"`
	AverageDaysOnMarket float64    `json:"average_days_on_market"`
	PriceRange          PriceRange `json:"price_range"`
	SampleSize          int        `json:"sample_size"`
}
