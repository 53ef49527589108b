package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variable.
type Config struct {
	ServerAddress string `mapstructure:"SERVER_ADDRESS"`
	LogLevel      string `mapstructure:"LOG_LEVEL"`
	LogFormat     string `mapstructure:"LOG_FORMAT"`

	AdapterTimeout   time.Duration `mapstructure:"ADAPTER_TIMEOUT"`
	ComparablesLimit int           `mapstructure:"COMPARABLES_LIMIT"`
	CacheTTL         time.Duration `mapstructure:"CACHE_TTL"`
	RedisAddr        string        `mapstructure:"REDIS_ADDR"`
	RedisPassword    string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int           `mapstructure:"REDIS_DB"`

	DBSource    string `mapstructure:"DB_SOURCE"`
	OracleDSN   string `mapstructure:"ORACLE_DSN"`
	OracleTable string `mapstructure:"ORACLE_TABLE"`
	// Used to build the Oracle DSN when ORACLE_DSN is empty.
	OracleHost     string `mapstructure:"ORACLE_HOST"`
	OraclePort     string `mapstructure:"ORACLE_PORT"`
	OracleService  string `mapstructure:"ORACLE_SERVICE"`
	OracleUser     string `mapstructure:"ORACLE_USER"`
	OraclePassword string `mapstructure:"ORACLE_PASSWORD"`
	OracleWallet   string `mapstructure:"ORACLE_WALLET"`

	ActiveListingsURL   string `mapstructure:"ACTIVE_LISTINGS_URL"`
	SoldListingsURL     string `mapstructure:"SOLD_LISTINGS_URL"`
	ListingsAPIKey      string `mapstructure:"LISTINGS_API_KEY"`
	AssessmentSearchURL string `mapstructure:"ASSESSMENT_SEARCH_URL"`
	GeocoderURL         string `mapstructure:"GEOCODER_URL"`
	GeocoderMinScore    int    `mapstructure:"GEOCODER_MIN_SCORE"`
	ParcelURL           string `mapstructure:"PARCEL_URL"`
	ZoningShapefile     string `mapstructure:"ZONING_SHAPEFILE"`
	PortalsFile         string `mapstructure:"PORTALS_FILE"`

	SourceRateLimit float64 `mapstructure:"SOURCE_RATE_LIMIT"`
	SourceBurst     int     `mapstructure:"SOURCE_BURST"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":        "0.0.0.0:8080",
	"LOG_LEVEL":             "info",
	"LOG_FORMAT":            "auto",
	"ADAPTER_TIMEOUT":       "5s",
	"COMPARABLES_LIMIT":     15,
	"CACHE_TTL":             "15m",
	"REDIS_ADDR":            "",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"DB_SOURCE":             "",
	"ORACLE_DSN":            "",
	"ORACLE_TABLE":          "",
	"ORACLE_HOST":           "",
	"ORACLE_PORT":           "1521",
	"ORACLE_SERVICE":        "",
	"ORACLE_USER":           "",
	"ORACLE_PASSWORD":       "",
	"ORACLE_WALLET":         "",
	"ACTIVE_LISTINGS_URL":   "",
	"SOLD_LISTINGS_URL":     "",
	"LISTINGS_API_KEY":      "",
	"ASSESSMENT_SEARCH_URL": "",
	"GEOCODER_URL":          "",
	"GEOCODER_MIN_SCORE":    80,
	"PARCEL_URL":            "",
	"ZONING_SHAPEFILE":      "",
	"PORTALS_FILE":          "",
	"SOURCE_RATE_LIMIT":     5,
	"SOURCE_BURST":          5,
}

// LoadConfig reads configuration from app.env in path, then from the
// environment. A missing app.env is not an error.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("config: decode: %w", err)
	}
	if config.ComparablesLimit <= 0 {
		return config, fmt.Errorf("config: COMPARABLES_LIMIT must be positive, got %d", config.ComparablesLimit)
	}
	if config.AdapterTimeout <= 0 {
		return config, fmt.Errorf("config: ADAPTER_TIMEOUT must be positive, got %s", config.AdapterTimeout)
	}
	return config, nil
}
