// Package bootstrap wires sources, stores and the resolver from configuration.
package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"property-resolver/internal/cache"
	"property-resolver/internal/config"
	"property-resolver/internal/metrics"
	"property-resolver/internal/repository"
	"property-resolver/internal/service"
	"property-resolver/internal/source"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

// App holds everything the binaries serve from.
type App struct {
	Resolver *service.Resolver
	GeoCode  *service.GeoCodeService
	Zoning   *service.ZoningService
	Registry *source.Registry
	Metrics  *metrics.Metrics

	assessment  []service.AssessmentSource
	comparables []service.ComparablesSource
	closers     []io.Closer
}

// Build assembles the assessment chain in precedence order: active listings,
// municipal open data, Postgres roll, Oracle roll, assessment search, GIS
// parcel. Steps without configuration are left out. reg may be nil.
func Build(ctx context.Context, cfg config.Config, reg prometheus.Registerer) (*App, error) {
	app := &App{}
	if err := app.build(ctx, cfg, reg); err != nil {
		app.Close()
		return nil, err
	}

	log.Info().
		Strs("assessment_chain", app.AssessmentChain()).
		Strs("comparables_chain", app.ComparablesChain()).
		Bool("cache", cfg.CacheTTL > 0).
		Msg("resolver ready")
	return app, nil
}

func (a *App) build(ctx context.Context, cfg config.Config, reg prometheus.Registerer) error {
	if reg != nil {
		a.Metrics = metrics.NewMetrics(reg)
	}

	clientCfg := source.ClientConfig{
		Timeout:   cfg.AdapterTimeout,
		RateLimit: cfg.SourceRateLimit,
		Burst:     cfg.SourceBurst,
	}
	listingCfg := clientCfg
	if cfg.ListingsAPIKey != "" {
		listingCfg.Headers = map[string]string{"X-API-Key": cfg.ListingsAPIKey}
	}

	portals := source.DefaultPortals()
	if cfg.PortalsFile != "" {
		overrides, err := source.LoadPortals(cfg.PortalsFile)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		portals = source.MergePortals(portals, overrides)
	}
	a.Registry = source.NewRegistry(portals, clientCfg)

	// Typed nils must not leak into the interfaces below.
	var zoning source.ZoningLookup
	var zoningSvc service.ZoningLookup
	if cfg.ZoningShapefile != "" {
		layer, err := source.LoadZoningLayer(cfg.ZoningShapefile)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		log.Info().Int("polygons", layer.Len()).Str("file", cfg.ZoningShapefile).Msg("zoning layer loaded")
		zoning, zoningSvc = layer, layer
	}
	a.Zoning = service.NewZoningService(zoningSvc)

	var active *source.ActiveListings
	if cfg.ActiveListingsURL != "" {
		active = source.NewActiveListings(cfg.ActiveListingsURL, source.NewClient("active-listings", listingCfg))
		a.assessment = append(a.assessment, active)
	}

	a.assessment = append(a.assessment, a.Registry)

	if cfg.DBSource != "" {
		pool, err := pgxpool.New(ctx, cfg.DBSource)
		if err != nil {
			return fmt.Errorf("bootstrap: postgres roll: %w", err)
		}
		a.closers = append(a.closers, closerFunc(pool.Close))
		a.assessment = append(a.assessment, repository.NewPostgresRoll(pool))
	}

	if dsn := oracleDSN(cfg); dsn != "" {
		db, err := repository.OpenOracle(ctx, dsn)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		a.closers = append(a.closers, db)
		roll, err := repository.NewOracleRoll(db, cfg.OracleTable)
		if err != nil {
			return fmt.Errorf("bootstrap: %w", err)
		}
		a.assessment = append(a.assessment, roll)
	}

	if cfg.AssessmentSearchURL != "" {
		a.assessment = append(a.assessment,
			source.NewAssessmentSearch(cfg.AssessmentSearchURL, source.NewClient("assessment-search", clientCfg)))
	}

	var locator service.Locator
	if cfg.GeocoderURL != "" && cfg.ParcelURL != "" {
		gis := source.NewGISParcel(cfg.GeocoderURL, cfg.ParcelURL, float64(cfg.GeocoderMinScore),
			source.NewClient("gis-parcel", clientCfg), zoning)
		a.assessment = append(a.assessment, gis)
		locator = gis
	}
	a.GeoCode = service.NewGeoCodeService(locator, zoningSvc)

	if cfg.SoldListingsURL != "" {
		a.comparables = append(a.comparables,
			source.NewSoldListings(cfg.SoldListingsURL, source.NewClient("sold-listings", listingCfg)))
	}
	if active != nil {
		a.comparables = append(a.comparables, active)
	}

	opts := []service.Option{service.WithMetrics(a.Metrics)}
	if cfg.CacheTTL > 0 {
		c, err := a.buildCache(ctx, cfg)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithCache(c, cfg.CacheTTL))
	}

	a.Resolver = service.NewResolver(a.assessment, a.comparables, service.ResolverConfig{
		AdapterTimeout:   cfg.AdapterTimeout,
		ComparablesLimit: cfg.ComparablesLimit,
	}, opts...)
	return nil
}

func (a *App) buildCache(ctx context.Context, cfg config.Config) (service.Cache, error) {
	if cfg.RedisAddr == "" {
		mem := cache.NewMemory()
		sweepCtx, cancel := context.WithCancel(context.Background())
		go sweep(sweepCtx, mem, cfg.CacheTTL)
		a.closers = append(a.closers, closerFunc(cancel))
		return mem, nil
	}

	r, err := cache.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "propres:")
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	a.closers = append(a.closers, r)
	return r, nil
}

// sweep drops expired entries so an idle memory cache does not keep them.
func sweep(ctx context.Context, mem *cache.Memory, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := mem.Sweep(); n > 0 {
				log.Debug().Int("evicted", n).Msg("cache swept")
			}
		}
	}
}

// AssessmentChain lists the assessment sources in precedence order.
func (a *App) AssessmentChain() []string {
	names := make([]string, 0, len(a.assessment))
	for _, s := range a.assessment {
		names = append(names, s.Name())
	}
	return names
}

// ComparablesChain lists the comparables sources in merge order.
func (a *App) ComparablesChain() []string {
	names := make([]string, 0, len(a.comparables))
	for _, s := range a.comparables {
		names = append(names, s.Name())
	}
	return names
}

// Close releases database pools, the cache and background goroutines.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
	a.closers = nil
}

type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

// oracleDSN prefers ORACLE_DSN and otherwise assembles one from the
// ORACLE_HOST family of keys. Empty disables the Oracle roll.
func oracleDSN(cfg config.Config) string {
	if cfg.OracleDSN != "" {
		return cfg.OracleDSN
	}
	if cfg.OracleHost == "" {
		return ""
	}
	return repository.OracleDSN(repository.OracleConfig{
		Host:           cfg.OracleHost,
		Port:           cfg.OraclePort,
		Service:        cfg.OracleService,
		Username:       cfg.OracleUser,
		Password:       cfg.OraclePassword,
		WalletLocation: cfg.OracleWallet,
	})
}
