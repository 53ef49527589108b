package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"property-resolver/internal/integrity"
	"property-resolver/internal/market"
	"property-resolver/internal/metrics"
	"property-resolver/internal/models"
	"property-resolver/internal/normalize"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidInput is returned by Resolve for an empty address or city. It is
// the only error Resolve returns.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultAdapterTimeout   = 5 * time.Second
	DefaultComparablesLimit = 15
)

// AssessmentSource is one step of the assessment chain. Lookup returns
// (nil, nil) when the source has no record for the address.
type AssessmentSource interface {
	Name() string
	Kind() models.SourceKind
	Lookup(ctx context.Context, address, city string) (*models.RawRecord, error)
}

// ComparablesSource feeds the comparables chain.
type ComparablesSource interface {
	Name() string
	Comparables(ctx context.Context, city string, limit int) ([]models.RawComparable, error)
}

// Cache stores encoded results between resolutions.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ResolverConfig tunes a Resolver. Zero values take the defaults.
type ResolverConfig struct {
	AdapterTimeout   time.Duration
	ComparablesLimit int
}

// Option configures optional Resolver collaborators.
type Option func(*Resolver)

// WithCache enables result caching for ttl.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *Resolver) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithMetrics records adapter and resolution outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) { r.tracer = t }
}

// Resolver runs the assessment chain and the comparables chain for one
// address and composes their outputs. It holds no per-request state and is
// safe for concurrent use.
type Resolver struct {
	assessment  []AssessmentSource
	comparables []ComparablesSource
	guard       *integrity.Guard
	cfg         ResolverConfig

	cache    Cache
	cacheTTL time.Duration
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// NewResolver creates a resolver. assessment is tried in order until a step is
// accepted; comparables are queried concurrently and merged in order.
func NewResolver(assessment []AssessmentSource, comparables []ComparablesSource, cfg ResolverConfig, opts ...Option) *Resolver {
	if cfg.AdapterTimeout <= 0 {
		cfg.AdapterTimeout = DefaultAdapterTimeout
	}
	if cfg.ComparablesLimit <= 0 {
		cfg.ComparablesLimit = DefaultComparablesLimit
	}
	r := &Resolver{
		assessment:  assessment,
		comparables: comparables,
		guard:       integrity.NewGuard(),
		cfg:         cfg,
		tracer:      otel.Tracer("property-resolver/service"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve gathers the assessment record, comparable sales and market
// statistics for address in city. Source failures never fail the call; they
// degrade to an absent assessment or fewer comparables.
func (r *Resolver) Resolve(ctx context.Context, address, city string) (models.PropertyDataResult, error) {
	address = strings.TrimSpace(address)
	city = strings.TrimSpace(city)
	if address == "" || city == "" {
		return models.PropertyDataResult{}, fmt.Errorf("service: address and city are required: %w", ErrInvalidInput)
	}

	start := time.Now()
	logger := log.With().
		Str("request_id", uuid.NewString()).
		Str("address", address).
		Str("city", city).
		Logger()
	ctx = logger.WithContext(ctx)

	ctx, span := r.tracer.Start(ctx, "resolver.Resolve",
		trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	key := CacheKey(address, city)
	if cached, ok := r.fromCache(ctx, key); ok {
		span.SetAttributes(attribute.Bool("cache_hit", true))
		cached.Address = address
		cached.City = city
		return cached, nil
	}

	var (
		assessment                        *models.AssessmentRecord
		comparables                       []models.ComparableSale
		assessmentDegraded, compsDegraded bool
	)
	var g errgroup.Group
	g.Go(func() error {
		assessment, assessmentDegraded = r.resolveAssessment(ctx, address, city)
		return nil
	})
	g.Go(func() error {
		comparables, compsDegraded = r.resolveComparables(ctx, city)
		return nil
	})
	_ = g.Wait()

	result := Compose(address, city, assessment, comparables, market.Analyze(comparables))

	status := result.AssessmentStatus()
	span.SetAttributes(attribute.String("assessment", string(status)))
	r.metrics.ObserveResolution(string(status), time.Since(start))
	logger.Info().
		Str("assessment", string(status)).
		Int("comparables", len(result.Comparables)).
		Dur("elapsed", time.Since(start)).
		Msg("property resolved")

	// A degraded result holds for this call only.
	switch {
	case ctx.Err() != nil:
		logger.Debug().Err(ctx.Err()).Msg("result not cached: request cancelled")
	case assessmentDegraded || compsDegraded:
		logger.Debug().Msg("result not cached: a source was unavailable")
	default:
		r.toCache(ctx, key, result)
	}
	return result, nil
}

// resolveAssessment walks the chain and returns the first accepted record, or
// nil when every step is exhausted. degraded reports that a step before the
// answer could not be consulted.
func (r *Resolver) resolveAssessment(ctx context.Context, address, city string) (rec *models.AssessmentRecord, degraded bool) {
	for i, src := range r.assessment {
		if ctx.Err() != nil {
			zerolog.Ctx(ctx).Debug().Err(ctx.Err()).Msg("assessment chain cancelled")
			for _, rest := range r.assessment[i:] {
				r.metrics.ObserveAdapter(rest.Name(), metrics.OutcomeSkipped, 0)
			}
			return nil, true
		}
		found, unavailable := r.tryAssessment(ctx, src, address, city)
		degraded = degraded || unavailable
		if found != nil {
			return found, degraded
		}
	}
	return nil, degraded
}

func (r *Resolver) tryAssessment(ctx context.Context, src AssessmentSource, address, city string) (*models.AssessmentRecord, bool) {
	logger := zerolog.Ctx(ctx).With().
		Str("source", src.Name()).
		Str("kind", string(src.Kind())).
		Logger()

	stepCtx, cancel := context.WithTimeout(ctx, r.cfg.AdapterTimeout)
	defer cancel()
	stepCtx, span := r.tracer.Start(stepCtx, "adapter.Lookup",
		trace.WithAttributes(attribute.String("source", src.Name())))
	defer span.End()

	start := time.Now()
	raw, err := src.Lookup(stepCtx, address, city)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeHit
	defer func() {
		span.SetAttributes(attribute.String("outcome", outcome))
		r.metrics.ObserveAdapter(src.Name(), outcome, elapsed)
	}()

	if err != nil {
		outcome = metrics.OutcomeUnavailable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		logger.Warn().Err(err).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("source unavailable")
		return nil, true
	}
	if raw == nil {
		outcome = metrics.OutcomeAbsent
		logger.Debug().Str("outcome", outcome).Msg("no record")
		return nil, false
	}
	if !normalize.MatchAddress(address, city, raw.Address) {
		outcome = metrics.OutcomeMismatch
		logger.Debug().Str("outcome", outcome).Str("candidate", raw.Address).Msg("candidate address does not match")
		return nil, false
	}

	name := raw.Source
	if name == "" {
		name = src.Name()
	}
	candidate := normalize.Assessment(*raw, city, models.Provenance{Kind: src.Kind(), Source: name})

	accepted, err := r.guard.Accept(candidate, src.Kind())
	if err != nil {
		outcome = metrics.OutcomeRejected
		ev := logger.Info().Str("outcome", outcome)
		var v *integrity.Violation
		if errors.As(err, &v) {
			ev = ev.Str("reason", v.Reason)
		}
		ev.Msg("candidate rejected by integrity guard")
		return nil, false
	}
	if accepted.ParcelID == "" && accepted.TotalAssessedValue == 0 {
		outcome = metrics.OutcomeAbsent
		logger.Debug().Str("outcome", outcome).Msg("record has neither parcel id nor assessed value")
		return nil, false
	}

	logger.Debug().Str("outcome", outcome).Str("parcel_id", accepted.ParcelID).Msg("assessment accepted")
	return accepted, false
}

// resolveComparables queries every comparables source concurrently, then
// merges in source order, deduplicating and capping the result. degraded
// reports that at least one feed failed.
func (r *Resolver) resolveComparables(ctx context.Context, city string) (out []models.ComparableSale, degraded bool) {
	batches := make([][]models.RawComparable, len(r.comparables))
	failed := make([]bool, len(r.comparables))

	var g errgroup.Group
	for i, src := range r.comparables {
		g.Go(func() error {
			batches[i], failed[i] = r.fetchComparables(ctx, src, city)
			return nil
		})
	}
	_ = g.Wait()
	for _, f := range failed {
		degraded = degraded || f
	}

	limit := r.cfg.ComparablesLimit
	seen := make(map[string]bool)
	out = make([]models.ComparableSale, 0, limit)
	for i, batch := range batches {
		for _, raw := range batch {
			c := normalize.Comparable(raw, r.comparables[i].Name())
			k := comparableKey(c)
			if seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, c)
			if len(out) == limit {
				return out, degraded
			}
		}
	}
	return out, degraded
}

func (r *Resolver) fetchComparables(ctx context.Context, src ComparablesSource, city string) ([]models.RawComparable, bool) {
	logger := zerolog.Ctx(ctx).With().Str("source", src.Name()).Logger()

	stepCtx, cancel := context.WithTimeout(ctx, r.cfg.AdapterTimeout)
	defer cancel()
	stepCtx, span := r.tracer.Start(stepCtx, "adapter.Comparables",
		trace.WithAttributes(attribute.String("source", src.Name())))
	defer span.End()

	start := time.Now()
	raws, err := src.Comparables(stepCtx, city, r.cfg.ComparablesLimit)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeHit
	switch {
	case err != nil:
		outcome = metrics.OutcomeUnavailable
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(stepCtx.Err(), context.DeadlineExceeded) {
			outcome = metrics.OutcomeTimeout
		}
		logger.Warn().Err(err).Str("outcome", outcome).Dur("elapsed", elapsed).Msg("source unavailable")
		raws = nil
	case len(raws) == 0:
		outcome = metrics.OutcomeAbsent
		logger.Debug().Str("outcome", outcome).Msg("no comparables")
	default:
		logger.Debug().Str("outcome", outcome).Int("count", len(raws)).Msg("comparables fetched")
	}
	span.SetAttributes(attribute.String("outcome", outcome))
	r.metrics.ObserveAdapter(src.Name(), outcome, elapsed)
	return raws, err != nil
}

// comparableKey identifies a listing across feeds: its listing id, or the
// address, sale date and price when the feed has no id.
func comparableKey(c models.ComparableSale) string {
	if id := strings.ToLower(strings.TrimSpace(c.ListingID)); id != "" {
		return "id:" + id
	}
	sold := ""
	if c.SoldDate != nil {
		sold = c.SoldDate.Format("2006-01-02")
	}
	return "addr:" + normalize.CanonicalAddress(c.Address) + "|" + sold + "|" + strconv.FormatFloat(c.Price(), 'f', 2, 64)
}

// CacheKey is the result cache key for a request.
func CacheKey(address, city string) string {
	return "property:" + normalize.CityKey(city) + ":" + normalize.CanonicalAddress(address)
}

func (r *Resolver) fromCache(ctx context.Context, key string) (models.PropertyDataResult, bool) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return models.PropertyDataResult{}, false
	}
	logger := zerolog.Ctx(ctx)

	data, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.metrics.ObserveCache("error")
		logger.Warn().Err(err).Msg("result cache read failed")
		return models.PropertyDataResult{}, false
	}
	if !ok {
		r.metrics.ObserveCache("miss")
		return models.PropertyDataResult{}, false
	}

	var result models.PropertyDataResult
	if err := json.Unmarshal(data, &result); err != nil {
		r.metrics.ObserveCache("error")
		logger.Warn().Err(err).Msg("discarding undecodable cache entry")
		if err := r.cache.Delete(ctx, key); err != nil {
			logger.Warn().Err(err).Msg("result cache delete failed")
		}
		return models.PropertyDataResult{}, false
	}
	if result.Comparables == nil {
		result.Comparables = []models.ComparableSale{}
	}
	r.metrics.ObserveCache("hit")
	logger.Debug().Str("assessment", string(result.AssessmentStatus())).Msg("result served from cache")
	return result, true
}

func (r *Resolver) toCache(ctx context.Context, key string, result models.PropertyDataResult) {
	if r.cache == nil || r.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("result not cacheable")
		return
	}
	if err := r.cache.Set(ctx, key, data, r.cacheTTL); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("result cache write failed")
	}
}
