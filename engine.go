package sitelayout

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/franciszver/site-layout-optimizer/internal/geom"
)

// Engine runs the full layout pipeline: terrain, constraints, asset
// placement, road routing, cut/fill. Safe for concurrent use; identical
// in-flight requests collapse onto one computation and finished layouts
// are served from the cache.
type Engine struct {
	cfg    Config
	logger *log.Logger
	cache  ResultCache
	ttl    time.Duration

	group singleflight.Group
}

// Option tunes a new Engine.
type Option func(*Engine)

// WithLogger attaches a structured logger. The default discards.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithCache swaps the result cache, e.g. for one shared across engines.
func WithCache(c ResultCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithCacheTTL sets how long finished layouts stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(e *Engine) { e.ttl = ttl }
}

// New builds an engine with defaults filled in.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg.withDefaults(),
		logger: log.NewWithOptions(io.Discard, log.Options{}),
		cache:  NewMemoryCache(0),
		ttl:    defaultCacheTTL,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Config returns the effective (defaulted) configuration.
func (e *Engine) Config() Config { return e.cfg }

// Optimize computes a layout for the request. Results are immutable
// and may be shared between callers; treat them as read only.
//
// Requests carrying an Advisory bypass the cache and the in-flight
// collapse, since the advisory is opaque and can't be fingerprinted.
func (e *Engine) Optimize(ctx context.Context, req *Request) (*LayoutResult, error) {
	if req == nil {
		return nil, invalidf("nil request")
	}
	if len(req.Requirements) == 0 {
		return nil, invalidf("no asset requirements")
	}

	fp := Fingerprint(req, e.cfg)
	logger := e.logger.With("run", uuid.NewString()[:8], "fingerprint", fp[:12])

	if req.Advisory != nil {
		logger.Debug("advisory present, bypassing cache")
		return e.pipeline(ctx, req, fp, logger)
	}

	if cached, ok := e.cache.Get(fp); ok {
		logger.Debug("cache hit")
		return cached, nil
	}

	v, err, shared := e.group.Do(fp, func() (interface{}, error) {
		res, err := e.pipeline(ctx, req, fp, logger)
		if err != nil {
			return nil, err
		}
		e.cache.Set(fp, res, e.ttl)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logger.Debug("joined in-flight computation")
	}
	return v.(*LayoutResult), nil
}

// pipeline is one full uncached run.
func (e *Engine) pipeline(ctx context.Context, req *Request, fp string, logger *log.Logger) (*LayoutResult, error) {
	started := time.Now()

	boundary := geom.NewPolygon(toCoords(req.Boundary))

	// regulatory zones behave exactly like caller exclusions
	zones := make([]Zone, 0, len(req.Exclusions)+len(req.Regulatory))
	zones = append(zones, req.Exclusions...)
	zones = append(zones, req.Regulatory...)

	constraints, err := NewConstraintEngine(boundary, zones, e.cfg)
	if err != nil {
		return nil, err
	}
	if !boundary.Contains(geom.Pt(req.Entry.X, req.Entry.Y)) {
		return nil, invalidf("entry point (%g, %g) outside boundary", req.Entry.X, req.Entry.Y)
	}

	terrain, err := NewTerrainModel(boundary, req.Samples, e.cfg)
	if err != nil {
		return nil, err
	}
	stats := terrain.Stats()
	logger.Info("terrain ready",
		"cells", len(terrain.Grid().Elev),
		"relief", stats.Range,
	)

	placer := NewAssetPlacer(terrain, constraints, req.Entry, req.Advisory, e.cfg)
	assets, unsat, err := placer.Place(ctx, req.Requirements)
	if err != nil {
		return nil, err
	}
	logger.Info("assets placed", "placed", len(assets), "unsatisfied", len(unsat))

	roads, warnings := NewRoadNetworkBuilder(terrain, constraints, e.cfg).Build(ctx, req.Entry, assets)
	logger.Info("roads routed",
		"segments", len(roads.Segments),
		"unreachable", len(roads.Unreachable),
		"length", roads.TotalLength,
	)

	volumes := NewCutFillEstimator(terrain, e.cfg).Estimate(assets, roads)
	if acres := boundary.Area() / sqFtPerAcre; acres > 0 {
		volumes.SiteAcres = acres
		volumes.NetYd3PerAcre = volumes.NetYd3 / acres
	}
	logger.Info("earthwork estimated",
		"cut", volumes.TotalCut,
		"fill", volumes.TotalFill,
		"took", time.Since(started).Round(time.Millisecond),
	)

	return &LayoutResult{
		Fingerprint: fp,
		Assets:      assets,
		Unsatisfied: unsat,
		Roads:       roads,
		Volumes:     volumes,
		Elevation:   stats,
		Warnings:    warnings,
	}, nil
}
