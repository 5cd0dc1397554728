package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphtext/pkg/cache"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
	"github.com/matzehuels/graphtext/pkg/metrics"
)

// Runner parses graph text and renders it through an artifact cache. The
// CLI, the server and the editor each hold one.
//
// A Runner keeps no per-request state, so one value may serve concurrent
// requests with different Options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL bounds how long rendered artifacts stay cached.
	// Zero means cache.TTLArtifact.
	TTL time.Duration
}

// NewRunner fills nil arguments with a NullCache, a DefaultKeyer and
// log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	r := &Runner{Cache: c, Keyer: keyer, Logger: logger}
	if r.Cache == nil {
		r.Cache = cache.NewNullCache()
	}
	if r.Keyer == nil {
		r.Keyer = cache.NewDefaultKeyer()
	}
	if r.Logger == nil {
		r.Logger = log.Default()
	}
	return r
}

// Execute parses text and renders every requested format.
//
// Parse failures are returned unwrapped so callers can show
// errors.Display(err) verbatim; no artifact is produced in that case.
func (r *Runner) Execute(ctx context.Context, text string, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	parseStart := time.Now()
	g, err := r.Parse(text, opts)
	if err != nil {
		return nil, err
	}
	if err := CheckNodeLimit(g, opts.MaxNodes); err != nil {
		return nil, err
	}

	result := &Result{Graph: g}
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodesCount
	result.Stats.EdgeCount = g.EdgesCount

	opts.Logger.Debug("parsed graph",
		"nodes", g.NodesCount,
		"edges", g.EdgesCount,
		"directed", g.Directed,
		"index_base", g.IndexBase,
		"duration", result.Stats.ParseTime)

	renderStart := time.Now()
	artifacts, hit, graphHash, err := r.renderWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.GraphHash = graphHash
	result.CacheHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Parse runs graphtext.Parse with the options' flags and records the outcome.
func (r *Runner) Parse(text string, opts Options) (*graph.Graph, error) {
	g, err := graphtext.Parse(text, opts.Directed, opts.IndexBase)
	metrics.ObserveParse(err)
	if err != nil {
		r.logger(opts).Debug("parse failed", "err", err)
		return nil, err
	}
	return g, nil
}

// RenderWithCacheInfo renders a validated graph with caching and reports
// whether every artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if err := CheckNodeLimit(g, opts.MaxNodes); err != nil {
		return nil, false, err
	}
	artifacts, hit, _, err := r.renderWithCacheInfo(ctx, g, opts)
	return artifacts, hit, err
}

// Render is RenderWithCacheInfo without the hit flag.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

func (r *Runner) renderWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, bool, string, error) {
	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	allCached := true

	for _, format := range opts.Formats {
		if _, done := artifacts[format]; done {
			continue
		}
		start := time.Now()
		key := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))

		if !opts.Refresh {
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				opts.Logger.Warn("cache read failed", "format", format, "err", err)
			}
			if err == nil && hit {
				artifacts[format] = data
				metrics.ObserveRender(format, true, time.Since(start))
				continue
			}
		}

		allCached = false
		data, err := RenderFormat(ctx, g, format, opts)
		if err != nil {
			return nil, false, graphHash, err
		}
		artifacts[format] = data
		metrics.ObserveRender(format, false, time.Since(start))

		if err := r.Cache.Set(ctx, key, data, r.ttl()); err != nil {
			opts.Logger.Warn("cache write failed", "format", format, "err", err)
		}
	}

	return artifacts, allCached, graphHash, nil
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Close()
}

func (r *Runner) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLArtifact
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
