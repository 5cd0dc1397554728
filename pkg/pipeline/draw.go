package pipeline

import (
	"context"

	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
	"github.com/matzehuels/graphtext/pkg/metrics"
)

// InputSource supplies the three values a draw needs. The CLI reads them
// from flags and a file, the server from a request, the editor from its
// textarea and toggles.
type InputSource interface {
	Text() string
	Directed() bool
	IndexBase() graphtext.IndexBase
}

// Renderer receives a validated graph.
type Renderer interface {
	Render(ctx context.Context, g *graph.Graph) error
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc func(ctx context.Context, g *graph.Graph) error

// Render calls f(ctx, g).
func (f RendererFunc) Render(ctx context.Context, g *graph.Graph) error { return f(ctx, g) }

// StaticInput is an InputSource with fixed values.
type StaticInput struct {
	Source   string
	IsDirect bool
	Base     graphtext.IndexBase
}

func (s StaticInput) Text() string                   { return s.Source }
func (s StaticInput) Directed() bool                 { return s.IsDirect }
func (s StaticInput) IndexBase() graphtext.IndexBase { return s.Base }

// Draw reads src, parses it and hands the graph to r. When parsing fails
// r is not called and the parse error is returned as is. Graphs over
// DefaultMaxNodes are rejected; use [DrawLimited] for another limit.
func Draw(ctx context.Context, src InputSource, r Renderer) (*graph.Graph, error) {
	return DrawLimited(ctx, src, r, DefaultMaxNodes)
}

// DrawLimited is Draw with an explicit node limit, checked before r runs.
func DrawLimited(ctx context.Context, src InputSource, r Renderer, maxNodes int) (*graph.Graph, error) {
	g, err := graphtext.Parse(src.Text(), src.Directed(), src.IndexBase())
	metrics.ObserveParse(err)
	if err != nil {
		return nil, err
	}
	if err := CheckNodeLimit(g, maxNodes); err != nil {
		return nil, err
	}
	if err := r.Render(ctx, g); err != nil {
		return g, err
	}
	return g, nil
}

// ArtifactRenderer is a Renderer that renders through a Runner and keeps
// the artifacts of the last successful call.
type ArtifactRenderer struct {
	Runner  *Runner
	Options Options

	Artifacts map[string][]byte
	CacheHit  bool
}

// Render renders g in every configured format. On failure the previous
// artifacts are kept.
func (a *ArtifactRenderer) Render(ctx context.Context, g *graph.Graph) error {
	runner := a.Runner
	if runner == nil {
		runner = NewRunner(nil, nil, nil)
	}
	artifacts, hit, err := runner.RenderWithCacheInfo(ctx, g, a.Options)
	if err != nil {
		return err
	}
	a.Artifacts = artifacts
	a.CacheHit = hit
	return nil
}
