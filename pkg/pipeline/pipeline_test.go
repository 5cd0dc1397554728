package pipeline

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/graphtext/pkg/cache"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
)

const triangle = "3 3\n0 1\n1 2 4\n2 0"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"dot", false},
		{"json", false},
		{"html", false},
		{"txt", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %v", tt.format, apperrors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code apperrors.Code
	}{
		{"zero value", Options{}, ""},
		{"one based", Options{IndexBase: graphtext.OneBased}, ""},
		{"bad base", Options{IndexBase: 2}, apperrors.ErrCodeInvalidInput},
		{"bad format", Options{Formats: []string{"gif"}}, apperrors.ErrCodeInvalidFormat},
		{"bad engine", Options{Engine: "twopi2"}, apperrors.ErrCodeInvalidEngine},
		{"negative width", Options{Width: -1}, apperrors.ErrCodeInvalidInput},
		{"negative max nodes", Options{MaxNodes: -1}, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("Validate() code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestSetDefaults(t *testing.T) {
	opts := Options{}
	opts.SetDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats should be [svg], got %v", opts.Formats)
	}
	if opts.Engine != DefaultEngine {
		t.Errorf("Engine should be %s, got %s", DefaultEngine, opts.Engine)
	}
	if opts.Width != DefaultWidth || opts.Height != DefaultHeight {
		t.Errorf("size should be %vx%v, got %vx%v", DefaultWidth, DefaultHeight, opts.Width, opts.Height)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.MaxNodes != DefaultMaxNodes {
		t.Errorf("MaxNodes should be %d, got %d", DefaultMaxNodes, opts.MaxNodes)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}

	before := opts
	opts.SetDefaults()
	if opts.Engine != before.Engine || opts.Width != before.Width || len(opts.Formats) != 1 {
		t.Error("SetDefaults should be idempotent")
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Engine: "fdp", Width: 800, Height: 800}
	b := Options{Engine: "neato", Width: 800, Height: 800}

	if a.ArtifactKeyOpts(FormatSVG) == b.ArtifactKeyOpts(FormatSVG) {
		t.Error("engine should be part of the svg key")
	}
	if a.ArtifactKeyOpts(FormatText) != b.ArtifactKeyOpts(FormatText) {
		t.Error("engine should not be part of the txt key")
	}
	if a.ArtifactKeyOpts(FormatJSON) != b.ArtifactKeyOpts(FormatJSON) {
		t.Error("engine should not be part of the json key")
	}
}

func TestContentType(t *testing.T) {
	if got := ContentType(FormatSVG); got != "image/svg+xml" {
		t.Errorf("ContentType(svg) = %q", got)
	}
	if got := ContentType("bin"); got != "application/octet-stream" {
		t.Errorf("ContentType(bin) = %q", got)
	}
}

// memCache is a counting in-memory cache.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	ttl  time.Duration
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	c.ttl = ttl
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func TestRunnerExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(newMemCache(), nil, nil)

	result, err := runner.Execute(ctx, triangle, Options{
		Directed: true,
		Formats:  []string{FormatText, FormatJSON, FormatDOT, FormatHTML},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.NodeCount != 3 || result.Stats.EdgeCount != 3 {
		t.Errorf("stats = %+v", result.Stats)
	}
	if result.GraphHash == "" {
		t.Error("GraphHash not set")
	}
	if result.CacheHit {
		t.Error("first run should miss the cache")
	}
	if got := string(result.Artifacts[FormatText]); got != "3 3\n0 1\n1 2 4\n2 0\n" {
		t.Errorf("txt = %q", got)
	}
	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "digraph") {
		t.Errorf("dot = %q", result.Artifacts[FormatDOT])
	}
	g, err := graph.UnmarshalGraph(result.Artifacts[FormatJSON])
	if err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if !g.Equal(result.Graph) {
		t.Errorf("json artifact = %+v, want %+v", g, result.Graph)
	}
	if !strings.Contains(string(result.Artifacts[FormatHTML]), "drawGraph") {
		t.Error("html artifact missing drawing script")
	}
}

func TestRunnerTTL(t *testing.T) {
	ctx := context.Background()
	opts := Options{Formats: []string{FormatText}}

	c := newMemCache()
	if _, err := NewRunner(c, nil, nil).Execute(ctx, triangle, opts); err != nil {
		t.Fatal(err)
	}
	if c.ttl != cache.TTLArtifact {
		t.Errorf("default ttl = %v, want %v", c.ttl, cache.TTLArtifact)
	}

	c = newMemCache()
	runner := NewRunner(c, nil, nil)
	runner.TTL = time.Hour
	if _, err := runner.Execute(ctx, triangle, opts); err != nil {
		t.Fatal(err)
	}
	if c.ttl != time.Hour {
		t.Errorf("ttl = %v, want 1h", c.ttl)
	}
}

func TestRunnerExecuteCacheHit(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Formats: []string{FormatText, FormatDOT}}

	first, err := runner.Execute(ctx, triangle, opts)
	if err != nil {
		t.Fatal(err)
	}
	if c.sets != 2 {
		t.Fatalf("sets after first run = %d, want 2", c.sets)
	}

	// Whitespace differences parse to the same graph and share artifacts.
	second, err := runner.Execute(ctx, "  3 3\n\n0 1\n1   2 4\n2 0\n", opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second run should hit the cache")
	}
	if string(second.Artifacts[FormatDOT]) != string(first.Artifacts[FormatDOT]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third, err := runner.Execute(ctx, triangle, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should bypass the cache")
	}
	if c.sets != 4 {
		t.Errorf("sets after refresh = %d, want 4", c.sets)
	}
}

func TestRunnerExecuteParseError(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)

	tests := []struct {
		text string
		code apperrors.Code
	}{
		{"", apperrors.ErrCodeEmptyInput},
		{"3", apperrors.ErrCodeMalformedHeader},
		{"2 2\n0 1", apperrors.ErrCodeEdgeCountMismatch},
		{"2 1\n0", apperrors.ErrCodeInvalidEdgeDefinition},
		{"2 1\n0 x", apperrors.ErrCodeParse},
		{"2 1\n0 2", apperrors.ErrCodeEdgeOutOfRange},
	}
	for _, tt := range tests {
		result, err := runner.Execute(context.Background(), tt.text, Options{Formats: []string{FormatText}})
		if result != nil {
			t.Errorf("Execute(%q) returned a result on failure", tt.text)
		}
		if !apperrors.Is(err, tt.code) {
			t.Errorf("Execute(%q) err = %v, want %s", tt.text, err, tt.code)
		}
	}
	if c.sets != 0 {
		t.Errorf("failed parses stored %d artifacts", c.sets)
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	_, err := runner.Execute(context.Background(), triangle, Options{Formats: []string{"gif"}})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidFormat) {
		t.Errorf("err = %v, want INVALID_FORMAT", err)
	}
}

func TestRunnerExecuteSVG(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Graphviz render in short mode")
	}
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(t.Context(), triangle, Options{Formats: []string{FormatSVG}})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(string(result.Artifacts[FormatSVG]), "<svg") {
		t.Error("svg artifact missing <svg")
	}
}

type recordingRenderer struct {
	calls int
	got   *graph.Graph
	err   error
}

func (r *recordingRenderer) Render(ctx context.Context, g *graph.Graph) error {
	r.calls++
	r.got = g
	return r.err
}

func TestDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("success renders", func(t *testing.T) {
		r := &recordingRenderer{}
		g, err := Draw(ctx, StaticInput{Source: "3 2\n1 2\n2 3 7", IsDirect: true, Base: graphtext.OneBased}, r)
		if err != nil {
			t.Fatalf("Draw: %v", err)
		}
		if r.calls != 1 || r.got != g {
			t.Errorf("renderer calls = %d", r.calls)
		}
		if !g.Directed || g.IndexBase != graphtext.OneBased || g.Edges[1].Weight != 7 {
			t.Errorf("graph = %+v", g)
		}
	})

	t.Run("failure does not render", func(t *testing.T) {
		r := &recordingRenderer{}
		g, err := Draw(ctx, StaticInput{Source: "3 1\n0 3"}, r)
		if !apperrors.Is(err, apperrors.ErrCodeEdgeOutOfRange) {
			t.Errorf("err = %v", err)
		}
		if g != nil || r.calls != 0 {
			t.Errorf("graph = %v, renderer calls = %d", g, r.calls)
		}
		if got := apperrors.Display(err); !strings.HasPrefix(got, "Error: Some edges' source or destination are invalid") {
			t.Errorf("Display = %q", got)
		}
	})

	t.Run("renderer error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		r := &recordingRenderer{err: boom}
		g, err := Draw(ctx, StaticInput{Source: "1 0"}, r)
		if !errors.Is(err, boom) || g == nil {
			t.Errorf("g = %v, err = %v", g, err)
		}
	})

	t.Run("huge node count is rejected before rendering", func(t *testing.T) {
		r := &recordingRenderer{}
		g, err := Draw(ctx, StaticInput{Source: "100000000000 0"}, r)
		if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
			t.Errorf("err = %v, want %s", err, apperrors.ErrCodeInvalidInput)
		}
		if g != nil || r.calls != 0 {
			t.Errorf("graph = %v, renderer calls = %d", g, r.calls)
		}
	})

	t.Run("explicit limit", func(t *testing.T) {
		r := &recordingRenderer{}
		if _, err := DrawLimited(ctx, StaticInput{Source: "3 0"}, r, 3); err != nil || r.calls != 1 {
			t.Fatalf("at limit: calls = %d, err = %v", r.calls, err)
		}
		if _, err := DrawLimited(ctx, StaticInput{Source: "4 0"}, r, 3); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) || r.calls != 1 {
			t.Errorf("over limit: calls = %d, err = %v", r.calls, err)
		}
	})

	t.Run("renderer func", func(t *testing.T) {
		var nodes int
		_, err := Draw(ctx, StaticInput{Source: "4 0"}, RendererFunc(func(ctx context.Context, g *graph.Graph) error {
			nodes = g.NodesCount
			return nil
		}))
		if err != nil || nodes != 4 {
			t.Errorf("nodes = %d, err = %v", nodes, err)
		}
	})
}

func TestRunnerNodeLimit(t *testing.T) {
	ctx := context.Background()
	r := NewRunner(newMemCache(), nil, nil)

	_, err := r.Execute(ctx, "100000000000 0", Options{Formats: []string{FormatJSON}})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Execute err = %v, want %s", err, apperrors.ErrCodeInvalidInput)
	}

	_, err = r.Execute(ctx, "5 0", Options{Formats: []string{FormatText}, MaxNodes: 4})
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("Execute with MaxNodes err = %v", err)
	}

	g := &graph.Graph{NodesCount: DefaultMaxNodes + 1}
	if _, _, err := r.RenderWithCacheInfo(ctx, g, Options{Formats: []string{FormatText}}); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("RenderWithCacheInfo err = %v", err)
	}
}

func TestCheckNodeLimit(t *testing.T) {
	tests := []struct {
		nodes, limit int
		wantErr      bool
	}{
		{DefaultMaxNodes, 0, false},
		{DefaultMaxNodes + 1, 0, true},
		{10, 10, false},
		{11, 10, true},
		{-3, 10, false},
	}
	for _, tt := range tests {
		err := CheckNodeLimit(&graph.Graph{NodesCount: tt.nodes}, tt.limit)
		if (err != nil) != tt.wantErr {
			t.Errorf("CheckNodeLimit(%d, %d) = %v, wantErr %v", tt.nodes, tt.limit, err, tt.wantErr)
		}
	}
}

func TestArtifactRenderer(t *testing.T) {
	ctx := context.Background()
	ar := &ArtifactRenderer{
		Runner:  NewRunner(newMemCache(), nil, nil),
		Options: Options{Formats: []string{FormatText}},
	}

	if _, err := Draw(ctx, StaticInput{Source: "2 1\n0 1"}, ar); err != nil {
		t.Fatal(err)
	}
	if string(ar.Artifacts[FormatText]) != "2 1\n0 1\n" {
		t.Errorf("artifact = %q", ar.Artifacts[FormatText])
	}

	// A failed draw keeps the previous output.
	if _, err := Draw(ctx, StaticInput{Source: "2 1\n0 9"}, ar); err == nil {
		t.Fatal("expected error")
	}
	if string(ar.Artifacts[FormatText]) != "2 1\n0 1\n" {
		t.Errorf("artifact replaced after failure: %q", ar.Artifacts[FormatText])
	}
}
