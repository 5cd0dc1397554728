// Package pipeline turns graph text into rendered artifacts.
//
// It is the single path used by the CLI, the HTTP server and the editor:
//
//  1. Parse: graphtext.Parse (header, edge lines, endpoint range)
//  2. Render: one artifact per requested format, each cached by the hash
//     of the parsed graph and the options that affect its bytes
//
// Nothing is rendered when parsing fails; the caller keeps whatever it
// showed before and displays the error.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, text, pipeline.Options{
//	    Directed:  true,
//	    IndexBase: graphtext.OneBased,
//	    Formats:   []string{"svg", "html"},
//	})
//	if err != nil {
//	    fmt.Println(errors.Display(err))
//	    return
//	}
//	svg := result.Artifacts["svg"]
//
// Callers that already have their own input and output abstractions use
// [Draw] with an [InputSource] and a [Renderer].
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphtext/pkg/cache"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
	"github.com/matzehuels/graphtext/pkg/render/d3"
	"github.com/matzehuels/graphtext/pkg/render/nodelink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API and Editor
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = d3.DefaultWidth

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = d3.DefaultHeight

	// DefaultSeed fixes the Graphviz start positions.
	DefaultSeed = 42

	// DefaultMaxNodes caps the declared node count. Renderers allocate one
	// element per node, so a short header could otherwise exhaust memory.
	DefaultMaxNodes = 10000

	// DefaultEngine is the default Graphviz layout engine.
	DefaultEngine = nodelink.DefaultEngine

	// pngScale renders PNGs at 2x for high-DPI displays.
	pngScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
	FormatHTML = "html"
	FormatText = "txt"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
	FormatHTML: true,
	FormatText: true,
}

// contentTypes maps formats to HTTP content types.
var contentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatDOT:  "text/vnd.graphviz; charset=utf-8",
	FormatJSON: "application/json",
	FormatHTML: "text/html; charset=utf-8",
	FormatText: "text/plain; charset=utf-8",
}

// ContentType returns the MIME type for format, or
// application/octet-stream for unknown formats.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Parse options
	Directed  bool                `json:"directed"`
	IndexBase graphtext.IndexBase `json:"index_base"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Engine      string   `json:"engine,omitempty"`
	Width       float64  `json:"width,omitempty"`
	Height      float64  `json:"height,omitempty"`
	Seed        int      `json:"seed,omitempty"`
	HideWeights bool     `json:"hide_weights,omitempty"`
	Title       string   `json:"title,omitempty"`

	// MaxNodes rejects graphs declaring more nodes. Zero means
	// DefaultMaxNodes.
	MaxNodes int `json:"max_nodes,omitempty"`

	// Refresh skips cache lookups; fresh artifacts are still stored.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed and validated graph.
	Graph *graph.Graph

	// GraphHash is the content hash of the graph's JSON form.
	GraphHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit is true when every artifact came from the cache.
	CacheHit bool
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return apperrors.New(apperrors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, pdf, dot, json, html, txt)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateIndexBase checks that base is 0 or 1.
func ValidateIndexBase(base graphtext.IndexBase) error {
	if !base.Valid() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "index base must be 0 or 1, got %d", int(base))
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero values with the package defaults.
// Calling it more than once has no further effect.
func (o *Options) SetDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = DefaultEngine
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = DefaultMaxNodes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks the options without changing them.
func (o *Options) Validate() error {
	if err := ValidateIndexBase(o.IndexBase); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Engine != "" {
		if err := nodelink.ValidateEngine(o.Engine); err != nil {
			return err
		}
	}
	if o.Width < 0 || o.Height < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if o.MaxNodes < 0 {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "max nodes must not be negative")
	}
	return nil
}

// CheckNodeLimit rejects g when it declares more than maxNodes nodes.
// A non-positive maxNodes means DefaultMaxNodes.
func CheckNodeLimit(g *graph.Graph, maxNodes int) error {
	if maxNodes <= 0 {
		maxNodes = DefaultMaxNodes
	}
	if g.NodesCount > maxNodes {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "graph declares %d nodes, more than the limit of %d", g.NodesCount, maxNodes)
	}
	return nil
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// ArtifactKeyOpts returns cache key options for one format. Options that
// do not affect a format's bytes are left out so, for example, txt
// artifacts are shared across engines.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPNG, FormatPDF:
		k.Engine = o.Engine
		k.Width, k.Height = o.Width, o.Height
		k.Seed = o.Seed
		k.HideWeights = o.HideWeights
	case FormatDOT:
		k.Width, k.Height = o.Width, o.Height
		k.Seed = o.Seed
		k.HideWeights = o.HideWeights
	case FormatHTML:
		k.Width, k.Height = o.Width, o.Height
		k.Title = o.Title
	}
	return k
}

// nodelinkOptions converts to Graphviz rendering options.
func (o *Options) nodelinkOptions() nodelink.Options {
	return nodelink.Options{
		Width:       o.Width,
		Height:      o.Height,
		Seed:        o.Seed,
		HideWeights: o.HideWeights,
	}
}
