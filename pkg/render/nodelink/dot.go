package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/render"
)

// Layout engines. The force-directed ones (fdp, neato, sfdp) match the
// interactive page; dot and circo are offered for comparison.
const (
	EngineFDP   = "fdp"
	EngineNeato = "neato"
	EngineSFDP  = "sfdp"
	EngineDot   = "dot"
	EngineCirco = "circo"

	DefaultEngine = EngineFDP
)

// ValidEngines is the set of supported Graphviz layout engines.
var ValidEngines = map[string]bool{
	EngineFDP:   true,
	EngineNeato: true,
	EngineSFDP:  true,
	EngineDot:   true,
	EngineCirco: true,
}

// ValidateEngine checks that engine is a supported layout engine.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return apperrors.New(apperrors.ErrCodeInvalidEngine,
			"invalid engine: %q (must be one of: fdp, neato, sfdp, dot, circo)", engine)
	}
	return nil
}

// pointsPerInch converts the page's pixel sizes to Graphviz inches.
const pointsPerInch = 72.0

// Options configures node-link diagram rendering.
type Options struct {
	// Width and Height bound the drawing in pixels. Zero means unbounded.
	Width, Height float64

	// Seed makes fdp and neato start from the same positions every run.
	Seed int

	// HideWeights drops edge labels. Weights are shown by default.
	HideWeights bool
}

// ToDOT converts a Graph to Graphviz DOT source.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Node labels are the numbers used in graph text (offset by the index base).
// Directed graphs become a digraph with arrows; undirected graphs use "--".
// Every node is declared, so isolated nodes are drawn too.
func ToDOT(g *graph.Graph, opts Options) string {
	kind, op := "graph", "--"
	if g.Directed {
		kind, op = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  splines=true;\n")
	fmt.Fprintf(&buf, "  start=%d;\n", opts.Seed)
	if opts.Width > 0 && opts.Height > 0 {
		fmt.Fprintf(&buf, "  size=\"%s,%s\";\n", inches(opts.Width), inches(opts.Height))
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=lightyellow, color=black, fixedsize=true, width=0.83, fontsize=24];\n")
	buf.WriteString("  edge [color=black, fontsize=14, len=2.78];\n")
	buf.WriteString("\n")

	for _, id := range g.NodeIDs() {
		fmt.Fprintf(&buf, "  %d;\n", id)
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		attrs := edgeAttrs(e, opts)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %d %s %d;\n", e.From, op, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %d %s %d [%s];\n", e.From, op, e.To, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeAttrs(e graph.Edge, opts Options) []string {
	if opts.HideWeights {
		return nil
	}
	return []string{fmt.Sprintf("label=%q", strconv.Itoa(e.Weight))}
}

func inches(px float64) string {
	return strconv.FormatFloat(px/pointsPerInch, 'f', 2, 64)
}

// RenderSVG runs the Graphviz layout engine over dot (DefaultEngine when
// empty) and returns a scalable SVG document.
func RenderSVG(ctx context.Context, dot, engine string) ([]byte, error) {
	if engine == "" {
		engine = DefaultEngine
	}
	if err := ValidateEngine(engine); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.Layout(engine))

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose viewBox starts at the origin, so browsers scale the drawing.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF is [RenderSVG] followed by [render.ToPDF].
func RenderPDF(ctx context.Context, dot, engine string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG is [RenderSVG] followed by [render.ToPNG] at the given scale.
func RenderPNG(ctx context.Context, dot, engine string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot, engine)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
