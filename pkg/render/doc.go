// Package render provides visualization rendering for validated graphs.
//
// # Overview
//
// This package contains the output side of graphtext. Renderers consume a
// [graph.Graph] that has already passed pkg/graphtext validation and never
// re-check the grammar. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Static force-directed diagrams (in [nodelink] subpackage)
//   - Interactive D3 pages with drag support (in [d3] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineFDP)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage lays out graphs with Graphviz force-directed
// engines (fdp by default) and renders circles with numbered labels and
// weighted edges.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot, "fdp")
//
// # Interactive Pages
//
// The [d3] subpackage writes a self-contained HTML page that runs a D3
// force simulation in the browser. Nodes can be dragged.
//
//	page, err := d3.RenderHTML(g, d3.Options{Title: "my graph"})
//
// [nodelink]: github.com/matzehuels/graphtext/pkg/render/nodelink
// [d3]: github.com/matzehuels/graphtext/pkg/render/d3
// [graph.Graph]: github.com/matzehuels/graphtext/pkg/graph.Graph
package render
