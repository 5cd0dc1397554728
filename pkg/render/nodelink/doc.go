// Package nodelink renders graphs as static force-directed node-link diagrams.
//
// # Overview
//
// This package produces Graphviz drawings that mirror the interactive page:
// numbered circles, straight edges labelled with their weight, arrows only
// for directed graphs. Positions come from a Graphviz engine; the default
// fdp engine is a spring model like the page's D3 simulation.
//
// # Usage
//
// Convert a Graph to DOT format, then render to SVG:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{Width: 800, Height: 800})
//	svg, err := nodelink.RenderSVG(ctx, dot, nodelink.EngineFDP)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot, "neato")
//	png, err := nodelink.RenderPNG(ctx, dot, "fdp", 2.0)  // 2x scale
//
// # Engines
//
//   - fdp (default), neato, sfdp: force-directed
//   - dot: layered
//   - circo: circular
//
// Options.Seed is written as the DOT start attribute, so repeated renders of
// the same graph give the same picture and can be cached.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
