package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/render/d3"
	"github.com/matzehuels/graphtext/pkg/render/nodelink"
)

// Render generates output artifacts in the requested formats without
// touching any cache. g must be validated.
func Render(ctx context.Context, g *graph.Graph, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, g, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders g in a single format.
func RenderFormat(ctx context.Context, g *graph.Graph, format string, opts Options) ([]byte, error) {
	var data []byte
	var err error

	switch format {
	case FormatSVG:
		data, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(g, opts.nodelinkOptions()), opts.Engine)
	case FormatPNG:
		data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(g, opts.nodelinkOptions()), opts.Engine, pngScale)
	case FormatPDF:
		data, err = nodelink.RenderPDF(ctx, nodelink.ToDOT(g, opts.nodelinkOptions()), opts.Engine)
	case FormatDOT:
		data = []byte(nodelink.ToDOT(g, opts.nodelinkOptions()))
	case FormatJSON:
		data, err = graph.MarshalGraph(g)
	case FormatHTML:
		data, err = d3.RenderHTML(g, d3.Options{Title: opts.Title, Width: opts.Width, Height: opts.Height})
	case FormatText:
		data = []byte(graph.FormatText(g))
	default:
		return nil, ValidateFormat(format)
	}

	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}
	return data, nil
}
