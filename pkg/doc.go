// Package pkg provides the libraries behind graphtext.
//
// # Overview
//
// graphtext turns a few lines of text into a drawn graph:
//
//	3 3      <- nodes edges
//	0 1      <- from to
//	1 2 4    <- from to weight
//	2 0
//
// The pkg directory is organized into four areas:
//
//  1. [graphtext] - The parser: text to a validated [graph.Graph]
//  2. [graph] - The Graph type and its JSON and text forms
//  3. [render] - Graphviz node-link diagrams and the interactive D3 page
//  4. [pipeline] - Orchestration (parse → render each format → cache)
//
// # Architecture
//
// The typical data flow:
//
//	graph text + directed + index base
//	         ↓
//	    [graphtext] (split lines, parse integers, build, check endpoints)
//	         ↓
//	    [graph.Graph]
//	         ↓
//	    [render/nodelink] or [render/d3]
//	         ↓
//	    SVG/PNG/PDF/DOT/HTML/JSON output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/graphtext/pkg/graphtext"
//	    "github.com/matzehuels/graphtext/pkg/render/nodelink"
//	)
//
//	g, err := graphtext.Parse("3 2\n0 1\n1 2", false, graphtext.ZeroBased)
//	if err != nil {
//	    fmt.Println(errors.Display(err)) // "Error: ..."
//	    return
//	}
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{}), nodelink.DefaultEngine)
//
// # Main Packages
//
// [graphtext] - Line tokenizer, leading-numeral integer parser, header and
// edge builder, endpoint range validator. Pure and synchronous.
//
// [errors] - Structured errors. The parser reports exactly one of six codes;
// every surface shows them as "Error: " + message.
//
// [pipeline] - Options, validation and the cached Runner used by the CLI and
// the server; Draw connects an input source to a renderer.
//
// [cache] - Artifact cache backends: file (CLI), Redis (shared servers) and
// a null cache.
//
// [snippet] - Shared graph texts stored in memory or MongoDB.
//
// [metrics] - Prometheus collectors for parse outcomes, renders and HTTP.
package pkg
