// Package graph provides the validated graph model and its serialization.
//
// This package defines the single value that crosses from the text parser
// into renderers, caches, the HTTP API and snippet storage.
//
// # Architecture
//
// The package sits at the boundary between parsing and presentation:
//
//   - pkg/graphtext: text -> [Graph] (grammar and validation rules)
//   - [Graph], [Edge]: immutable model (this package)
//   - pkg/render/...: [Graph] -> DOT, SVG, HTML
//
// # Core Types
//
//   - [Graph]: node count, declared edge count, ordered edges, directedness, index base
//   - [Edge]: from, to, weight (default 1)
//   - [IndexBase]: whether node numbering starts at 0 or 1
//
// # Graph Serialization
//
// Graphs use a flat JSON format that mirrors the text grammar:
//
//	{
//	  "nodes_count": 3,
//	  "edges_count": 2,
//	  "edges": [{"from": 0, "to": 1, "weight": 5}, {"from": 1, "to": 2, "weight": 1}],
//	  "directed": false,
//	  "index_base": 0
//	}
//
// Common operations:
//
//	g, _ := graph.ReadGraphFile("graph.json")   // File → Graph
//	graph.WriteGraphFile(g, "output.json")      // Graph → File
//	data, _ := graph.MarshalGraph(g)            // Graph → []byte
//	parsed, _ := graph.UnmarshalGraph(data)     // []byte → Graph
//	text := graph.FormatText(g)                 // Graph → graph text
//
// Decoding checks the structural invariants (edge count, index base). The
// endpoint range check belongs to pkg/graphtext and runs on every graph a
// surface accepts.
//
// # Concurrency
//
// A Graph is never mutated after construction, so it is safe to share
// between goroutines. Use [Graph.Clone] before modifying a copy.
package graph
