package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to indented JSON bytes.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalGraph decodes JSON bytes into a Graph and checks its structure.
func UnmarshalGraph(data []byte) (*Graph, error) {
	return readGraphFrom(bytes.NewReader(data))
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a Graph as JSON to an io.Writer.
// Use MarshalGraph for in-memory serialization or WriteGraphFile for files.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraphFile reads a JSON file and returns the decoded Graph.
// Returns an error for malformed JSON or a graph whose edge count or index
// base is inconsistent.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readGraphFrom(f)
}

// ReadGraph decodes a JSON graph from an io.Reader.
// Use ReadGraphFile for files or pass bytes.NewReader for in-memory data.
func ReadGraph(r io.Reader) (*Graph, error) {
	return readGraphFrom(r)
}

// FormatText renders g in the graph text grammar: a "nodes edges" header
// followed by one "from to [weight]" line per edge. The weight is omitted
// when it equals DefaultWeight.
func FormatText(g *Graph) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(g.NodesCount))
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(g.EdgesCount))
	for _, e := range g.Edges {
		b.WriteByte('\n')
		b.WriteString(strconv.Itoa(e.From))
		b.WriteByte(' ')
		b.WriteString(strconv.Itoa(e.To))
		if e.Weight != DefaultWeight {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(e.Weight))
		}
	}
	b.WriteByte('\n')
	return b.String()
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	out := *g
	if out.Edges == nil {
		out.Edges = []Edge{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// wireEdge distinguishes an omitted weight from an explicit zero.
type wireEdge struct {
	From   int  `json:"from"`
	To     int  `json:"to"`
	Weight *int `json:"weight"`
}

type wireGraph struct {
	NodesCount int        `json:"nodes_count"`
	EdgesCount *int       `json:"edges_count"`
	Edges      []wireEdge `json:"edges"`
	Directed   bool       `json:"directed"`
	IndexBase  IndexBase  `json:"index_base"`
}

func readGraphFrom(r io.Reader) (*Graph, error) {
	var data wireGraph
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	g := &Graph{
		NodesCount: data.NodesCount,
		Edges:      make([]Edge, len(data.Edges)),
		Directed:   data.Directed,
		IndexBase:  data.IndexBase,
	}
	for i, e := range data.Edges {
		w := DefaultWeight
		if e.Weight != nil {
			w = *e.Weight
		}
		g.Edges[i] = Edge{From: e.From, To: e.To, Weight: w}
	}
	g.EdgesCount = len(g.Edges)
	if data.EdgesCount != nil {
		g.EdgesCount = *data.EdgesCount
	}

	if err := g.checkStructure(); err != nil {
		return nil, err
	}
	return g, nil
}
