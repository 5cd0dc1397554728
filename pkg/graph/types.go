package graph

import (
	"fmt"
	"slices"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
)

// =============================================================================
// Index Base
// =============================================================================

// IndexBase is the number of the first node in graph text. It is an input
// format convention; renderers convert endpoints with [Graph.Offset].
type IndexBase int

const (
	ZeroBased IndexBase = 0
	OneBased  IndexBase = 1
)

// Valid reports whether b is 0 or 1.
func (b IndexBase) Valid() bool { return b == ZeroBased || b == OneBased }

// String returns "0" or "1".
func (b IndexBase) String() string { return fmt.Sprintf("%d", int(b)) }

// DefaultWeight is the weight of an edge line with only two integers.
const DefaultWeight = 1

// =============================================================================
// Graph
// =============================================================================

// Graph is a validated graph description.
//
// Edges keeps input order. len(Edges) == EdgesCount always holds for graphs
// produced by the parser or the decoders in this package.
type Graph struct {
	NodesCount int       `json:"nodes_count" bson:"nodes_count"`
	EdgesCount int       `json:"edges_count" bson:"edges_count"`
	Edges      []Edge    `json:"edges" bson:"edges"`
	Directed   bool      `json:"directed" bson:"directed"`
	IndexBase  IndexBase `json:"index_base" bson:"index_base"`
}

// Edge connects two nodes. Directedness is a property of the Graph.
type Edge struct {
	From   int `json:"from" bson:"from"`
	To     int `json:"to" bson:"to"`
	Weight int `json:"weight" bson:"weight"`
}

// NodeIDs returns the node numbers as written in graph text:
// IndexBase, IndexBase+1, ..., IndexBase+NodesCount-1.
func (g *Graph) NodeIDs() []int {
	if g.NodesCount <= 0 {
		return nil
	}
	ids := make([]int, g.NodesCount)
	for i := range ids {
		ids[i] = i + int(g.IndexBase)
	}
	return ids
}

// Offset converts a node number from graph text to a zero-based position.
func (g *Graph) Offset(id int) int {
	return id - int(g.IndexBase)
}

// Bounds returns the smallest and largest endpoint over all edges.
// ok is false when the graph has no edges.
func (g *Graph) Bounds() (lo, hi int, ok bool) {
	for i, e := range g.Edges {
		if i == 0 {
			lo, hi = min(e.From, e.To), max(e.From, e.To)
			continue
		}
		lo = min(lo, e.From, e.To)
		hi = max(hi, e.From, e.To)
	}
	return lo, hi, len(g.Edges) > 0
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := *g
	c.Edges = slices.Clone(g.Edges)
	return &c
}

// Equal reports whether g and other describe the same graph.
// A nil edge slice equals an empty one.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	return g.NodesCount == other.NodesCount &&
		g.EdgesCount == other.EdgesCount &&
		g.Directed == other.Directed &&
		g.IndexBase == other.IndexBase &&
		slices.Equal(g.Edges, other.Edges)
}

// checkStructure verifies the invariants every Graph value carries.
func (g *Graph) checkStructure() error {
	if !g.IndexBase.Valid() {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "index_base must be 0 or 1, got %d", g.IndexBase)
	}
	if len(g.Edges) != g.EdgesCount {
		return apperrors.New(apperrors.ErrCodeEdgeCountMismatch,
			"Edge counts and line counts did not match: declared %d, found %d", g.EdgesCount, len(g.Edges))
	}
	return nil
}
