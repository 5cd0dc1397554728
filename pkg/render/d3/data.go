package d3

import (
	"strconv"

	"github.com/matzehuels/graphtext/pkg/graph"
)

// Simulation defaults.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 800.0
	NodeRadius    = 30.0

	LinkDistance   = 200.0
	LinkStrength   = 0.1
	LinkIterations = 16
	ChargeStrength = -60.0

	CollideStrength   = 0.7
	CollideIterations = 16
)

// Node is a simulation node. Index is the zero-based position, Label the
// number shown to the user (Index + index base).
type Node struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	R     float64 `json:"r"`
}

// Link is a simulation link between zero-based node positions.
type Link struct {
	Source int    `json:"source"`
	Target int    `json:"target"`
	Weight int    `json:"weight"`
	Label  string `json:"label"`
}

// Data is everything the drawing script needs.
type Data struct {
	Nodes    []Node  `json:"nodes"`
	Links    []Link  `json:"links"`
	Directed bool    `json:"directed"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Force    Force   `json:"force"`
}

// Force carries the simulation constants to the script.
type Force struct {
	LinkDistance      float64 `json:"linkDistance"`
	LinkStrength      float64 `json:"linkStrength"`
	LinkIterations    int     `json:"linkIterations"`
	Charge            float64 `json:"charge"`
	CollideStrength   float64 `json:"collideStrength"`
	CollideIterations int     `json:"collideIterations"`
}

// DefaultForce returns the simulation constants of the original page.
func DefaultForce() Force {
	return Force{
		LinkDistance:      LinkDistance,
		LinkStrength:      LinkStrength,
		LinkIterations:    LinkIterations,
		Charge:            ChargeStrength,
		CollideStrength:   CollideStrength,
		CollideIterations: CollideIterations,
	}
}

// ToData converts a validated graph into simulation data. Every node starts
// at the canvas centre; links refer to zero-based positions.
//
// g must have passed graphtext.ValidateEndpoints.
func ToData(g *graph.Graph, width, height float64) Data {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}

	d := Data{
		Nodes:    make([]Node, 0, max(g.NodesCount, 0)),
		Links:    make([]Link, 0, len(g.Edges)),
		Directed: g.Directed,
		Width:    width,
		Height:   height,
		Force:    DefaultForce(),
	}
	for _, id := range g.NodeIDs() {
		d.Nodes = append(d.Nodes, Node{
			Index: g.Offset(id),
			Label: strconv.Itoa(id),
			X:     width / 2,
			Y:     height / 2,
			R:     NodeRadius,
		})
	}
	for _, e := range g.Edges {
		d.Links = append(d.Links, Link{
			Source: g.Offset(e.From),
			Target: g.Offset(e.To),
			Weight: e.Weight,
			Label:  strconv.Itoa(e.Weight),
		})
	}
	return d
}
