// Package d3 renders graphs as interactive force-directed pages.
//
// The page loads D3 v7, runs a force simulation (links, many-body charge,
// centering and collision) and lets the user drag nodes. The simulation
// constants reproduce the original drawing tool: an 800x800 canvas, radius
// 30 circles, link distance 200 with strength 0.1, charge -60 and collision
// strength 0.7.
//
// [ToData] converts a Graph into the node/link arrays the script consumes;
// the HTTP server sends the same structure to its editor page. [RenderHTML]
// writes a standalone page with the data inlined. [Script] returns the
// drawing script so other pages can embed it.
package d3
