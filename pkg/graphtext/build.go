package graphtext

import (
	"fmt"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
)

// Parse converts graph text into a Graph that is safe to render: it runs
// [Build] and then [ValidateEndpoints].
func Parse(text string, directed bool, base IndexBase) (*graph.Graph, error) {
	g, err := Build(text, directed, base)
	if err != nil {
		return nil, err
	}
	if err := ValidateEndpoints(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Build parses the header and edge lines of text without checking that
// edge endpoints reference existing nodes.
//
// nodes_count and edges_count are taken as written. The number of edge
// lines must equal edges_count exactly.
func Build(text string, directed bool, base IndexBase) (*graph.Graph, error) {
	if !base.Valid() {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "index base must be 0 or 1, got %d", int(base))
	}

	lines := SplitLines(text)
	numLines := make([][]int, len(lines))
	for i, line := range lines {
		nums, err := parseIntLine(line, i+1)
		if err != nil {
			return nil, err
		}
		numLines[i] = nums
	}

	if len(numLines) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeEmptyInput, "%s", MsgEmptyInput)
	}

	header := numLines[0]
	if len(header) != 2 {
		return nil, apperrors.New(apperrors.ErrCodeMalformedHeader, "%s",
			withLocation(MsgMalformedHeader, 1, fmt.Sprintf("expected 2 integers, got %d", len(header))))
	}
	nodesCount, edgesCount := header[0], header[1]

	rest := numLines[1:]
	if len(rest) != edgesCount {
		return nil, apperrors.New(apperrors.ErrCodeEdgeCountMismatch, "%s",
			withLocation(MsgEdgeCountMismatch, 0, fmt.Sprintf("declared %d, found %d", edgesCount, len(rest))))
	}

	edges := make([]graph.Edge, len(rest))
	for i, nums := range rest {
		e, err := parseEdge(nums, i+2)
		if err != nil {
			return nil, err
		}
		edges[i] = e
	}

	return &graph.Graph{
		NodesCount: nodesCount,
		EdgesCount: edgesCount,
		Edges:      edges,
		Directed:   directed,
		IndexBase:  base,
	}, nil
}

// ParseEdge interprets an integer line as "from to [weight]".
// The weight defaults to 1 and is otherwise taken verbatim.
func ParseEdge(nums []int) (graph.Edge, error) {
	return parseEdge(nums, 0)
}

func parseEdge(nums []int, lineNo int) (graph.Edge, error) {
	if len(nums) < 2 || len(nums) > 3 {
		return graph.Edge{}, apperrors.New(apperrors.ErrCodeInvalidEdgeDefinition, "%s",
			withLocation(MsgInvalidEdgeDefinition, lineNo, fmt.Sprintf("expected 2 or 3 integers, got %d", len(nums))))
	}
	e := graph.Edge{From: nums[0], To: nums[1], Weight: graph.DefaultWeight}
	if len(nums) == 3 {
		e.Weight = nums[2]
	}
	return e, nil
}
