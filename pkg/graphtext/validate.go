package graphtext

import (
	"fmt"
	"io"
	"math"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
)

// ValidateEndpoints checks that every edge endpoint lies in
// [IndexBase, IndexBase+NodesCount-1].
//
// The scan tracks the smallest and largest endpoint starting from the
// sentinels +inf and -1, so a graph without edges passes for any node count
// with NodesCount+IndexBase >= 0. A negative declared node count with no
// edges still fails because the -1 sentinel is out of range.
func ValidateEndpoints(g *graph.Graph) error {
	lo, hi := math.MaxInt, -1
	for _, e := range g.Edges {
		lo = min(lo, e.From, e.To)
		hi = max(hi, e.From, e.To)
	}

	base := int(g.IndexBase)
	// hi-base cannot overflow; NodesCount+base can.
	if lo < base || hi-base >= g.NodesCount {
		detail := fmt.Sprintf("valid range is [%d, %d], found endpoints in [%d, %d]",
			base, g.NodesCount-1+base, lo, hi)
		return apperrors.New(apperrors.ErrCodeEdgeOutOfRange, "%s", withLocation(MsgEdgeOutOfRange, 0, detail))
	}
	return nil
}

// ReadGraph decodes a JSON graph written by graph.WriteGraph and checks its
// endpoints, so the result is as safe to render as the result of [Parse].
func ReadGraph(r io.Reader) (*graph.Graph, error) {
	g, err := graph.ReadGraph(r)
	if err != nil {
		return nil, err
	}
	if err := ValidateEndpoints(g); err != nil {
		return nil, err
	}
	return g, nil
}
