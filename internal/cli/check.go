package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate graph text without drawing it",
		Long: `Check parses graph text with the same rules as draw and prints a summary.
It exits non-zero with "Error: <message>" when the text is invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, inputArg(args), &in)
		},
	}
	in.register(cmd)
	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, input string, in *inputFlags) error {
	src, err := readInput(cmd, input, in, c.settings())
	if err != nil {
		return err
	}

	discard := pipeline.RendererFunc(func(context.Context, *graph.Graph) error { return nil })
	g, err := pipeline.Draw(cmd.Context(), src, discard)
	if err != nil {
		return err
	}

	printSuccess("%s is a valid graph", displayName(input))
	printKeyValue("nodes", strconv.Itoa(g.NodesCount))
	printKeyValue("edges", strconv.Itoa(len(g.Edges)))
	printKeyValue("directed", strconv.FormatBool(g.Directed))
	printKeyValue("index base", g.IndexBase.String())
	if g.NodesCount > 0 {
		printKeyValue("node ids", fmt.Sprintf("%d..%d", int(g.IndexBase), g.NodesCount+int(g.IndexBase)-1))
	}
	if lo, hi, ok := weightRange(g); ok {
		printKeyValue("weights", fmt.Sprintf("%d..%d", lo, hi))
	}

	if !isStdin(input) {
		printNextStep("Draw it", "graphtext draw "+input)
	}
	return nil
}

// weightRange returns the smallest and largest edge weight.
func weightRange(g *graph.Graph) (lo, hi int, ok bool) {
	for i, e := range g.Edges {
		if i == 0 {
			lo, hi = e.Weight, e.Weight
			continue
		}
		lo = min(lo, e.Weight)
		hi = max(hi, e.Weight)
	}
	return lo, hi, len(g.Edges) > 0
}
