package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
)

// fmtOpts holds the command-line flags for the fmt command.
type fmtOpts struct {
	input inputFlags
	write bool // rewrite the input file in place
	json  bool // print the graph as JSON instead of text
}

// fmtCommand creates the fmt command.
func (c *CLI) fmtCommand() *cobra.Command {
	var opts fmtOpts

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Print graph text in canonical form",
		Long: `Fmt parses graph text and prints it back with single spaces, one edge per
line and weights of 1 left out. With --json it prints the graph in the JSON
form that draw accepts as input.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFmt(cmd, inputArg(args), &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().BoolVarP(&opts.write, "write", "w", false, "write the result back to the input file")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the graph as JSON")
	return cmd
}

func (c *CLI) runFmt(cmd *cobra.Command, input string, opts *fmtOpts) error {
	if opts.write && isStdin(input) {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "--write needs a file argument")
	}
	if opts.write && opts.json {
		return apperrors.New(apperrors.ErrCodeInvalidInput, "--write and --json cannot be combined")
	}

	src, err := readInput(cmd, input, &opts.input, c.settings())
	if err != nil {
		return err
	}
	g, err := graphtext.Parse(src.Text(), src.Directed(), src.IndexBase())
	if err != nil {
		return err
	}

	if opts.json {
		return graph.WriteGraph(g, cmd.OutOrStdout())
	}

	text := graph.FormatText(g)
	if opts.write {
		if err := os.WriteFile(input, []byte(text), 0o644); err != nil {
			return err
		}
		printSuccess("Formatted %s", input)
		return nil
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), text)
	return err
}
