package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphtext/internal/config"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
)

// stdinName is the file argument that selects standard input.
const stdinName = "-"

// textInput is graph text read from a file or stdin, together with the
// two parse flags. It satisfies pipeline.InputSource.
type textInput struct {
	name     string
	text     string
	directed bool
	base     graphtext.IndexBase
}

func (t textInput) Text() string                   { return t.text }
func (t textInput) Directed() bool                 { return t.directed }
func (t textInput) IndexBase() graphtext.IndexBase { return t.base }

// inputFlags are the parse flags shared by draw, check, fmt and edit.
// Unset flags fall back to the [draw] config section.
type inputFlags struct {
	directed bool
	base     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&f.directed, "directed", "d", false, "treat edges as directed")
	cmd.Flags().StringVarP(&f.base, "index-base", "b", "0", "node id base: 0 (zero) or 1 (one)")
}

// resolve merges the flags with the config defaults.
func (f *inputFlags) resolve(cmd *cobra.Command, cfg *config.Config) (bool, graphtext.IndexBase, error) {
	directed := cfg.Draw.Directed
	if cmd.Flags().Changed("directed") {
		directed = f.directed
	}

	base, err := graphtext.IndexBaseFromInt(cfg.Draw.IndexBase)
	if err != nil {
		return false, 0, err
	}
	if cmd.Flags().Changed("index-base") {
		if base, err = graphtext.ParseIndexBase(f.base); err != nil {
			return false, 0, err
		}
	}
	return directed, base, nil
}

// inputArg returns the file argument, or "-" for stdin.
func inputArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return stdinName
	}
	return args[0]
}

// isStdin reports whether path selects standard input.
func isStdin(path string) bool {
	return path == stdinName
}

// isJSONInput reports whether path holds a graph in JSON form rather than
// graph text.
func isJSONInput(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// readText reads graph text from path or stdin and rejects input that is
// too large or not text.
func readText(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if isStdin(path) {
		data, err = io.ReadAll(io.LimitReader(stdin, apperrors.MaxTextBytes+1))
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", err
	}

	text := string(data)
	if err := apperrors.ValidateGraphText(text, 0); err != nil {
		return "", err
	}
	return text, nil
}

// readInput reads graph text and attaches the resolved parse flags.
func readInput(cmd *cobra.Command, path string, f *inputFlags, cfg *config.Config) (textInput, error) {
	directed, base, err := f.resolve(cmd, cfg)
	if err != nil {
		return textInput{}, err
	}
	text, err := readText(cmd.InOrStdin(), path)
	if err != nil {
		return textInput{}, err
	}
	return textInput{name: path, text: text, directed: directed, base: base}, nil
}

// readGraphFile loads a JSON graph and checks its endpoints.
func readGraphFile(path string) (*graph.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return graphtext.ReadGraph(f)
}

// displayName is the input name shown in status lines.
func displayName(path string) string {
	if isStdin(path) {
		return "stdin"
	}
	return path
}
