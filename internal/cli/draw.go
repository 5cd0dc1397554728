package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/pipeline"
)

// drawOpts holds the command-line flags for the draw command.
type drawOpts struct {
	input       inputFlags
	output      string  // output file, base path for several formats, or "-" for stdout
	formats     string  // comma-separated output formats
	engine      string  // Graphviz layout engine
	width       float64 // canvas width in pixels
	height      float64 // canvas height in pixels
	seed        int     // layout seed
	hideWeights bool    // omit edge weight labels
	title       string  // HTML page title
	noCache     bool    // bypass the artifact cache entirely
	refresh     bool    // re-render and overwrite cached artifacts
}

// drawCommand creates the draw command.
func (c *CLI) drawCommand() *cobra.Command {
	var opts drawOpts

	cmd := &cobra.Command{
		Use:   "draw [file]",
		Short: "Draw graph text as SVG, PNG, PDF, DOT, JSON, HTML or text",
		Long: `Draw parses graph text and renders it in one or more formats.

The input is a file or, when no file is given or the file is "-", stdin.
Files ending in .json are read as graphs written by "graphtext fmt --json".
With a single format, -o names the output file ("-" writes to stdout).
With several formats, -o is the base path and each format adds its own
extension.

Nothing is written when the input does not parse.`,
		Example: `  graphtext draw graph.txt
  graphtext draw -d -b 1 -f svg,html graph.txt -o out/graph
  printf '3 2\n0 1\n1 2\n' | graphtext draw -f dot -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDraw(cmd, inputArg(args), &opts)
		},
	}

	opts.input.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (several formats)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg, png, pdf, dot, json, html, txt (comma-separated)")
	cmd.Flags().StringVarP(&opts.engine, "engine", "e", "", "layout engine: fdp, neato, sfdp, dot, circo")
	cmd.Flags().Float64Var(&opts.width, "width", 0, "canvas width in pixels")
	cmd.Flags().Float64Var(&opts.height, "height", 0, "canvas height in pixels")
	cmd.Flags().IntVar(&opts.seed, "seed", 0, "layout seed")
	cmd.Flags().BoolVar(&opts.hideWeights, "hide-weights", false, "do not label edges with their weights")
	cmd.Flags().StringVar(&opts.title, "title", "", "page title for html output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// pipelineOptions merges the flags over the [draw] config section.
func (o *drawOpts) pipelineOptions(cmd *cobra.Command, c *CLI) (pipeline.Options, error) {
	cfg := c.settings()
	opts := drawDefaults(cfg)

	directed, base, err := o.input.resolve(cmd, cfg)
	if err != nil {
		return opts, err
	}
	opts.Directed, opts.IndexBase = directed, base

	if o.formats != "" {
		opts.Formats = parseFormats(o.formats)
	}
	if o.engine != "" {
		opts.Engine = o.engine
	}
	if o.width > 0 {
		opts.Width = o.width
	}
	if o.height > 0 {
		opts.Height = o.height
	}
	opts.Seed = o.seed
	opts.HideWeights = o.hideWeights
	opts.Title = o.title
	opts.Refresh = o.refresh
	opts.Logger = c.Logger

	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if o.output == stdinName && len(opts.Formats) > 1 {
		return opts, apperrors.New(apperrors.ErrCodeInvalidInput, "-o - writes a single format, got %d", len(opts.Formats))
	}
	return opts, nil
}

// runDraw parses the input, renders every format and writes the files.
func (c *CLI) runDraw(cmd *cobra.Command, input string, opts *drawOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	popts, err := opts.pipelineOptions(cmd, c)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	logger.Infof("Drawing %s", displayName(input))
	prog := newProgress(logger)
	renderer := &pipeline.ArtifactRenderer{Runner: runner, Options: popts}

	g, err := c.drawInput(cmd, input, opts, renderer)
	if err != nil {
		return err
	}
	logger.Debugf("Parsed graph: %d nodes, %d edges", g.NodesCount, len(g.Edges))

	toStdout := opts.output == stdinName
	paths := make([]string, len(popts.Formats))
	for i, format := range popts.Formats {
		paths[i] = outputPath(opts.output, input, format, len(popts.Formats))
		if !toStdout && !isStdin(input) && filepath.Clean(paths[i]) == filepath.Clean(input) {
			return apperrors.New(apperrors.ErrCodeInvalidInput, "refusing to overwrite input %s", input)
		}
	}
	for i, format := range popts.Formats {
		if err := writeArtifact(cmd.OutOrStdout(), paths[i], renderer.Artifacts[format]); err != nil {
			return err
		}
		if !toStdout {
			printFile(paths[i])
		}
	}

	if !toStdout {
		printStats(g.NodesCount, len(g.Edges), renderer.CacheHit)
	}
	prog.done("Drew "+displayName(input), "formats", len(popts.Formats), "cached", renderer.CacheHit)
	return nil
}

// drawInput parses graph text through pipeline.Draw, or loads a JSON graph,
// and renders it with r. Slow formats show a spinner.
func (c *CLI) drawInput(cmd *cobra.Command, input string, opts *drawOpts, r *pipeline.ArtifactRenderer) (*graph.Graph, error) {
	ctx := cmd.Context()
	render := pipeline.Renderer(r)
	if needsSpinner(r.Options.Formats) && opts.output != stdinName {
		render = spinningRenderer(r, "Rendering "+strings.Join(r.Options.Formats, ", "))
	}

	if !isStdin(input) && isJSONInput(input) {
		g, err := readGraphFile(input)
		if err != nil {
			return nil, err
		}
		return g, render.Render(ctx, g)
	}

	src, err := readInput(cmd, input, &opts.input, c.settings())
	if err != nil {
		return nil, err
	}
	return pipeline.DrawLimited(ctx, src, render, r.Options.MaxNodes)
}

// needsSpinner reports whether any format goes through Graphviz or
// rsvg-convert, which can take noticeable time on large graphs.
func needsSpinner(formats []string) bool {
	for _, f := range formats {
		switch f {
		case pipeline.FormatSVG, pipeline.FormatPNG, pipeline.FormatPDF:
			return true
		}
	}
	return false
}

// spinningRenderer wraps r so a spinner runs while it renders.
func spinningRenderer(r pipeline.Renderer, message string) pipeline.Renderer {
	return pipeline.RendererFunc(func(ctx context.Context, g *graph.Graph) error {
		s := newSpinnerWithContext(ctx, message)
		s.Start()
		defer s.Stop()
		return r.Render(ctx, g)
	})
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input (stdin becomes
// "graph"). If output has a format extension (.svg, .pdf, etc.), it strips
// that extension.
func basePath(output, input string) string {
	if output == "" {
		if isStdin(input) {
			return "graph"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where one format is written.
func outputPath(output, input, format string, count int) string {
	if output == stdinName {
		return stdinName
	}
	if count == 1 && output != "" {
		return output
	}
	return basePath(output, input) + "." + format
}

// writeArtifact writes data to path, or to stdout when path is "-".
func writeArtifact(stdout io.Writer, path string, data []byte) error {
	if path == stdinName {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
