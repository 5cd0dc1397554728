package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphtext/internal/config"
	"github.com/matzehuels/graphtext/pkg/cache"
	apperrors "github.com/matzehuels/graphtext/pkg/errors"
	"github.com/matzehuels/graphtext/pkg/graph"
	"github.com/matzehuels/graphtext/pkg/graphtext"
)

// execute runs the root command with a private cache dir and a missing
// config file, so only defaults apply.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return executeWithConfig(t, filepath.Join(t.TempDir(), "config.toml"), stdin, args...)
}

func executeWithConfig(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append([]string{"--config", configPath}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	want := []string{"draw", "check", "fmt", "edit", "serve", "cache", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd == root {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing --config flag")
	}
}

func TestDrawStdout(t *testing.T) {
	out, err := execute(t, "3 2\n0 1\n1 2 5\n", "draw", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("undirected dot output = %q", out)
	}
	if !strings.Contains(out, "0 -- 1") || !strings.Contains(out, "1 -- 2") {
		t.Errorf("dot output missing edges: %q", out)
	}

	out, err = execute(t, "3 2\n0 1\n1 2 5\n", "draw", "--directed", "-f", "dot", "-o", "-")
	if err != nil {
		t.Fatalf("draw --directed: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") {
		t.Errorf("directed dot output = %q", out)
	}
}

func TestDrawFiles(t *testing.T) {
	input := writeFile(t, "g.txt", "3  3\n0 1\n\n1 2 1\n2 0 7\n")
	base := filepath.Join(t.TempDir(), "out", "graph")

	if _, err := execute(t, "", "draw", "-f", "txt,json", "-o", base, input); err != nil {
		t.Fatalf("draw: %v", err)
	}

	txt, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(txt), "3 3\n0 1\n1 2\n2 0 7\n"; got != want {
		t.Errorf("txt = %q, want %q", got, want)
	}

	g, err := graph.ReadGraphFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if g.NodesCount != 3 || len(g.Edges) != 3 || g.Edges[2].Weight != 7 {
		t.Errorf("json graph = %+v", g)
	}
}

func TestDrawRefusesToOverwriteInput(t *testing.T) {
	input := writeFile(t, "g.txt", "2 1\n0 1\n")

	_, err := execute(t, "", "draw", "-f", "txt", "-o", input, input)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	data, _ := os.ReadFile(input)
	if string(data) != "2 1\n0 1\n" {
		t.Errorf("input changed to %q", data)
	}
}

func TestDrawOverwriteCheckedBeforeAnyWrite(t *testing.T) {
	input := writeFile(t, "g.txt", "2 1\n0 1\n")
	sibling := strings.TrimSuffix(input, ".txt") + ".json"

	_, err := execute(t, "", "draw", "-f", "json,txt", input)
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if _, err := os.Stat(sibling); !os.IsNotExist(err) {
		t.Errorf("%s was written before the overwrite check failed", sibling)
	}
}

func TestDrawNodeLimit(t *testing.T) {
	_, err := execute(t, "100000000000 0\n", "draw", "-f", "json", "-o", "-")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("default limit: err = %v, want INVALID_INPUT", err)
	}

	cfgPath := writeFile(t, "config.toml", "[draw]\nmax_nodes = 2\n")
	if _, err := executeWithConfig(t, cfgPath, "3 0\n", "draw", "-f", "txt", "-o", "-"); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("configured limit: err = %v, want INVALID_INPUT", err)
	}
	if _, err := executeWithConfig(t, cfgPath, "2 0\n", "draw", "-f", "txt", "-o", "-"); err != nil {
		t.Errorf("at configured limit: %v", err)
	}
}

func TestDrawParseErrorWritesNothing(t *testing.T) {
	output := filepath.Join(t.TempDir(), "out.txt")

	_, err := execute(t, "3 2\n0 1\n", "draw", "-f", "txt", "-o", output)
	if !apperrors.Is(err, apperrors.ErrCodeEdgeCountMismatch) {
		t.Fatalf("err = %v, want EDGE_COUNT_MISMATCH", err)
	}
	if got := apperrors.Display(err); !strings.HasPrefix(got, "Error: Edge counts and line counts did not match") {
		t.Errorf("Display = %q", got)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Errorf("output written on parse failure (stat err = %v)", err)
	}
}

func TestDrawIndexBase(t *testing.T) {
	text := "2 1\n1 2\n"

	_, err := execute(t, text, "draw", "-f", "txt", "-o", "-")
	if !apperrors.Is(err, apperrors.ErrCodeEdgeOutOfRange) {
		t.Errorf("zero-based err = %v, want EDGE_OUT_OF_RANGE", err)
	}

	out, err := execute(t, text, "draw", "-b", "one", "-f", "txt", "-o", "-")
	if err != nil {
		t.Fatalf("one-based: %v", err)
	}
	if out != text {
		t.Errorf("out = %q, want %q", out, text)
	}

	_, err = execute(t, text, "draw", "-b", "2", "-f", "txt", "-o", "-")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("bad base err = %v, want INVALID_INPUT", err)
	}
}

func TestDrawJSONInput(t *testing.T) {
	g, err := graphtext.Parse("3 2\n1 2\n2 3 4\n", true, graphtext.OneBased)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "g.json")
	if err := graph.WriteGraphFile(g, path); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "", "draw", "-f", "txt", "-o", "-", path)
	if err != nil {
		t.Fatalf("draw json: %v", err)
	}
	if out != "3 2\n1 2\n2 3 4\n" {
		t.Errorf("out = %q", out)
	}
}

func TestDrawJSONInputOutOfRange(t *testing.T) {
	path := writeFile(t, "bad.json",
		`{"nodes_count":2,"edges_count":1,"edges":[{"from":0,"to":5,"weight":1}],"directed":false,"index_base":0}`)

	_, err := execute(t, "", "draw", "-f", "txt", "-o", "-", path)
	if !apperrors.Is(err, apperrors.ErrCodeEdgeOutOfRange) {
		t.Errorf("err = %v, want EDGE_OUT_OF_RANGE", err)
	}
}

func TestDrawInvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code apperrors.Code
	}{
		{"unknown format", []string{"-f", "gif"}, apperrors.ErrCodeInvalidFormat},
		{"unknown engine", []string{"-e", "spring"}, apperrors.ErrCodeInvalidEngine},
		{"stdout with two formats", []string{"-f", "txt,dot", "-o", "-"}, apperrors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"draw"}, tt.args...)
			_, err := execute(t, "2 1\n0 1\n", args...)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestDrawUsesConfigDefaults(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", `
[draw]
directed = true
index_base = 1
engine = "neato"
formats = ["dot"]
`)

	out, err := executeWithConfig(t, cfgPath, "2 1\n1 2\n", "draw", "-o", "-")
	if err != nil {
		t.Fatalf("draw: %v", err)
	}
	if !strings.HasPrefix(out, "digraph G {") || !strings.Contains(out, "1 -> 2") {
		t.Errorf("out = %q", out)
	}

	// Flags override the file.
	out, err = executeWithConfig(t, cfgPath, "2 1\n0 1\n", "draw", "--directed=false", "-b", "0", "-o", "-")
	if err != nil {
		t.Fatalf("draw with overrides: %v", err)
	}
	if !strings.HasPrefix(out, "graph G {") {
		t.Errorf("out = %q", out)
	}
}

func TestBadConfig(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[draw]\nshape = \"tower\"\n")

	_, err := executeWithConfig(t, cfgPath, "2 1\n0 1\n", "check")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		code  apperrors.Code
	}{
		{"valid", "3 2\n0 1\n1 2\n", nil, ""},
		{"valid one-based", "3 2\n1 2\n2 3\n", []string{"-b", "1"}, ""},
		{"no edges", "5 0\n", nil, ""},
		{"empty", "  \n\n ", nil, apperrors.ErrCodeEmptyInput},
		{"bad header", "3\n", nil, apperrors.ErrCodeMalformedHeader},
		{"count mismatch", "3 2\n0 1\n", nil, apperrors.ErrCodeEdgeCountMismatch},
		{"bad edge", "3 1\n0 1 2 3\n", nil, apperrors.ErrCodeInvalidEdgeDefinition},
		{"out of range", "3 1\n0 3\n", nil, apperrors.ErrCodeEdgeOutOfRange},
		{"not a number", "3 1\n0 x\n", nil, apperrors.ErrCodeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"check"}, tt.args...)
			_, err := execute(t, tt.input, args...)
			if got := apperrors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err %v)", got, tt.code, err)
			}
		})
	}
}

func TestCheckBinaryInput(t *testing.T) {
	_, err := execute(t, "2 1\n0\x001\n", "check")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestFmt(t *testing.T) {
	out, err := execute(t, "  3   2\n\n0 1 1\n1 2 +9\n", "fmt")
	if err != nil {
		t.Fatal(err)
	}
	if out != "3 2\n0 1\n1 2 9\n" {
		t.Errorf("fmt = %q", out)
	}

	out, err = execute(t, "2 1\n0 1\n", "fmt", "--json", "--directed")
	if err != nil {
		t.Fatal(err)
	}
	g, err := graph.UnmarshalGraph([]byte(out))
	if err != nil {
		t.Fatalf("fmt --json output: %v", err)
	}
	if !g.Directed || g.NodesCount != 2 {
		t.Errorf("graph = %+v", g)
	}
}

func TestFmtWrite(t *testing.T) {
	path := writeFile(t, "g.txt", "2 1\n 0   1 \n")

	if _, err := execute(t, "", "fmt", "-w", path); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "2 1\n0 1\n" {
		t.Errorf("file = %q", data)
	}

	_, err := execute(t, "2 1\n0 1\n", "fmt", "-w")
	if !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("fmt -w on stdin err = %v, want INVALID_INPUT", err)
	}
}

func TestFmtInvalidLeavesFile(t *testing.T) {
	path := writeFile(t, "g.txt", "2 2\n0 1\n")

	_, err := execute(t, "", "fmt", "-w", path)
	if !apperrors.Is(err, apperrors.ErrCodeEdgeCountMismatch) {
		t.Fatalf("err = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "2 2\n0 1\n" {
		t.Errorf("file changed to %q", data)
	}
}

func TestCachePath(t *testing.T) {
	cache := t.TempDir()
	cfgPath := writeFile(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(cache)+"\"\n")

	out, err := executeWithConfig(t, cfgPath, "", "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.ToSlash(cache) {
		t.Errorf("cache path = %q, want %q", out, cache)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n")

	if _, err := executeWithConfig(t, cfgPath, "2 1\n0 1\n", "draw", "-f", "txt", "-o", "-"); err != nil {
		t.Fatal(err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) == 0 {
		t.Fatal("draw did not populate the cache")
	}

	if _, err := executeWithConfig(t, cfgPath, "", "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	entries, _ = os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("cache has %d entries after clear", len(entries))
	}
}

// captureStatus redirects status lines into the returned buffer.
func captureStatus(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	old := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = old })
	return &buf
}

func TestCacheInfo(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, "config.toml", "[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\nttl = \"2h\"\n")

	if _, err := executeWithConfig(t, cfgPath, "2 1\n0 1\n", "draw", "-f", "txt", "-o", "-"); err != nil {
		t.Fatal(err)
	}

	status := captureStatus(t)
	if _, err := executeWithConfig(t, cfgPath, "", "cache", "info"); err != nil {
		t.Fatal(err)
	}
	out := status.String()
	for _, want := range []string{dir, "entries", "2h0m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("cache info %q lacks %q", out, want)
		}
	}
}

func TestCacheRedisBackendWarns(t *testing.T) {
	cfgPath := writeFile(t, "config.toml", "[cache]\nbackend = \"redis\"\n")
	status := captureStatus(t)
	if _, err := executeWithConfig(t, cfgPath, "", "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(status.String(), "only the file cache") {
		t.Errorf("warning missing: %q", status.String())
	}
}

func TestHumanBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536:    "1.5 KiB",
		5 << 20: "5.0 MiB",
		3 << 30: "3.0 GiB",
	}
	for n, want := range tests {
		if got := humanBytes(n); got != want {
			t.Errorf("humanBytes(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "", "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "graphtext") {
		t.Error("bash completion does not mention graphtext")
	}
}

func TestNewCache(t *testing.T) {
	ctx := context.Background()
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	c, err := newCache(ctx, cfg, false)
	if err != nil {
		t.Fatal(err)
	}
	fc, ok := c.(*cache.FileCache)
	if !ok {
		t.Fatalf("file backend gave %T", c)
	}
	if fc.Dir() != cfg.Cache.Dir {
		t.Errorf("dir = %q, want %q", fc.Dir(), cfg.Cache.Dir)
	}

	if c, _ := newCache(ctx, cfg, true); !isNull(c) {
		t.Errorf("--no-cache gave %T", c)
	}

	cfg.Cache.Backend = "none"
	if c, _ := newCache(ctx, cfg, false); !isNull(c) {
		t.Errorf("none backend gave %T", c)
	}
}

func isNull(c cache.Cache) bool {
	_, ok := c.(cache.NullCache)
	return ok
}

func TestNewRunnerUsesConfig(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg = config.Default()
	c.cfg.Cache.Dir = t.TempDir()
	c.cfg.Cache.TTL.Duration = time.Hour
	c.cfg.Cache.Prefix = "test:"

	runner, err := c.newRunner(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	defer runner.Close()

	if runner.TTL != c.cfg.Cache.TTL.Duration {
		t.Errorf("TTL = %v", runner.TTL)
	}
	if key := runner.Keyer.ArtifactKey("h", cache.ArtifactKeyOpts{Format: "svg"}); !strings.HasPrefix(key, "test:") {
		t.Errorf("key %q lacks prefix", key)
	}
}

func TestInputFlagsResolve(t *testing.T) {
	cfg := config.Default()
	cfg.Draw.Directed = true
	cfg.Draw.IndexBase = 1

	newCmd := func(args ...string) (*cobra.Command, *inputFlags) {
		var f inputFlags
		cmd := &cobra.Command{Use: "x"}
		f.register(cmd)
		if err := cmd.ParseFlags(args); err != nil {
			t.Fatal(err)
		}
		return cmd, &f
	}

	cmd, f := newCmd()
	directed, base, err := f.resolve(cmd, cfg)
	if err != nil || !directed || base != graphtext.OneBased {
		t.Errorf("defaults: directed=%v base=%v err=%v", directed, base, err)
	}

	cmd, f = newCmd("--directed=false", "--index-base", "zero")
	directed, base, err = f.resolve(cmd, cfg)
	if err != nil || directed || base != graphtext.ZeroBased {
		t.Errorf("overrides: directed=%v base=%v err=%v", directed, base, err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and case", " SVG, html ", []string{"svg", "html"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "graph.txt", "graph"},
		{"", "dir/g.in", "dir/g"},
		{"", "-", "graph"},
		{"out.svg", "g.txt", "out"},
		{"out.drawing", "g.txt", "out.drawing"},
		{"out", "g.txt", "out"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		output, input, format string
		count                 int
		want                  string
	}{
		{"-", "g.txt", "dot", 1, "-"},
		{"", "g.txt", "svg", 1, "g.svg"},
		{"drawing.svg", "g.txt", "svg", 1, "drawing.svg"},
		{"drawing.svg", "g.txt", "png", 2, "drawing.png"},
		{"", "-", "html", 2, "graph.html"},
	}

	for _, tt := range tests {
		if got := outputPath(tt.output, tt.input, tt.format, tt.count); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q, %d) = %q, want %q",
				tt.output, tt.input, tt.format, tt.count, got, tt.want)
		}
	}
}

func TestServerURL(t *testing.T) {
	tests := map[string]string{
		":8080":          "http://localhost:8080",
		"0.0.0.0:9000":   "http://localhost:9000",
		"example.org:80": "http://example.org:80",
		"weird":          "http://weird",
	}
	for addr, want := range tests {
		if got := serverURL(addr); got != want {
			t.Errorf("serverURL(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestNewStore(t *testing.T) {
	cfg := config.Default()
	store, err := newStore(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close(context.Background())

	cfg.Store.Backend = "sqlite"
	if _, err := newStore(context.Background(), cfg); !apperrors.Is(err, apperrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v, want INVALID_INPUT", err)
	}
}

func TestWeightRange(t *testing.T) {
	g := &graph.Graph{Edges: []graph.Edge{{Weight: 3}, {Weight: -2}, {Weight: 8}}}
	lo, hi, ok := weightRange(g)
	if !ok || lo != -2 || hi != 8 {
		t.Errorf("weightRange = %d, %d, %v", lo, hi, ok)
	}
	if _, _, ok := weightRange(&graph.Graph{}); ok {
		t.Error("empty graph should have no weight range")
	}
}
