package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/mutdom/pkg/graph"
	"github.com/matzehuels/mutdom/pkg/pipeline"
)

const sampleCSV = `TestNo,MutantNo,[FAIL | TIME | EXC]
t1,1,FAIL
t2,1,FAIL
t1,2,FAIL
t3,3,FAIL
t2,4,TIME
`

// runCLI executes the root command with args in an isolated XDG
// environment.
func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kills.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{"svg", []string{"svg"}},
		{"svg,PNG, dot", []string{"svg", "png", "dot"}},
		{"json,,", []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputFormats(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    []string
	}{
		{"nothing requested", "", nil, nil},
		{"explicit formats win", "out.png", []string{"svg"}, []string{"svg"}},
		{"extension implies format", "out.png", nil, []string{"png"}},
		{"unknown extension writes layout", "out.layout", nil, []string{"json"}},
		{"no extension writes layout", "out", nil, []string{"json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputFormats(tt.output, tt.formats); !slices.Equal(got, tt.want) {
				t.Errorf("outputFormats(%q, %v) = %v, want %v", tt.output, tt.formats, got, tt.want)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/kills.csv", "data/kills"},
		{"", stdinArg, appName},
		{"out/dmsg.svg", "kills.csv", "out/dmsg"},
		{"out/dmsg", "kills.csv", "out/dmsg"},
		{"out/dmsg.v2", "kills.csv", "out/dmsg.v2"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{"svg": []byte("<svg/>"), "dot": []byte("digraph {}")}

	paths, err := writeArtifacts(artifacts, []string{"svg", "dot"}, filepath.Join(dir, "nested", "dmsg"), "kills.csv")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	want := []string{filepath.Join(dir, "nested", "dmsg.svg"), filepath.Join(dir, "nested", "dmsg.dot")}
	if !slices.Equal(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}

	single := filepath.Join(dir, "graph.svg")
	paths, err = writeArtifacts(artifacts, []string{"svg"}, single, "kills.csv")
	if err != nil {
		t.Fatalf("writeArtifacts: %v", err)
	}
	if len(paths) != 1 || paths[0] != single {
		t.Errorf("single output paths = %v, want [%s]", paths, single)
	}
}

func TestAnalyzeCommandWritesLayout(t *testing.T) {
	input := writeSample(t)

	if err := runCLI(t, "analyze", input, "-f", "json,dot", "--no-cache"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	base := strings.TrimSuffix(input, ".csv")
	l, err := graph.ReadLayoutFile(base + ".json")
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if !slices.Equal(l.Dominators, []string{"2", "3"}) {
		t.Errorf("dominators = %v, want [2 3]", l.Dominators)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 1 {
		t.Errorf("got %d nodes, %d edges; want 3, 1", len(l.Nodes), len(l.Edges))
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") {
		t.Errorf("dot output is not a digraph: %q", dot)
	}
}

func TestAnalyzeCommandSurvivors(t *testing.T) {
	input := writeSample(t)
	output := filepath.Join(t.TempDir(), "layout.json")

	if err := runCLI(t, "analyze", input, "--include-survivors", "-o", output); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	// The survivor's empty kill set subsumes every other group.
	if !slices.Equal(l.Dominators, []string{"4"}) {
		t.Errorf("dominators = %v, want [4]", l.Dominators)
	}
}

func TestAnalyzeCommandErrors(t *testing.T) {
	input := writeSample(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"analyze", filepath.Join(t.TempDir(), "none.csv")}},
		{"bad format", []string{"analyze", input, "-f", "gif"}},
		{"bad viz type", []string{"analyze", input, "-t", "radial"}},
		{"too many mutants", []string{"analyze", input, "--max-mutants", "2", "--no-cache"}},
		{"control char in output", []string{"analyze", input, "-o", "out\x01.json", "--no-cache"}},
		{"no argument", []string{"analyze"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected error", tt.args)
			}
		})
	}
}

func TestRenderCommandSavedLayout(t *testing.T) {
	input := writeSample(t)
	layoutPath := filepath.Join(filepath.Dir(input), "kills.json")
	if err := runCLI(t, "analyze", input, "-o", layoutPath, "--no-cache"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if err := runCLI(t, "render", layoutPath, "-t", "nodelink", "--reduce", "-f", "dot,json", "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	base := filepath.Join(filepath.Dir(input), "kills_render")
	rendered, err := graph.ReadLayoutFile(base + ".json")
	if err != nil {
		t.Fatalf("read rendered layout: %v", err)
	}
	if !rendered.IsNodelink() || !rendered.Reduced {
		t.Errorf("rendered layout viz_type=%q reduced=%v, want nodelink reduced", rendered.VizType, rendered.Reduced)
	}
	if _, err := os.Stat(base + ".dot"); err != nil {
		t.Errorf("dot output missing: %v", err)
	}

	// the source layout is left untouched
	orig, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if orig.IsNodelink() {
		t.Error("render overwrote its input layout")
	}
}

func TestRenderCommandBareGraph(t *testing.T) {
	input := filepath.Join(t.TempDir(), "graph.json")
	body := `{
  "nodes": [
    {"id": "1", "kill_set": ["t1", "t2"]},
    {"id": "2", "kill_set": ["t1"]},
    {"id": "3", "kill_set": ["t3"]}
  ],
  "edges": [{"from": "2", "to": "1"}]
}`
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	output := filepath.Join(filepath.Dir(input), "layout.json")
	if err := runCLI(t, "render", input, "-o", output, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}

	l, err := graph.ReadLayoutFile(output)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if !slices.Equal(l.Dominators, []string{"2", "3"}) {
		t.Errorf("dominators = %v, want [2 3]", l.Dominators)
	}
	if len(l.Levels) != 2 || !l.IsLayered() {
		t.Errorf("levels = %v, viz_type = %q", l.Levels, l.VizType)
	}
}

func TestBrowseLayoutBareGraph(t *testing.T) {
	input := filepath.Join(t.TempDir(), "graph.json")
	body := `{"nodes": [{"id": "1"}, {"id": "2, 3"}], "edges": [{"from": "1", "to": "2, 3"}]}`
	if err := os.WriteFile(input, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	l, err := c.browseLayout(context.Background(), input, pipeline.Options{}, true)
	if err != nil {
		t.Fatalf("browseLayout: %v", err)
	}
	if !slices.Equal(l.Dominators, []string{"1"}) || len(l.Nodes) != 2 {
		t.Errorf("layout = %d nodes, dominators %v", len(l.Nodes), l.Dominators)
	}
}

func TestCacheCommands(t *testing.T) {
	input := writeSample(t)
	cacheHome := t.TempDir()

	run := func(args ...string) error {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		t.Setenv("XDG_CACHE_HOME", cacheHome)
		c := New(io.Discard, LogInfo)
		root := c.RootCommand()
		root.SetArgs(args)
		root.SetOut(io.Discard)
		return root.ExecuteContext(context.Background())
	}

	if err := run("analyze", input); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	entries, err := os.ReadDir(filepath.Join(cacheHome, appName))
	if err != nil || len(entries) == 0 {
		t.Fatalf("analysis was not cached: %v", err)
	}

	if err := run("cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(filepath.Join(cacheHome, appName))
	if len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestConfigFlagPrecedence(t *testing.T) {
	input := writeSample(t)
	cfg := writeConfig(t, "[render]\nviz_type = \"nodelink\"\n\n[cache]\ndisabled = true\n")
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"config value", nil, graph.VizTypeNodelink},
		{"flag overrides config", []string{"-t", "layered"}, graph.VizTypeLayered},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.Repeat("x", i+1)+".json")
			args := append([]string{"--config", cfg, "analyze", input, "-o", out}, tt.args...)
			if err := runCLI(t, args...); err != nil {
				t.Fatalf("analyze: %v", err)
			}
			l, err := graph.ReadLayoutFile(out)
			if err != nil {
				t.Fatal(err)
			}
			if l.VizType != tt.want {
				t.Errorf("viz_type = %q, want %q", l.VizType, tt.want)
			}
		})
	}
}
