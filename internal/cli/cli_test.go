package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/stationflow/pkg/errors"
	sfio "github.com/matzehuels/stationflow/pkg/io"
	"github.com/matzehuels/stationflow/pkg/observability"
)

const lineModel = `{
  "surface": {"name": "main", "nodes": [
    {"id": 1, "name": "S1", "kind": "transporter-source", "x": 0, "y": 0, "next": [2]},
    {"id": 2, "name": "W1", "kind": "waypoint", "x": 0, "y": 0, "next": [3]},
    {"id": 3, "name": "S2", "kind": "transport-destination", "x": 0, "y": 0}
  ]},
  "connections": [{"from": "S1", "to": ["W1"]}, {"from": "W1", "to": ["S2"]}]
}`

// testEnv writes the line model and a config pointing the file cache into
// a temp dir.
func testEnv(t *testing.T) (dir, modelPath, configPath string) {
	t.Helper()
	dir = t.TempDir()
	modelPath = filepath.Join(dir, "line.json")
	if err := os.WriteFile(modelPath, []byte(lineModel), 0o644); err != nil {
		t.Fatal(err)
	}
	configPath = filepath.Join(dir, "stationflow.toml")
	cfg := "[cache]\nbackend = \"file\"\ndir = \"" + filepath.ToSlash(filepath.Join(dir, "cache")) + "\"\n"
	if err := os.WriteFile(configPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, modelPath, configPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Cleanup(observability.Reset)
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestArrangeCommand(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)

	out, err := run(t, "--config", configPath, "arrange", modelPath)
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	if !strings.Contains(out, "Arranged 3 nodes") {
		t.Errorf("output = %q", out)
	}

	m, err := sfio.ReadFile(filepath.Join(dir, "line.arranged.json"))
	if err != nil {
		t.Fatal(err)
	}
	for id, wantX := range map[int]int{1: 50, 2: 300, 3: 550} {
		n, _ := m.Node(id)
		if n.X != wantX || n.Y != 50 {
			t.Errorf("node %d at (%d,%d), want (%d,50)", id, n.X, n.Y, wantX)
		}
	}

	// Second run is served from the file cache.
	out, err = run(t, "--config", configPath, "arrange", modelPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should hit the cache: %q", out)
	}
}

func TestArrangeCommandFlags(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)
	output := filepath.Join(dir, "out.yaml")

	_, err := run(t, "--config", configPath, "--no-cache", "arrange", modelPath,
		"--select", "2,3", "--start", "100,200", "-o", output)
	if err != nil {
		t.Fatalf("arrange: %v", err)
	}
	m, err := sfio.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	s1, _ := m.Node(1)
	w1, _ := m.Node(2)
	if s1.X != 0 || s1.Y != 0 {
		t.Errorf("unselected node moved to (%d,%d)", s1.X, s1.Y)
	}
	if w1.X != 100 || w1.Y != 200 {
		t.Errorf("W1 at (%d,%d), want (100,200)", w1.X, w1.Y)
	}
}

func TestArrangeCommandErrors(t *testing.T) {
	_, modelPath, configPath := testEnv(t)

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"bad mode", []string{"arrange", modelPath, "--mode", "circle"}, errors.ErrCodeInvalidInput},
		{"bad selection", []string{"arrange", modelPath, "--select", "a"}, errors.ErrCodeInvalidInput},
		{"bad start", []string{"arrange", modelPath, "--start", "1"}, errors.ErrCodeInvalidInput},
		{"unknown node", []string{"arrange", modelPath, "--select", "9"}, errors.ErrCodeNotFound},
		{"missing file", []string{"arrange", modelPath + ".missing"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"--config", configPath, "--no-cache"}, tt.args...)...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestPlanCommand(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)

	out, err := run(t, "--config", configPath, "--no-cache", "plan", modelPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "Committed 1 waypoint assignments") {
		t.Errorf("output = %q", out)
	}

	m, err := sfio.ReadFile(filepath.Join(dir, "line.planned.json"))
	if err != nil {
		t.Fatal(err)
	}
	w1, _ := m.Node(2)
	if len(w1.Assignments) != 1 || w1.Assignments[0].Origin != "S1" || w1.Assignments[0].Destination != "S2" {
		t.Errorf("W1 assignments = %+v", w1.Assignments)
	}
}

func TestPlanCommandDryRun(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)

	out, err := run(t, "--config", configPath, "--no-cache", "plan", modelPath, "--dry-run")
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if !strings.Contains(out, "Dry run") {
		t.Errorf("output = %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "line.planned.json")); !os.IsNotExist(err) {
		t.Error("dry run should not write a model")
	}
}

func TestSegmentsCommand(t *testing.T) {
	_, modelPath, configPath := testEnv(t)

	out, err := run(t, "--config", configPath, "segments", modelPath)
	if err != nil {
		t.Fatalf("segments: %v", err)
	}
	if !strings.Contains(out, "S1 -> W1") || !strings.Contains(out, "W1 -> S2") {
		t.Errorf("output = %q", out)
	}
}

func TestMetricsFile(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)
	metricsPath := filepath.Join(dir, "metrics.prom")

	if _, err := run(t, "--config", configPath, "--no-cache", "--metrics-file", metricsPath, "arrange", modelPath); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "stationflow_arrange_runs_total") {
		t.Errorf("metrics file missing arrange counter:\n%s", data)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(path, []byte("[arrange]\ngird = 10\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "--config", path, "cache", "path")
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestCachePathAndClear(t *testing.T) {
	dir, modelPath, configPath := testEnv(t)
	cacheDir := filepath.Join(dir, "cache")

	out, err := run(t, "--config", configPath, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, cacheDir) {
		t.Errorf("cache path output = %q, want %q", out, cacheDir)
	}

	out, err = run(t, "--config", configPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on empty cache = %q", out)
	}

	if _, err := run(t, "--config", configPath, "arrange", modelPath); err != nil {
		t.Fatal(err)
	}
	out, err = run(t, "--config", configPath, "cache", "clear")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Cleared 1 cached entries") {
		t.Errorf("clear output = %q", out)
	}
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}
}

func TestCompletionCommand(t *testing.T) {
	_, _, configPath := testEnv(t)
	out, err := run(t, "--config", configPath, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "stationflow") {
		t.Error("bash completion should mention the command name")
	}
}

func TestPlanHelpDescribesAssignments(t *testing.T) {
	long := New(io.Discard, log.InfoLevel).planCommand().Long
	if !strings.Contains(long, "Each waypoint on a found path receives an assignment") {
		t.Errorf("plan help should say assignments land on waypoints:\n%s", long)
	}
	if strings.Contains(long, "origin\nstation's assignments") {
		t.Error("plan help still claims assignments are written to the origin station")
	}
}
