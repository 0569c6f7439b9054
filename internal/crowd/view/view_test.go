package view

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
)

func sampleSnapshots() []crowd.Snapshot {
	return []crowd.Snapshot{
		{
			Step:      0,
			Positions: []crowd.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			Directions: []crowd.Segment{
				{Start: crowd.Point{X: 0, Y: 0}, End: crowd.Point{X: 1, Y: 0}},
				{Start: crowd.Point{X: 1, Y: 1}, End: crowd.Point{X: 1, Y: 2}},
			},
		},
		{
			Step:      1,
			Positions: []crowd.Point{{X: 0.1, Y: 0}, {X: 1, Y: 1.1}},
			Directions: []crowd.Segment{
				{Start: crowd.Point{X: 0.1, Y: 0}, End: crowd.Point{X: 1.1, Y: 0}},
				{Start: crowd.Point{X: 1, Y: 1.1}, End: crowd.Point{X: 1, Y: 2.1}},
			},
		},
	}
}

func TestTrajectoryPlotterGenerate(t *testing.T) {
	dir := t.TempDir()
	tp := NewTrajectoryPlotter(dir)
	tp.RecordAll(sampleSnapshots())

	if got := tp.SampleCount(); got != 2 {
		t.Fatalf("SampleCount() = %d, want 2", got)
	}

	obstacles := crowd.NewObstacleField([]crowd.Line{{StartX: -1, EndX: 2, StartY: -1, EndY: -1}}, crowd.DefaultResolution)
	file, err := tp.Generate(obstacles)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	info, err := os.Stat(file)
	if err != nil {
		t.Fatalf("stat output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
	if filepath.Ext(file) != ".png" {
		t.Errorf("output file %s, want .png", file)
	}
}

func TestTrajectoryPlotterEmpty(t *testing.T) {
	tp := NewTrajectoryPlotter(t.TempDir())
	if _, err := tp.Generate(nil); err == nil {
		t.Error("Generate with no snapshots: expected error")
	}
}

func TestRenderReplay(t *testing.T) {
	var buf bytes.Buffer
	obstacles := crowd.NewObstacleField([]crowd.Line{{StartX: 0, EndX: 2, StartY: 0, EndY: 0}}, crowd.DefaultResolution)
	if err := RenderReplay(&buf, sampleSnapshots(), obstacles); err != nil {
		t.Fatalf("RenderReplay: %v", err)
	}

	html := buf.String()
	if !strings.Contains(html, "echarts") {
		t.Error("output does not look like an echarts page")
	}
	if !strings.Contains(html, "Pedestrian positions") {
		t.Error("missing chart title")
	}
}

func TestRenderReplayEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderReplay(&buf, nil, nil); err == nil {
		t.Error("RenderReplay with no snapshots: expected error")
	}
}

func TestMakeRunOutputDir(t *testing.T) {
	dir := MakeRunOutputDir("plots", "abc123")
	if !strings.HasPrefix(dir, "plots"+string(os.PathSeparator)) {
		t.Errorf("dir %q not under base", dir)
	}
	if !strings.HasSuffix(dir, "_abc123") {
		t.Errorf("dir %q missing run id suffix", dir)
	}
}
