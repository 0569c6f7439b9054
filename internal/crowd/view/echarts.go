package view

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderReplay writes an HTML scatter chart of agent positions over the
// whole snapshot history, colored by step, with obstacle sample points
// overlaid. It is a quick visual-inspection artifact, not a UI.
func RenderReplay(w io.Writer, snaps []crowd.Snapshot, obstacles *crowd.ObstacleField) error {
	if len(snaps) == 0 {
		return fmt.Errorf("view: no snapshots to render")
	}

	agentData := make([]opts.ScatterData, 0, len(snaps)*len(snaps[0].Positions))
	maxAbs := 0.0
	maxStep := 0
	for _, snap := range snaps {
		if snap.Step > maxStep {
			maxStep = snap.Step
		}
		for _, pos := range snap.Positions {
			if math.Abs(pos.X) > maxAbs {
				maxAbs = math.Abs(pos.X)
			}
			if math.Abs(pos.Y) > maxAbs {
				maxAbs = math.Abs(pos.Y)
			}
			agentData = append(agentData, opts.ScatterData{Value: []interface{}{pos.X, pos.Y, snap.Step}})
		}
	}

	var obstacleData []opts.ScatterData
	if obstacles != nil {
		for _, s := range obstacles.SamplePoints() {
			if math.Abs(s.X) > maxAbs {
				maxAbs = math.Abs(s.X)
			}
			if math.Abs(s.Y) > maxAbs {
				maxAbs = math.Abs(s.Y)
			}
			obstacleData = append(obstacleData, opts.ScatterData{Value: []interface{}{s.X, s.Y, 0}})
		}
	}

	// Pad the axes so edge points stay visible; force a square plot.
	pad := maxAbs * 1.05
	if pad == 0 {
		pad = 1.0
	}
	if maxStep == 0 {
		maxStep = 1
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Crowd Replay", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Pedestrian positions", Subtitle: fmt.Sprintf("agents=%d steps=%d", len(snaps[0].Positions), maxStep)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxStep),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)

	scatter.AddSeries("agents", agentData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))
	if len(obstacleData) > 0 {
		scatter.AddSeries("obstacles", obstacleData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	}

	return scatter.Render(w)
}

// WriteReplayFile renders the replay chart into path.
func WriteReplayFile(path string, snaps []crowd.Snapshot, obstacles *crowd.ObstacleField) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("view: create %s: %w", path, err)
	}
	defer f.Close()
	return RenderReplay(f, snaps, obstacles)
}
