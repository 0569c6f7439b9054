// Package view renders recorded simulation snapshots for humans: PNG
// trajectory plots via gonum/plot and an HTML scatter replay via
// go-echarts. It only ever consumes Snapshot copies, never live state, so
// rendering can run after (or beside) the simulation without observing
// half-updated steps.
package view

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TrajectoryPlotter accumulates snapshots over a run and renders one PNG
// with a trajectory line per agent plus the obstacle sample points.
type TrajectoryPlotter struct {
	outputDir string
	snapshots []crowd.Snapshot
}

// NewTrajectoryPlotter creates a plotter writing into outputDir.
func NewTrajectoryPlotter(outputDir string) *TrajectoryPlotter {
	return &TrajectoryPlotter{outputDir: outputDir}
}

// Record appends one snapshot to the history.
func (tp *TrajectoryPlotter) Record(snap crowd.Snapshot) {
	tp.snapshots = append(tp.snapshots, snap)
}

// RecordAll appends a whole snapshot history.
func (tp *TrajectoryPlotter) RecordAll(snaps []crowd.Snapshot) {
	tp.snapshots = append(tp.snapshots, snaps...)
}

// SampleCount returns the number of recorded snapshots.
func (tp *TrajectoryPlotter) SampleCount() int { return len(tp.snapshots) }

// Generate renders the trajectory plot and returns the written file path.
func (tp *TrajectoryPlotter) Generate(obstacles *crowd.ObstacleField) (string, error) {
	if len(tp.snapshots) == 0 {
		return "", fmt.Errorf("view: no snapshots recorded")
	}
	if err := os.MkdirAll(tp.outputDir, 0755); err != nil {
		return "", fmt.Errorf("view: create output dir: %w", err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Trajectories (%d agents, %d steps)",
		len(tp.snapshots[0].Positions), tp.snapshots[len(tp.snapshots)-1].Step)
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	agents := len(tp.snapshots[0].Positions)
	colors := generateColors(agents)

	for a := 0; a < agents; a++ {
		pts := make(plotter.XYs, 0, len(tp.snapshots))
		for _, snap := range tp.snapshots {
			if a >= len(snap.Positions) {
				continue
			}
			pts = append(pts, plotter.XY{X: snap.Positions[a].X, Y: snap.Positions[a].Y})
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", fmt.Errorf("view: agent %d line: %w", a, err)
		}
		line.Color = colors[a]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("agent %d", a), line)
	}

	if obstacles != nil {
		if samples := obstacles.SamplePoints(); len(samples) > 0 {
			pts := make(plotter.XYs, len(samples))
			for i, s := range samples {
				pts[i] = plotter.XY{X: s.X, Y: s.Y}
			}
			scatter, err := plotter.NewScatter(pts)
			if err != nil {
				return "", fmt.Errorf("view: obstacle scatter: %w", err)
			}
			scatter.GlyphStyle.Radius = vg.Points(1)
			scatter.GlyphStyle.Color = color.Gray{Y: 80}
			p.Add(scatter)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false

	file := filepath.Join(tp.outputDir, "trajectories.png")
	if err := p.Save(10*vg.Inch, 10*vg.Inch, file); err != nil {
		return "", fmt.Errorf("view: save plot: %w", err)
	}
	return file, nil
}

// FormatTimestamp generates a timestamp string for directory naming.
func FormatTimestamp(t time.Time) string {
	return t.Format("20060102_150405")
}

// MakeRunOutputDir builds a per-run output directory path under baseDir,
// named with a timestamp plus the run identifier.
func MakeRunOutputDir(baseDir, runID string) string {
	return filepath.Join(baseDir, FormatTimestamp(time.Now())+"_"+runID)
}

// generateColors creates a palette of visually distinct colors, one per
// agent, spread around the hue circle.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}
	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range).
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
