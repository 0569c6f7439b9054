package forces

import (
	"math"

	"github.com/crowd-dynamics/crowdsim/internal/config"
	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"gonum.org/v1/gonum/mat"
)

// ObstacleForce pushes agents away from nearby obstacle sample points with
// an exponential falloff. Only samples closer than Threshold (measured from
// the agent's body surface) contribute; the per-line descriptors carry the
// orthogonal push direction for consumers that project onto whole segments,
// while this term works on the discretized sample clouds.
type ObstacleForce struct {
	Factor    float64
	Sigma     float64
	Threshold float64 // added to the agent radius
}

// NewObstacleForce builds the term from config.
func NewObstacleForce(cfg *config.SimConfig) *ObstacleForce {
	return &ObstacleForce{
		Factor:    cfg.GetObstacleFactor(),
		Sigma:     cfg.GetObstacleSigma(),
		Threshold: cfg.GetObstacleThreshold(),
	}
}

// Name implements crowd.Force.
func (f *ObstacleForce) Name() string { return "obstacle" }

// Apply implements crowd.Force.
func (f *ObstacleForce) Apply(peds *crowd.PedState, obstacles *crowd.ObstacleField) *mat.Dense {
	n := peds.Size()
	out := mat.NewDense(n, 2, nil)
	if obstacles == nil {
		return out
	}
	samples := obstacles.SamplePoints()
	if len(samples) == 0 {
		return out
	}

	threshold := f.Threshold + peds.AgentRadius()
	radius := peds.AgentRadius()

	for i := 0; i < n; i++ {
		row := peds.State().RawRowView(i)
		px, py := row[0], row[1]

		var fx, fy float64
		for _, s := range samples {
			dx, dy := px-s.X, py-s.Y
			dist := math.Hypot(dx, dy)
			if dist == 0 {
				continue
			}
			surface := dist - radius
			if surface >= threshold {
				continue
			}
			w := math.Exp(-surface / f.Sigma)
			fx += (dx / dist) * w
			fy += (dy / dist) * w
		}
		out.Set(i, 0, f.Factor*fx)
		out.Set(i, 1, f.Factor*fy)
	}
	return out
}
