package forces

import (
	"math"

	"github.com/crowd-dynamics/crowdsim/internal/config"
	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"gonum.org/v1/gonum/mat"
)

// DesiredForce pulls each agent toward its goal at its maximum speed,
// relaxed over the agent's individual tau. Within the goal threshold the
// term brakes instead, so agents settle at their goal rather than orbit it.
type DesiredForce struct {
	Factor        float64
	GoalThreshold float64
}

// NewDesiredForce builds the term from config.
func NewDesiredForce(cfg *config.SimConfig) *DesiredForce {
	return &DesiredForce{
		Factor:        cfg.GetDesiredFactor(),
		GoalThreshold: cfg.GetDesiredGoalThreshold(),
	}
}

// Name implements crowd.Force.
func (f *DesiredForce) Name() string { return "desired" }

// Apply implements crowd.Force.
func (f *DesiredForce) Apply(peds *crowd.PedState, _ *crowd.ObstacleField) *mat.Dense {
	n := peds.Size()
	out := mat.NewDense(n, 2, nil)
	maxSpeeds := peds.MaxSpeeds()

	for i := 0; i < n; i++ {
		row := peds.State().RawRowView(i)
		px, py := row[0], row[1]
		vx, vy := row[2], row[3]
		gx, gy := row[4], row[5]
		tau := row[6]
		if tau <= 0 {
			continue
		}

		dx, dy := gx-px, gy-py
		dist := math.Hypot(dx, dy)

		var fx, fy float64
		if dist > f.GoalThreshold {
			// Accelerate toward the goal at the agent's max speed.
			fx = (dx/dist)*maxSpeeds[i] - vx
			fy = (dy/dist)*maxSpeeds[i] - vy
		} else {
			// Arrived: brake.
			fx = -vx
			fy = -vy
		}
		out.Set(i, 0, f.Factor*fx/tau)
		out.Set(i, 1, f.Factor*fy/tau)
	}
	return out
}
