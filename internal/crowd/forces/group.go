package forces

import (
	"math"

	"github.com/crowd-dynamics/crowdsim/internal/config"
	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"gonum.org/v1/gonum/mat"
)

// GroupCoherenceForce pulls group members toward their group's center of
// mass. The pull softens through a tanh ramp around a threshold that grows
// with group size, so compact groups feel almost nothing.
type GroupCoherenceForce struct {
	Factor float64
}

// NewGroupCoherenceForce builds the term from config.
func NewGroupCoherenceForce(cfg *config.SimConfig) *GroupCoherenceForce {
	return &GroupCoherenceForce{Factor: cfg.GetGroupCoherenceFactor()}
}

// Name implements crowd.Force.
func (f *GroupCoherenceForce) Name() string { return "group_coherence" }

// Apply implements crowd.Force.
func (f *GroupCoherenceForce) Apply(peds *crowd.PedState, _ *crowd.ObstacleField) *mat.Dense {
	out := mat.NewDense(peds.Size(), 2, nil)
	for _, group := range peds.Groups() {
		if len(group) <= 1 {
			continue
		}
		comX, comY := centerOfMass(peds, group)
		threshold := float64(len(group)-1) / 2

		for _, i := range group {
			row := peds.State().RawRowView(i)
			dx, dy := comX-row[0], comY-row[1]
			norm := math.Hypot(dx, dy)
			softened := (math.Tanh(norm-threshold) + 1) / 2
			out.Set(i, 0, out.At(i, 0)+f.Factor*dx*softened)
			out.Set(i, 1, out.At(i, 1)+f.Factor*dy*softened)
		}
	}
	return out
}

// GroupRepulsiveForce keeps group members from overlapping: members closer
// than the comfort threshold push each other apart by their raw separation
// vector.
type GroupRepulsiveForce struct {
	Factor    float64
	Threshold float64
}

// NewGroupRepulsiveForce builds the term from config.
func NewGroupRepulsiveForce(cfg *config.SimConfig) *GroupRepulsiveForce {
	return &GroupRepulsiveForce{
		Factor:    cfg.GetGroupRepulsiveFactor(),
		Threshold: cfg.GetGroupRepulsiveThreshold(),
	}
}

// Name implements crowd.Force.
func (f *GroupRepulsiveForce) Name() string { return "group_repulsive" }

// Apply implements crowd.Force.
func (f *GroupRepulsiveForce) Apply(peds *crowd.PedState, _ *crowd.ObstacleField) *mat.Dense {
	out := mat.NewDense(peds.Size(), 2, nil)
	for _, group := range peds.Groups() {
		for _, i := range group {
			ri := peds.State().RawRowView(i)
			for _, j := range group {
				if i == j {
					continue
				}
				rj := peds.State().RawRowView(j)
				dx, dy := ri[0]-rj[0], ri[1]-rj[1]
				if math.Hypot(dx, dy) > f.Threshold {
					continue
				}
				out.Set(i, 0, out.At(i, 0)+f.Factor*dx)
				out.Set(i, 1, out.At(i, 1)+f.Factor*dy)
			}
		}
	}
	return out
}

// GroupGazeForce turns a member back toward the group's center of mass once
// the center leaves the member's field of view around its goal direction.
// The magnitude grows with the excess angle, so stragglers correct harder.
type GroupGazeForce struct {
	Factor     float64
	FOVDegrees float64
}

// NewGroupGazeForce builds the term from config.
func NewGroupGazeForce(cfg *config.SimConfig) *GroupGazeForce {
	return &GroupGazeForce{
		Factor:     cfg.GetGroupGazeFactor(),
		FOVDegrees: cfg.GetGroupGazeFOVDegrees(),
	}
}

// Name implements crowd.Force.
func (f *GroupGazeForce) Name() string { return "group_gaze" }

// Apply implements crowd.Force.
func (f *GroupGazeForce) Apply(peds *crowd.PedState, _ *crowd.ObstacleField) *mat.Dense {
	out := mat.NewDense(peds.Size(), 2, nil)
	halfFOV := f.FOVDegrees * math.Pi / 180 / 2

	for _, group := range peds.Groups() {
		if len(group) <= 1 {
			continue
		}
		for _, i := range group {
			row := peds.State().RawRowView(i)

			// Center of mass of the other members.
			var comX, comY float64
			for _, j := range group {
				if j == i {
					continue
				}
				rj := peds.State().RawRowView(j)
				comX += rj[0]
				comY += rj[1]
			}
			comX /= float64(len(group) - 1)
			comY /= float64(len(group) - 1)

			dx, dy := comX-row[0], comY-row[1]
			comDist := math.Hypot(dx, dy)
			if comDist == 0 {
				continue
			}

			// Desired walking direction: toward the goal.
			gx, gy := row[4]-row[0], row[5]-row[1]
			goalDist := math.Hypot(gx, gy)
			if goalDist == 0 {
				continue
			}

			cosAngle := (dx*gx + dy*gy) / (comDist * goalDist)
			angle := math.Acos(math.Max(-1, math.Min(1, cosAngle)))
			if angle <= halfFOV {
				continue
			}

			excess := angle - halfFOV
			out.Set(i, 0, out.At(i, 0)+f.Factor*excess*dx/comDist)
			out.Set(i, 1, out.At(i, 1)+f.Factor*excess*dy/comDist)
		}
	}
	return out
}

func centerOfMass(peds *crowd.PedState, group []int) (float64, float64) {
	var x, y float64
	for _, i := range group {
		row := peds.State().RawRowView(i)
		x += row[0]
		y += row[1]
	}
	n := float64(len(group))
	return x / n, y / n
}

// Standard assembles the default force list for a scene. Group terms are
// included only when enabled in config.
func Standard(cfg *config.SimConfig) []crowd.Force {
	list := []crowd.Force{
		NewDesiredForce(cfg),
		NewSocialForce(cfg),
		NewObstacleForce(cfg),
	}
	if cfg.GetEnableGroup() {
		list = append(list,
			NewGroupCoherenceForce(cfg),
			NewGroupRepulsiveForce(cfg),
			NewGroupGazeForce(cfg),
		)
	}
	return list
}
