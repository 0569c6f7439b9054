package crowd

import (
	"gonum.org/v1/gonum/mat"
)

// Force is one term of the social-force model. Apply returns an (N, 2)
// matrix of force vectors, one row per agent, computed against the current
// scene state. Implementations must not mutate the state.
type Force interface {
	Name() string
	Apply(peds *PedState, obstacles *ObstacleField) *mat.Dense
}

// Simulator drives the per-step loop: it sums the configured force terms
// against the current state, integrates one step, and records a snapshot.
// It is single-threaded by design; see the package documentation.
type Simulator struct {
	peds      *PedState
	obstacles *ObstacleField
	forces    []Force

	step      int
	snapshots []Snapshot
}

// NewSimulator assembles a simulator from an initialized scene. The
// snapshot history starts with the initial state at step 0.
func NewSimulator(peds *PedState, obstacles *ObstacleField, forces []Force) *Simulator {
	s := &Simulator{
		peds:      peds,
		obstacles: obstacles,
		forces:    forces,
	}
	s.snapshots = append(s.snapshots, TakeSnapshot(peds, 0))
	return s
}

// Peds returns the live pedestrian state.
func (s *Simulator) Peds() *PedState { return s.peds }

// Obstacles returns the obstacle field.
func (s *Simulator) Obstacles() *ObstacleField { return s.obstacles }

// Step returns the number of completed steps.
func (s *Simulator) Step() int { return s.step }

// Snapshots returns the recorded snapshot history, including step 0.
func (s *Simulator) Snapshots() []Snapshot { return s.snapshots }

// ComputeForces sums all force terms into one (N, 2) net-force matrix.
func (s *Simulator) ComputeForces() *mat.Dense {
	sum := mat.NewDense(s.peds.Size(), 2, nil)
	for _, f := range s.forces {
		sum.Add(sum, f.Apply(s.peds, s.obstacles))
	}
	return sum
}

// StepOnce advances the simulation one timestep and records a snapshot.
func (s *Simulator) StepOnce() {
	s.peds.Step(s.ComputeForces(), nil)
	s.step++
	s.snapshots = append(s.snapshots, TakeSnapshot(s.peds, s.step))
}

// Run advances the simulation n steps.
func (s *Simulator) Run(n int) {
	for i := 0; i < n; i++ {
		s.StepOnce()
	}
}
