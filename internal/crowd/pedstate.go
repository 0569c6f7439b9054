package crowd

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// StateCols is the number of columns in the pedestrian state matrix:
// [pos_x, pos_y, vel_x, vel_y, goal_x, goal_y, tau].
const StateCols = 7

// NoGroup is returned by GroupOf for an agent that belongs to no group.
const NoGroup = -1

// ErrInvalidStateShape reports a state matrix whose column count is neither
// 6 (tau omitted, padded from config) nor at least 7.
var ErrInvalidStateShape = errors.New("crowd: state matrix must have 6 or >=7 columns")

// SceneConfig carries the scene-level parameters consumed by PedState.
type SceneConfig struct {
	DtSecs             float64 // integration timestep in seconds
	Tau                float64 // default relaxation time for 6-column input
	AgentRadius        float64 // pedestrian body radius in meters
	MaxSpeedMultiplier float64 // speed cap as a multiple of initial speed
}

// PedState tracks the live state of all pedestrians and their social groups.
//
// The state matrix has one row per agent and exactly StateCols columns.
// Group membership is recorded as row indices into the matrix; there is no
// agent-removal operation, so indices stay valid for the container's
// lifetime.
type PedState struct {
	state  *mat.Dense
	groups [][]int

	dt                 float64
	defaultTau         float64
	agentRadius        float64
	maxSpeedMultiplier float64

	// initialSpeeds and maxSpeeds are derived from the very first state
	// assignment and frozen afterwards, so the speed cap never drifts
	// across later Update calls. speedsFrozen latches the transition.
	initialSpeeds []float64
	maxSpeeds     []float64
	speedsFrozen  bool
}

// NewPedState builds a PedState from an initial state matrix and group list.
// A 6-column matrix is padded with a tau column filled from cfg.Tau; any
// width other than 6 or >=7 fails with ErrInvalidStateShape.
func NewPedState(state *mat.Dense, groups [][]int, cfg SceneConfig) (*PedState, error) {
	p := &PedState{
		dt:                 cfg.DtSecs,
		defaultTau:         cfg.Tau,
		agentRadius:        cfg.AgentRadius,
		maxSpeedMultiplier: cfg.MaxSpeedMultiplier,
	}
	if err := p.Update(state, groups); err != nil {
		return nil, err
	}
	return p, nil
}

// Update replaces the state matrix and group list wholesale. The 6-column
// padding path runs again, but initial and maximum speeds keep the values
// derived at the first assignment.
func (p *PedState) Update(state *mat.Dense, groups [][]int) error {
	if err := p.setState(state); err != nil {
		return err
	}
	p.setGroups(groups)
	return nil
}

func (p *PedState) setState(state *mat.Dense) error {
	rows, cols := state.Dims()
	switch {
	case cols >= StateCols:
		p.state = state
	case cols == StateCols-1:
		padded := mat.NewDense(rows, StateCols, nil)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				padded.Set(i, j, state.At(i, j))
			}
			padded.Set(i, StateCols-1, p.defaultTau)
		}
		p.state = padded
	default:
		return fmt.Errorf("%w: got %d", ErrInvalidStateShape, cols)
	}

	if !p.speedsFrozen {
		p.initialSpeeds = p.Speeds()
		p.maxSpeeds = make([]float64, len(p.initialSpeeds))
		for i, s := range p.initialSpeeds {
			p.maxSpeeds[i] = p.maxSpeedMultiplier * s
		}
		p.speedsFrozen = true
	}
	return nil
}

func (p *PedState) setGroups(groups [][]int) {
	if groups == nil {
		p.groups = [][]int{}
		return
	}
	p.groups = groups
}

// Size returns the number of agents.
func (p *PedState) Size() int {
	rows, _ := p.state.Dims()
	return rows
}

// State returns the live state matrix. Callers must not resize it.
func (p *PedState) State() *mat.Dense { return p.state }

// Positions returns a zero-copy view of the position columns.
func (p *PedState) Positions() mat.Matrix {
	return p.state.Slice(0, p.Size(), 0, 2)
}

// Velocities returns a zero-copy view of the velocity columns.
func (p *PedState) Velocities() mat.Matrix {
	return p.state.Slice(0, p.Size(), 2, 4)
}

// Goals returns a zero-copy view of the goal columns.
func (p *PedState) Goals() mat.Matrix {
	return p.state.Slice(0, p.Size(), 4, 6)
}

// RelaxationTimes returns a zero-copy view of the tau column.
func (p *PedState) RelaxationTimes() mat.Matrix {
	return p.state.Slice(0, p.Size(), 6, 7)
}

// Speeds returns the Euclidean velocity norm per agent.
func (p *PedState) Speeds() []float64 {
	speeds := make([]float64, p.Size())
	for i := range speeds {
		row := p.state.RawRowView(i)
		speeds[i] = math.Hypot(row[2], row[3])
	}
	return speeds
}

// InitialSpeeds returns the per-agent speeds observed at the first state
// assignment. The slice is shared; callers must treat it as read-only.
func (p *PedState) InitialSpeeds() []float64 { return p.initialSpeeds }

// MaxSpeeds returns the frozen per-agent speed caps.
func (p *PedState) MaxSpeeds() []float64 { return p.maxSpeeds }

// AgentRadius returns the configured pedestrian body radius.
func (p *PedState) AgentRadius() float64 { return p.agentRadius }

// DefaultTau returns the relaxation time used to pad 6-column input.
func (p *PedState) DefaultTau() float64 { return p.defaultTau }

// Dt returns the integration timestep.
func (p *PedState) Dt() float64 { return p.dt }

// Groups returns the live group list. Callers must not mutate it.
func (p *PedState) Groups() [][]int { return p.groups }

// GroupOf returns the index of the first group containing agent index i,
// scanning groups in insertion order, or NoGroup if none match. When an
// agent appears in more than one group the first match wins.
func (p *PedState) GroupOf(i int) int {
	for gi, group := range p.groups {
		for _, member := range group {
			if member == i {
				return gi
			}
		}
	}
	return NoGroup
}

// Step advances every agent one timestep under the given net force.
//
// force must be an (N, 2) matrix, one row per agent. The integration is
// semi-implicit Euler: the desired velocity vel + dt*force is capped to the
// agent's frozen max speed, the position advances by the capped velocity,
// and the capped velocity becomes the new velocity. A non-nil groups
// argument replaces the group list for subsequent steps.
func (p *PedState) Step(force mat.Matrix, groups [][]int) {
	n := p.Size()
	for i := 0; i < n; i++ {
		row := p.state.RawRowView(i)
		dvx := row[2] + p.dt*force.At(i, 0)
		dvy := row[3] + p.dt*force.At(i, 1)

		// Cap to the frozen max speed. A zero desired speed maps to a
		// zero factor so a stationary agent stays exactly stationary
		// instead of dividing by zero.
		factor := 0.0
		if speed := math.Hypot(dvx, dvy); speed > 0 {
			factor = math.Min(1, p.maxSpeeds[i]/speed)
		}
		dvx *= factor
		dvy *= factor

		row[0] += dvx * p.dt
		row[1] += dvy * p.dt
		row[2] = dvx
		row[3] = dvy
	}
	if groups != nil {
		p.groups = groups
	}
}

// CappedVelocity scales a single desired velocity down to maxSpeed,
// preserving direction. Exposed for force terms that need the same capping
// rule as Step.
func CappedVelocity(vx, vy, maxSpeed float64) (float64, float64) {
	speed := math.Hypot(vx, vy)
	if speed == 0 {
		return 0, 0
	}
	factor := math.Min(1, maxSpeed/speed)
	return vx * factor, vy * factor
}
