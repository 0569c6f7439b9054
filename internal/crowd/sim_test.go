package crowd

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// constantForce applies the same force vector to every agent.
type constantForce struct {
	fx, fy float64
}

func (c constantForce) Name() string { return "constant" }

func (c constantForce) Apply(peds *PedState, _ *ObstacleField) *mat.Dense {
	out := mat.NewDense(peds.Size(), 2, nil)
	for i := 0; i < peds.Size(); i++ {
		out.Set(i, 0, c.fx)
		out.Set(i, 1, c.fy)
	}
	return out
}

func TestSimulatorSumsForces(t *testing.T) {
	state := mat.NewDense(1, 7, []float64{0, 0, 1, 0, 10, 0, 0.5})
	p, err := NewPedState(state, nil, testConfig())
	require.NoError(t, err)

	sim := NewSimulator(p, NewObstacleField(nil, DefaultResolution), []Force{
		constantForce{fx: 1, fy: 0},
		constantForce{fx: 2, fy: -1},
	})

	net := sim.ComputeForces()
	require.Equal(t, 3.0, net.At(0, 0))
	require.Equal(t, -1.0, net.At(0, 1))
}

func TestSimulatorRunRecordsSnapshots(t *testing.T) {
	state := mat.NewDense(2, 7, []float64{
		0, 0, 1, 0, 10, 0, 0.5,
		0, 0, 0, 1, 0, 10, 0.5,
	})
	p, err := NewPedState(state, nil, testConfig())
	require.NoError(t, err)

	sim := NewSimulator(p, NewObstacleField(nil, DefaultResolution), nil)
	sim.Run(5)

	require.Equal(t, 5, sim.Step())
	// Initial snapshot plus one per step.
	require.Len(t, sim.Snapshots(), 6)

	// Zero net force: agent 0 drifts along +x at its initial speed.
	last := sim.Snapshots()[5]
	require.InDelta(t, 0.5, last.Positions[0].X, 1e-12)
	require.InDelta(t, 0.0, last.Positions[0].Y, 1e-12)
}
