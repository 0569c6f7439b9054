// Package crowd holds the mutable scene state for a social-force pedestrian
// simulation: the pedestrian state matrix (PedState), the static obstacle
// geometry (ObstacleField), and immutable per-step snapshots (Snapshot).
//
// The package owns the per-step kinematic integration but none of the force
// terms. The driving loop computes a net-force array against the current
// state (see the forces subpackage), feeds it to PedState.Step, and hands
// Snapshot copies to any consumer that must not observe in-place mutation.
//
// All types here are single-writer: one goroutine mutates PedState and
// ObstacleField, and only Snapshot values may cross goroutine boundaries.
package crowd
