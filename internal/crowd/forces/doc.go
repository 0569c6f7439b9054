// Package forces implements the force terms of the social-force model:
// goal attraction, pedestrian repulsion, obstacle repulsion and the group
// forces (coherence, repulsion, gaze).
//
// Each term implements crowd.Force and returns an (N, 2) matrix of force
// vectors computed against the live scene state; the simulator sums the
// terms into the net force fed to PedState.Step. The terms only read the
// state, never mutate it.
package forces
