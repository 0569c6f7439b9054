package crowd

// Segment is a directed 2-point line segment.
type Segment struct {
	Start, End Point
}

// Snapshot is an immutable copy of the scene at one step, safe to hand to
// consumers on other goroutines. Positions and direction segments are deep
// copies; later Step calls cannot mutate a snapshot already taken.
type Snapshot struct {
	Step       int
	Positions  []Point
	Directions []Segment // pos -> pos + vel, for direction indicators
	Groups     [][]int
}

// TakeSnapshot copies the agent positions, per-agent direction segments and
// the group list out of the live state.
func TakeSnapshot(p *PedState, step int) Snapshot {
	n := p.Size()
	snap := Snapshot{
		Step:       step,
		Positions:  make([]Point, n),
		Directions: make([]Segment, n),
		Groups:     make([][]int, len(p.Groups())),
	}
	for i := 0; i < n; i++ {
		row := p.State().RawRowView(i)
		pos := Point{X: row[0], Y: row[1]}
		snap.Positions[i] = pos
		snap.Directions[i] = Segment{
			Start: pos,
			End:   Point{X: row[0] + row[2], Y: row[1] + row[3]},
		}
	}
	for gi, group := range p.Groups() {
		snap.Groups[gi] = append([]int(nil), group...)
	}
	return snap
}
