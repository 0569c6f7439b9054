package crowd

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// DefaultResolution is the default obstacle sampling density in sample
// points per meter of line length.
const DefaultResolution = 10

// Line is a static obstacle segment. The field order (start_x, end_x,
// start_y, end_y) matches the map-loader wire format; it interleaves
// start/end before x/y and is deliberately preserved, since map
// collaborators and recorded scenarios depend on this exact order.
type Line struct {
	StartX, EndX, StartY, EndY float64
}

// Length returns the Euclidean length of the segment.
func (l Line) Length() float64 {
	return math.Hypot(l.EndX-l.StartX, l.EndY-l.StartY)
}

// Point is a 2D point in world coordinates (meters).
type Point struct {
	X, Y float64
}

// LineDescriptor is the per-line geometric summary consumed by obstacle
// repulsion forces: the endpoints in (sx, sy, ex, ey) order plus the unit
// vector orthogonal to the line direction, oriented at direction + 90°.
type LineDescriptor struct {
	StartX, StartY float64
	EndX, EndY     float64
	OrthoX, OrthoY float64
}

// ObstacleField owns the static obstacle segments and their derived
// geometry: a descriptor per line and a dense sample-point cloud per line
// for near-field distance queries. Both derivations are pure functions of
// the line set and are recomputed wholesale on every SetLines; obstacle
// layout changes are rare relative to step frequency, so there is no
// incremental path.
type ObstacleField struct {
	lines       []Line
	resolution  float64
	descriptors []LineDescriptor
	samples     [][]Point
}

// NewObstacleField builds a field from the given lines, sampled at
// resolution points per meter. A resolution <= 0 falls back to
// DefaultResolution. An empty or nil line set is valid and yields empty
// derived structures.
func NewObstacleField(lines []Line, resolution float64) *ObstacleField {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	f := &ObstacleField{resolution: resolution}
	f.SetLines(lines)
	return f
}

// SetLines replaces the obstacle set and recomputes descriptors and
// samples in full.
func (f *ObstacleField) SetLines(lines []Line) {
	f.lines = lines
	f.descriptors = deriveDescriptors(lines)
	f.samples = deriveSamples(lines, f.resolution)
}

// Lines returns the raw obstacle segments.
func (f *ObstacleField) Lines() []Line { return f.lines }

// Resolution returns the sampling density in points per meter.
func (f *ObstacleField) Resolution() float64 { return f.resolution }

// Descriptors returns the per-line geometric descriptors.
func (f *ObstacleField) Descriptors() []LineDescriptor { return f.descriptors }

// Samples returns the per-line sample-point clouds.
func (f *ObstacleField) Samples() [][]Point { return f.samples }

// SamplePoints returns all sample points across all lines as one flat
// slice, in line order.
func (f *ObstacleField) SamplePoints() []Point {
	var all []Point
	for _, pts := range f.samples {
		all = append(all, pts...)
	}
	return all
}

func deriveDescriptors(lines []Line) []LineDescriptor {
	descriptors := make([]LineDescriptor, 0, len(lines))
	for _, l := range lines {
		// Direction angle normalized into [0, 2π); the orthogonal sits a
		// quarter turn further, re-normalized mod 2π.
		dir := math.Mod(math.Atan2(l.EndY-l.StartY, l.EndX-l.StartX)+2*math.Pi, 2*math.Pi)
		ortho := math.Mod(dir+math.Pi/2, 2*math.Pi)
		descriptors = append(descriptors, LineDescriptor{
			StartX: l.StartX,
			StartY: l.StartY,
			EndX:   l.EndX,
			EndY:   l.EndY,
			OrthoX: math.Cos(ortho),
			OrthoY: math.Sin(ortho),
		})
	}
	return descriptors
}

func deriveSamples(lines []Line, resolution float64) [][]Point {
	samples := make([][]Point, 0, len(lines))
	for _, l := range lines {
		samples = append(samples, sampleLine(l, resolution))
	}
	return samples
}

// sampleLine linearly interpolates a line into int(length * resolution)
// points. The truncating cast is deliberate: it matches the recorded
// scenarios this field format comes from. Degenerate lines produce zero or
// one point.
func sampleLine(l Line, resolution float64) []Point {
	n := int(l.Length() * resolution)
	switch n {
	case 0:
		return nil
	case 1:
		return []Point{{X: l.StartX, Y: l.StartY}}
	}

	xs := floats.Span(make([]float64, n), l.StartX, l.EndX)
	ys := floats.Span(make([]float64, n), l.StartY, l.EndY)
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: xs[i], Y: ys[i]}
	}
	return pts
}
