package forces

import (
	"math"

	"github.com/crowd-dynamics/crowdsim/internal/config"
	"github.com/crowd-dynamics/crowdsim/internal/crowd"
	"gonum.org/v1/gonum/mat"
)

// SocialForce is the anisotropic pedestrian-pedestrian repulsion of
// Moussaïd et al. (2009): an interaction vector mixes the relative velocity
// (weighted by lambda) with the separation direction, and the force decays
// exponentially in both distance and the angle between the two.
type SocialForce struct {
	Factor              float64
	LambdaImportance    float64
	Gamma               float64
	N                   int
	NPrime              int
	ActivationThreshold float64 // pairs farther apart than this are skipped
}

// NewSocialForce builds the term from config.
func NewSocialForce(cfg *config.SimConfig) *SocialForce {
	return &SocialForce{
		Factor:              cfg.GetSocialFactor(),
		LambdaImportance:    cfg.GetLambdaImportance(),
		Gamma:               cfg.GetGamma(),
		N:                   cfg.GetN(),
		NPrime:              cfg.GetNPrime(),
		ActivationThreshold: cfg.GetActivationThreshold(),
	}
}

// Name implements crowd.Force.
func (f *SocialForce) Name() string { return "social" }

// Apply implements crowd.Force.
func (f *SocialForce) Apply(peds *crowd.PedState, _ *crowd.ObstacleField) *mat.Dense {
	n := peds.Size()
	out := mat.NewDense(n, 2, nil)

	for i := 0; i < n; i++ {
		ri := peds.State().RawRowView(i)
		var fx, fy float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			rj := peds.State().RawRowView(j)

			// Separation, pointing from j toward i.
			dx, dy := ri[0]-rj[0], ri[1]-rj[1]
			dist := math.Hypot(dx, dy)
			if dist == 0 || dist > f.ActivationThreshold {
				continue
			}
			ddx, ddy := dx/dist, dy/dist

			// Relative velocity of j with respect to i.
			vdx, vdy := rj[2]-ri[2], rj[3]-ri[3]

			ivx := f.LambdaImportance*vdx + ddx
			ivy := f.LambdaImportance*vdy + ddy
			iLen := math.Hypot(ivx, ivy)
			if iLen == 0 {
				continue
			}
			idx, idy := ivx/iLen, ivy/iLen

			theta := angleDiff(math.Atan2(idy, idx), math.Atan2(ddy, ddx))
			b := f.Gamma * iLen

			amountVel := math.Exp(-dist/b - sq(float64(f.NPrime)*b*theta))
			amountAngle := -sign(theta) * math.Exp(-dist/b-sq(float64(f.N)*b*theta))

			// Radial component along the interaction direction, tangential
			// along its left normal.
			fx += amountVel*idx + amountAngle*(-idy)
			fy += amountVel*idy + amountAngle*idx
		}
		out.Set(i, 0, f.Factor*fx)
		out.Set(i, 1, f.Factor*fy)
	}
	return out
}

// angleDiff returns a-b wrapped into (-π, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}

func sq(x float64) float64 { return x * x }

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
