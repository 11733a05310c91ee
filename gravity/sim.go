package gravity

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/gravset/geom"
)

// PosVel is the state of a probe: its position, P, and velocity, V.
type PosVel struct {
	P, V geom.Vec
}

// StepFunc is called after every integration step with the number of steps
// taken so far and the probe's new state.
type StepFunc func(iter int, pv PosVel)

// Acceleration returns the acceleration a star exerts on a probe at p for
// gravitational constant g. A probe sitting exactly on the star feels no
// acceleration.
func Acceleration(s Star, p geom.Vec, g float64) geom.Vec {
	r := p.Sub(s.Position)
	r2 := r.NormSquared()
	if r2 == 0 {
		return geom.Zero(p.Dim())
	}
	// -G m / r^2 * r / |r|
	return r.Scale(-g * s.Mass / (r2 * math.Sqrt(r2)))
}

// TotalAcceleration sums the accelerations of every star on a probe at p.
// Stars are summed in slice order.
func TotalAcceleration(stars []Star, p geom.Vec, g float64) geom.Vec {
	a := geom.Zero(p.Dim())
	for i := range stars {
		a = a.Add(Acceleration(stars[i], p, g))
	}
	return a
}

// CenterOfMass returns the mass-weighted mean position of stars.
func CenterOfMass(stars []Star) (geom.Vec, error) {
	if len(stars) == 0 {
		return geom.Vec{}, fmt.Errorf("%w: no stars", ErrDegenerate)
	}

	total := 0.0
	accum := geom.Zero(stars[0].Position.Dim())
	for i := range stars {
		total += stars[i].Mass
		accum = accum.Add(stars[i].Position.Scale(stars[i].Mass))
	}

	if total == 0 || math.IsNaN(total) {
		return geom.Vec{}, fmt.Errorf(
			"%w: total mass of %d stars is %g", ErrDegenerate, len(stars), total,
		)
	}
	return accum.Div(total), nil
}

// Escaped returns true if p lies outside the escape radius around com.
func (par Parameters) Escaped(p, com geom.Vec) bool {
	return p.Sub(com).Norm() > par.EscapeRadius
}

// AdvanceProbe integrates a probe starting from init with forward Euler
// steps until it leaves the escape radius around com or the iteration limit
// is reached. It returns the number of steps taken, which is the probe's
// escape time. cb may be nil.
func AdvanceProbe(
	init PosVel, stars []Star, com geom.Vec, par Parameters, cb StepFunc,
) int {
	_, iter := integrate(init, stars, com, par, par.IterationLimit, cb)
	return iter
}

// Advance moves a probe forward by at most steps Euler steps, stopping early
// if it escapes, and returns its new state.
func Advance(
	pv PosVel, stars []Star, com geom.Vec, par Parameters, steps int,
) PosVel {
	out, _ := integrate(pv, stars, com, par, steps, nil)
	return out
}

// Trajectory returns every state visited by a probe starting from init, not
// including init itself.
func Trajectory(
	init PosVel, stars []Star, com geom.Vec, par Parameters,
) []PosVel {
	var out []PosVel
	AdvanceProbe(init, stars, com, par, func(_ int, pv PosVel) {
		out = append(out, pv)
	})
	return out
}

func integrate(
	pv PosVel, stars []Star, com geom.Vec,
	par Parameters, limit int, cb StepFunc,
) (PosVel, int) {
	iter := 0
	for ; iter < limit && !par.Escaped(pv.P, com); iter++ {
		a := TotalAcceleration(stars, pv.P, par.GravitationalConstant)
		pv.V = pv.V.Add(a.Scale(par.DeltaT))
		pv.P = pv.P.Add(pv.V.Scale(par.DeltaT))
		if cb != nil {
			cb(iter+1, pv)
		}
	}
	return pv, iter
}
