package geom

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// MaxDim is the largest dimension supported by Vec and Index.
const MaxDim = 3

// Vec is a two or three dimensional vector of float64 components. The
// dimension is fixed when the Vec is created. Vecs are values: arithmetic
// returns new Vecs and == compares them component-wise with no tolerance.
//
// Positions, velocities and accelerations are all represented as Vecs. The
// distinction between them is carried by the names of the fields and
// parameters which hold them.
type Vec struct {
	xs  [MaxDim]float64
	dim int
}

// NewVec creates a vector from its components. It panics if given anything
// other than two or three components.
func NewVec(xs ...float64) Vec {
	if len(xs) < 2 || len(xs) > MaxDim {
		panic(fmt.Sprintf("Vec must have 2 or 3 components, got %d.", len(xs)))
	}
	v := Vec{dim: len(xs)}
	copy(v.xs[:], xs)
	return v
}

// Zero returns the zero vector of the given dimension.
func Zero(dim int) Vec {
	if dim < 2 || dim > MaxDim {
		panic(fmt.Sprintf("Vec must have 2 or 3 components, got %d.", dim))
	}
	return Vec{dim: dim}
}

// Dim returns the number of components in v.
func (v Vec) Dim() int { return v.dim }

// At returns the d-th component of v.
func (v Vec) At(d int) float64 {
	if d < 0 || d >= v.dim {
		panic(fmt.Sprintf("component %d of a %d-vector", d, v.dim))
	}
	return v.xs[d]
}

// With returns a copy of v with the d-th component set to x.
func (v Vec) With(d int, x float64) Vec {
	if d < 0 || d >= v.dim {
		panic(fmt.Sprintf("component %d of a %d-vector", d, v.dim))
	}
	v.xs[d] = x
	return v
}

// Components returns the components of v as a new slice.
func (v Vec) Components() []float64 {
	out := make([]float64, v.dim)
	copy(out, v.xs[:v.dim])
	return out
}

func (v Vec) check(u Vec) {
	if v.dim != u.dim {
		panic(fmt.Sprintf("mixing a %d-vector with a %d-vector", v.dim, u.dim))
	}
}

// Add returns v + u.
func (v Vec) Add(u Vec) Vec {
	v.check(u)
	for i := 0; i < v.dim; i++ {
		v.xs[i] += u.xs[i]
	}
	return v
}

// Sub returns v - u.
func (v Vec) Sub(u Vec) Vec {
	v.check(u)
	for i := 0; i < v.dim; i++ {
		v.xs[i] -= u.xs[i]
	}
	return v
}

// Scale returns v * s.
func (v Vec) Scale(s float64) Vec {
	for i := 0; i < v.dim; i++ {
		v.xs[i] *= s
	}
	return v
}

// Div returns v / s.
func (v Vec) Div(s float64) Vec {
	for i := 0; i < v.dim; i++ {
		v.xs[i] /= s
	}
	return v
}

// NormSquared returns the sum of the squares of v's components.
func (v Vec) NormSquared() float64 {
	sum := 0.0
	for i := 0; i < v.dim; i++ {
		sum += v.xs[i] * v.xs[i]
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v Vec) Norm() float64 { return math.Sqrt(v.NormSquared()) }

// Unit returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vec) Unit() Vec {
	n := v.Norm()
	if n == 0 {
		return v
	}
	return v.Div(n)
}

// Dot returns the dot product of v and u.
func (v Vec) Dot(u Vec) float64 {
	v.check(u)
	sum := 0.0
	for i := 0; i < v.dim; i++ {
		sum += v.xs[i] * u.xs[i]
	}
	return sum
}

// Cross returns the cross product v x u. It is only defined for
// 3-vectors and panics otherwise.
func (v Vec) Cross(u Vec) Vec {
	v.check(u)
	if v.dim != 3 {
		panic(fmt.Sprintf("cross product of %d-vectors", v.dim))
	}
	return FromR3(r3.Cross(v.R3(), u.R3()))
}

// R3 converts a 3-vector to gonum's representation.
func (v Vec) R3() r3.Vec {
	if v.dim != 3 {
		panic(fmt.Sprintf("converting a %d-vector to r3.Vec", v.dim))
	}
	return r3.Vec{X: v.xs[0], Y: v.xs[1], Z: v.xs[2]}
}

// FromR3 converts a gonum 3-vector to a Vec.
func FromR3(r r3.Vec) Vec {
	return Vec{xs: [MaxDim]float64{r.X, r.Y, r.Z}, dim: 3}
}

func (v Vec) String() string {
	strs := make([]string, v.dim)
	for i := range strs {
		strs[i] = fmt.Sprintf("%g", v.xs[i])
	}
	return "(" + strings.Join(strs, ", ") + ")"
}
