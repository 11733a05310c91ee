package geom

import (
	"fmt"
	"math"
)

// Bounds is an axis-aligned box running from its negative-most corner, Min,
// to its positive-most corner, Max.
type Bounds struct {
	Min, Max Vec
}

// NewBounds creates a bounding box after checking that min and max have the
// same dimension and that the box has a positive width along every axis.
func NewBounds(min, max Vec) (Bounds, error) {
	b := Bounds{min, max}
	return b, b.Check()
}

// Check returns an error if the box is not a valid bounding box.
func (b Bounds) Check() error {
	if b.Min.dim != b.Max.dim {
		return fmt.Errorf(
			"%w: bounds corners are %d- and %d-vectors",
			ErrDimension, b.Min.dim, b.Max.dim,
		)
	} else if b.Min.dim < 2 {
		return fmt.Errorf("%w: bounds corners are unset", ErrDimension)
	}

	for d := 0; d < b.Min.dim; d++ {
		lo, hi := b.Min.xs[d], b.Max.xs[d]
		if math.IsNaN(lo) || math.IsNaN(hi) || !(hi > lo) {
			return fmt.Errorf(
				"%w: bounds along axis %d run from %g to %g",
				ErrDegenerate, d, lo, hi,
			)
		}
	}
	return nil
}

// Dim returns the dimension of the box.
func (b Bounds) Dim() int { return b.Min.dim }

// Width returns the width of the box along axis d.
func (b Bounds) Width(d int) float64 { return b.Max.At(d) - b.Min.At(d) }

// Center returns the center of the box.
func (b Bounds) Center() Vec { return b.Min.Add(b.Max).Scale(0.5) }

// Cube returns a cube of the given dimension centered on the origin which
// extends out to +/- r along every axis.
func Cube(dim int, r float64) Bounds {
	min, max := Zero(dim), Zero(dim)
	for d := 0; d < dim; d++ {
		min.xs[d], max.xs[d] = -r, r
	}
	return Bounds{min, max}
}
