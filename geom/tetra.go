package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Tetra is a tetrahedron in world coordinates.
type Tetra struct {
	Corners [4]Vec
}

const (
	eps = 1e-9

	// TetraDirCount is the number of tetrahedra a unit cube is split into.
	TetraDirCount = 6
	// CubeCorners is the number of corners of a unit cube.
	CubeCorners = 8
)

var (
	// dirs slices a unit cube into six tetrahedra which all share the main
	// diagonal from 0b000 to 0b111. Each entry gives the corner offsets of one
	// tetrahedron relative to the cube's lower-most corner.
	dirs = [TetraDirCount][4]Bits{
		{0b000, 0b001, 0b011, 0b111},
		{0b000, 0b010, 0b011, 0b111},
		{0b000, 0b010, 0b110, 0b111},
		{0b000, 0b100, 0b110, 0b111},
		{0b000, 0b100, 0b101, 0b111},
		{0b000, 0b001, 0b101, 0b111},
	}
)

// TetraIdxs returns the indices of the corners of the tetrahedron dir within
// the unit cube whose lower-most corner is lmp. dir must lie in the range
// [0, TetraDirCount) and lmp must be three dimensional.
func TetraIdxs(lmp Index, dir int) [4]Index {
	if lmp.dim != 3 {
		panic(fmt.Sprintf("tetrahedra require a 3-index, got %d", lmp.dim))
	}
	var out [4]Index
	for i, bits := range dirs[dir] {
		out[i] = lmp.AddBits(bits)
	}
	return out
}

// CubeIdxs returns the indices of all eight corners of the unit cube whose
// lower-most corner is lmp, in increasing bit order.
func CubeIdxs(lmp Index) [CubeCorners]Index {
	var out [CubeCorners]Index
	for i := range out {
		out[i] = lmp.AddBits(Bits(i))
	}
	return out
}

// NewTetra creates a tetrahedron with the given corners.
func NewTetra(c1, c2, c3, c4 Vec) Tetra {
	return Tetra{[4]Vec{c1, c2, c3, c4}}
}

// Volume computes the volume of a tetrahedron.
func (t *Tetra) Volume() float64 {
	return math.Abs(signedVolume(
		t.Corners[0], t.Corners[1], t.Corners[2], t.Corners[3],
	))
}

// Contains returns true if a tetrahedron contains the given point and false
// otherwise. Points on a face count as contained.
func (t *Tetra) Contains(v Vec) bool {
	vol := t.Volume()
	c := &t.Corners

	volSum := math.Abs(signedVolume(v, c[1], c[2], c[3]))
	volSum += math.Abs(signedVolume(c[0], v, c[2], c[3]))
	volSum += math.Abs(signedVolume(c[0], c[1], v, c[3]))
	volSum += math.Abs(signedVolume(c[0], c[1], c[2], v))

	return volSum <= vol*(1+eps)
}

// Barycenter computes the barycenter of a tetrahedron.
func (t *Tetra) Barycenter() Vec {
	sum := t.Corners[0]
	for i := 1; i < 4; i++ {
		sum = sum.Add(t.Corners[i])
	}
	return sum.Scale(0.25)
}

func signedVolume(c1, c2, c3, c4 Vec) float64 {
	r1 := c1.R3()
	d1 := r3.Sub(c2.R3(), r1)
	d2 := r3.Sub(c3.R3(), r1)
	d3 := r3.Sub(c4.R3(), r1)
	return r3.Dot(d1, r3.Cross(d2, d3)) / 6.0
}
