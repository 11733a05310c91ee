package geom

import (
	"fmt"
	"strings"
)

// Index identifies a grid cell by one signed integer per dimension.
type Index struct {
	ijk [MaxDim]int
	dim int
}

// Bits is a corner offset within a unit cube. Each bit is added to one
// component of an Index, with the most significant of the dim bits going to
// the first component: in three dimensions 0b101 is the offset (1, 0, 1).
type Bits uint8

// NewIndex creates an Index from its components. It panics if given anything
// other than two or three components.
func NewIndex(ijk ...int) Index {
	if len(ijk) < 2 || len(ijk) > MaxDim {
		panic(fmt.Sprintf("Index must have 2 or 3 components, got %d.", len(ijk)))
	}
	idx := Index{dim: len(ijk)}
	copy(idx.ijk[:], ijk)
	return idx
}

// Dim returns the number of components in idx.
func (idx Index) Dim() int { return idx.dim }

// At returns the d-th component of idx.
func (idx Index) At(d int) int {
	if d < 0 || d >= idx.dim {
		panic(fmt.Sprintf("component %d of a %d-index", d, idx.dim))
	}
	return idx.ijk[d]
}

// With returns a copy of idx with the d-th component set to i.
func (idx Index) With(d, i int) Index {
	if d < 0 || d >= idx.dim {
		panic(fmt.Sprintf("component %d of a %d-index", d, idx.dim))
	}
	idx.ijk[d] = i
	return idx
}

// AddBits returns idx offset by the corner pattern bits.
func (idx Index) AddBits(bits Bits) Index {
	for d := 0; d < idx.dim; d++ {
		idx.ijk[d] += int(bits>>uint(idx.dim-1-d)) & 1
	}
	return idx
}

func (idx Index) String() string {
	strs := make([]string, idx.dim)
	for i := range strs {
		strs[i] = fmt.Sprintf("%d", idx.ijk[i])
	}
	return "[" + strings.Join(strs, " ") + "]"
}
