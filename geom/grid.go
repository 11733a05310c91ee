package geom

import (
	"fmt"
)

// MaxCells is the largest number of cells a Grid may hold.
const MaxCells = 1 << 28

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 2D or 3D grid with the same number of cells along each side.
type Grid struct {
	Width, Dim int
	// Length is the number of cells in the grid, Width^Dim.
	Length  int
	strides [MaxDim]int
}

// NewGrid returns a new Grid instance.
func NewGrid(width, dim int) (*Grid, error) {
	g := &Grid{}
	if err := g.Init(width, dim); err != nil {
		return nil, err
	}
	return g, nil
}

// Init initializes a Grid instance. Grids must be at least two cells wide so
// that they contain at least one full cube, and may hold at most MaxCells
// cells. g is unchanged if an error is returned.
func (g *Grid) Init(width, dim int) error {
	if dim < 2 || dim > MaxDim {
		return fmt.Errorf("%w: grid dimension %d", ErrDimension, dim)
	} else if width < 2 {
		return fmt.Errorf("%w: grid width %d is less than 2", ErrDegenerate, width)
	}

	var strides [MaxDim]int
	stride := 1
	for d := 0; d < dim; d++ {
		if stride > MaxCells/width {
			return fmt.Errorf(
				"%w: a %d-dimensional grid of width %d has more than %d cells",
				ErrOutOfBounds, dim, width, MaxCells,
			)
		}
		strides[d] = stride
		stride *= width
	}

	g.Width, g.Dim, g.Length, g.strides = width, dim, stride, strides
	return nil
}

// Idx returns the offset into the flattened grid corresponding to idx. No
// bounds checking is done: use IdxCheck unless idx is already known to be
// valid.
func (g *Grid) Idx(idx Index) int {
	offset := 0
	for d := 0; d < g.Dim; d++ {
		offset += idx.ijk[d] * g.strides[d]
	}
	return offset
}

// IdxCheck returns an offset and true if the given index is valid and false
// otherwise.
func (g *Grid) IdxCheck(idx Index) (offset int, ok bool) {
	if !g.BoundsCheck(idx) {
		return -1, false
	}
	return g.Idx(idx), true
}

// BoundsCheck returns true if idx is within the Grid and false otherwise.
func (g *Grid) BoundsCheck(idx Index) bool {
	if idx.dim != g.Dim {
		return false
	}
	for d := 0; d < g.Dim; d++ {
		if idx.ijk[d] < 0 || idx.ijk[d] >= g.Width {
			return false
		}
	}
	return true
}

// Coords returns the index of a cell from its offset.
func (g *Grid) Coords(offset int) Index {
	idx := Index{dim: g.Dim}
	for d := 0; d < g.Dim; d++ {
		idx.ijk[d] = offset % g.Width
		offset /= g.Width
	}
	return idx
}
