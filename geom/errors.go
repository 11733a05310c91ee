package geom

import (
	"errors"
)

var (
	// ErrOutOfBounds is returned when a coordinate or index lies outside the
	// extent of a grid.
	ErrOutOfBounds = errors.New("out of bounds")
	// ErrDegenerate is returned for bounds or grids with no volume and for
	// star sets with no center of mass.
	ErrDegenerate = errors.New("degenerate configuration")
	// ErrDimension is returned when objects of different dimensions are
	// combined or an unsupported dimension is requested.
	ErrDimension = errors.New("unsupported dimension")
)
