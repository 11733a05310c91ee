package io

import (
	"fmt"

	"github.com/phil-mansfield/table"

	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
)

// ReadCatalog reads a whitespace-separated star catalog with columns of
// mass, x, y and, for 3D fields, z.
func ReadCatalog(fname string, dim int) ([]gravity.Star, error) {
	colIdxs := []int{0, 1, 2}
	if dim == 3 {
		colIdxs = append(colIdxs, 3)
	}

	cols, err := table.ReadTable(fname, colIdxs, nil)
	if err != nil {
		return nil, fmt.Errorf("could not read star catalog %s: %w", fname, err)
	}
	return starsFromColumns(cols, dim)
}

func starsFromColumns(cols [][]float64, dim int) ([]gravity.Star, error) {
	if len(cols) != dim+1 {
		return nil, fmt.Errorf(
			"star catalog has %d columns, but %d are needed for %dD stars",
			len(cols), dim+1, dim,
		)
	}

	n := len(cols[0])
	for i := range cols {
		if len(cols[i]) != n {
			return nil, fmt.Errorf(
				"column %d of star catalog has %d rows, but column 0 has %d",
				i, len(cols[i]), n,
			)
		}
	}

	stars := make([]gravity.Star, n)
	for i := range stars {
		var pos geom.Vec
		if dim == 3 {
			pos = geom.NewVec(cols[1][i], cols[2][i], cols[3][i])
		} else {
			pos = geom.NewVec(cols[1][i], cols[2][i])
		}
		stars[i] = gravity.NewStar(cols[0][i], pos)
	}
	return stars, nil
}
