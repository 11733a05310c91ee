package gravity

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phil-mansfield/gravset/geom"
)

const (
	DefaultStarMass = 1000.0
	// DefaultRange is the half-width of the default field bounds.
	DefaultRange = 20.0
	// DefaultArrangementScale places preset stars halfway to the edge of the
	// default bounds.
	DefaultArrangementScale = DefaultRange * 0.5
	// DefaultProbeCubeSide is the number of lattice spacings along each side
	// of the default probe cube.
	DefaultProbeCubeSide = 10
)

// Arrangement builds a preset star layout with vertices at +/- c along each
// axis, each star of the given mass.
type Arrangement func(c, mass float64, dim int) []Star

// Tetrahedron places four stars on alternating corners of a cube.
func Tetrahedron(c, mass float64, dim int) []Star {
	return project(mass, dim, [][3]float64{
		{-c, -c, -c}, {c, -c, c}, {-c, c, c}, {c, c, -c},
	})
}

// Octahedron places six stars on the axes.
func Octahedron(c, mass float64, dim int) []Star {
	return project(mass, dim, [][3]float64{
		{0, -c, 0}, {0, c, 0},
		{-c, 0, 0}, {c, 0, 0},
		{0, 0, -c}, {0, 0, c},
	})
}

// Hexahedron places eight stars on the corners of a cube.
func Hexahedron(c, mass float64, dim int) []Star {
	return project(mass, dim, [][3]float64{
		{-c, -c, -c}, {c, c, c},
		{c, -c, -c}, {-c, c, c},
		{-c, c, -c}, {c, -c, c},
		{-c, -c, c}, {c, c, -c},
	})
}

var arrangements = map[string]Arrangement{
	"tetrahedron": Tetrahedron,
	"octahedron":  Octahedron,
	"hexahedron":  Hexahedron,
	"cube":        Hexahedron,
}

// ArrangementNames returns the names accepted by ArrangementFromString.
func ArrangementNames() []string {
	names := make([]string, 0, len(arrangements))
	for name := range arrangements {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArrangementFromString looks up an arrangement by case-insensitive name.
func ArrangementFromString(name string) (Arrangement, error) {
	a, ok := arrangements[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf(
			"Arrangement '%s' not recognized. Must be one of %s.",
			name, strings.Join(ArrangementNames(), ", "),
		)
	}
	return a, nil
}

// project converts 3D vertices into stars of dimension dim. In two
// dimensions the z component is dropped and stars which land on the same
// point are merged into one star carrying their combined mass.
func project(mass float64, dim int, vs [][3]float64) []Star {
	stars := make([]Star, 0, len(vs))
	for _, v := range vs {
		var pos geom.Vec
		if dim == 3 {
			pos = geom.NewVec(v[0], v[1], v[2])
		} else {
			pos = geom.NewVec(v[0], v[1])
		}

		merged := false
		for i := range stars {
			if stars[i].Position == pos {
				stars[i].Mass += mass
				merged = true
				break
			}
		}
		if !merged {
			stars = append(stars, NewStar(mass, pos))
		}
	}
	return stars
}

// ProbeCube places (side+1)^dim probes at rest on a regular lattice
// spanning [-extent, extent] along every axis. Probes are ordered with the
// first axis varying fastest.
func ProbeCube(side int, extent float64, dim int) []PosVel {
	if side < 1 {
		side = 1
	}
	n := side + 1
	total := n * n
	if dim == 3 {
		total *= n
	}

	spacing := 2 * extent / float64(side)
	probes := make([]PosVel, total)
	for i := range probes {
		p := geom.Zero(dim)
		rem := i
		for d := 0; d < dim; d++ {
			p = p.With(d, -extent+spacing*float64(rem%n))
			rem /= n
		}
		probes[i] = PosVel{P: p, V: geom.Zero(dim)}
	}
	return probes
}
