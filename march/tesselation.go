package march

import (
	"context"
	"fmt"
	"time"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/incantation"
	"github.com/phil-mansfield/gravset/io"
)

var log = io.NamedLogger("march")

// Tesselation splits every unit cube of a 3D field into six tetrahedra.
type Tesselation struct {
	Base
	field   *field.Field
	threads int
	tetras  []geom.Tetra
}

// NewTesselation links a new tesselation to f and computes it. threads is
// the number of workers used for each scan; zero means one per CPU.
func NewTesselation(f *field.Field, threads int) (*Tesselation, error) {
	t := &Tesselation{field: f, threads: threads}
	if err := Link(t, f); err != nil {
		return nil, err
	}
	return t, nil
}

// SetThreads changes the number of workers used by later scans.
func (t *Tesselation) SetThreads(threads int) { t.threads = threads }

// Field returns the field being tesselated.
func (t *Tesselation) Field() *field.Field { return t.field }

// TesselateCube returns the six tetrahedra of the unit cube whose lower-most
// corner is lmp, in world coordinates.
func (t *Tesselation) TesselateCube(lmp geom.Index) [geom.TetraDirCount]geom.Tetra {
	var out [geom.TetraDirCount]geom.Tetra
	for dir := range out {
		for i, idx := range geom.TetraIdxs(lmp, dir) {
			out[dir].Corners[i] = t.field.IndexToCoords(idx)
		}
	}
	return out
}

// Handle rescans the field. The field is refilled first if it is dirty.
func (t *Tesselation) Handle() error { return t.Run(context.Background()) }

// Run rescans the field, splitting the z axis between workers.
func (t *Tesselation) Run(ctx context.Context) error {
	if t.field.Dim() != 3 {
		return fmt.Errorf("%w: tetrahedra need a 3-dimensional field, not %d",
			geom.ErrDimension, t.field.Dim())
	}

	if t.field.IsDirty() {
		if err := t.field.Fill(ctx); err != nil {
			return err
		}
	}

	start := time.Now()
	cubes := t.field.CubeSize() - 1
	tetras, err := incantation.Cast(
		ctx, incantation.Range(0, cubes), t.threads,
		func(ctx context.Context, _ int, zs []int) ([]geom.Tetra, error) {
			buf := make([]geom.Tetra, 0, len(zs)*cubes*cubes*geom.TetraDirCount)
			for _, z := range zs {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				for y := 0; y < cubes; y++ {
					for x := 0; x < cubes; x++ {
						cube := t.TesselateCube(geom.NewIndex(x, y, z))
						buf = append(buf, cube[:]...)
					}
				}
			}
			return buf, nil
		},
		incantation.Concat[geom.Tetra],
	)
	if err != nil {
		return err
	}

	t.mu.Lock()
	t.tetras = tetras
	t.mu.Unlock()
	t.ClearDirty()

	log.Debugf("Generated %d tetrahedra in %s.", len(tetras), time.Since(start))
	return nil
}

// Tetrahedra returns the tetrahedra found by the last scan, ordered by the
// z, y and then x index of their cube.
func (t *Tesselation) Tetrahedra() []geom.Tetra {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]geom.Tetra{}, t.tetras...)
}

// Len returns the number of tetrahedra found by the last scan.
func (t *Tesselation) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.tetras)
}
