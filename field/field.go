/*package field owns a grid of escape times over an axis-aligned box, the
stars which generate it, and the simulation parameters used to integrate
each cell's probe.
*/
package field

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/incantation"
	"github.com/phil-mansfield/gravset/io"
)

const (
	// Untouched marks grid cells whose escape time has not been computed.
	Untouched = -1
	// AllStars is the star index which UpdateStar treats as every star.
	AllStars = -1
)

var (
	// ErrStale is returned when escape times are requested from a field
	// whose stars or parameters changed after its center of mass was last
	// computed.
	ErrStale = errors.New("field is stale")

	log = io.NamedLogger("field")
)

// Config holds the resolution and physics of a Field.
type Config struct {
	CubeSize, Dimension int
	Parameters          gravity.Parameters
	// Threads is the number of workers used by bulk operations. Zero means
	// one per CPU.
	Threads int
}

// DefaultConfig returns the configuration used when nothing else is given.
func DefaultConfig() Config {
	return Config{
		CubeSize:   io.DefaultCubeSize,
		Dimension:  io.DefaultDimension,
		Parameters: gravity.DefaultParameters(),
	}
}

// Field is a grid of escape times. A Field is not safe for concurrent
// mutation, but any number of goroutines may read it while no mutation is
// in progress.
type Field struct {
	bounds geom.Bounds
	grid   geom.Grid
	cells  []int

	stars   []gravity.Star
	par     gravity.Parameters
	com     geom.Vec
	threads int

	dirty bool
}

// New creates an empty field covering bounds. The field starts with no
// stars and every cell Untouched.
func New(bounds geom.Bounds, cfg Config) (*Field, error) {
	if err := bounds.Check(); err != nil {
		return nil, err
	} else if bounds.Dim() != cfg.Dimension {
		return nil, fmt.Errorf(
			"%w: %d-dimensional bounds given to a %d-dimensional field",
			geom.ErrDimension, bounds.Dim(), cfg.Dimension,
		)
	} else if err := cfg.Parameters.Validate(); err != nil {
		return nil, err
	}

	f := &Field{
		bounds:  bounds,
		par:     cfg.Parameters,
		com:     geom.Zero(cfg.Dimension),
		threads: cfg.Threads,
	}
	if err := f.grid.Init(cfg.CubeSize, cfg.Dimension); err != nil {
		return nil, err
	}
	f.cells = make([]int, f.grid.Length)
	f.Reset()
	return f, nil
}

// Reset marks every cell as Untouched.
func (f *Field) Reset() {
	for i := range f.cells {
		f.cells[i] = Untouched
	}
}

func (f *Field) Bounds() geom.Bounds            { return f.bounds }
func (f *Field) CubeSize() int                  { return f.grid.Width }
func (f *Field) Dim() int                       { return f.grid.Dim }
func (f *Field) Grid() *geom.Grid               { return &f.grid }
func (f *Field) Parameters() gravity.Parameters { return f.par }

// CenterOfMass returns the center of mass found by the last call to
// RecomputeCenterOfMass.
func (f *Field) CenterOfMass() geom.Vec { return f.com }

// Threads returns the number of workers used by bulk operations.
func (f *Field) Threads() int {
	if f.threads <= 0 {
		return incantation.DefaultThreads()
	}
	return f.threads
}

// SetThreads sets the number of workers used by bulk operations.
func (f *Field) SetThreads(threads int) { f.threads = threads }

// CoordsToIndex returns the index of the cell nearest to the point c. Points
// which round to a cell outside the field are reported with
// geom.ErrOutOfBounds.
func (f *Field) CoordsToIndex(c geom.Vec) (geom.Index, error) {
	if c.Dim() != f.grid.Dim {
		return geom.Index{}, fmt.Errorf(
			"%w: %d-vector given to a %d-dimensional field",
			geom.ErrDimension, c.Dim(), f.grid.Dim,
		)
	}

	out := make([]int, f.grid.Dim)
	n := float64(f.grid.Width - 1)
	for d := range out {
		nm, pm := f.bounds.Min.At(d), f.bounds.Max.At(d)
		x := math.Round((c.At(d) - nm) / (pm - nm) * n)
		if math.IsNaN(x) || x < 0 || x > n {
			return geom.Index{}, fmt.Errorf(
				"%w: %v lies outside the field %v to %v",
				geom.ErrOutOfBounds, c, f.bounds.Min, f.bounds.Max,
			)
		}
		out[d] = int(x)
	}
	return geom.NewIndex(out...), nil
}

// IndexToCoords returns the position of the cell idx. It is defined for all
// indices, including ones outside the field.
func (f *Field) IndexToCoords(idx geom.Index) geom.Vec {
	v := geom.Zero(f.grid.Dim)
	n := float64(f.grid.Width - 1)
	for d := 0; d < f.grid.Dim; d++ {
		nm, pm := f.bounds.Min.At(d), f.bounds.Max.At(d)
		v = v.With(d, nm+(pm-nm)*float64(idx.At(d))/n)
	}
	return v
}

// Offset returns the position of idx within RawGrid.
func (f *Field) Offset(idx geom.Index) (int, error) {
	offset, ok := f.grid.IdxCheck(idx)
	if !ok {
		return -1, fmt.Errorf(
			"%w: index %v in a field with CubeSize %d and Dimension %d",
			geom.ErrOutOfBounds, idx, f.grid.Width, f.grid.Dim,
		)
	}
	return offset, nil
}

// At returns the value stored at idx, which is Untouched if the cell has not
// been computed.
func (f *Field) At(idx geom.Index) (int, error) {
	offset, err := f.Offset(idx)
	if err != nil {
		return Untouched, err
	}
	return f.cells[offset], nil
}

// Set stores x at idx.
func (f *Field) Set(idx geom.Index, x int) error {
	offset, err := f.Offset(idx)
	if err != nil {
		return err
	}
	f.cells[offset] = x
	return nil
}

// RawGrid returns the flattened cells of the field, indexed by
// Grid().Idx. It is intended for hot loops which have already checked
// their indices; nothing is validated.
func (f *Field) RawGrid() []int { return f.cells }

// RecomputeCenterOfMass recomputes the center of mass of the stars and marks
// the field as clean.
func (f *Field) RecomputeCenterOfMass() error {
	com, err := gravity.CenterOfMass(f.stars)
	if err != nil {
		return err
	}
	f.com = com
	f.dirty = false
	return nil
}

// Probe returns the initial state of the probe for the cell idx.
func (f *Field) Probe(idx geom.Index) gravity.PosVel {
	return gravity.PosVel{P: f.IndexToCoords(idx), V: geom.Zero(f.grid.Dim)}
}

// EscapeTime returns the escape time of the cell idx, computing and storing
// it if the cell is Untouched.
func (f *Field) EscapeTime(idx geom.Index) (int, error) {
	if f.dirty {
		return Untouched, ErrStale
	} else if len(f.stars) == 0 {
		return Untouched, fmt.Errorf("%w: field has no stars", gravity.ErrDegenerate)
	}

	offset, err := f.Offset(idx)
	if err != nil {
		return Untouched, err
	}
	if f.cells[offset] == Untouched {
		f.cells[offset] = gravity.AdvanceProbe(
			f.Probe(idx), f.stars, f.com, f.par, nil,
		)
	}
	return f.cells[offset], nil
}

// Handle recomputes the center of mass and fills every cell of the grid.
func (f *Field) Handle() error { return f.Fill(context.Background()) }

// Fill recomputes the center of mass and fills every cell of the grid,
// splitting the outermost axis between workers. The field stays dirty
// unless every cell was filled.
func (f *Field) Fill(ctx context.Context) error {
	com, err := gravity.CenterOfMass(f.stars)
	if err != nil {
		return err
	}
	f.com, f.dirty = com, true
	f.Reset()

	start := time.Now()
	outer := f.grid.Dim - 1
	rows := incantation.Range(0, f.grid.Width)

	inc := incantation.New[int, int](rows)
	err = inc.Invoke(ctx, func(ctx context.Context, _ int, part []int) (int, error) {
		n := 0
		for _, row := range part {
			if err := ctx.Err(); err != nil {
				return n, err
			}
			n += f.fillRow(outer, row)
		}
		return n, nil
	}, f.Threads()).Join()
	if err != nil {
		return err
	}
	f.dirty = false

	filled := inc.Reduce(func(ns []int) int {
		sum := 0
		for _, n := range ns {
			sum += n
		}
		return sum
	})
	log.Debugf("Filled %d cells with %d workers in %s.",
		filled, len(inc.Results()), time.Since(start))
	return nil
}

// fillRow fills every cell whose component along axis outer is row.
func (f *Field) fillRow(outer, row int) int {
	per := f.grid.Length / f.grid.Width
	n := 0
	for i := 0; i < per; i++ {
		idx := f.grid.Coords(i)
		// Coords of an offset below Width^(Dim-1) leaves the outer
		// component at zero.
		idx = idx.With(outer, row)
		offset := f.grid.Idx(idx)
		f.cells[offset] = gravity.AdvanceProbe(
			f.Probe(idx), f.stars, f.com, f.par, nil,
		)
		n++
	}
	return n
}

// IsDirty returns true if the stars or parameters have changed since the
// center of mass was last computed.
func (f *Field) IsDirty() bool { return f.dirty }

// ClearDirty marks the field as clean without recomputing anything.
func (f *Field) ClearDirty() { f.dirty = false }

func (f *Field) String() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Field{bounds: %v to %v cube_size: %d dimension: %d ",
		f.bounds.Min, f.bounds.Max, f.grid.Width, f.grid.Dim)
	fmt.Fprintf(sb, "%v dirty: %v stars: [", f.par, f.dirty)
	for i, s := range f.stars {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(s.String())
	}
	sb.WriteString("]}")
	return sb.String()
}
