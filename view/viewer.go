/*package view draws a slice of a field in a terminal and turns key presses
into field commands.

Keys:

	+ -     double or halve the grid resolution
	g G     halve or double the gravitational constant
	tab     select the next star, or all stars
	m M     halve or double the mass of the selected star(s)
	t o h   replace the stars with a tetrahedron, octahedron or hexahedron
	[ ]     move down or up one z slice (3D fields only)
	p       show or hide the probe cube
	q esc   quit
*/
package view

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/io"
	"github.com/phil-mansfield/gravset/march"
)

const (
	tickMs = 100
	// MinCubeSize is the smallest resolution reachable with -.
	MinCubeSize = 2
	// MaxCells bounds the number of cells in resolutions reachable with +.
	MaxCells = 1 << 24
)

// MaxCubeSize returns the largest power of two resolution reachable with +
// in a field of dimension dim.
func MaxCubeSize(dim int) int {
	cs := MinCubeSize
	for {
		next, cells := 2*cs, 1
		for d := 0; d < dim; d++ {
			cells *= next
		}
		if cells > MaxCells {
			return cs
		}
		cs = next
	}
}

var log = io.NamedLogger("view")

var (
	starStyle   = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	probeStyle  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
	statusStyle = tcell.StyleDefault.Reverse(true)
)

// Viewer displays a field and forwards commands to it.
type Viewer struct {
	screen tcell.Screen
	field  *field.Field
	mesh   *march.Mesh

	probes     []gravity.PosVel
	showProbes bool
	steps      int

	selected int
	slice    int

	arrScale, arrMass float64

	status string
}

// NewViewer creates a viewer of f drawing to screen. mesh may be nil; if it
// is not, it is kept up to date with f and its size is shown. screen must
// already be initialized.
func NewViewer(
	screen tcell.Screen, f *field.Field, mesh *march.Mesh,
	probes []gravity.PosVel, steps int,
) *Viewer {
	return &Viewer{
		screen:   screen,
		field:    f,
		mesh:     mesh,
		probes:   probes,
		steps:    steps,
		selected: field.AllStars,
		slice:    f.CubeSize() / 2,
		arrScale: gravity.DefaultArrangementScale,
		arrMass:  gravity.DefaultStarMass,
	}
}

// Selected returns the index of the selected star, or field.AllStars.
func (v *Viewer) Selected() int { return v.selected }

// Slice returns the z index of the slice being drawn.
func (v *Viewer) Slice() int { return v.slice }

// Status returns the message shown after the last command.
func (v *Viewer) Status() string { return v.status }

// Refresh brings the field, and the mesh if there is one, up to date.
func (v *Viewer) Refresh() error {
	if v.mesh != nil {
		if v.mesh.IsDirty() {
			return v.mesh.Handle()
		}
		return nil
	}
	if v.field.IsDirty() {
		return v.field.Handle()
	}
	return nil
}

// step returns the number of grid cells drawn as one screen cell.
func (v *Viewer) step() int {
	w, h := v.screen.Size()
	side := w
	if h-1 < side {
		side = h - 1
	}
	if side < 1 {
		side = 1
	}
	cs := v.field.CubeSize()
	return (cs + side - 1) / side
}

func (v *Viewer) cellIndex(gx, gy int) geom.Index {
	if v.field.Dim() == 3 {
		return geom.NewIndex(gx, gy, v.slice)
	}
	return geom.NewIndex(gx, gy)
}

// toScreen returns the screen position of grid cell (gx, gy). y increases
// up the screen.
func (v *Viewer) toScreen(gx, gy int) (sx, sy int) {
	step := v.step()
	return gx / step, (v.field.CubeSize() - 1 - gy) / step
}

// Draw redraws the whole screen.
func (v *Viewer) Draw() {
	v.screen.Clear()
	cs, step := v.field.CubeSize(), v.step()
	limit := v.field.Parameters().IterationLimit

	for sy := 0; sy*step < cs; sy++ {
		for sx := 0; sx*step < cs; sx++ {
			gx, gy := sx*step, cs-1-sy*step
			t, err := v.field.At(v.cellIndex(gx, gy))
			if err != nil || t == field.Untouched {
				continue
			}
			shade := int32(255 * t / limit)
			color := tcell.NewRGBColor(shade, shade, shade)
			v.screen.SetContent(sx, sy, ' ', nil,
				tcell.StyleDefault.Background(color))
		}
	}

	if v.showProbes {
		for _, pv := range v.probes {
			v.drawPoint(pv.P, 'o', probeStyle)
		}
	}
	for _, s := range v.field.Stars() {
		v.drawPoint(s.Position, '*', starStyle)
	}

	v.drawStatus()
	v.screen.Show()
}

func (v *Viewer) drawPoint(p geom.Vec, r rune, style tcell.Style) {
	if v.field.Dim() == 3 {
		p = p.With(2, v.field.IndexToCoords(geom.NewIndex(0, 0, v.slice)).At(2))
	}
	idx, err := v.field.CoordsToIndex(p)
	if err != nil {
		return
	}
	sx, sy := v.toScreen(idx.At(0), idx.At(1))
	v.screen.SetContent(sx, sy, r, nil, style)
}

func (v *Viewer) drawStatus() {
	w, h := v.screen.Size()
	sel := "all"
	if v.selected != field.AllStars {
		sel = fmt.Sprintf("%d", v.selected+1)
	}
	line := fmt.Sprintf(" cube %d  G %g  star %s/%d",
		v.field.CubeSize(), v.field.Parameters().GravitationalConstant,
		sel, v.field.StarCount())
	if v.field.Dim() == 3 {
		line += fmt.Sprintf("  z %d", v.slice)
	}
	if v.mesh != nil {
		line += fmt.Sprintf("  tetrahedra %d", v.mesh.TetraCount())
	}
	if v.status != "" {
		line += "  " + v.status
	}

	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		v.screen.SetContent(x, h-1, r, nil, statusStyle)
		x++
	}
	for ; x < w; x++ {
		v.screen.SetContent(x, h-1, ' ', nil, statusStyle)
	}
}

// HandleEvent applies the command bound to ev. It returns false if the
// viewer should exit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		} else if ev.Key() == tcell.KeyTab {
			v.nextStar()
			return true
		} else if ev.Key() != tcell.KeyRune {
			return true
		}

		var err error
		switch ev.Rune() {
		case 'q':
			return false
		case '+':
			err = v.resize(2 * v.field.CubeSize())
		case '-':
			err = v.resize(v.field.CubeSize() / 2)
		case 'g':
			err = v.scaleG(0.5)
		case 'G':
			err = v.scaleG(2)
		case 'm':
			err = v.scaleMass(0.5)
		case 'M':
			err = v.scaleMass(2)
		case 't':
			err = v.arrange(gravity.Tetrahedron)
		case 'o':
			err = v.arrange(gravity.Octahedron)
		case 'h':
			err = v.arrange(gravity.Hexahedron)
		case '[':
			v.moveSlice(-1)
		case ']':
			v.moveSlice(+1)
		case 'p':
			v.showProbes = !v.showProbes
		default:
			return true
		}
		v.finish(err)

	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// finish refreshes the pipeline after a command and records the outcome.
func (v *Viewer) finish(err error) {
	if err == nil {
		err = v.Refresh()
	}
	if err != nil {
		log.Warnf("Command failed: %s", err.Error())
		v.status = err.Error()
	} else {
		v.status = ""
	}
}

func (v *Viewer) nextStar() {
	v.selected++
	if v.selected >= v.field.StarCount() {
		v.selected = field.AllStars
	}
}

func (v *Viewer) resize(cs int) error {
	if limit := MaxCubeSize(v.field.Dim()); cs < MinCubeSize || cs > limit {
		return fmt.Errorf("cube size %d is outside [%d, %d]",
			cs, MinCubeSize, limit)
	}
	if err := v.field.SetGridResolution(cs); err != nil {
		return err
	}
	if v.slice >= cs {
		v.slice = cs - 1
	}
	return nil
}

func (v *Viewer) scaleG(factor float64) error {
	par := v.field.Parameters()
	par.GravitationalConstant *= factor
	return v.field.UpdateParameters(par)
}

func (v *Viewer) scaleMass(factor float64) error {
	stars := v.field.Stars()
	if len(stars) == 0 {
		return fmt.Errorf("there are no stars")
	}
	if v.selected == field.AllStars {
		v.arrMass = stars[0].Mass * factor
		return v.field.UpdateStar(field.AllStars,
			gravity.NewStar(v.arrMass, stars[0].Position))
	}
	s := stars[v.selected]
	s.Mass *= factor
	return v.field.UpdateStar(v.selected, s)
}

func (v *Viewer) arrange(arr gravity.Arrangement) error {
	v.selected = field.AllStars
	return v.field.SetStars(arr(v.arrScale, v.arrMass, v.field.Dim()))
}

func (v *Viewer) moveSlice(dz int) {
	if v.field.Dim() != 3 {
		return
	}
	z := v.slice + dz
	if z >= 0 && z < v.field.CubeSize() {
		v.slice = z
	}
}

// Tick advances the visible probes by one batch of steps.
func (v *Viewer) Tick(ctx context.Context) error {
	if !v.showProbes || len(v.probes) == 0 {
		return nil
	}
	probes, err := v.field.AdvanceProbes(ctx, v.probes, v.steps)
	if err != nil {
		return err
	}
	v.probes = probes
	return nil
}

// Run draws the field and handles events until the user quits or ctx is
// cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	if err := v.Refresh(); err != nil {
		return err
	}

	ticker := time.NewTicker(tickMs * time.Millisecond)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	v.Draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if !v.HandleEvent(ev) {
				return nil
			}
			v.Draw()
		case <-ticker.C:
			if err := v.Tick(ctx); err != nil {
				v.status = err.Error()
			}
			v.Draw()
		}
	}
}
