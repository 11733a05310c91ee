package view

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/march"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func newField(t *testing.T, cubeSize, dim int) *field.Field {
	cfg := field.DefaultConfig()
	cfg.CubeSize, cfg.Dimension = cubeSize, dim
	cfg.Parameters.IterationLimit = 16
	f, err := field.New(geom.Cube(dim, 20), cfg)
	require.NoError(t, err)
	return f
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func TestDraw(t *testing.T) {
	screen := newScreen(t, 40, 20)
	f := newField(t, 5, 2)
	require.NoError(t, f.AddStar(gravity.NewStar(1000, geom.NewVec(10, 10))))
	v := NewViewer(screen, f, nil, nil, 1)
	require.NoError(t, v.Refresh())
	v.Draw()

	// (10, 10) is cell (3, 3), drawn one row from the top.
	r, _, _, _ := screen.GetContent(3, 1)
	assert.Equal(t, '*', r)

	_, _, style, _ := screen.GetContent(0, 4)
	_, bg, _ := style.Decompose()
	assert.NotEqual(t, tcell.ColorDefault, bg, "filled cells are shaded")

	status := ""
	for x := 0; x < 10; x++ {
		r, _, _, _ := screen.GetContent(x, 19)
		status += string(r)
	}
	assert.Equal(t, " cube 5  G", status)
}

func TestStep(t *testing.T) {
	screen := newScreen(t, 10, 6)
	v := NewViewer(screen, newField(t, 16, 2), nil, nil, 1)
	assert.Equal(t, 4, v.step())
	sx, sy := v.toScreen(15, 15)
	assert.Equal(t, 3, sx)
	assert.Equal(t, 0, sy)
}

func TestMaxCubeSize(t *testing.T) {
	assert.Equal(t, 1<<12, MaxCubeSize(2))
	assert.Equal(t, 1<<8, MaxCubeSize(3))

	screen := newScreen(t, 40, 20)
	f := newField(t, 128, 3)
	v := NewViewer(screen, f, nil, nil, 1)
	assert.True(t, v.HandleEvent(key('+')))
	assert.Equal(t, 256, f.CubeSize())
	assert.True(t, v.HandleEvent(key('+')))
	assert.Equal(t, 256, f.CubeSize())
	assert.NotEmpty(t, v.Status())
}

func TestCommands(t *testing.T) {
	screen := newScreen(t, 40, 20)
	f := newField(t, 4, 2)
	require.NoError(t, f.SetStars(gravity.Tetrahedron(10, 1000, 2)))
	v := NewViewer(screen, f, nil, nil, 1)
	require.NoError(t, v.Refresh())

	assert.True(t, v.HandleEvent(key('G')))
	assert.Equal(t, 2.0, f.Parameters().GravitationalConstant)
	assert.False(t, f.IsDirty(), "commands refresh the field")
	assert.True(t, v.HandleEvent(key('g')))
	assert.Equal(t, 1.0, f.Parameters().GravitationalConstant)

	assert.True(t, v.HandleEvent(key('+')))
	assert.Equal(t, 8, f.CubeSize())
	assert.True(t, v.HandleEvent(key('-')))
	assert.True(t, v.HandleEvent(key('-')))
	assert.Equal(t, 2, f.CubeSize())
	assert.True(t, v.HandleEvent(key('-')))
	assert.Equal(t, 2, f.CubeSize())
	assert.NotEmpty(t, v.Status())

	assert.Equal(t, field.AllStars, v.Selected())
	tab := tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone)
	assert.True(t, v.HandleEvent(tab))
	assert.Equal(t, 0, v.Selected())

	assert.True(t, v.HandleEvent(key('M')))
	assert.Equal(t, 2000.0, f.Stars()[0].Mass)
	assert.Equal(t, 1000.0, f.Stars()[1].Mass)

	for i := 0; i < 4; i++ {
		v.HandleEvent(tab)
	}
	assert.Equal(t, field.AllStars, v.Selected())
	assert.True(t, v.HandleEvent(key('m')))
	for _, s := range f.Stars() {
		assert.Equal(t, 1000.0, s.Mass)
	}

	assert.True(t, v.HandleEvent(key('h')))
	assert.Equal(t, 4, f.StarCount())
	assert.True(t, v.HandleEvent(key('o')))
	assert.Equal(t, 5, f.StarCount())
	assert.Equal(t, "", v.Status())

	assert.False(t, v.HandleEvent(key('q')))
	assert.False(t, v.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestSlice(t *testing.T) {
	screen := newScreen(t, 40, 20)
	f := newField(t, 4, 3)
	mesh := func() *march.Mesh {
		tess, err := march.NewTesselation(f, 1)
		require.NoError(t, err)
		m, err := march.NewMesh(tess)
		require.NoError(t, err)
		return m
	}()
	v := NewViewer(screen, f, mesh, nil, 1)

	assert.Equal(t, 2, v.Slice())
	v.HandleEvent(key(']'))
	assert.Equal(t, 3, v.Slice())
	v.HandleEvent(key(']'))
	assert.Equal(t, 3, v.Slice())
	v.HandleEvent(key('['))
	assert.Equal(t, 2, v.Slice())

	v.HandleEvent(key('o'))
	assert.False(t, mesh.IsDirty())
	assert.Equal(t, 6, f.StarCount())
	assert.Equal(t, 162, mesh.TetraCount())
}

func TestTick(t *testing.T) {
	screen := newScreen(t, 40, 20)
	f := newField(t, 5, 2)
	require.NoError(t, f.SetStars(gravity.Hexahedron(10, 1000, 2)))
	probes := []gravity.PosVel{{P: geom.NewVec(1, 0), V: geom.Zero(2)}}
	v := NewViewer(screen, f, nil, probes, 3)
	require.NoError(t, v.Refresh())

	require.NoError(t, v.Tick(context.Background()))
	assert.Equal(t, probes, v.probes, "hidden probes do not move")

	v.HandleEvent(key('p'))
	require.NoError(t, v.Tick(context.Background()))
	assert.NotEqual(t, probes, v.probes)
}

func TestRun(t *testing.T) {
	screen := newScreen(t, 40, 20)
	f := newField(t, 4, 2)
	require.NoError(t, f.AddStar(gravity.NewStar(10, geom.Zero(2))))
	v := NewViewer(screen, f, nil, nil, 1)

	screen.InjectKey(tcell.KeyRune, 'p', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, v.Run(ctx))
	assert.False(t, f.IsDirty())
}
