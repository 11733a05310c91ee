package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
)

func filledField(t *testing.T) *field.Field {
	cfg := field.DefaultConfig()
	cfg.CubeSize, cfg.Dimension = 5, 2
	cfg.Parameters.IterationLimit = 20
	f, err := field.New(geom.Cube(2, 20), cfg)
	require.NoError(t, err)
	require.NoError(t, f.SetStars(gravity.Hexahedron(10, 1000, 2)))
	require.NoError(t, f.Handle())
	return f
}

func TestHistCenters(t *testing.T) {
	lin := histCenters(&HistInfo{Min: 0, Max: 4, Bins: 4, Scale: "Linear"})
	assert.Equal(t, []float64{0.5, 1.5, 2.5, 3.5}, lin)

	log := histCenters(&HistInfo{Min: 1, Max: 100, Bins: 2, Scale: "Log"})
	assert.InDelta(t, 3.1622776601683795, log[0], 1e-9)
	assert.InDelta(t, 31.622776601683793, log[1], 1e-9)
}

func TestBin(t *testing.T) {
	info := &HistInfo{Min: 0, Max: 10, Bins: 5, Scale: "linear"}
	table := []struct {
		x   float64
		bin int
	}{
		{0, 0}, {1.9, 0}, {2, 1}, {9.99, 4}, {10, -1}, {-1, -1},
	}
	for i, test := range table {
		if b := bin(test.x, info); b != test.bin {
			t.Errorf("%d) bin(%g) = %d, expected %d", i, test.x, b, test.bin)
		}
	}

	logInfo := &HistInfo{Min: 1, Max: 100, Bins: 2, Scale: "Log"}
	assert.Equal(t, -1, bin(0, logInfo))
	assert.Equal(t, 0, bin(5, logInfo))
	assert.Equal(t, 1, bin(50, logInfo))
}

func TestCheckInit(t *testing.T) {
	bad := []HistInfo{
		{Min: 0, Max: 1, Bins: 0, Scale: "Linear"},
		{Min: 0, Max: 1, Bins: 2, Scale: "Cubic"},
		{Min: 1, Max: 1, Bins: 2, Scale: "Linear"},
		{Min: 0, Max: 1, Bins: 2, Scale: "Log"},
	}
	for i := range bad {
		assert.Error(t, bad[i].CheckInit(), "%d", i)
	}
}

func TestHistogram(t *testing.T) {
	f := filledField(t)
	info := EscapeHistInfo(f)
	centers, counts, err := Histogram(context.Background(), f, info)
	require.NoError(t, err)
	require.Len(t, centers, 21)
	require.Len(t, counts, 21)

	total := 0
	for _, c := range counts {
		total += c
	}
	assert.Equal(t, 25, total, "every cell is binned")

	f.Reset()
	_, counts, err = Histogram(context.Background(), f, info)
	require.NoError(t, err)
	for _, c := range counts {
		assert.Equal(t, 0, c, "untouched cells are skipped")
	}
}

func TestProfile(t *testing.T) {
	f := filledField(t)
	xs, ts, err := Profile(f)
	require.NoError(t, err)
	assert.Equal(t, []float64{-20, -10, 0, 10, 20}, xs)
	require.Len(t, ts, 5)
	assert.Equal(t, float64(f.Parameters().IterationLimit), ts[2],
		"the center of a symmetric field is trapped")
}

func TestProjection(t *testing.T) {
	traj := []gravity.PosVel{
		{P: geom.NewVec(1, 2, 3), V: geom.Zero(3)},
		{P: geom.NewVec(4, 5, 6), V: geom.Zero(3)},
	}
	xs, ys := projection(traj)
	assert.Equal(t, []float64{1, 4}, xs)
	assert.Equal(t, []float64{2, 5}, ys)
}
