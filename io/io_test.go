package io

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
)

func TestDefaultConfig(t *testing.T) {
	con := DefaultConfigWrapper()
	require.NoError(t, con.CheckInit())

	assert.Equal(t, 1024, con.Field.CubeSize)
	assert.Equal(t, 2, con.Field.Dimension)
	assert.Equal(t, gravity.DefaultParameters(), con.Field.Parameters())

	b, err := con.Field.Bounds()
	require.NoError(t, err)
	assert.Equal(t, geom.Cube(2, 20), b)
}

func TestExampleConfig(t *testing.T) {
	con, err := ParseConfig(ExampleConfigFile)
	require.NoError(t, err)

	assert.Equal(t, 64, con.Field.CubeSize)
	assert.Equal(t, 3, con.Field.Dimension)
	assert.Equal(t, []string{"alpha", "beta"}, con.StarNames())

	stars, err := con.Stars()
	require.NoError(t, err)
	assert.Equal(t, []gravity.Star{
		gravity.NewStar(1000, geom.NewVec(-1, 0, 0)),
		gravity.NewStar(1000, geom.NewVec(1, 0, 0)),
	}, stars)
}

func TestArrangementConfig(t *testing.T) {
	text := `[Field]
CubeSize = 8
Dimension = 3
[Arrangement]
Shape = octahedron
Mass = 5
Scale = 2
[Star "zeta"]
Mass = 1
X = 3
Y = 4
Z = 5
[Star "eta"]
Mass = 2`

	con, err := ParseConfig(text)
	require.NoError(t, err)
	stars, err := con.Stars()
	require.NoError(t, err)

	require.Len(t, stars, 8)
	assert.Equal(t, gravity.NewStar(5, geom.NewVec(0, -2, 0)), stars[0])
	assert.Equal(t, gravity.NewStar(2, geom.NewVec(0, 0, 0)), stars[6])
	assert.Equal(t, gravity.NewStar(1, geom.NewVec(3, 4, 5)), stars[7])
}

func TestBadConfig(t *testing.T) {
	table := []string{
		"[Field]\nCubeSize = 1",
		"[Field]\nDimension = 4",
		"[Field]\nIterationLimit = 0",
		"[Field]\nDeltaT = 0",
		"[Field]\nXMin = 5\nXMax = -5",
		"[Arrangement]\nShape = Pyramid",
		"[Run]\nThreads = -1",
		"[Field]\nNotAField = 3",
	}

	for i, text := range table {
		if _, err := ParseConfig(text); err == nil {
			t.Errorf("%d) expected an error for config %q", i, text)
		}
	}
}

func TestStarsFromColumns(t *testing.T) {
	cols := [][]float64{{1, 2}, {0, 1}, {0, 2}}
	stars, err := starsFromColumns(cols, 2)
	require.NoError(t, err)
	assert.Equal(t, []gravity.Star{
		gravity.NewStar(1, geom.NewVec(0, 0)),
		gravity.NewStar(2, geom.NewVec(1, 2)),
	}, stars)

	_, err = starsFromColumns(cols, 3)
	assert.Error(t, err)
	_, err = starsFromColumns([][]float64{{1, 2}, {0}, {0, 2}}, 2)
	assert.Error(t, err)
}

func TestLogFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "log.out")

	log := NamedLogger("io_test")
	assert.Same(t, log, NamedLogger("io_test"))

	f, err := SetLogFile(fname)
	require.NoError(t, err)
	log.Info("field filled")
	_, err = SetLogFile("")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(fname)
	require.NoError(t, err)
	line := string(data)
	assert.True(t, strings.Contains(line, "field filled"), line)
	assert.True(t, strings.Contains(line, "io_test"), line)
}

func TestLogCaller(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NamedLogger("caller_test")
	log.SetOutput(buf)

	_, _, line, _ := runtime.Caller(0)
	log.Info("hello")

	out := buf.String()
	want := fmt.Sprintf("[caller_test %-15s:%03d] hello", "io_test.go", line+1)
	assert.True(t, strings.Contains(out, want), out)
	assert.False(t, strings.Contains(out, "file="), out)
	assert.False(t, strings.Contains(out, "func="), out)
}
