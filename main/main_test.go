package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/io"
)

func testField(t *testing.T, dim int) *field.Field {
	con, err := io.ParseConfig(io.ExampleConfigFile)
	require.NoError(t, err)
	con.Field.CubeSize, con.Field.Dimension = 4, dim
	con.Field.IterationLimit = 16
	f, err := newField(con)
	require.NoError(t, err)
	return f
}

func TestBuildPipeline(t *testing.T) {
	f := testField(t, 3)
	mesh, err := buildPipeline(context.Background(), f, 2)
	require.NoError(t, err)
	require.NotNil(t, mesh)
	assert.False(t, mesh.IsDirty())
	assert.Equal(t, 6*3*3*3, mesh.TetraCount())
	for _, x := range f.RawGrid() {
		assert.NotEqual(t, field.Untouched, x)
	}

	f = testField(t, 2)
	mesh, err = buildPipeline(context.Background(), f, 2)
	require.NoError(t, err)
	assert.Nil(t, mesh)
	assert.False(t, f.IsDirty())
}

func TestBuildPipelineCancel(t *testing.T) {
	f := testField(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	mesh, err := buildPipeline(ctx, f, 2)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, mesh)
	assert.True(t, f.IsDirty())
}

func TestBuildPipelineNoStars(t *testing.T) {
	f := testField(t, 3)
	require.NoError(t, f.SetStars(nil))
	_, err := buildPipeline(context.Background(), f, 1)
	assert.True(t, errors.Is(err, gravity.ErrDegenerate))
	assert.True(t, errors.Is(err, geom.ErrDegenerate))
}

func TestSuffixed(t *testing.T) {
	assert.Equal(t, "out/traj_hist.png", suffixed("out/traj.png", "hist"))
	assert.Equal(t, "traj_profile", suffixed("traj", "profile"))
}
