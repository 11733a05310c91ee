package field

import (
	"context"
	"fmt"

	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/incantation"
)

// The methods in this file are the commands a display issues to a Field.
// Every mutation marks the field as dirty.

func (f *Field) checkStar(s gravity.Star) error {
	if s.Position.Dim() != f.grid.Dim {
		return fmt.Errorf(
			"%w: %d-dimensional star added to a %d-dimensional field",
			geom.ErrDimension, s.Position.Dim(), f.grid.Dim,
		)
	}
	return nil
}

// UpdateStar replaces star i with s. If i is AllStars, the mass of every
// star is set to s.Mass and positions are left alone.
func (f *Field) UpdateStar(i int, s gravity.Star) error {
	if i == AllStars {
		for j := range f.stars {
			f.stars[j].Mass = s.Mass
		}
		f.dirty = true
		return nil
	}

	if i < 0 || i >= len(f.stars) {
		return fmt.Errorf(
			"%w: star %d of a field with %d stars",
			geom.ErrOutOfBounds, i, len(f.stars),
		)
	} else if err := f.checkStar(s); err != nil {
		return err
	}
	f.stars[i] = s
	f.dirty = true
	return nil
}

// AddStar appends s to the star list.
func (f *Field) AddStar(s gravity.Star) error {
	if err := f.checkStar(s); err != nil {
		return err
	}
	f.stars = append(f.stars, s)
	f.dirty = true
	return nil
}

// SetStars replaces the entire star list.
func (f *Field) SetStars(stars []gravity.Star) error {
	for i := range stars {
		if err := f.checkStar(stars[i]); err != nil {
			return err
		}
	}
	f.stars = append([]gravity.Star{}, stars...)
	f.dirty = true
	return nil
}

// Stars returns a copy of the star list.
func (f *Field) Stars() []gravity.Star {
	return append([]gravity.Star{}, f.stars...)
}

// StarCount returns the number of stars.
func (f *Field) StarCount() int { return len(f.stars) }

// UpdateParameters replaces the simulation parameters.
func (f *Field) UpdateParameters(par gravity.Parameters) error {
	if err := par.Validate(); err != nil {
		return err
	}
	f.par = par
	f.dirty = true
	return nil
}

// SetGridResolution changes the number of cells along each side of the
// grid. Every cell becomes Untouched. The field is unchanged if an error is
// returned.
func (f *Field) SetGridResolution(cubeSize int) error {
	var grid geom.Grid
	if err := grid.Init(cubeSize, f.grid.Dim); err != nil {
		return err
	}
	f.grid, f.cells = grid, make([]int, grid.Length)
	f.Reset()
	f.dirty = true
	return nil
}

// AdvanceProbes moves each probe forward by at most steps integration steps
// and returns the new states in the same order. Probes outside the escape
// radius do not move.
func (f *Field) AdvanceProbes(
	ctx context.Context, probes []gravity.PosVel, steps int,
) ([]gravity.PosVel, error) {
	if f.dirty {
		return nil, ErrStale
	}
	for i := range probes {
		if probes[i].P.Dim() != f.grid.Dim || probes[i].V.Dim() != f.grid.Dim {
			return nil, fmt.Errorf(
				"%w: probe %d does not match a %d-dimensional field",
				geom.ErrDimension, i, f.grid.Dim,
			)
		}
	}

	stars, com, par := f.stars, f.com, f.par
	return incantation.Cast(ctx, probes, f.Threads(),
		func(ctx context.Context, _ int, part []gravity.PosVel) ([]gravity.PosVel, error) {
			out := make([]gravity.PosVel, len(part))
			for i := range part {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				out[i] = gravity.Advance(part[i], stars, com, par, steps)
			}
			return out, nil
		}, incantation.Concat[gravity.PosVel])
}
