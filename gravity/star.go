/*package gravity integrates massless probes through the field of a fixed set
of point-mass stars.
*/
package gravity

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/gravset/geom"
)

var (
	// ErrDegenerate is returned when a star configuration has no well-defined
	// center of mass. It is the same error as geom.ErrDegenerate.
	ErrDegenerate = geom.ErrDegenerate
	// ErrParameters is returned by Parameters.Validate.
	ErrParameters = errors.New("invalid simulation parameters")
)

const (
	DefaultGravitationalConstant = 1.0
	DefaultDeltaT                = 0.1
	DefaultIterationLimit        = 1024
	DefaultEscapeRadius          = 2.0
)

// Star is a fixed point mass.
type Star struct {
	Mass     float64
	Position geom.Vec
}

// NewStar creates a star at pos.
func NewStar(mass float64, pos geom.Vec) Star {
	return Star{Mass: mass, Position: pos}
}

func (s Star) String() string {
	return fmt.Sprintf("Star{mass: %g, position: %v}", s.Mass, s.Position)
}

// Parameters are the physical constants and integration limits of a
// simulation.
type Parameters struct {
	GravitationalConstant float64
	DeltaT                float64
	IterationLimit        int
	EscapeRadius          float64
}

// DefaultParameters returns the parameters a Field is given when none are
// specified.
func DefaultParameters() Parameters {
	return Parameters{
		GravitationalConstant: DefaultGravitationalConstant,
		DeltaT:                DefaultDeltaT,
		IterationLimit:        DefaultIterationLimit,
		EscapeRadius:          DefaultEscapeRadius,
	}
}

// Validate returns an error wrapping ErrParameters if p cannot be
// integrated.
func (p Parameters) Validate() error {
	switch {
	case p.IterationLimit <= 0:
		return fmt.Errorf("%w: IterationLimit must be positive, but is %d",
			ErrParameters, p.IterationLimit)
	case p.DeltaT == 0 || math.IsNaN(p.DeltaT) || math.IsInf(p.DeltaT, 0):
		return fmt.Errorf("%w: DeltaT must be finite and non-zero, but is %g",
			ErrParameters, p.DeltaT)
	case math.IsNaN(p.GravitationalConstant) ||
		math.IsInf(p.GravitationalConstant, 0):
		return fmt.Errorf("%w: GravitationalConstant must be finite, but is %g",
			ErrParameters, p.GravitationalConstant)
	case math.IsNaN(p.EscapeRadius):
		return fmt.Errorf("%w: EscapeRadius is NaN", ErrParameters)
	}
	return nil
}

func (p Parameters) String() string {
	return fmt.Sprintf(
		"gravitational_constant: %g delta_t: %g iteration_limit: %d escape_radius: %g",
		p.GravitationalConstant, p.DeltaT, p.IterationLimit, p.EscapeRadius,
	)
}
