package io

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
)

const (
	DefaultCubeSize  = 1024
	DefaultDimension = 2

	ExampleConfigFile = `[Field]

#######################
# Required Parameters #
#######################

# Number of grid cells along each side of the field. Must be at least 2.
CubeSize = 64

# Must be 2 or 3. Tetrahedra can only be generated for 3D fields.
Dimension = 3

# Extent of the field. ZMin and ZMax are ignored for 2D fields.
XMin = -20
XMax = 20
YMin = -20
YMax = 20
ZMin = -20
ZMax = 20

#######################
# Optional Parameters #
#######################

# Physical constants and integration limits. The values shown are the
# defaults.
# IterationLimit = 1024
# GravitationalConstant = 1.0
# EscapeRadius = 2.0
# DeltaT = 0.1

[Arrangement]

# Stars can be placed with a preset arrangement, read from a catalog, listed
# individually in [Star] sections, or any combination of the three.

# Shape must be one of [ Tetrahedron | Octahedron | Hexahedron ].
# Shape = Octahedron

# Mass of each star in the arrangement and distance of its vertices from the
# origin along each axis. The values shown are the defaults.
# Mass = 1000
# Scale = 10

# Whitespace-separated text file with columns of mass, x, y and (for 3D
# fields) z. Lines starting with # are ignored.
# Catalog = path/to/stars.txt

[Star "alpha"]
Mass = 1000
X = -1
Y = 0
Z = 0

[Star "beta"]
Mass = 1000
X = 1
Y = 0
Z = 0

[Run]

# Number of worker goroutines. 0 uses one per CPU.
# Threads = 0

# Number of lattice spacings along each side of the probe cube which is
# advanced after the field is filled, and the number of steps each probe is
# advanced.
# ProbeCube = 10
# Steps = 100

# Output files which are useful for profiling and debugging.
# ProfileFile = prof.out
# LogFile = log.out

# If set, trajectories of the probe cube are plotted here.
# PlotFile = trajectories.png`
)

type FieldConfig struct {
	// Required
	CubeSize, Dimension    int
	XMin, XMax, YMin, YMax float64
	ZMin, ZMax             float64

	// Optional
	IterationLimit        int
	GravitationalConstant float64
	EscapeRadius, DeltaT  float64
}

func (con *FieldConfig) ValidCubeSize() bool {
	return con.CubeSize >= 2
}
func (con *FieldConfig) ValidDimension() bool {
	return con.Dimension == 2 || con.Dimension == 3
}
func (con *FieldConfig) ValidIterationLimit() bool {
	return con.IterationLimit > 0
}
func (con *FieldConfig) ValidDeltaT() bool {
	return con.DeltaT != 0 && !math.IsNaN(con.DeltaT)
}

func (con *FieldConfig) CheckInit() error {
	switch {
	case !con.ValidCubeSize():
		return fmt.Errorf(
			"CubeSize must be at least 2, but is %d.", con.CubeSize,
		)
	case !con.ValidDimension():
		return fmt.Errorf(
			"Dimension must be 2 or 3, but is %d.", con.Dimension,
		)
	case !con.ValidIterationLimit():
		return fmt.Errorf(
			"IterationLimit must be positive, but is %d.", con.IterationLimit,
		)
	case !con.ValidDeltaT():
		return fmt.Errorf("DeltaT must be non-zero, but is %g.", con.DeltaT)
	}

	if _, err := con.Bounds(); err != nil {
		return fmt.Errorf("Field bounds are invalid: %w", err)
	}
	return nil
}

// Bounds returns the extent of the field.
func (con *FieldConfig) Bounds() (geom.Bounds, error) {
	var min, max geom.Vec
	if con.Dimension == 3 {
		min = geom.NewVec(con.XMin, con.YMin, con.ZMin)
		max = geom.NewVec(con.XMax, con.YMax, con.ZMax)
	} else {
		min = geom.NewVec(con.XMin, con.YMin)
		max = geom.NewVec(con.XMax, con.YMax)
	}
	return geom.NewBounds(min, max)
}

// Parameters returns the simulation parameters of the field.
func (con *FieldConfig) Parameters() gravity.Parameters {
	return gravity.Parameters{
		GravitationalConstant: con.GravitationalConstant,
		DeltaT:                con.DeltaT,
		IterationLimit:        con.IterationLimit,
		EscapeRadius:          con.EscapeRadius,
	}
}

type StarConfig struct {
	// Required
	Mass, X, Y, Z float64

	// Optional, "undocumented"
	Name string
}

func (star *StarConfig) CheckInit(name string) error {
	if math.IsNaN(star.Mass) || math.IsInf(star.Mass, 0) {
		return fmt.Errorf("Star '%s' has a non-finite mass.", name)
	}
	star.Name = name
	return nil
}

// Star converts the section into a star of dimension dim.
func (star *StarConfig) Star(dim int) gravity.Star {
	if dim == 3 {
		return gravity.NewStar(star.Mass, geom.NewVec(star.X, star.Y, star.Z))
	}
	return gravity.NewStar(star.Mass, geom.NewVec(star.X, star.Y))
}

type ArrangementConfig struct {
	// Optional
	Shape       string
	Mass, Scale float64
	Catalog     string
}

func (con *ArrangementConfig) ValidShape() bool {
	_, err := gravity.ArrangementFromString(con.Shape)
	return err == nil
}
func (con *ArrangementConfig) ValidCatalog() bool {
	return con.Catalog != ""
}

func (con *ArrangementConfig) CheckInit() error {
	if con.Shape != "" {
		if _, err := gravity.ArrangementFromString(con.Shape); err != nil {
			return err
		}
	}
	if con.Scale < 0 {
		return fmt.Errorf(
			"Arrangement Scale must be non-negative, but is %g.", con.Scale,
		)
	}
	return nil
}

type RunConfig struct {
	// Optional
	Threads          int
	ProbeCube, Steps int

	LogFile, ProfileFile, PlotFile string
}

func (con *RunConfig) ValidLogFile() bool {
	return con.LogFile != ""
}
func (con *RunConfig) ValidProfileFile() bool {
	return con.ProfileFile != ""
}
func (con *RunConfig) ValidPlotFile() bool {
	return con.PlotFile != ""
}

func (con *RunConfig) CheckInit() error {
	if con.Threads < 0 {
		return fmt.Errorf("Threads must be non-negative, but is %d.", con.Threads)
	} else if con.ProbeCube < 0 {
		return fmt.Errorf(
			"ProbeCube must be non-negative, but is %d.", con.ProbeCube,
		)
	} else if con.Steps < 0 {
		return fmt.Errorf("Steps must be non-negative, but is %d.", con.Steps)
	}
	return nil
}

type ConfigWrapper struct {
	Field       FieldConfig
	Star        map[string]*StarConfig
	Arrangement ArrangementConfig
	Run         RunConfig
}

func DefaultConfigWrapper() *ConfigWrapper {
	par := gravity.DefaultParameters()
	r := gravity.DefaultRange

	con := &ConfigWrapper{}
	con.Field = FieldConfig{
		CubeSize:              DefaultCubeSize,
		Dimension:             DefaultDimension,
		XMin:                  -r,
		XMax:                  r,
		YMin:                  -r,
		YMax:                  r,
		ZMin:                  -r,
		ZMax:                  r,
		IterationLimit:        par.IterationLimit,
		GravitationalConstant: par.GravitationalConstant,
		EscapeRadius:          par.EscapeRadius,
		DeltaT:                par.DeltaT,
	}
	con.Arrangement = ArrangementConfig{
		Mass:  gravity.DefaultStarMass,
		Scale: gravity.DefaultArrangementScale,
	}
	con.Run = RunConfig{
		ProbeCube: gravity.DefaultProbeCubeSide,
		Steps:     100,
	}
	return con
}

// ReadConfig reads and checks the config file fname.
func ReadConfig(fname string) (*ConfigWrapper, error) {
	con := DefaultConfigWrapper()
	if err := gcfg.ReadFileInto(con, fname); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return con, nil
}

// ParseConfig reads and checks config text.
func ParseConfig(text string) (*ConfigWrapper, error) {
	con := DefaultConfigWrapper()
	if err := gcfg.ReadStringInto(con, text); err != nil {
		return nil, err
	}
	if err := con.CheckInit(); err != nil {
		return nil, err
	}
	return con, nil
}

func (con *ConfigWrapper) CheckInit() error {
	if err := con.Field.CheckInit(); err != nil {
		return err
	} else if err := con.Arrangement.CheckInit(); err != nil {
		return err
	} else if err := con.Run.CheckInit(); err != nil {
		return err
	}

	for name, star := range con.Star {
		if err := star.CheckInit(name); err != nil {
			return err
		}
	}
	return nil
}

// StarNames returns the names of the [Star] sections in sorted order.
func (con *ConfigWrapper) StarNames() []string {
	names := make([]string, 0, len(con.Star))
	for name := range con.Star {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stars collects every star the config describes: the preset arrangement
// first, then the catalog, then [Star] sections in order of name.
func (con *ConfigWrapper) Stars() ([]gravity.Star, error) {
	dim := con.Field.Dimension
	stars := []gravity.Star{}

	arr := &con.Arrangement
	if strings.TrimSpace(arr.Shape) != "" {
		build, err := gravity.ArrangementFromString(arr.Shape)
		if err != nil {
			return nil, err
		}
		stars = append(stars, build(arr.Scale, arr.Mass, dim)...)
	}

	if arr.ValidCatalog() {
		cat, err := ReadCatalog(arr.Catalog, dim)
		if err != nil {
			return nil, err
		}
		stars = append(stars, cat...)
	}

	for _, name := range con.StarNames() {
		stars = append(stars, con.Star[name].Star(dim))
	}
	return stars, nil
}
