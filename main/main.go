package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/gravity"
	"github.com/phil-mansfield/gravset/io"
	"github.com/phil-mansfield/gravset/march"
	"github.com/phil-mansfield/gravset/render"
	"github.com/phil-mansfield/gravset/view"
)

var log = io.NamedLogger("main")

// FileGroup contains utility files for logging and writing profiles to.
type FileGroup struct {
	log, prof *os.File
}

// Close closes the files inside FileGroup.
func (fg *FileGroup) Close() {
	if fg.log != nil && fg.log != os.Stderr {
		if err := fg.log.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}

	if fg.prof != nil {
		pprof.StopCPUProfile()
		if err := fg.prof.Close(); err != nil {
			log.Fatal(err.Error())
		}
	}
}

func main() {
	var (
		runStr, viewStr, exampleConfig string
		verbose                        bool
	)
	vars := map[string]*string{
		"Run":           &runStr,
		"View":          &viewStr,
		"ExampleConfig": &exampleConfig,
	}

	flag.StringVar(
		&runStr, "Run", "",
		"Configuration file for [Run] mode, which fills the field, "+
			"tesselates it and advances the probe cube.",
	)
	flag.StringVar(
		&viewStr, "View", "",
		"Configuration file for [View] mode, which shows the field in the "+
			"terminal and lets the stars be edited.",
	)
	flag.StringVar(
		&exampleConfig, "ExampleConfig", "",
		"Prints an example configuration file of the specified type to "+
			"stdout. The only accepted argument is 'Run'.",
	)
	flag.BoolVar(&verbose, "Verbose", false, "Log debugging information.")

	flag.Parse()

	if verbose {
		io.SetLogLevel(logrus.DebugLevel)
	}

	modeName, err := getModeName(vars)
	if err != nil {
		log.Fatal(err.Error())
	}

	switch modeName {
	case "Run":
		con, err := io.ReadConfig(runStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := runMain(con); err != nil {
			log.Fatal(err.Error())
		}

	case "View":
		con, err := io.ReadConfig(viewStr)
		if err != nil {
			log.Fatal(err.Error())
		}
		if err := viewMain(con); err != nil {
			log.Fatal(err.Error())
		}

	case "ExampleConfig":
		switch exampleConfig {
		case "Run":
			fmt.Println(io.ExampleConfigFile)
		default:
			log.Fatal(
				"Unrecognized 'ExampleConfig' argument. The only " +
					"recognized argument is 'Run'.",
			)
		}
	default:
		panic("Impossible")
	}
}

// getModeName returns the name of the mode and fails with a descriptive error
// if the user provided less or more than one mode flag.
func getModeName(vars map[string]*string) (string, error) {
	setNames := []string{}

	for name, varPtr := range vars {
		if *varPtr != "" {
			setNames = append(setNames, name)
		}
	}

	if len(setNames) == 0 {
		return "", fmt.Errorf("No flags have been set.")
	}

	if len(setNames) > 1 {
		return "", fmt.Errorf(
			"The following flags were set: %s, but gravset "+
				"only accepts one flag at a time.",
			strings.Join(setNames, ", "),
		)
	}

	return setNames[0], nil
}

func setupFiles(con *io.RunConfig) (*FileGroup, error) {
	fg := &FileGroup{}
	if con.ValidLogFile() {
		f, err := io.SetLogFile(con.LogFile)
		if err != nil {
			return nil, err
		}
		fg.log = f
	}

	if con.ValidProfileFile() {
		f, err := os.Create(con.ProfileFile)
		if err != nil {
			return nil, err
		}
		fg.prof = f
		if err := pprof.StartCPUProfile(f); err != nil {
			return nil, err
		}
	}
	return fg, nil
}

// newField creates a field from the [Field] section of con and places every
// star the config describes in it.
func newField(con *io.ConfigWrapper) (*field.Field, error) {
	bounds, err := con.Field.Bounds()
	if err != nil {
		return nil, err
	}

	f, err := field.New(bounds, field.Config{
		CubeSize:   con.Field.CubeSize,
		Dimension:  con.Field.Dimension,
		Parameters: con.Field.Parameters(),
		Threads:    con.Run.Threads,
	})
	if err != nil {
		return nil, err
	}

	stars, err := con.Stars()
	if err != nil {
		return nil, err
	}
	if err := f.SetStars(stars); err != nil {
		return nil, err
	}
	log.Infof("Created %s with %d stars.", f, len(stars))
	return f, nil
}

// probeExtent is the half-width of the probe cube. Its corners lie inside
// the escape radius so that every probe moves.
func probeExtent(f *field.Field) float64 {
	return f.Parameters().EscapeRadius / 2
}

func runMain(con *io.ConfigWrapper) error {
	fg, err := setupFiles(&con.Run)
	if err != nil {
		return err
	}
	defer fg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	f, err := newField(con)
	if err != nil {
		return err
	}

	t0 := time.Now()
	mesh, err := buildPipeline(ctx, f, con.Run.Threads)
	if err != nil {
		return err
	}
	if mesh != nil {
		log.Infof(
			"Filled and tesselated the field into %d tetrahedra in %s.",
			mesh.TetraCount(), time.Since(t0),
		)
	} else {
		log.Infof("Filled the field in %s.", time.Since(t0))
	}

	info := render.EscapeHistInfo(f)
	centers, counts, err := render.Histogram(ctx, f, info)
	if err != nil {
		return err
	}
	trapped := counts[len(counts)-1]
	log.Infof(
		"%d of %d cells were trapped for all %d steps.",
		trapped, len(f.RawGrid()), f.Parameters().IterationLimit,
	)

	probes := gravity.ProbeCube(con.Run.ProbeCube, probeExtent(f), f.Dim())
	t0 = time.Now()
	moved, err := f.AdvanceProbes(ctx, probes, con.Run.Steps)
	if err != nil {
		return err
	}
	log.Infof(
		"Advanced %d probes by %d steps in %s.",
		len(moved), con.Run.Steps, time.Since(t0),
	)

	if !con.Run.ValidPlotFile() {
		return nil
	}

	stars := f.Stars()
	par := f.Parameters()
	par.IterationLimit = con.Run.Steps
	trajs := make([][]gravity.PosVel, len(probes))
	for i := range probes {
		trajs[i] = gravity.Trajectory(probes[i], stars, f.CenterOfMass(), par)
	}

	xs, ts, err := render.Profile(f)
	if err != nil {
		return err
	}

	render.PlotTrajectories(con.Run.PlotFile, trajs, stars, par.EscapeRadius)
	render.PlotProfile(
		suffixed(con.Run.PlotFile, "profile"), xs, ts,
		f.Parameters().IterationLimit,
	)
	render.PlotHistogram(
		suffixed(con.Run.PlotFile, "hist"), info, centers, counts,
	)
	render.Execute()
	log.Infof("Wrote plots to %s.", con.Run.PlotFile)
	return nil
}

// buildPipeline fills f and, for 3D fields, links a tesselation and mesh to
// it. The mesh is nil for 2D fields. Linking finds the field clean, so the
// field is filled once and can be interrupted through ctx.
func buildPipeline(
	ctx context.Context, f *field.Field, threads int,
) (*march.Mesh, error) {
	if err := f.Fill(ctx); err != nil {
		return nil, err
	}
	if f.Dim() != 3 {
		return nil, nil
	}

	tess, err := march.NewTesselation(f, threads)
	if err != nil {
		return nil, err
	}
	return march.NewMesh(tess)
}

// suffixed inserts "_suffix" before the extension of fname.
func suffixed(fname, suffix string) string {
	ext := filepath.Ext(fname)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(fname, ext), suffix, ext)
}

func viewMain(con *io.ConfigWrapper) error {
	if !con.Run.ValidLogFile() {
		// The terminal belongs to the viewer.
		con.Run.LogFile = os.DevNull
	}
	fg, err := setupFiles(&con.Run)
	if err != nil {
		return err
	}
	defer fg.Close()

	f, err := newField(con)
	if err != nil {
		return err
	}

	var mesh *march.Mesh
	if f.Dim() == 3 {
		tess, err := march.NewTesselation(f, con.Run.Threads)
		if err != nil {
			return err
		}
		if mesh, err = march.NewMesh(tess); err != nil {
			return err
		}
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	probes := gravity.ProbeCube(con.Run.ProbeCube, probeExtent(f), f.Dim())
	v := view.NewViewer(screen, f, mesh, probes, con.Run.Steps)
	return v.Run(ctx)
}
