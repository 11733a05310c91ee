/*package render produces figures of escape-time fields and probe
trajectories. Figures are queued with pyplot and written when Execute is
called.
*/
package render

import (
	"fmt"

	plt "github.com/phil-mansfield/pyplot"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/geom"
	"github.com/phil-mansfield/gravset/gravity"
)

var (
	colors = []string{
		"DarkSlateBlue", "DarkSlateGray", "DarkTurquoise",
		"DarkViolet", "DeepPink", "DimGray",
	}
)

// Profile returns the escape times of f along the x axis through the center
// of the other axes, with the x coordinate of each cell. Untouched cells are
// skipped.
func Profile(f *field.Field) (xs, ts []float64, err error) {
	cs := f.CubeSize()
	idx := geom.NewIndex(cs/2, cs/2)
	if f.Dim() == 3 {
		idx = geom.NewIndex(cs/2, cs/2, cs/2)
	}

	for i := 0; i < cs; i++ {
		idx = idx.With(0, i)
		t, err := f.At(idx)
		if err != nil {
			return nil, nil, err
		} else if t == field.Untouched {
			continue
		}
		xs = append(xs, f.IndexToCoords(idx).At(0))
		ts = append(ts, float64(t))
	}
	return xs, ts, nil
}

// projection returns the x and y coordinates of each state in traj.
func projection(traj []gravity.PosVel) (xs, ys []float64) {
	xs, ys = make([]float64, len(traj)), make([]float64, len(traj))
	for i := range traj {
		xs[i], ys[i] = traj[i].P.At(0), traj[i].P.At(1)
	}
	return xs, ys
}

// PlotTrajectories queues a figure of probe paths projected onto the x-y
// plane, with stars marked.
func PlotTrajectories(
	fname string, trajs [][]gravity.PosVel, stars []gravity.Star, extent float64,
) {
	plt.Figure(plt.FigSize(8, 8))
	for i, traj := range trajs {
		if len(traj) == 0 {
			continue
		}
		xs, ys := projection(traj)
		plt.Plot(xs, ys, plt.LW(1), plt.C(colors[i%len(colors)]))
	}

	sxs, sys := make([]float64, len(stars)), make([]float64, len(stars))
	for i := range stars {
		sxs[i], sys[i] = stars[i].Position.At(0), stars[i].Position.At(1)
	}
	plt.Plot(sxs, sys, "*k")

	plt.Title(fmt.Sprintf("%d probes, %d stars", len(trajs), len(stars)))
	plt.XLabel(`$X$`, plt.FontSize(16))
	plt.YLabel(`$Y$`, plt.FontSize(16))
	plt.XLim(-extent, +extent)
	plt.YLim(-extent, +extent)
	plt.SaveFig(fname)
}

// PlotProfile queues a figure of escape time against position.
func PlotProfile(fname string, xs, ts []float64, limit int) {
	plt.Figure()
	plt.Plot(xs, ts, "k", plt.LW(2))
	plt.Title(fmt.Sprintf("Escape time profile, limit = %d", limit))
	plt.XLabel(`$X$`, plt.FontSize(16))
	plt.YLabel(`Escape time [steps]`, plt.FontSize(16))
	plt.YLim(0, float64(limit)*1.05)
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// PlotHistogram queues a figure of a histogram.
func PlotHistogram(fname string, info *HistInfo, centers []float64, counts []int) {
	ys := make([]float64, len(counts))
	for i := range counts {
		ys[i] = float64(counts[i])
	}

	plt.Figure()
	plt.Plot(centers, ys, "k", plt.LW(2))
	plt.XLabel(`Escape time [steps]`, plt.FontSize(16))
	plt.YLabel(`Cells`, plt.FontSize(16))
	if info.isLog() {
		plt.XScale("log")
	}
	plt.Grid(plt.Axis("y"))
	plt.SaveFig(fname)
}

// Execute writes every queued figure.
func Execute() { plt.Execute() }
