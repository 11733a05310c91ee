package render

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/gravset/field"
	"github.com/phil-mansfield/gravset/incantation"
)

// HistInfo describes the binning of a histogram.
type HistInfo struct {
	Min, Max float64
	Bins     int
	// Scale must be "Log" or "Linear".
	Scale string
}

func (info *HistInfo) isLog() bool {
	return strings.ToLower(info.Scale) == "log"
}

// CheckInit returns an error if info cannot be used to bin values.
func (info *HistInfo) CheckInit() error {
	switch {
	case info.Bins <= 0:
		return fmt.Errorf("Histogram needs a positive bin count, not %d.", info.Bins)
	case !info.isLog() && strings.ToLower(info.Scale) != "linear":
		return fmt.Errorf(
			"Histogram Scale must be 'Log' or 'Linear', not '%s'.", info.Scale,
		)
	case !(info.Min < info.Max):
		return fmt.Errorf("Histogram range [%g, %g) is empty.", info.Min, info.Max)
	case info.isLog() && info.Min <= 0:
		return fmt.Errorf("Log histogram needs a positive Min, not %g.", info.Min)
	}
	return nil
}

// EscapeHistInfo returns linear binning with one bin per escape time of f.
func EscapeHistInfo(f *field.Field) *HistInfo {
	limit := f.Parameters().IterationLimit
	return &HistInfo{Min: 0, Max: float64(limit + 1), Bins: limit + 1, Scale: "Linear"}
}

// histCenters returns the centers of a histogram.
func histCenters(info *HistInfo) []float64 {
	min, max := info.Min, info.Max

	isLog := info.isLog()
	if isLog {
		min, max = math.Log10(min), math.Log10(max)
	}

	dx := (max - min) / float64(info.Bins)

	centers := make([]float64, info.Bins)
	for i := range centers {
		centers[i] = min + dx*(float64(i)+0.5)
		if isLog {
			centers[i] = math.Pow(10, centers[i])
		}
	}

	return centers
}

// bin returns the bin x falls in, or -1 if it lies outside the histogram.
func bin(x float64, info *HistInfo) int {
	min, max := info.Min, info.Max
	if info.isLog() {
		if x <= 0 {
			return -1
		}
		min, max, x = math.Log10(min), math.Log10(max), math.Log10(x)
	}
	if x < min || x >= max {
		return -1
	}
	i := int((x - min) / (max - min) * float64(info.Bins))
	if i >= info.Bins {
		i = info.Bins - 1
	}
	return i
}

// Histogram bins the computed escape times of f. Untouched cells are
// skipped. It returns the bin centers and counts.
func Histogram(
	ctx context.Context, f *field.Field, info *HistInfo,
) (centers []float64, counts []int, err error) {
	if err := info.CheckInit(); err != nil {
		return nil, nil, err
	}

	cells := f.RawGrid()
	counts, err = incantation.Cast(ctx, cells, f.Threads(),
		func(_ context.Context, _ int, part []int) ([]int, error) {
			hist := make([]int, info.Bins)
			for _, x := range part {
				if x == field.Untouched {
					continue
				}
				if i := bin(float64(x), info); i >= 0 {
					hist[i]++
				}
			}
			return hist, nil
		},
		func(hists [][]int) []int {
			// merge worker histograms.
			out := make([]int, info.Bins)
			for _, hist := range hists {
				for j := range hist {
					out[j] += hist[j]
				}
			}
			return out
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return histCenters(info), counts, nil
}
