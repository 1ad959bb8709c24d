// Package stats computes variability and outlier statistics over the
// daily aggregate and session series.
//
// All variance and standard deviation figures use the sample (n-1)
// convention, matching the reference numeric output this engine was
// validated against.
package stats

import (
	"iter"
	"math"

	"github.com/codeGROOVE-dev/slumber/pkg/aggregate"
)

// VariancePoint is the trailing-window statistic for the window ending
// at Date.
type VariancePoint struct {
	Date     aggregate.Date `json:"date"`
	Mean     float64        `json:"mean"`     // hours
	Variance float64        `json:"variance"` // hours squared
	StdDev   float64        `json:"stddev"`   // hours
}

// RollingVariance yields one point per date whose trailing window of
// `window` consecutive recorded dates is complete. Dates near the start
// of the series with fewer than `window` predecessors produce nothing:
// a partial window would report a misleadingly low variance. The
// returned sequence is lazy and restartable; daily must be ordered by
// date as produced by aggregate.Build.
func RollingVariance(daily []aggregate.Daily, window int) iter.Seq[VariancePoint] {
	return func(yield func(VariancePoint) bool) {
		if window < 1 || len(daily) < window {
			return
		}
		for end := window - 1; end < len(daily); end++ {
			win := daily[end-window+1 : end+1]
			mean := 0.0
			for _, d := range win {
				mean += d.TotalDuration.Hours()
			}
			mean /= float64(window)

			variance := 0.0
			if window > 1 {
				for _, d := range win {
					diff := d.TotalDuration.Hours() - mean
					variance += diff * diff
				}
				variance /= float64(window - 1)
			}

			p := VariancePoint{
				Date:     win[len(win)-1].Date,
				Mean:     mean,
				Variance: variance,
				StdDev:   math.Sqrt(variance),
			}
			if !yield(p) {
				return
			}
		}
	}
}

// mean and sampleStdDev are shared by the outlier and weekday analyses.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStdDev(values []float64, m float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - m
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
