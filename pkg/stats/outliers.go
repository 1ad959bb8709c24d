package stats

import (
	"math"
	"sort"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/aggregate"
	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

// Outlier is one unusually long or short session, ranked by how many
// sample standard deviations its duration sits from the population mean.
type Outlier struct {
	Session  session.Normalized `json:"session"`
	Date     aggregate.Date     `json:"date"`
	Duration time.Duration      `json:"duration"`
	ZScore   float64            `json:"z_score"` // signed; ranking uses |z|
}

// Outliers scores every individual session duration against the full
// session population and returns the top k by |z| descending. When all
// durations are identical the standard deviation is zero and no session
// is an outlier, so the result is empty rather than a division by zero.
func Outliers(sessions []session.Normalized, k int) []Outlier {
	if k < 1 || len(sessions) < 2 {
		return nil
	}

	hours := make([]float64, len(sessions))
	for i, n := range sessions {
		hours[i] = n.Duration().Hours()
	}
	m := mean(hours)
	sd := sampleStdDev(hours, m)
	if sd == 0 {
		return nil
	}

	outliers := make([]Outlier, len(sessions))
	for i, n := range sessions {
		outliers[i] = Outlier{
			Session:  n,
			Date:     aggregate.AssignDate(n),
			Duration: n.Duration(),
			ZScore:   (hours[i] - m) / sd,
		}
	}

	sort.SliceStable(outliers, func(i, j int) bool {
		return math.Abs(outliers[i].ZScore) > math.Abs(outliers[j].ZScore)
	})
	if len(outliers) > k {
		outliers = outliers[:k]
	}
	return outliers
}
