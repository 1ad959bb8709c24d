// Package slumber turns irregular sleep session records into day-level
// aggregates and derived statistics: timezone normalization, wake-date
// assignment, rolling variance, outlier detection, weekday variability,
// recording gaps and the 24-hour time-of-day distribution.
//
// The pipeline is a pure function of its input: no I/O, no shared
// state, no mutation of caller records. Analyses with different
// configurations may run concurrently over the same session slice.
package slumber

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/aggregate"
	"github.com/codeGROOVE-dev/slumber/pkg/gaps"
	"github.com/codeGROOVE-dev/slumber/pkg/session"
	"github.com/codeGROOVE-dev/slumber/pkg/stats"
	"github.com/codeGROOVE-dev/slumber/pkg/timebucket"
	"github.com/codeGROOVE-dev/slumber/pkg/tzconvert"
)

// Analyzer runs the full aggregation and analytics pipeline.
type Analyzer struct {
	cfg    config
	logger *slog.Logger
}

// Result is the structured output of one analysis run. Everything in it
// is freshly derived; re-running the same input and configuration
// yields identical output.
type Result struct {
	// Normalization
	Sessions    []session.Normalized       `json:"sessions"`
	Statuses    []session.ConversionStatus `json:"statuses"`
	Diagnostics []session.Diagnostic       `json:"diagnostics,omitempty"`
	Converted   int                        `json:"converted"`
	UsedDefault int                        `json:"used_default"`
	Excluded    int                        `json:"excluded"`

	// Aggregation
	Daily   []aggregate.Daily `json:"daily"`
	Summary aggregate.Summary `json:"summary"`

	// Analytics
	Variance  []stats.VariancePoint   `json:"variance,omitempty"`
	Outliers  []stats.Outlier         `json:"outliers,omitempty"`
	Weekdays  []stats.WeekdayStats    `json:"weekdays"`
	Frequency gaps.Report             `json:"frequency"`
	TimeOfDay timebucket.Distribution `json:"time_of_day"`
}

// New creates an Analyzer with the given options applied over defaults
// (UTC display zone, 10-date variance window, top-10 outliers,
// 15-minute buckets, 21:00-08:00 nighttime window).
func New(opts ...Option) *Analyzer {
	return NewWithLogger(slog.Default(), opts...)
}

// NewWithLogger is New with an explicit logger for diagnostics.
func NewWithLogger(logger *slog.Logger, opts ...Option) *Analyzer {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Analyzer{cfg: cfg, logger: logger}
}

// validate rejects misconfigurations before any computation; silently
// proceeding with, say, a zero-length window would produce misleading
// statistics rather than an obvious failure.
func (a *Analyzer) validate() (target, fallback *time.Location, err error) {
	c := a.cfg
	if target, err = tzconvert.Resolve(c.targetZone); err != nil {
		return nil, nil, fmt.Errorf("target timezone: %w", err)
	}
	if fallback, err = tzconvert.Resolve(c.defaultZone); err != nil {
		return nil, nil, fmt.Errorf("default timezone: %w", err)
	}
	if c.varianceWindow < 1 {
		return nil, nil, fmt.Errorf("variance window must be at least 1 date, got %d", c.varianceWindow)
	}
	if c.outlierCount < 1 {
		return nil, nil, fmt.Errorf("outlier count must be at least 1, got %d", c.outlierCount)
	}
	if err = timebucket.ValidateBucketSize(c.bucketMinutes); err != nil {
		return nil, nil, err
	}
	if c.nightStart < 0 || c.nightStart >= 24*60 || c.nightEnd < 0 || c.nightEnd >= 24*60 {
		return nil, nil, fmt.Errorf("nighttime window %d-%d out of range", c.nightStart, c.nightEnd)
	}
	if c.nightStart == c.nightEnd {
		return nil, nil, fmt.Errorf("nighttime window is empty")
	}
	if c.minObservations < 2 {
		return nil, nil, fmt.Errorf("minimum observations must be at least 2, got %d", c.minObservations)
	}
	return target, fallback, nil
}

// Analyze runs the pipeline over the supplied records. Configuration
// errors fail eagerly; malformed records never do - they are excluded
// with diagnostics and the rest of the analysis proceeds.
func (a *Analyzer) Analyze(sessions []session.Session) (*Result, error) {
	target, fallback, err := a.validate()
	if err != nil {
		return nil, err
	}

	norm := tzconvert.Normalize(sessions, target, fallback)
	a.logger.Debug("normalized sessions",
		"total", len(sessions),
		"converted", norm.Converted,
		"used_default", norm.UsedDefault,
		"excluded", norm.Excluded,
		"target", a.cfg.targetZone)

	daily := aggregate.Build(norm.Sessions)
	summary := aggregate.Summarize(daily)
	a.logger.Debug("built daily aggregates",
		"dates", summary.UniqueDates,
		"multi_session_days", summary.MultiSessionDays,
		"cross_midnight", summary.CrossMidnight)

	variance := slices.Collect(stats.RollingVariance(daily, a.cfg.varianceWindow))
	outliers := stats.Outliers(norm.Sessions, a.cfg.outlierCount)
	weekdays := stats.WeekdayVariability(daily, a.cfg.minObservations)
	frequency := gaps.Analyze(daily)

	dist, err := timebucket.Accumulate(norm.Sessions, a.cfg.bucketMinutes, a.cfg.nightStart, a.cfg.nightEnd)
	if err != nil {
		// Unreachable after validate, but don't swallow it.
		return nil, err
	}

	return &Result{
		Sessions:    norm.Sessions,
		Statuses:    norm.Statuses,
		Diagnostics: norm.Diagnostics,
		Converted:   norm.Converted,
		UsedDefault: norm.UsedDefault,
		Excluded:    norm.Excluded,
		Daily:       daily,
		Summary:     summary,
		Variance:    variance,
		Outliers:    outliers,
		Weekdays:    weekdays,
		Frequency:   frequency,
		TimeOfDay:   dist,
	}, nil
}
