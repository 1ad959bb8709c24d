// Package session defines the sleep session records consumed and produced
// by the analysis pipeline. All types are immutable value objects; the
// pipeline never mutates a caller's records.
package session

import "time"

// Session is one recorded sleep period as supplied by the caller.
// Start and End are wall-clock readings in SourceTimezone; an empty or
// unparseable SourceTimezone falls back to a configured default zone.
type Session struct {
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	SourceTimezone string             `json:"source_timezone,omitempty"`
	Metrics        map[string]float64 `json:"metrics,omitempty"` // named quality metrics; absent keys are missing, not zero
}

// Duration returns End - Start.
func (s Session) Duration() time.Duration {
	return s.End.Sub(s.Start)
}

// Normalized is a session whose timestamps have been rewritten into the
// target display timezone. Index is the position of the originating
// record in the input sequence, kept stable for provenance.
type Normalized struct {
	Index      int                `json:"index"`
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Degenerate bool               `json:"degenerate,omitempty"` // zero-duration record, retained so outlier analysis can surface it
}

// Duration returns End - Start.
func (n Normalized) Duration() time.Duration {
	return n.End.Sub(n.Start)
}

// ConversionStatus reports how a session's timestamps were normalized.
type ConversionStatus string

const (
	// StatusConverted means the recorded source timezone parsed cleanly.
	StatusConverted ConversionStatus = "converted"
	// StatusUsedDefault means the source timezone was missing or
	// unparseable and the configured default zone was used instead.
	StatusUsedDefault ConversionStatus = "used-default"
	// StatusFailed means the session could not be normalized at all
	// (missing timestamps or negative duration) and was excluded.
	StatusFailed ConversionStatus = "failed"
)

// Problem classifies why a record was excluded or flagged.
type Problem string

const (
	ProblemMissingStart     Problem = "missing-start"
	ProblemMissingEnd       Problem = "missing-end"
	ProblemNegativeDuration Problem = "negative-duration"
	ProblemZeroDuration     Problem = "zero-duration"
	ProblemUnknownTimezone  Problem = "unknown-timezone"
)

// Diagnostic describes a per-record anomaly. Diagnostics never abort an
// analysis; a minority of bad records must not lose the rest.
type Diagnostic struct {
	Index   int     `json:"index"`
	Problem Problem `json:"problem"`
	Detail  string  `json:"detail,omitempty"`
}
