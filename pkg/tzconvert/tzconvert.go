// Package tzconvert resolves recorded timezone identifiers and rewrites
// session timestamps into a single target timezone. Timestamps arrive as
// wall-clock readings in their source zone; normalization re-anchors the
// wall clock in that zone and converts to the target for display and
// date assignment.
package tzconvert

import (
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

// Resolve returns the location for a timezone identifier.
// Accepted forms:
//   - "UTC", "UTC+8", "UTC-4" (whole-hour offsets)
//   - IANA zone names like "America/Chicago" or "Pacific/Auckland"
func Resolve(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("empty timezone identifier")
	}

	// UTC offset format first; LoadLocation only knows plain "UTC".
	if len(name) >= 3 && name[:3] == "UTC" {
		offsetStr := name[3:]
		if offsetStr == "" {
			return time.UTC, nil
		}

		sign := 1
		switch offsetStr[0] {
		case '-':
			sign = -1
			offsetStr = offsetStr[1:]
		case '+':
			offsetStr = offsetStr[1:]
		default:
			return nil, fmt.Errorf("malformed UTC offset %q", name)
		}
		if offsetStr == "" {
			return nil, fmt.Errorf("malformed UTC offset %q", name)
		}

		offset := 0
		for _, ch := range offsetStr {
			if ch < '0' || ch > '9' {
				return nil, fmt.Errorf("malformed UTC offset %q", name)
			}
			offset = offset*10 + int(ch-'0')
		}
		if offset > 14 {
			return nil, fmt.Errorf("UTC offset %q out of range", name)
		}

		return time.FixedZone(name, sign*offset*3600), nil
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Result carries the normalized sessions plus per-record statuses and
// diagnostics. Statuses has one entry per input session, in input order;
// Sessions omits excluded records but preserves relative order and the
// original index of each survivor.
type Result struct {
	Sessions    []session.Normalized
	Statuses    []session.ConversionStatus
	Diagnostics []session.Diagnostic
	Converted   int
	UsedDefault int
	Excluded    int
}

// Normalize rewrites every session's timestamps into the target zone.
// Sessions with an unparseable source timezone fall back to the default
// zone rather than being dropped; only records with missing timestamps
// or a negative duration are excluded, each with an indexed diagnostic.
// The input slice is never modified.
func Normalize(sessions []session.Session, target, fallback *time.Location) Result {
	res := Result{
		Statuses: make([]session.ConversionStatus, len(sessions)),
	}

	for i, s := range sessions {
		switch {
		case s.Start.IsZero():
			res.Statuses[i] = session.StatusFailed
			res.Excluded++
			res.Diagnostics = append(res.Diagnostics, session.Diagnostic{
				Index: i, Problem: session.ProblemMissingStart,
			})
			continue
		case s.End.IsZero():
			res.Statuses[i] = session.StatusFailed
			res.Excluded++
			res.Diagnostics = append(res.Diagnostics, session.Diagnostic{
				Index: i, Problem: session.ProblemMissingEnd,
			})
			continue
		case s.End.Before(s.Start):
			res.Statuses[i] = session.StatusFailed
			res.Excluded++
			res.Diagnostics = append(res.Diagnostics, session.Diagnostic{
				Index: i, Problem: session.ProblemNegativeDuration,
				Detail: fmt.Sprintf("end %s precedes start %s",
					s.End.Format("2006-01-02 15:04"), s.Start.Format("2006-01-02 15:04")),
			})
			continue
		}

		src, err := Resolve(s.SourceTimezone)
		if err != nil {
			src = fallback
			res.Statuses[i] = session.StatusUsedDefault
			res.UsedDefault++
			if s.SourceTimezone != "" {
				res.Diagnostics = append(res.Diagnostics, session.Diagnostic{
					Index: i, Problem: session.ProblemUnknownTimezone,
					Detail: s.SourceTimezone,
				})
			}
		} else {
			res.Statuses[i] = session.StatusConverted
			res.Converted++
		}

		n := session.Normalized{
			Index:      i,
			Start:      rebase(s.Start, src).In(target),
			End:        rebase(s.End, src).In(target),
			Metrics:    s.Metrics,
			Degenerate: s.End.Equal(s.Start),
		}
		if n.Degenerate {
			// Retained so downstream analysis can surface the anomaly.
			res.Diagnostics = append(res.Diagnostics, session.Diagnostic{
				Index: i, Problem: session.ProblemZeroDuration,
			})
		}
		res.Sessions = append(res.Sessions, n)
	}

	return res
}

// rebase reinterprets t's wall-clock fields in loc.
func rebase(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	h, minute, sec := t.Clock()
	return time.Date(y, m, d, h, minute, sec, t.Nanosecond(), loc)
}
