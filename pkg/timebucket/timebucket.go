// Package timebucket accumulates sleep minutes into fixed-size
// time-of-day buckets across the whole dataset. It operates purely on
// the clock, independent of which calendar date a session is assigned
// to, and wraps accumulation across midnight instead of truncating at
// 24:00.
package timebucket

import (
	"fmt"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

const minutesPerDay = 24 * 60

// Bucket is one slice of the 24-hour clock.
type Bucket struct {
	StartMinutes int     `json:"start_minutes"` // minutes after midnight
	Label        string  `json:"label"`         // "HH:MM"
	Minutes      float64 `json:"minutes"`       // accumulated sleep minutes
}

// Distribution is the accumulated time-of-day distribution plus its
// derived summary values.
type Distribution struct {
	BucketMinutes    int      `json:"bucket_minutes"`
	Buckets          []Bucket `json:"buckets"` // clock order, 00:00 first
	TotalMinutes     float64  `json:"total_minutes"`
	Peak             Bucket   `json:"peak"`
	HasPeak          bool     `json:"has_peak"`
	NightStart       int      `json:"night_start"` // minutes after midnight, inclusive
	NightEnd         int      `json:"night_end"`   // minutes after midnight, exclusive
	NighttimeMinutes float64  `json:"nighttime_minutes"`
	NighttimePercent float64  `json:"nighttime_percent"`
	DaytimePercent   float64  `json:"daytime_percent"`
}

// ValidateBucketSize rejects bucket sizes that do not divide the
// 24-hour clock evenly; uneven buckets would silently skew the
// distribution.
func ValidateBucketSize(bucketMinutes int) error {
	if bucketMinutes < 1 || bucketMinutes > minutesPerDay {
		return fmt.Errorf("bucket size must be between 1 and %d minutes, got %d", minutesPerDay, bucketMinutes)
	}
	if minutesPerDay%bucketMinutes != 0 {
		return fmt.Errorf("bucket size %d minutes does not divide 24 hours evenly", bucketMinutes)
	}
	return nil
}

// ParseClock parses an "HH:MM" clock time into minutes after midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Accumulate bins every session's sleep minutes into the bucket(s) it
// overlaps. A session crossing midnight continues from the last bucket
// of the day into the first. The nighttime window [nightStart,
// nightEnd) is in minutes after midnight and may wrap midnight itself
// (the 21:00-08:00 default does).
func Accumulate(sessions []session.Normalized, bucketMinutes, nightStart, nightEnd int) (Distribution, error) {
	if err := ValidateBucketSize(bucketMinutes); err != nil {
		return Distribution{}, err
	}
	if nightStart < 0 || nightStart >= minutesPerDay || nightEnd < 0 || nightEnd >= minutesPerDay {
		return Distribution{}, fmt.Errorf("nighttime window %d-%d out of range", nightStart, nightEnd)
	}
	if nightStart == nightEnd {
		return Distribution{}, fmt.Errorf("nighttime window start and end are both %d minutes", nightStart)
	}

	count := minutesPerDay / bucketMinutes
	dist := Distribution{
		BucketMinutes: bucketMinutes,
		Buckets:       make([]Bucket, count),
		NightStart:    nightStart,
		NightEnd:      nightEnd,
	}
	for i := range dist.Buckets {
		start := i * bucketMinutes
		dist.Buckets[i] = Bucket{
			StartMinutes: start,
			Label:        fmt.Sprintf("%02d:%02d", start/60, start%60),
		}
	}

	for _, n := range sessions {
		accumulate(dist.Buckets, bucketMinutes, n.Start, n.End)
	}

	for i, b := range dist.Buckets {
		dist.TotalMinutes += b.Minutes
		if inNight(b.StartMinutes, nightStart, nightEnd) {
			dist.NighttimeMinutes += b.Minutes
		}
		if !dist.HasPeak || b.Minutes > dist.Peak.Minutes {
			dist.Peak = dist.Buckets[i]
			dist.HasPeak = b.Minutes > 0
		}
	}
	if !dist.HasPeak {
		dist.Peak = Bucket{}
	}
	if dist.TotalMinutes > 0 {
		dist.NighttimePercent = dist.NighttimeMinutes / dist.TotalMinutes * 100
		dist.DaytimePercent = 100 - dist.NighttimePercent
	}

	return dist, nil
}

// accumulate walks one session from start to end, crediting whole or
// partial bucket overlaps in seconds to avoid float drift.
func accumulate(buckets []Bucket, bucketMinutes int, start, end time.Time) {
	cur := start
	for cur.Before(end) {
		secondOfDay := cur.Hour()*3600 + cur.Minute()*60 + cur.Second()
		idx := secondOfDay / (bucketMinutes * 60)
		boundary := (idx + 1) * bucketMinutes * 60

		chunk := boundary - secondOfDay
		if remain := int(end.Sub(cur) / time.Second); remain < chunk {
			chunk = remain
		}
		if chunk <= 0 {
			break
		}

		buckets[idx].Minutes += float64(chunk) / 60
		cur = cur.Add(time.Duration(chunk) * time.Second)
	}
}

// inNight reports whether a bucket starting at m falls in the nighttime
// window, start inclusive, end exclusive, wrapping midnight when
// start > end.
func inNight(m, start, end int) bool {
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}
