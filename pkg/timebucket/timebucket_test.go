package timebucket

import (
	"math"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

const (
	nightStart = 21 * 60 // 21:00
	nightEnd   = 8 * 60  // 08:00
)

func sess(start, end time.Time) session.Normalized {
	return session.Normalized{Start: start, End: end}
}

func at(h, m int) time.Time {
	return time.Date(2024, 6, 15, h, m, 0, 0, time.UTC)
}

func bucketAt(dist Distribution, startMinutes int) Bucket {
	return dist.Buckets[startMinutes/dist.BucketMinutes]
}

func TestMidnightWraparound(t *testing.T) {
	// 23:50 -> 00:20 next day: 10 minutes before midnight, 20 after,
	// never truncated at 24:00.
	s := sess(at(23, 50), at(23, 50).Add(30*time.Minute))

	dist, err := Accumulate([]session.Normalized{s}, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}

	if got := bucketAt(dist, 23*60+45).Minutes; got != 10 {
		t.Errorf("23:45 bucket has %v minutes, want 10", got)
	}
	if got := bucketAt(dist, 0).Minutes; got != 15 {
		t.Errorf("00:00 bucket has %v minutes, want 15", got)
	}
	if got := bucketAt(dist, 15).Minutes; got != 5 {
		t.Errorf("00:15 bucket has %v minutes, want 5", got)
	}
	if dist.TotalMinutes != 30 {
		t.Errorf("total %v minutes, want exactly 30", dist.TotalMinutes)
	}
}

func TestConservation(t *testing.T) {
	sessions := []session.Normalized{
		sess(at(23, 30), at(23, 30).Add(7*time.Hour+30*time.Minute)),
		sess(at(13, 0), at(14, 15)),
		sess(at(22, 7), at(22, 7).Add(8*time.Hour+3*time.Minute)),
	}
	var want float64
	for _, s := range sessions {
		want += s.Duration().Minutes()
	}

	dist, err := Accumulate(sessions, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(dist.TotalMinutes-want) > 1e-9 {
		t.Errorf("total %v minutes, want %v", dist.TotalMinutes, want)
	}
}

func TestBucketCount(t *testing.T) {
	dist, err := Accumulate(nil, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}
	if len(dist.Buckets) != 96 {
		t.Errorf("15-minute buckets: got %d, want 96", len(dist.Buckets))
	}
	if dist.Buckets[0].Label != "00:00" || dist.Buckets[95].Label != "23:45" {
		t.Errorf("bucket labels wrong: %s .. %s", dist.Buckets[0].Label, dist.Buckets[95].Label)
	}
	if dist.HasPeak {
		t.Error("empty distribution must not report a peak")
	}
}

func TestNighttimeSplit(t *testing.T) {
	// One hour fully inside the night window, one fully outside.
	sessions := []session.Normalized{
		sess(at(22, 0), at(23, 0)),
		sess(at(12, 0), at(13, 0)),
	}
	dist, err := Accumulate(sessions, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}
	if dist.NighttimeMinutes != 60 {
		t.Errorf("nighttime minutes = %v, want 60", dist.NighttimeMinutes)
	}
	if dist.NighttimePercent != 50 || dist.DaytimePercent != 50 {
		t.Errorf("split %v/%v, want 50/50", dist.NighttimePercent, dist.DaytimePercent)
	}
}

func TestNightWindowBoundaries(t *testing.T) {
	// The window is start-inclusive, end-exclusive: a 21:00 bucket is
	// night, an 08:00 bucket is not.
	sessions := []session.Normalized{
		sess(at(21, 0), at(21, 15)),
		sess(at(8, 0), at(8, 15)),
	}
	dist, err := Accumulate(sessions, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}
	if dist.NighttimeMinutes != 15 {
		t.Errorf("nighttime minutes = %v, want 15", dist.NighttimeMinutes)
	}
}

func TestPeakBucket(t *testing.T) {
	sessions := []session.Normalized{
		sess(at(1, 0), at(1, 15)),
		sess(at(2, 0), at(2, 15)),
		sess(at(2, 0), at(2, 15)), // 02:00 accumulates twice
	}
	dist, err := Accumulate(sessions, 15, nightStart, nightEnd)
	if err != nil {
		t.Fatal(err)
	}
	if !dist.HasPeak || dist.Peak.Label != "02:00" {
		t.Errorf("peak = %+v, want 02:00", dist.Peak)
	}
	if dist.Peak.Minutes != 30 {
		t.Errorf("peak minutes = %v, want 30", dist.Peak.Minutes)
	}
}

func TestValidateBucketSize(t *testing.T) {
	for _, minutes := range []int{15, 30, 60, 1, 1440} {
		if err := ValidateBucketSize(minutes); err != nil {
			t.Errorf("ValidateBucketSize(%d): unexpected error %v", minutes, err)
		}
	}
	for _, minutes := range []int{0, -15, 7, 13, 1441} {
		if err := ValidateBucketSize(minutes); err == nil {
			t.Errorf("ValidateBucketSize(%d): expected error", minutes)
		}
	}
}

func TestAccumulateRejectsBadConfig(t *testing.T) {
	if _, err := Accumulate(nil, 7, nightStart, nightEnd); err == nil {
		t.Error("bucket size 7 must be rejected")
	}
	if _, err := Accumulate(nil, 15, 1500, nightEnd); err == nil {
		t.Error("out-of-range night start must be rejected")
	}
	if _, err := Accumulate(nil, 15, 600, 600); err == nil {
		t.Error("empty night window must be rejected")
	}
}

func TestParseClock(t *testing.T) {
	if m, err := ParseClock("21:00"); err != nil || m != 1260 {
		t.Errorf("ParseClock(21:00) = %d, %v; want 1260", m, err)
	}
	if m, err := ParseClock("08:30"); err != nil || m != 510 {
		t.Errorf("ParseClock(08:30) = %d, %v; want 510", m, err)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Error("ParseClock(25:00): expected error")
	}
}
