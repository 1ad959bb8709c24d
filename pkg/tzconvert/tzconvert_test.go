package tzconvert

import (
	"testing"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
)

func TestResolveOffsets(t *testing.T) {
	tests := []struct {
		name    string
		offset  int // expected offset in seconds
		wantErr bool
	}{
		{"UTC", 0, false},
		{"UTC+8", 8 * 3600, false},
		{"UTC-4", -4 * 3600, false},
		{"UTC+14", 14 * 3600, false},
		{"UTC+15", 0, true},
		{"UTC~3", 0, true},
		{"UTC+", 0, true},
		{"", 0, true},
		{"Not/AZone", 0, true},
	}

	for _, tt := range tests {
		loc, err := Resolve(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Resolve(%q): expected error, got %v", tt.name, loc)
			}
			continue
		}
		if err != nil {
			t.Errorf("Resolve(%q): unexpected error: %v", tt.name, err)
			continue
		}
		ref := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
		if _, offset := ref.Zone(); offset != tt.offset {
			t.Errorf("Resolve(%q): offset %d, want %d", tt.name, offset, tt.offset)
		}
	}
}

func TestResolveIANA(t *testing.T) {
	loc, err := Resolve("America/Chicago")
	if err != nil {
		t.Fatalf("Resolve(America/Chicago): %v", err)
	}
	// June is CDT, UTC-5.
	ref := time.Date(2024, 6, 15, 12, 0, 0, 0, loc)
	if _, offset := ref.Zone(); offset != -5*3600 {
		t.Errorf("expected CDT offset -18000, got %d", offset)
	}
}

func stamp(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestNormalizeConverts(t *testing.T) {
	// 23:00 recorded in UTC+2 is 21:00 UTC.
	sessions := []session.Session{{
		Start:          stamp(2024, 6, 15, 23, 0),
		End:            stamp(2024, 6, 16, 7, 0),
		SourceTimezone: "UTC+2",
	}}

	res := Normalize(sessions, time.UTC, time.UTC)
	if len(res.Sessions) != 1 {
		t.Fatalf("expected 1 normalized session, got %d", len(res.Sessions))
	}
	n := res.Sessions[0]
	if n.Start.Hour() != 21 {
		t.Errorf("expected start 21:00 UTC, got %s", n.Start)
	}
	if n.End.Hour() != 5 {
		t.Errorf("expected end 05:00 UTC, got %s", n.End)
	}
	if res.Statuses[0] != session.StatusConverted {
		t.Errorf("expected converted status, got %s", res.Statuses[0])
	}
	if got := n.Duration(); got != 8*time.Hour {
		t.Errorf("duration changed during conversion: %s", got)
	}
}

func TestNormalizeFallback(t *testing.T) {
	sessions := []session.Session{
		{Start: stamp(2024, 6, 15, 23, 0), End: stamp(2024, 6, 16, 7, 0), SourceTimezone: "Mars/Olympus"},
		{Start: stamp(2024, 6, 16, 23, 0), End: stamp(2024, 6, 17, 7, 0)}, // no timezone at all
	}

	res := Normalize(sessions, time.UTC, time.FixedZone("UTC+3", 3*3600))
	if len(res.Sessions) != 2 {
		t.Fatalf("fallback must not drop sessions, got %d of 2", len(res.Sessions))
	}
	for i, st := range res.Statuses {
		if st != session.StatusUsedDefault {
			t.Errorf("session %d: expected used-default, got %s", i, st)
		}
	}
	if res.UsedDefault != 2 {
		t.Errorf("expected UsedDefault=2, got %d", res.UsedDefault)
	}
	// 23:00 in UTC+3 is 20:00 UTC.
	if res.Sessions[0].Start.Hour() != 20 {
		t.Errorf("fallback zone not applied: start %s", res.Sessions[0].Start)
	}
	// Garbage zone gets a diagnostic, absent zone does not.
	unknownDiags := 0
	for _, d := range res.Diagnostics {
		if d.Problem == session.ProblemUnknownTimezone {
			unknownDiags++
			if d.Index != 0 {
				t.Errorf("diagnostic points at record %d, want 0", d.Index)
			}
		}
	}
	if unknownDiags != 1 {
		t.Errorf("expected 1 unknown-timezone diagnostic, got %d", unknownDiags)
	}
}

func TestNormalizeExclusions(t *testing.T) {
	sessions := []session.Session{
		{Start: stamp(2024, 6, 15, 23, 0), End: stamp(2024, 6, 16, 7, 0)},
		{End: stamp(2024, 6, 16, 7, 0)},                                   // missing start
		{Start: stamp(2024, 6, 16, 23, 0)},                                // missing end
		{Start: stamp(2024, 6, 17, 7, 0), End: stamp(2024, 6, 17, 6, 0)},  // negative duration
		{Start: stamp(2024, 6, 18, 14, 0), End: stamp(2024, 6, 18, 14, 0)}, // zero duration: retained
	}

	res := Normalize(sessions, time.UTC, time.UTC)
	if res.Excluded != 3 {
		t.Errorf("expected 3 excluded, got %d", res.Excluded)
	}
	if len(res.Sessions) != 2 {
		t.Fatalf("expected 2 surviving sessions, got %d", len(res.Sessions))
	}
	if res.Sessions[0].Index != 0 || res.Sessions[1].Index != 4 {
		t.Errorf("original indices not preserved: %d, %d", res.Sessions[0].Index, res.Sessions[1].Index)
	}
	if !res.Sessions[1].Degenerate {
		t.Error("zero-duration session should be flagged degenerate")
	}
	for i, want := range []session.ConversionStatus{
		session.StatusConverted, session.StatusFailed, session.StatusFailed,
		session.StatusFailed, session.StatusConverted,
	} {
		if res.Statuses[i] != want {
			t.Errorf("status[%d] = %s, want %s", i, res.Statuses[i], want)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	orig := session.Session{
		Start:          stamp(2024, 6, 15, 23, 0),
		End:            stamp(2024, 6, 16, 7, 0),
		SourceTimezone: "UTC+2",
	}
	sessions := []session.Session{orig}
	Normalize(sessions, time.UTC, time.UTC)

	if !sessions[0].Start.Equal(orig.Start) || sessions[0].SourceTimezone != orig.SourceTimezone {
		t.Error("Normalize mutated its input")
	}
}
