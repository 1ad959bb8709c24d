package resultcache

import (
	"log/slog"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/slumber/pkg/session"
	"github.com/codeGROOVE-dev/slumber/pkg/slumber"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func analyzed(t *testing.T) *slumber.Result {
	t.Helper()
	a := slumber.NewWithLogger(discard())
	result, err := a.Analyze([]session.Session{
		{
			Start:          time.Date(2024, 6, 15, 23, 30, 0, 0, time.UTC),
			End:            time.Date(2024, 6, 16, 7, 0, 0, 0, time.UTC),
			SourceTimezone: "UTC",
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return result
}

func TestKey(t *testing.T) {
	data := []byte("From,To\n")
	if Key(data, "UTC", "10") != Key(data, "UTC", "10") {
		t.Error("identical inputs must produce identical keys")
	}
	if Key(data, "UTC", "10") == Key(data, "UTC", "15") {
		t.Error("different configuration must change the key")
	}
	if Key(data, "UTC10") == Key(data, "UTC", "10") {
		t.Error("config parts must be delimited, not concatenated")
	}
	if Key([]byte("other"), "UTC", "10") == Key(data, "UTC", "10") {
		t.Error("different data must change the key")
	}
}

func TestGetPut(t *testing.T) {
	cache, err := Open(t.TempDir(), discard())
	if err != nil {
		t.Fatal(err)
	}

	key := Key([]byte("data"), "UTC")
	if _, ok := cache.Get(key); ok {
		t.Fatal("unexpected hit on empty cache")
	}

	want := analyzed(t)
	cache.Put(key, want)

	got, ok := cache.Get(key)
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if len(got.Daily) != len(want.Daily) || got.Converted != want.Converted {
		t.Errorf("cached result differs: %+v vs %+v", got.Summary, want.Summary)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	dir := t.TempDir()
	key := Key([]byte("data"), "UTC")

	cache, err := Open(dir, discard())
	if err != nil {
		t.Fatal(err)
	}
	cache.Put(key, analyzed(t))
	if err := cache.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(dir, discard())
	if err != nil {
		t.Fatal(err)
	}
	got, ok := reopened.Get(key)
	if !ok {
		t.Fatal("snapshot did not survive reopen")
	}
	if len(got.Daily) != 1 || got.Daily[0].Date.Day != 16 {
		t.Errorf("restored result wrong: %+v", got.Daily)
	}
}
