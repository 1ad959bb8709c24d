// Package resultcache memoizes analysis results keyed by a content hash
// of the input data and configuration. The engine itself is a pure
// function and stays cache-free; this wrapper is for hosts that re-run
// the same analysis across interactions. Entries persist to disk as a
// gob snapshot so one-shot invocations benefit too.
package resultcache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/maypok86/otter/v2"

	"github.com/codeGROOVE-dev/slumber/pkg/slumber"
)

const snapshotName = "results.gob"

// Cache is a bounded in-memory result cache with a disk snapshot.
type Cache struct {
	cache  *otter.Cache[string, slumber.Result]
	logger *slog.Logger
	dir    string
}

// Key derives the cache key for a raw dataset and the configuration it
// will be analyzed under. Identical bytes and configuration always hash
// to the same key, which is what makes memoization safe over a pure
// pipeline.
func Key(data []byte, configParts ...string) string {
	h := sha256.New()
	h.Write(data)
	for _, part := range configParts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Open creates the cache directory if needed and loads any existing
// snapshot. A corrupt or missing snapshot is logged and ignored.
func Open(dir string, logger *slog.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	c := &Cache{
		cache: otter.Must(&otter.Options[string, slumber.Result]{
			MaximumSize: 1_000,
		}),
		logger: logger,
		dir:    dir,
	}

	if err := c.loadSnapshot(); err != nil {
		logger.Warn("failed to load result cache snapshot", "error", err)
	}
	logger.Debug("result cache opened", "dir", dir, "entries", c.cache.EstimatedSize())
	return c, nil
}

// Get returns the memoized result for key, if present.
func (c *Cache) Get(key string) (*slumber.Result, bool) {
	res, found := c.cache.GetIfPresent(key)
	if !found {
		c.logger.Debug("result cache miss", "key", key)
		return nil, false
	}
	c.logger.Debug("result cache hit", "key", key)
	return &res, true
}

// Put stores a result under key.
func (c *Cache) Put(key string, res *slumber.Result) {
	c.cache.Set(key, *res)
}

// Close writes the snapshot to disk.
func (c *Cache) Close() error {
	if err := c.saveSnapshot(); err != nil {
		c.logger.Error("result cache snapshot failed", "error", err)
		return err
	}
	return nil
}

func (c *Cache) loadSnapshot() error {
	path := filepath.Join(c.dir, snapshotName)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	var entries map[string]slumber.Result
	if err := gob.NewDecoder(f).Decode(&entries); err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}
	for key, res := range entries {
		c.cache.Set(key, res)
	}
	return nil
}

func (c *Cache) saveSnapshot() error {
	path := filepath.Join(c.dir, snapshotName)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}

	entries := make(map[string]slumber.Result)
	c.cache.All()(func(key string, res slumber.Result) bool {
		entries[key] = res
		return true
	})

	if err := gob.NewEncoder(f).Encode(entries); err != nil {
		f.Close() //nolint:errcheck,gosec // already failing
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}

	// Atomic replace so a crash never leaves a torn snapshot.
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	c.logger.Debug("result cache snapshot saved", "entries", len(entries))
	return nil
}
