// Package main implements the slumber CLI for sleep session analysis.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/slumber/pkg/gaps"
	"github.com/codeGROOVE-dev/slumber/pkg/histogram"
	"github.com/codeGROOVE-dev/slumber/pkg/resultcache"
	"github.com/codeGROOVE-dev/slumber/pkg/session"
	"github.com/codeGROOVE-dev/slumber/pkg/sleepcsv"
	"github.com/codeGROOVE-dev/slumber/pkg/slumber"
	"github.com/codeGROOVE-dev/slumber/pkg/timebucket"
)

var (
	file            = flag.String("file", "", "Sleep export CSV to analyze (default: newest export in -data-dir)")
	dataDir         = flag.String("data-dir", "data", "Directory searched for sleep exports")
	configPath      = flag.String("config", "", "Optional YAML config file")
	targetTZ        = flag.String("timezone", "UTC", "Display timezone for all results (or set SLUMBER_TZ)")
	defaultTZ       = flag.String("default-timezone", "UTC", "Fallback zone for records with an unparseable timezone")
	window          = flag.Int("window", 10, "Rolling variance window in recorded dates")
	outliers        = flag.Int("outliers", 10, "How many extreme sessions to report")
	bucketMinutes   = flag.Int("bucket-minutes", 15, "Time-of-day bucket width in minutes")
	nightWindow     = flag.String("night", "21:00-08:00", "Nighttime window as HH:MM-HH:MM")
	minObservations = flag.Int("min-observations", 2, "Days a weekday needs before variability is reported")
	cacheDir        = flag.String("cache-dir", "", "Result cache directory (or set CACHE_DIR)")
	noCache         = flag.Bool("no-cache", false, "Disable result caching")
	verbose         = flag.Bool("verbose", false, "Enable verbose logging")
	version         = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("slumber CLI v1.0.0")
		return
	}

	// Configure logging
	level := slog.LevelError
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if *targetTZ == "UTC" && os.Getenv("SLUMBER_TZ") != "" {
		*targetTZ = os.Getenv("SLUMBER_TZ")
	}
	if *cacheDir == "" {
		*cacheDir = os.Getenv("CACHE_DIR")
	}

	if *configPath != "" {
		if err := applyFileConfig(*configPath); err != nil {
			logger.Error("config file", "error", err)
			os.Exit(1)
		}
	}

	nightStart, nightEnd, err := parseNightWindow(*nightWindow)
	if err != nil {
		logger.Error("night window", "error", err)
		os.Exit(1)
	}

	path := *file
	if path == "" {
		path, err = sleepcsv.FindLatestExport(*dataDir)
		if err != nil {
			logger.Error("no export file", "error", err)
			os.Exit(1)
		}
		logger.Debug("discovered export", "path", path)
	}

	data, err := os.ReadFile(path) //nolint:gosec // user-supplied data path
	if err != nil {
		logger.Error("reading export", "error", err)
		os.Exit(1)
	}
	sessions, err := sleepcsv.Parse(bytes.NewReader(data))
	if err != nil {
		logger.Error("parsing export", "error", err)
		os.Exit(1)
	}

	analyzer := slumber.NewWithLogger(logger,
		slumber.WithTargetTimezone(*targetTZ),
		slumber.WithDefaultTimezone(*defaultTZ),
		slumber.WithVarianceWindow(*window),
		slumber.WithOutlierCount(*outliers),
		slumber.WithBucketMinutes(*bucketMinutes),
		slumber.WithNightWindow(nightStart, nightEnd),
		slumber.WithMinObservations(*minObservations),
	)

	result, err := analyzeWithCache(analyzer, data, sessions, logger)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}

	printResult(result, path)
}

// analyzeWithCache memoizes the full analysis keyed by the export bytes
// and configuration; the pipeline is pure, so a cache hit is exact.
func analyzeWithCache(analyzer *slumber.Analyzer, data []byte, sessions []session.Session, logger *slog.Logger) (*slumber.Result, error) {
	if *noCache {
		return analyzer.Analyze(sessions)
	}

	dir := *cacheDir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return analyzer.Analyze(sessions)
		}
		dir = filepath.Join(base, "slumber")
	}

	cache, err := resultcache.Open(dir, logger)
	if err != nil {
		logger.Warn("cache unavailable", "error", err)
		return analyzer.Analyze(sessions)
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logger.Warn("cache close", "error", err)
		}
	}()

	key := resultcache.Key(data,
		*targetTZ, *defaultTZ, *nightWindow,
		fmt.Sprint(*window), fmt.Sprint(*outliers), fmt.Sprint(*bucketMinutes), fmt.Sprint(*minObservations))
	if result, ok := cache.Get(key); ok {
		return result, nil
	}

	result, err := analyzer.Analyze(sessions)
	if err != nil {
		return nil, err
	}
	cache.Put(key, result)
	return result, nil
}

func parseNightWindow(s string) (start, end int, err error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("night window %q is not HH:MM-HH:MM", s)
	}
	if start, err = timebucket.ParseClock(parts[0]); err != nil {
		return 0, 0, err
	}
	if end, err = timebucket.ParseClock(parts[1]); err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// applyFileConfig overlays YAML config values onto flags the user did
// not set explicitly.
func applyFileConfig(path string) error {
	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if cfg.DataDir != "" && !set["data-dir"] {
		*dataDir = cfg.DataDir
	}
	if cfg.Timezone != "" && !set["timezone"] {
		*targetTZ = cfg.Timezone
	}
	if cfg.DefaultTimezone != "" && !set["default-timezone"] {
		*defaultTZ = cfg.DefaultTimezone
	}
	if cfg.VarianceWindow != 0 && !set["window"] {
		*window = cfg.VarianceWindow
	}
	if cfg.OutlierCount != 0 && !set["outliers"] {
		*outliers = cfg.OutlierCount
	}
	if cfg.BucketMinutes != 0 && !set["bucket-minutes"] {
		*bucketMinutes = cfg.BucketMinutes
	}
	if cfg.NightWindow != "" && !set["night"] {
		*nightWindow = cfg.NightWindow
	}
	if cfg.MinObservations != 0 && !set["min-observations"] {
		*minObservations = cfg.MinObservations
	}
	return nil
}

func printResult(result *slumber.Result, path string) {
	header := color.New(color.Bold)
	warn := color.New(color.FgYellow)

	header.Printf("😴 Sleep Analysis: %s\n", filepath.Base(path))
	fmt.Println(strings.Repeat("─", 50))

	fmt.Printf("Sessions: %d converted, %d used default timezone, %d excluded\n",
		result.Converted, result.UsedDefault, result.Excluded)
	for _, d := range result.Diagnostics {
		warn.Printf("  record %d: %s %s\n", d.Index, d.Problem, d.Detail)
	}

	s := result.Summary
	fmt.Printf("Dates: %d unique, %d with multiple sessions, %d sessions crossed midnight\n",
		s.UniqueDates, s.MultiSessionDays, s.CrossMidnight)

	printVariance(result)
	printOutliers(result)
	printWeekdays(result)
	printFrequency(result.Frequency)

	fmt.Println()
	fmt.Print(histogram.Render(result.TimeOfDay))
}

func printVariance(result *slumber.Result) {
	fmt.Println()
	color.New(color.Bold).Println("Rolling variance")
	if len(result.Variance) == 0 {
		fmt.Println("  not enough dates for a full window")
		return
	}

	minV, maxV, sum := result.Variance[0], result.Variance[0], 0.0
	for _, p := range result.Variance {
		if p.Variance < minV.Variance {
			minV = p
		}
		if p.Variance > maxV.Variance {
			maxV = p
		}
		sum += p.Variance
	}
	fmt.Printf("  average %.2f h², most consistent %.2f h² (%s), least consistent %.2f h² (%s)\n",
		sum/float64(len(result.Variance)), minV.Variance, minV.Date, maxV.Variance, maxV.Date)
}

func printOutliers(result *slumber.Result) {
	fmt.Println()
	color.New(color.Bold).Println("Extreme sessions")
	if len(result.Outliers) == 0 {
		fmt.Println("  none (uniform durations or too few sessions)")
		return
	}
	for i, o := range result.Outliers {
		fmt.Printf("  #%d %s  %.1fh  z=%+.2f  (%s → %s)\n",
			i+1, o.Date, o.Duration.Hours(), o.ZScore,
			o.Session.Start.Format("15:04"), o.Session.End.Format("15:04"))
	}
}

func printWeekdays(result *slumber.Result) {
	fmt.Println()
	color.New(color.Bold).Println("Day-of-week variability")
	for _, ws := range result.Weekdays {
		if ws.Count == 0 {
			fmt.Printf("  %-9s no data\n", ws.Weekday)
			continue
		}
		if !ws.Available {
			fmt.Printf("  %-9s %d day(s), mean %.1fh, variability unavailable\n", ws.Weekday, ws.Count, ws.Mean)
			continue
		}
		line := fmt.Sprintf("  %-9s %d days, mean %.1fh ± %.1fh, range %.1fh", ws.Weekday, ws.Count, ws.Mean, ws.StdDev, ws.Range)
		if ws.HasCV {
			line += fmt.Sprintf(", CV %.0f%%", ws.CV*100)
		}
		fmt.Println(line)
	}
}

func printFrequency(r gaps.Report) {
	fmt.Println()
	color.New(color.Bold).Println("Recording frequency")
	if r.RecordedDays == 0 {
		fmt.Println("  empty dataset")
		return
	}
	fmt.Printf("  %d of %d days recorded (%.1f%%), %s to %s\n",
		r.RecordedDays, r.SpanDays, r.RecordingRate*100, r.First, r.Last)
	for _, g := range r.Gaps {
		fmt.Printf("  gap: %d missing day(s) between %s and %s\n", g.MissingDays, g.After, g.Before)
	}
	if len(r.Gaps) == 0 {
		fmt.Println("  no gaps")
	}
	fmt.Printf("  max sessions in one day: %d, multi-session days: %d\n", r.MaxSessions, r.MultiSessionDays)
}
