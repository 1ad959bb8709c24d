package slumber

// Option configures an Analyzer.
type Option func(*config)

type config struct {
	targetZone      string
	defaultZone     string
	varianceWindow  int
	outlierCount    int
	bucketMinutes   int
	nightStart      int // minutes after midnight, inclusive
	nightEnd        int // minutes after midnight, exclusive
	minObservations int
}

func defaultConfig() config {
	return config{
		targetZone:      "UTC",
		defaultZone:     "UTC",
		varianceWindow:  10,
		outlierCount:    10,
		bucketMinutes:   15,
		nightStart:      21 * 60, // 21:00
		nightEnd:        8 * 60,  // 08:00
		minObservations: 2,
	}
}

// WithTargetTimezone sets the display timezone all sessions are
// normalized into. IANA names and UTC offset strings are accepted.
func WithTargetTimezone(name string) Option {
	return func(c *config) {
		c.targetZone = name
	}
}

// WithDefaultTimezone sets the fallback zone used when a session's
// recorded timezone is missing or unparseable.
func WithDefaultTimezone(name string) Option {
	return func(c *config) {
		c.defaultZone = name
	}
}

// WithVarianceWindow sets the trailing window size, in recorded dates,
// for the rolling variance series.
func WithVarianceWindow(days int) Option {
	return func(c *config) {
		c.varianceWindow = days
	}
}

// WithOutlierCount caps how many extreme sessions the outlier ranking
// returns.
func WithOutlierCount(k int) Option {
	return func(c *config) {
		c.outlierCount = k
	}
}

// WithBucketMinutes sets the time-of-day bucket width. The size must
// divide 24 hours evenly.
func WithBucketMinutes(minutes int) Option {
	return func(c *config) {
		c.bucketMinutes = minutes
	}
}

// WithNightWindow sets the nighttime window boundaries in minutes after
// midnight; the window may wrap midnight (the default 21:00-08:00 does).
func WithNightWindow(startMinutes, endMinutes int) Option {
	return func(c *config) {
		c.nightStart = startMinutes
		c.nightEnd = endMinutes
	}
}

// WithMinObservations sets how many days a weekday must be observed
// before its variability is reported.
func WithMinObservations(n int) Option {
	return func(c *config) {
		c.minObservations = n
	}
}
