// Package histogram renders the 24-hour sleep distribution as a
// terminal bar chart. Presentation only; the analysis engine never
// formats output itself.
package histogram

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/slumber/pkg/timebucket"
)

const maxBarWidth = 40

// Render draws one line per time-of-day bucket with accumulated sleep
// minutes. Nighttime-window buckets are marked "z" in blue, the peak
// bucket "^" in yellow.
func Render(dist timebucket.Distribution) string {
	var output strings.Builder

	output.WriteString(fmt.Sprintf("🌙 Sleep Distribution (%d-minute buckets)\n", dist.BucketMinutes))
	output.WriteString(strings.Repeat("─", 50) + "\n")

	if dist.TotalMinutes == 0 {
		return output.String() + "No sleep minutes recorded\n"
	}

	maxMinutes := 0.0
	for _, b := range dist.Buckets {
		if b.Minutes > maxMinutes {
			maxMinutes = b.Minutes
		}
	}

	nightColor := color.New(color.FgBlue)
	peakColor := color.New(color.FgYellow)
	barColor := color.New(color.FgHiBlack)

	for _, b := range dist.Buckets {
		line := b.Label + " "

		switch {
		case dist.HasPeak && b.StartMinutes == dist.Peak.StartMinutes:
			line += peakColor.Sprint("^") + " "
		case inNight(b.StartMinutes, dist.NightStart, dist.NightEnd):
			line += nightColor.Sprint("z") + " "
		default:
			line += "  "
		}

		if b.Minutes > 0 {
			line += fmt.Sprintf("(%5.1f) ", b.Minutes)
			barLength := int(b.Minutes / maxMinutes * maxBarWidth)
			if barLength == 0 {
				line += barColor.Sprint("·")
			} else {
				line += barColor.Sprint(strings.Repeat("█", barLength))
			}
		}

		output.WriteString(line + "\n")
	}

	output.WriteString(strings.Repeat("─", 50) + "\n")
	output.WriteString(fmt.Sprintf("Nighttime %s: %.1f%%  Daytime: %.1f%%\n",
		windowLabel(dist.NightStart, dist.NightEnd),
		dist.NighttimePercent, dist.DaytimePercent))
	if dist.HasPeak {
		output.WriteString(fmt.Sprintf("Peak bucket: %s (%.1f minutes)\n", dist.Peak.Label, dist.Peak.Minutes))
	}

	return output.String()
}

func windowLabel(start, end int) string {
	return fmt.Sprintf("%02d:%02d-%02d:%02d", start/60, start%60, end/60, end%60)
}

func inNight(m, start, end int) bool {
	if start < end {
		return m >= start && m < end
	}
	return m >= start || m < end
}
