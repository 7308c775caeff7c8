package app

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/montanaflynn/stats"

	"github.com/Shemnei/punktf/internal/deploy"
)

// RunID is a per-invocation correlation id, threaded through the deploy
// summary and verbose logs so multiple overlapping runs (e.g. in CI logs)
// can be told apart.
func RunID() string {
	return uuid.NewString()
}

// FormatSummary renders a human-readable deploy/dry-run summary
// (SPEC_FULL.md's domain-stack section): action tallies, total bytes
// written in humanized form, and — when statsOn is true — basic
// descriptive statistics over the per-step content sizes.
func FormatSummary(runID string, sum deploy.Summary, sizes []float64, statsOn bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s: considered=%d written=%d unchanged=%d skipped=%d would-write=%d (%s)\n",
		runID, sum.Considered, sum.Written, sum.Unchanged, sum.Skipped, sum.WouldWrite,
		humanize.Bytes(uint64(sum.BytesWritten)))

	if !statsOn || len(sizes) == 0 {
		return b.String()
	}

	mean, _ := stats.Mean(sizes)
	median, _ := stats.Median(sizes)
	max, _ := stats.Max(sizes)
	min, _ := stats.Min(sizes)
	fmt.Fprintf(&b, "  file size stats: min=%s median=%s mean=%s max=%s\n",
		humanize.Bytes(uint64(min)), humanize.Bytes(uint64(median)), humanize.Bytes(uint64(mean)), humanize.Bytes(uint64(max)))

	return b.String()
}
