// reclassify standardizes the education_required field of a JSON output
// file in place and prints the resulting tier distribution.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"jobsweep/internal/classify"
)

func main() {
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: reclassify [flags] <jobs.json>\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	sum, err := classify.RewriteFile(path)
	if err != nil {
		logger.Error("reclassify failed", "path", path, "error", err)
		os.Exit(1)
	}

	for _, raw := range sum.Unclassified {
		logger.Warn("could not classify education requirement", "value", raw)
	}

	total := 0
	for _, n := range sum.Counts {
		total += n
	}
	logger.Info("standardization complete", "path", path, "records", total, "changed", sum.Changed)

	tiers := make([]string, 0, len(sum.Counts))
	for tier := range sum.Counts {
		tiers = append(tiers, tier)
	}
	sort.Strings(tiers)
	for _, tier := range tiers {
		logger.Info("distribution", "tier", tier, "count", sum.Counts[tier])
	}
}
