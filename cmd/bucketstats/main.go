package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/mausam/bucketstats/pkg/config"
	"github.com/mausam/bucketstats/pkg/job"
	"github.com/mausam/bucketstats/pkg/sink"
	badgersink "github.com/mausam/bucketstats/pkg/sink/badger"
	"github.com/mausam/bucketstats/pkg/sink/csvfile"
)

func main() {
	defaults := config.Default()

	configPath := flag.String("config", "", "path to a YAML config file (flags override file values)")
	appName := flag.String("app-name", "", "name for this run, used in log output")
	input := flag.String("input", "", "path to the delimited input file")
	delimiter := flag.String("delimiter", defaults.Delimiter, "single-character field delimiter")
	bucketHours := flag.Int("bucket-hours", defaults.BucketDurationHours, "bucket duration in hours, between 1 and 24")
	output := flag.String("output", "", "path to write the aggregated CSV (overwritten each run)")
	workers := flag.Int("workers", defaults.Workers, "number of aggregation workers")
	storePath := flag.String("store", "", "optional BadgerDB directory to keep the results queryable")
	timeRanges := flag.Bool("time-ranges", false, "append a wall-clock time range column per bucket")
	flag.Parse()

	cfg := defaults
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		cfg = loaded
	}

	// Explicitly set flags win over file and default values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "app-name":
			cfg.AppName = *appName
		case "input":
			cfg.InputPath = *input
		case "delimiter":
			cfg.Delimiter = *delimiter
		case "bucket-hours":
			cfg.BucketDurationHours = *bucketHours
		case "output":
			cfg.OutputPath = *output
		case "workers":
			cfg.Workers = *workers
		case "store":
			cfg.StorePath = *storePath
		case "time-ranges":
			cfg.IncludeRanges = *timeRanges
		}
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	log.Printf("🚀 Starting job %q: input %q, delimiter %q, bucket duration %dh, output %q",
		cfg.AppName, cfg.InputPath, cfg.Delimiter, cfg.BucketDurationHours, cfg.OutputPath)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sinks := []sink.Sink{csvfile.New(csvfile.Config{
		Path:          cfg.OutputPath,
		Delimiter:     cfg.DelimiterRune(),
		DurationHours: cfg.BucketDurationHours,
		IncludeRanges: cfg.IncludeRanges,
	})}

	if cfg.StorePath != "" {
		store, err := badgersink.New(badgersink.Config{Path: cfg.StorePath})
		if err != nil {
			log.Fatalf("❌ Failed to open results store: %v", err)
		}
		defer store.Close()
		sinks = append(sinks, store)
		log.Printf("💾 Results store enabled at %q", cfg.StorePath)
	}

	res, err := job.Run(ctx, cfg, sinks...)
	if err != nil {
		log.Fatalf("❌ Job %q failed: %v", cfg.AppName, err)
	}

	if res.RowsSkipped > 0 {
		log.Printf("⚠️  Skipped %d malformed row(s) out of %d", res.RowsSkipped, res.RowsRead)
	}
	log.Printf("✅ Job %q completed in %v: %d rows in, %d groups out",
		cfg.AppName, res.Elapsed, res.RowsRead, res.Groups)
}
