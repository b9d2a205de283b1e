package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/exorank/internal/catalog"
	"github.com/okian/exorank/pkg/logger"
)

// Default configuration constants.
const (
	defaultWorkers    = 4
	defaultTopN       = 10
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9090", "Base URL of the service")
		catalogPath = flag.String("catalog", "", "Path to a YAML body catalog (default: embedded catalog)")
		workers     = flag.Int("workers", defaultWorkers, "Number of concurrent requests")
		topN        = flag.Int("top", defaultTopN, "Leaderboard window to fetch after seeding")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	bodies, err := catalog.Load(*catalogPath)
	if err != nil {
		os.Stderr.WriteString("failed to load catalog: " + err.Error() + "\n")
		os.Exit(1)
	}

	seeder := catalog.NewSeeder(*baseURL,
		catalog.WithWorkers(*workers),
		catalog.WithTopN(*topN),
		catalog.WithTimeout(*timeout),
	)
	report, err := seeder.Run(ctx, bodies)
	if err != nil {
		os.Stderr.WriteString("seeding failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("seeded %d bodies: %d created, %d duplicates, %d failed, %d scored (%d habitable) in %s\n",
		report.Submitted, report.Created, report.Duplicates, report.Failed,
		report.Scored, report.Habitable, report.Duration.Round(time.Millisecond))
	for _, e := range report.Leaderboard {
		fmt.Printf("%3d  %-24s %.4f\n", e.Rank, e.Name, e.Score)
	}
}
