// Command solve reads a vrp.Request as JSON from a file (or stdin) and
// prints the resulting vrp.Result as JSON. It is a demonstration of the
// package's API, not part of its contract.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/fleetcore/vrp-solver/internal/common/logging"
	"github.com/fleetcore/vrp-solver/internal/vrp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, using system environment variables")
	}

	var (
		inputPath   = flag.String("input", "", "path to a JSON-encoded request (default: stdin)")
		algorithm   = flag.String("algorithm", getEnv("VRP_DEFAULT_ALGORITHM", "genetic"), "algorithm to use when the request omits one")
		seed        = flag.Int64("seed", 0, "seed to use when the request omits one; 0 derives one from the current time")
		timeoutSecs = flag.Int("timeout", 0, "abort the solve after this many seconds (0 disables the timeout)")
	)
	flag.Parse()

	logger := logging.NewLogger(logging.DefaultLoggerConfig())

	req, err := loadRequest(*inputPath)
	if err != nil {
		logger.Error("failed to load request", "error", err)
		os.Exit(1)
	}
	if req.Algorithm == "" {
		req.Algorithm = vrp.Algorithm(*algorithm)
	}
	if req.Seed == 0 && *seed != 0 {
		req.Seed = *seed
	}

	ctx := context.Background()
	if *timeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*timeoutSecs)*time.Second)
		defer cancel()
	}

	solver := vrp.NewSolver(vrp.NoopSink{}, logger)
	result, err := solver.Optimize(ctx, req)
	if err != nil {
		logger.Error("solve failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("failed to encode result", "error", err)
		os.Exit(1)
	}
}

func loadRequest(path string) (*vrp.Request, error) {
	var r io.Reader = os.Stdin
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open request file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var req vrp.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	return &req, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
