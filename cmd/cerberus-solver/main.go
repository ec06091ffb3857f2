// Cerberus Solver - proof-of-work solver service for the Cerberus scheme
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sjtug/cerberus-solver/internal/api"
	"github.com/sjtug/cerberus-solver/internal/config"
	"github.com/sjtug/cerberus-solver/internal/newrelic"
	"github.com/sjtug/cerberus-solver/internal/notify"
	"github.com/sjtug/cerberus-solver/internal/profiling"
	"github.com/sjtug/cerberus-solver/internal/storage"
	"github.com/sjtug/cerberus-solver/internal/util"
	"github.com/sjtug/cerberus-solver/internal/verify"
	"github.com/sjtug/cerberus-solver/internal/worker"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	prefix := flag.String("prefix", "", "One-shot mode: challenge prefix to solve")
	difficulty := flag.Uint("difficulty", 0, "One-shot mode: difficulty factor (1-16)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Cerberus Solver v%s (built %s)\n", version, buildTime)
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := util.InitLogger(cfg.Log.Level, cfg.Log.Format, cfg.Log.File); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	pool := worker.NewPool(cfg.Solver.Threads, worker.Kernel(cfg.Solver.Kernel))

	// One-shot mode: solve a single challenge and print the result.
	if *difficulty > 0 {
		if *difficulty > 16 {
			util.Fatalf("difficulty must be in 1..16, got %d", *difficulty)
		}
		runOneShot(cfg, pool, *prefix, uint8(*difficulty))
		return
	}

	util.Infof("Cerberus Solver v%s starting (%d threads, %s kernel)",
		version, cfg.Solver.Threads, cfg.Solver.Kernel)

	var redis *storage.RedisClient
	if cfg.Redis.Enabled {
		redis, err = storage.NewRedisClient(cfg.Redis.URL, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			util.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redis.Close()
	}

	var notifier *notify.Notifier
	if cfg.Notify.Enabled {
		notifier = notify.NewNotifier(&cfg.Notify)
	}

	var nrAgent *newrelic.Agent
	if cfg.NewRelic.Enabled {
		nrAgent = newrelic.NewAgent(&cfg.NewRelic)
		if err := nrAgent.Start(); err != nil {
			util.Errorf("Failed to start New Relic agent: %v", err)
		}
	}

	var pprofServer *profiling.Server
	if cfg.Profiling.Enabled {
		pprofServer = profiling.NewServer(&cfg.Profiling)
		if err := pprofServer.Start(); err != nil {
			util.Errorf("Failed to start pprof server: %v", err)
		}
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg, pool, redis, notifier, nrAgent)
		if err := apiServer.Start(); err != nil {
			util.Fatalf("Failed to start API server: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	util.Info("Solver started successfully. Press Ctrl+C to stop.")

	<-sigChan
	util.Info("Shutting down...")

	if apiServer != nil {
		apiServer.Stop()
	}
	if pprofServer != nil {
		pprofServer.Stop()
	}
	if nrAgent != nil {
		nrAgent.Stop()
	}

	util.Info("Solver stopped")
}

// runOneShot solves a single challenge on the local pool and prints the
// result as JSON.
func runOneShot(cfg *config.Config, pool *worker.Pool, prefix string, difficulty uint8) {
	ctx := context.Background()
	if cfg.Solver.SolveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Solver.SolveTimeout)
		defer cancel()
	}

	start := time.Now()
	res, err := pool.Solve(ctx, []byte(prefix), difficulty, nil)
	if err != nil {
		util.Fatalf("Solve failed: %v", err)
	}

	if cfg.Solver.Verify {
		if err := verify.Solution(prefix, res.Nonce, res.Hash, difficulty); err != nil {
			util.Fatalf("Solution failed verification: %v", err)
		}
	}

	out, _ := json.Marshal(map[string]interface{}{
		"hash":       res.HashHex,
		"data":       res.Attempt,
		"difficulty": difficulty,
		"nonce":      res.Nonce,
		"attempts":   res.Attempts,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})
	fmt.Println(string(out))
}
