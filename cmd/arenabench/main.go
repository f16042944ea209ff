package main

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/alexcrichton/bumpalo/internal/logging"
	"github.com/alexcrichton/bumpalo/lib/bump"
)

type vectorRow struct {
	ID    int64
	Score float64
}

func main() {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if err := envconfig.Process("ARENABENCH", &cfg); err != nil {
		fmt.Fprintln(os.Stderr, "can't process configuration:", err)
		os.Exit(1)
	}
	if err := ValidateConfig(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}

	logger, loggerErr := logging.NewLogger(logging.Config{Format: cfg.LogFormat, Level: cfg.LogLevel})
	if loggerErr != nil {
		fmt.Fprintln(os.Stderr, "can't build logger:", loggerErr)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	go func() {
		logger.Info("starting metrics server", zap.String("address", cfg.MetricsAddr))
		http.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.MetricsAddr, nil); err != nil {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	logger.Info("starting benchmark",
		zap.String("mode", cfg.Mode),
		zap.Int("workers", cfg.Workers),
		zap.Int("rounds", cfg.Rounds),
		zap.Int("objects_per_round", cfg.ObjectsPerRound),
	)

	var totalObjects atomic.Int64
	var totalBatchRows atomic.Int64

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			runWorker(workerID, cfg, logger, &totalObjects, &totalBatchRows)
		}(i)
	}
	wg.Wait()

	logger.Info("benchmark complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int64("objects", totalObjects.Load()),
		zap.Int64("batch_rows", totalBatchRows.Load()),
	)
}

// runWorker drives one worker through fill and reclaim cycles. Each worker
// owns its allocations exclusively, so no locking is involved. A round
// stores plain structs and then builds an arrow array over them; in arena
// mode both live on a per-worker arena reclaimed between rounds through
// Reset, in heap mode the same load runs on plain Go allocations as the
// comparison baseline.
func runWorker(workerID int, cfg Config, logger *zap.Logger, totalObjects, totalBatchRows *atomic.Int64) {
	if cfg.Mode == "heap" {
		checksum := runRounds(cfg, memory.DefaultAllocator, totalObjects, totalBatchRows,
			func(count int) []vectorRow { return make([]vectorRow, count) },
			func() {},
		)
		logger.Info("worker finished",
			zap.Int("worker", workerID),
			zap.Int64("checksum", checksum),
		)
		return
	}

	arena := bump.New(bump.Options{
		InitialCapacity:        cfg.InitialCapacity,
		AllocationLimitInBytes: cfg.AllocationLimit,
		Label:                  fmt.Sprintf("worker-%d", workerID),
	})
	defer arena.Release()

	checksum := runRounds(cfg, bump.NewAllocator(arena), totalObjects, totalBatchRows,
		func(count int) []vectorRow { return bump.AllocateSlice[vectorRow](arena, count) },
		arena.Reset,
	)
	logger.Info("worker finished",
		zap.Int("worker", workerID),
		zap.Int64("checksum", checksum),
		zap.String("arena", arena.String()),
	)
}

func runRounds(
	cfg Config, alloc memory.Allocator, totalObjects, totalBatchRows *atomic.Int64,
	makeRows func(count int) []vectorRow, reclaim func(),
) int64 {
	var checksum int64
	for round := 0; round < cfg.Rounds; round++ {
		rows := makeRows(cfg.ObjectsPerRound)
		for i := range rows {
			rows[i] = vectorRow{ID: int64(i), Score: float64(round)}
		}
		totalObjects.Add(int64(len(rows)))

		builder := array.NewInt64Builder(alloc)
		for _, row := range rows {
			builder.Append(row.ID)
			checksum += row.ID
		}
		ids := builder.NewInt64Array()
		totalBatchRows.Add(int64(ids.Len()))
		ids.Release()
		builder.Release()

		reclaim()
	}
	return checksum
}
