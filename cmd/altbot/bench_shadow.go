// 文件: cmd/altbot/bench_shadow.go
// bench-shadow 子命令 - 用合成行情跑一次完整管线并输出延迟直方图
//
// "shadow" 指的是这个基准测试只观察延迟分布，不真正对接交易所——
// ExecutionSimulator 全程是确定性的本地模拟。

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/azoz54321/ultra-fast-altbot-15ms/internal/assembly"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/config"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/feed"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/maintenance"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/metrics"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/report"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

var (
	flagNumTicks        int
	flagNumSymbols      uint32
	flagHistOut         string
	flagSymbolsPerShard uint32
	flagMySQLDSN        string
)

var benchShadowCmd = &cobra.Command{
	Use:   "bench-shadow",
	Short: "Run the pipeline against synthetic ticks and record end-to-end latency",
	RunE:  runBenchShadow,
}

func init() {
	benchShadowCmd.Flags().IntVar(&flagNumTicks, "num-ticks", 1_000_000, "number of synthetic ticks to generate")
	benchShadowCmd.Flags().Uint32Var(&flagNumSymbols, "num-symbols", 200, "number of distinct symbols")
	benchShadowCmd.Flags().StringVar(&flagHistOut, "hist-out", "", "path to write the JSON latency summary (empty = no file is written)")
	benchShadowCmd.Flags().Uint32Var(&flagSymbolsPerShard, "symbols-per-shard", 0, "split maintenance workers across shards of this many symbols each (0 = single worker)")
	benchShadowCmd.Flags().StringVar(&flagMySQLDSN, "mysql-dsn", "", "optional MySQL DSN to persist the run's summary into benchmark_runs (empty = skip)")
}

func runBenchShadow(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	cfg.NumSymbols = flagNumSymbols

	sys := assembly.Build(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 关闭装配层默认的单 worker 维护路径，改用分片版本——
	// 跟 asset.Shard 的"每个分片一个 goroutine 独占处理"思路一致，
	// 用 feed.Broadcaster 把同一条 tick 流扇出给每个分片的订阅 channel。
	broadcaster := feed.NewBroadcaster()
	shardWorkers := buildShardedMaintainers(sys, broadcaster, flagSymbolsPerShard)
	defer broadcaster.Close()

	for _, w := range shardWorkers {
		go w.Run(ctx)
	}

	go sys.Simulator.Run(ctx)
	go sys.Feedback.Run(ctx)

	gen := feed.NewGenerator(cfg.NumSymbols, flagNumTicks)
	tickCh := make(chan tick.Tick, cfg.IntentQueueCap)

	go func() {
		defer close(tickCh)
		_ = gen.Run(tickCh)
	}()

	start := time.Now()
	triggerCount := 0

	for t := range tickCh {
		tickStart := time.Now()
		broadcaster.Broadcast(t)

		ev := sys.Processor.Process(t)
		if ev != nil && ev.Triggered {
			triggerCount++
		}

		latencyUs := time.Since(tickStart).Microseconds()
		_ = sys.Recorder.Record(latencyUs)
	}

	duration := time.Since(start).Seconds()
	counters := sys.Gate.Snapshot()
	simCounters := sys.Simulator.Snapshot()

	summary := sys.Recorder.Summarize(duration, cfg.TargetP95Ms, metrics.ExecCounters{
		EmittedIntents:  counters.Emitted,
		DroppedIntents:  counters.Dropped,
		AckCount:        simCounters.Acks,
		FillCount:       simCounters.Fills,
		GateBlockCount:  counters.GateBlocked,
		CooldownBlocked: counters.CooldownBlocked,
	})

	log.Printf("processed %d ticks in %.2fs (%d triggers, %d emitted, %d dropped, p95 %s)",
		flagNumTicks, duration, triggerCount, counters.Emitted, counters.Dropped, summary.PassStatus)

	run := report.BenchmarkRun{
		RunID:       fmt.Sprintf("bench-shadow-%d-%d", cfg.NumSymbols, flagNumTicks),
		DurationSec: duration,
		NumTicks:    flagNumTicks,
		NumSymbols:  cfg.NumSymbols,
		Summary:     summary,
	}

	if flagHistOut != "" {
		sink := report.NewFileSink(flagHistOut)
		if err := sink.Write(ctx, run); err != nil {
			return fmt.Errorf("bench-shadow: write summary: %w", err)
		}
		log.Printf("wrote summary to %s", flagHistOut)
	}

	if flagMySQLDSN != "" {
		store, err := report.OpenMySQLStore(flagMySQLDSN)
		if err != nil {
			return fmt.Errorf("bench-shadow: open mysql store: %w", err)
		}
		if err := store.AutoMigrate(ctx); err != nil {
			return fmt.Errorf("bench-shadow: migrate mysql store: %w", err)
		}
		if err := store.Write(ctx, run); err != nil {
			return fmt.Errorf("bench-shadow: persist run: %w", err)
		}
		log.Printf("persisted run %s to mysql", run.RunID)
	}

	return nil
}

// buildShardedMaintainers 把 Cell 按 symbolsPerShard 切成若干组，每组订阅
// broadcaster 的一路 channel，各自只处理落在自己 [lo, hi) 区间内的 symbol_id。
// symbolsPerShard==0 时退化为单一分片（所有标的共用一个 worker）。
func buildShardedMaintainers(sys *assembly.System, broadcaster *feed.Broadcaster, symbolsPerShard uint32) []*maintenance.Worker {
	n := uint32(len(sys.Cells))
	if symbolsPerShard == 0 || symbolsPerShard >= n {
		symbolsPerShard = n
	}

	var workers []*maintenance.Worker

	for lo := uint32(0); lo < n; lo += symbolsPerShard {
		hi := lo + symbolsPerShard
		if hi > n {
			hi = n
		}
		sub := broadcaster.Subscribe()
		w := maintenance.New(maintenance.Config{
			Cells:           sys.Cells,
			In:              sub,
			RecomputeEveryN: sys.Cfg.RecomputeEveryN,
			RangeLo:         lo,
			RangeHi:         hi,
		})
		workers = append(workers, w)
	}
	return workers
}
