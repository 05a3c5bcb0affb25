// 文件: internal/assembly/assembly.go
// 装配层 - 把 Config 里的参数组装成一套可运行的 HotPath/MaintenancePath/
// ExecutionSimulator/FeedbackReader，供 cmd/altbot 的各个子命令复用。
//
// 这一层不属于 spec 描述的任何组件本身，它只是把组件接起来——
// 跟原始 main.rs 里的装配代码对应。

package assembly

import (
	"context"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/config"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/execution"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/gate"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/hotpath"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/maintenance"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/metrics"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/pricering"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// System 打包了一次基准测试运行所需的全部组件。
type System struct {
	Cfg        config.Config
	Cells      []*pricering.Cell
	Gate       *gate.Gate
	Processor  *hotpath.Processor
	Maintainer *maintenance.Worker
	Simulator  *execution.Simulator
	Feedback   *execution.FeedbackReader
	Recorder   *metrics.Recorder

	maintIn chan tick.Tick
}

// Build 根据 Config 构造一整套系统，不启动任何 goroutine。
func Build(cfg config.Config) *System {
	cells := make([]*pricering.Cell, cfg.NumSymbols)
	for i := range cells {
		cells[i] = pricering.NewCell(cfg.RingCapacity, cfg.WindowMs)
	}

	g := gate.New(gate.Config{
		MaxSymbols:     int(cfg.NumSymbols),
		CooldownMs:     cfg.CooldownMs,
		MaxOpenIntents: cfg.MaxOpenIntents,
		InitialBudget:  cfg.InitialBudget,
	})

	channels := hotpath.NewChannels(cfg.IntentQueueCap, cfg.EventQueueCap)

	proc := hotpath.New(hotpath.Config{
		MaxSymbols:      cfg.NumSymbols,
		WindowMs:        cfg.WindowMs,
		ReturnThreshold: cfg.ReturnThreshold,
	}, cells, g, channels)

	maintIn := make(chan tick.Tick, cfg.IntentQueueCap)
	maintainer := maintenance.New(maintenance.Config{
		Cells:           cells,
		In:              maintIn,
		RecomputeEveryN: cfg.RecomputeEveryN,
	})

	sim := execution.New(execution.Config{
		Channels:    channels,
		AckDelayUs:  cfg.AckDelayUs,
		FillDelayUs: cfg.FillDelayUs,
	})

	recorder := metrics.NewRecorder(cfg.HistMaxValueUs, cfg.HistSigFigs)

	feedback := execution.NewFeedbackReader(channels.Events, g, nil)

	return &System{
		Cfg:        cfg,
		Cells:      cells,
		Gate:       g,
		Processor:  proc,
		Maintainer: maintainer,
		Simulator:  sim,
		Feedback:   feedback,
		Recorder:   recorder,
		maintIn:    maintIn,
	}
}

// Start 启动维护路径、执行模拟器、反馈读取器这三个后台 goroutine。
// 调用方负责在 ctx 取消后自行 drain 剩余 channel。
func (s *System) Start(ctx context.Context) {
	go s.Maintainer.Run(ctx)
	go s.Simulator.Run(ctx)
	go s.Feedback.Run(ctx)
}

// IngestTick 把一个 tick 同时喂给维护路径（更新价格状态）和热路径
// （触发判断），跟原始实现里"行情喂两路"的结构一致：维护路径负责
// 让快照跟上最新价格，热路径负责基于已经发布的快照做决策——
// 二者天然有一个 tick 的滞后，这是设计使然，不是 bug。
func (s *System) IngestTick(t tick.Tick) *hotpath.TriggerEvent {
	select {
	case s.maintIn <- t:
	default:
		// 维护路径跟不上，丢弃该 tick 的快照更新，热路径仍然照常评估。
	}
	return s.Processor.Process(t)
}
