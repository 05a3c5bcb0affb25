// 文件: pkg/hotpath/processor.go
// HotPath - 每个 tick 必经的处理链路
//
// 【面试核心】这是整个系统延迟预算最紧的地方：
//   1. 读 can_buy（原子）
//   2. symbol_id 越界检查
//   3. 原子 load 该标的的价格快照
//   4. 算 60s 收益率
//   5. 触发则过 Gate，过了就 try_send 一个 Intent
//   6. 把本次处理结果（是否触发、收益率）还给调用方，用于延迟采样
//
// 零阻塞、零日志、除第 4 步外零浮点。未触发的 tick 不做堆分配；
// 触发时会为返回值分配一个 TriggerEvent。

package hotpath

import (
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/gate"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/idgen"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/pricering"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// TriggerEvent 是一次 Process 调用的结果，供延迟采集器/基准测试使用。
type TriggerEvent struct {
	Triggered bool // 本次收益率是否达到阈值（无论后续是否真的 admit 成功）
	SymbolID  uint32
	ReturnPct float64
	PxE8      uint64
	TsMs      uint64
	Admit     gate.AdmitResult // 仅在 Triggered 时有意义
	Sent      bool             // Admit==Admitted 且成功塞进 intents 通道
}

// Config 是构造 Processor 所需的静态参数（窗口、阈值、标的上限）。
type Config struct {
	MaxSymbols       uint32
	WindowMs         uint64
	ReturnThreshold  float64 // 百分比，如 5.0 表示 5%
}

// Processor 是热路径的入口对象。每个标的一个 SnapshotCell，一个共享 Gate，
// 一对有界 channel。构造之后在整个进程生命周期内复用，绝不重建。
type Processor struct {
	cfg       Config
	snapshots []*pricering.Cell
	gate      *gate.Gate
	channels  *Channels
}

// New 创建一个 Processor。snapshots 必须与 cfg.MaxSymbols 等长——
// 由调用方（通常是装配层）负责预先创建好每个标的的 SnapshotCell，
// 这样 Processor 构造之后就不再分配。
func New(cfg Config, snapshots []*pricering.Cell, g *gate.Gate, ch *Channels) *Processor {
	if uint32(len(snapshots)) != cfg.MaxSymbols {
		panic("hotpath: snapshots length must equal cfg.MaxSymbols")
	}
	return &Processor{cfg: cfg, snapshots: snapshots, gate: g, channels: ch}
}

// Process 是热路径的唯一入口。永不 panic、永不阻塞、永不记日志。
func (p *Processor) Process(t tick.Tick) *TriggerEvent {
	// 1. 全局 kill switch —— 关闭时直接短路，连计数器都不碰。
	if !p.gate.CanBuy() {
		return nil
	}

	// 2. 越界的 symbol_id 静默跳过。
	if t.SymbolID >= p.cfg.MaxSymbols {
		return nil
	}

	// 3. 原子 load 快照（唯一的热路径共享状态访问，除了 Gate 的原子量）。
	view := p.snapshots[t.SymbolID].Load()

	// 4. 算窗口收益率。
	retPct, ok := view.Ring.ReturnOver(p.cfg.WindowMs, t.TsMs)
	if !ok || retPct < p.cfg.ReturnThreshold {
		return nil
	}

	ev := &TriggerEvent{
		Triggered: true,
		SymbolID:  t.SymbolID,
		ReturnPct: retPct,
		PxE8:      t.PxE8,
		TsMs:      t.TsMs,
	}

	// 5. 过闸门。
	ev.Admit = p.gate.Admit(t.SymbolID, t.TsMs)
	if ev.Admit != gate.Admitted {
		return ev
	}

	in := intent.Intent{
		IntentID: idgen.Next(),
		SymbolID: t.SymbolID,
		Side:     intent.SideBuy,
		PxE8:     t.PxE8,
		TsMs:     t.TsMs,
	}

	if TrySendIntent(p.channels.Intents, in) {
		ev.Sent = true
	} else {
		// 队列满：admit 已经扣费（budget、cooldown、open_intents 都已生效），
		// 这里只计 dropped，绝不回滚 gate 状态——背压表现为丢单，不是重试。
		p.gate.RecordDropped()
	}

	return ev
}

// Gate 暴露底层 Gate，便于外部（配置热更新、Redis kill switch 镜像）调用
// SetCanBuy/Replenish 等管理操作。
func (p *Processor) Gate() *gate.Gate { return p.gate }

// Channels 暴露底层 channel 对，便于装配层启动 ExecutionSimulator/FeedbackReader。
func (p *Processor) Channels() *Channels { return p.channels }
