// 文件: pkg/gate/gate.go
// TriggerGate - 下单前的准入闸门
//
// 全局开关 + 每标的冷却 + 未平仓上限 + token 预算，四项全部用独立原子量实现，
// 没有复合锁。跟 mtrade.OrderBook 的注释一样：计数器允许"轻微瞬时超发"，
// 这是设计上的取舍，不是 bug —— 用 CAS 可以做到严格，但规格不要求。

package gate

import "sync/atomic"

// AdmitResult 是 Admit 调用的结果。
type AdmitResult int

const (
	Admitted AdmitResult = iota
	Cooldown
	NoBudget
	TooManyOpen
)

func (r AdmitResult) String() string {
	switch r {
	case Admitted:
		return "ADMITTED"
	case Cooldown:
		return "COOLDOWN"
	case NoBudget:
		return "NO_BUDGET"
	case TooManyOpen:
		return "TOO_MANY_OPEN"
	default:
		return "UNKNOWN"
	}
}

// Gate 是下单前的准入闸门。所有字段都是独立原子量；没有复合锁，
// 也没有需要跨字段保持一致性的不变式（每个计数器自身单调，除了
// OpenIntents 和 Budget 会减）。
type Gate struct {
	canBuy atomic.Bool

	cooldowns  []atomic.Uint64 // 每标的最近一次 admit 的时间戳(ms)
	cooldownMs uint64

	openIntents    atomic.Uint32
	maxOpenIntents atomic.Uint32
	budget         atomic.Uint64

	emitted         atomic.Uint64
	dropped         atomic.Uint64
	gateBlocked     atomic.Uint64
	cooldownBlocked atomic.Uint64
}

// Config 是构造 Gate 所需的静态参数。
type Config struct {
	MaxSymbols     int
	CooldownMs     uint64
	MaxOpenIntents uint32
	InitialBudget  uint64
}

// New 创建一个初始状态为"放行"（can_buy=true）的 Gate。
// MaxSymbols 必须 > 0 —— 这是构造期的程序员错误。
func New(cfg Config) *Gate {
	if cfg.MaxSymbols <= 0 {
		panic("gate: MaxSymbols must be > 0")
	}
	g := &Gate{
		cooldowns:  make([]atomic.Uint64, cfg.MaxSymbols),
		cooldownMs: cfg.CooldownMs,
	}
	g.canBuy.Store(true)
	g.maxOpenIntents.Store(cfg.MaxOpenIntents)
	g.budget.Store(cfg.InitialBudget)
	return g
}

// SetCanBuy 切换全局 kill switch。
func (g *Gate) SetCanBuy(v bool) { g.canBuy.Store(v) }

// CanBuy 读取全局 kill switch。
func (g *Gate) CanBuy() bool { return g.canBuy.Load() }

// Admit 按照固定的"先便宜后贵"顺序做准入检查：
//  1. 冷却期内 -> Cooldown
//  2. 预算耗尽 -> NoBudget
//  3. 未平仓数已达上限 -> TooManyOpen
//  4. 放行：open_intents+=1, budget-=1, 记录冷却时间戳, emitted+=1
//
// 调用方需要先检查 CanBuy()——Admit 本身不检查全局开关，它只负责
// "已经决定要下单了，这一单能不能过闸门"这一层。
func (g *Gate) Admit(symbolID uint32, tsMs uint64) AdmitResult {
	if int(symbolID) >= len(g.cooldowns) {
		return TooManyOpen // 越界视为拒绝；调用方本应在更早处过滤
	}

	last := g.cooldowns[symbolID].Load()
	if tsMs < last+g.cooldownMs {
		g.cooldownBlocked.Add(1)
		return Cooldown
	}

	if g.budget.Load() == 0 {
		g.gateBlocked.Add(1)
		return NoBudget
	}

	if g.openIntents.Load() >= g.maxOpenIntents.Load() {
		g.gateBlocked.Add(1)
		return TooManyOpen
	}

	g.openIntents.Add(1)
	g.budget.Add(^uint64(0)) // -1，budget 已在上面确认非零
	g.cooldowns[symbolID].Store(tsMs)
	g.emitted.Add(1)
	return Admitted
}

// Release 饱和递减未平仓计数；已经是 0 时保持不变，绝不下溢。
func (g *Gate) Release() {
	for {
		cur := g.openIntents.Load()
		if cur == 0 {
			return
		}
		if g.openIntents.CompareAndSwap(cur, cur-1) {
			return
		}
	}
}

// Replenish 给 token 预算充值。
func (g *Gate) Replenish(amount uint64) { g.budget.Add(amount) }

// RecordDropped 由 HotPath 在 try_send 失败时调用：admit 已经扣费，
// 这里只是记账，不回滚任何 gate 状态——背压以"丢弃意图"的形式呈现，
// 而不是"无准入地重试"。
func (g *Gate) RecordDropped() { g.dropped.Add(1) }

// Counters 是 Gate 状态的一次性只读快照，供报表/测试使用。
type Counters struct {
	OpenIntents     uint32
	MaxOpenIntents  uint32
	Budget          uint64
	Emitted         uint64
	Dropped         uint64
	GateBlocked     uint64
	CooldownBlocked uint64
}

// Snapshot 读取当前所有计数器。
func (g *Gate) Snapshot() Counters {
	return Counters{
		OpenIntents:     g.openIntents.Load(),
		MaxOpenIntents:  g.maxOpenIntents.Load(),
		Budget:          g.budget.Load(),
		Emitted:         g.emitted.Load(),
		Dropped:         g.dropped.Load(),
		GateBlocked:     g.gateBlocked.Load(),
		CooldownBlocked: g.cooldownBlocked.Load(),
	}
}

// SetMaxOpenIntents 允许配置热更新调整软上限。
func (g *Gate) SetMaxOpenIntents(v uint32) { g.maxOpenIntents.Store(v) }
