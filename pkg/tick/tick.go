// 文件: pkg/tick/tick.go
// 行情 Tick - 零分配数据结构
//
// 设计目标:
// 1. 定点价格 (px_e8)：热路径完全不碰浮点数的比较/累加
// 2. 值类型 (非指针)：在 channel 里传递时不触发 GC 扫描堆对象
// 3. 时间戳是上游给的"不透明"毫秒数，本包不做任何日历/时钟运算

package tick

// Tick 单笔成交行情。不可变，值类型传递。
type Tick struct {
	SymbolID uint32 // 标的 ID（稠密整数，由上游映射）
	PxE8     uint64 // 定点价格，真实值 = PxE8 / 1e8
	TsMs     uint64 // 上游提供的毫秒时间戳，非单调也可接受
}

// New 构造一个 Tick。
func New(symbolID uint32, pxE8, tsMs uint64) Tick {
	return Tick{SymbolID: symbolID, PxE8: pxE8, TsMs: tsMs}
}

// Price 以 float64 返回价格，仅用于日志/展示，绝不用于热路径比较。
func (t Tick) Price() float64 {
	return float64(t.PxE8) / 1e8
}

// Valid 校验 tick 是否满足 Source 契约：symbol 在范围内、价格非零。
// maxSymbols 由调用方传入（HotPath/Source 均知道这个上限）。
func (t Tick) Valid(maxSymbols uint32) bool {
	return t.SymbolID < maxSymbols && t.PxE8 > 0
}
