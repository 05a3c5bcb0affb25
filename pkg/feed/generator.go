// 文件: pkg/feed/generator.go
// Generator - 合成行情生成器，用于可复现的基准测试
//
// 基础价格分布和时间戳推进公式照搬原始实现的 TickGenerator：
// 用简单 LCG（线性同余）而不是 math/rand，保证跨语言、跨运行的
// 结果完全一致，这是基准测试可比较的前提。

package feed

import (
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

const (
	lcgMultiplier = 1103515245
	lcgIncrement  = 12345
	baseTsMs      = 1700000000000 // 2023-11 起点时间戳，跟原始实现保持一致
)

// Generator 产出确定性的合成 tick 流，不依赖任何外部 I/O。
type Generator struct {
	numSymbols uint32
	numTicks   int
	basePrices []uint64
}

// NewGenerator 创建一个合成行情生成器。
// 每个标的的基础价格按 (10 + (i*13)%990) USDT 分布，跟原始实现一致。
func NewGenerator(numSymbols uint32, numTicks int) *Generator {
	prices := make([]uint64, numSymbols)
	for i := uint32(0); i < numSymbols; i++ {
		base := 10 + (uint64(i)*13)%990
		prices[i] = base * 100_000_000 // 转换为 e8 定点
	}
	return &Generator{numSymbols: numSymbols, numTicks: numTicks, basePrices: prices}
}

// Run 生成 numTicks 个 tick 并推入 out，全部发送完毕后返回 nil。
// 使用 try-send 以外的阻塞发送——Generator 不在热路径上，
// 背压由调用方通过 channel 容量控制。
func (g *Generator) Run(out chan<- tick.Tick) error {
	var state uint64 = 12345 // LCG 种子，固定值保证可复现

	for i := 0; i < g.numTicks; i++ {
		state = state*lcgMultiplier + lcgIncrement
		symbolID := uint32(state % uint64(g.numSymbols))

		state = state*lcgMultiplier + lcgIncrement
		// 价格波动范围 [-2%, +8%]，整体偏向上涨，跟原始实现一致。
		priceVarPct := float64(int64(state%1000)-200) / 100.0

		basePrice := g.basePrices[symbolID]
		variedPrice := uint64(float64(basePrice) * (1.0 + priceVarPct/100.0))

		tsMs := baseTsMs + uint64(i)

		out <- tick.New(symbolID, variedPrice, tsMs)
	}
	return nil
}
