// 文件: pkg/maintenance/worker.go
// MaintenancePath - 维护路径
//
// 单线程模型：每个标的分片由一个 goroutine 独占处理 Ring 的写入，
// 避免锁竞争，跟 asset.Shard 的思路一致——所有写操作串行进入一个
// goroutine，写完再把新快照原子发布出去，供 HotPath 无锁读取。
//
// 这里不做命令队列/幂等性检查（那是资金分片的需求），只做最简单的
// "收 tick -> 写 ring -> (可选)重算聚合 -> 发布快照"。

package maintenance

import (
	"context"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/pricering"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// Worker 独占维护一组标的的 SnapshotCell。
// cells 按 symbol_id 直接索引，不做哈希，省一次查找。
type Worker struct {
	cells            []*pricering.Cell
	in               <-chan tick.Tick
	recomputeEveryN  int
	counter          int
	rangeLo, rangeHi uint32 // [rangeLo, rangeHi) 本分片负责的 symbol_id 范围
}

// Config 是构造 Worker 所需的参数。
type Config struct {
	Cells []*pricering.Cell
	In    <-chan tick.Tick
	// RecomputeEveryN: 每收到多少个 tick 重算一次均线聚合。
	// 均线计算是 O(window_size)，不需要每个 tick 都做，
	// 跟 asset.Shard 的快照发布节流是同一个思路。
	RecomputeEveryN int
	// RangeLo/RangeHi 限定本 Worker 处理的 symbol_id 半开区间；
	// 两者都为零值时表示不限定（处理全部 cells）。当多个 Worker
	// 共享同一个 Broadcaster 的广播流时，用这个区间各自过滤，
	// 保证写入的下标互不相交。
	RangeLo, RangeHi uint32
}

// New 创建一个 Worker。
func New(cfg Config) *Worker {
	n := cfg.RecomputeEveryN
	if n <= 0 {
		n = 1
	}
	hi := cfg.RangeHi
	if hi == 0 {
		hi = uint32(len(cfg.Cells))
	}
	return &Worker{
		cells:           cfg.Cells,
		in:              cfg.In,
		recomputeEveryN: n,
		rangeLo:         cfg.RangeLo,
		rangeHi:         hi,
	}
}

// Run 是 Worker 的主循环，阻塞直到 ctx 被取消或输入 channel 关闭。
// 单 goroutine 独占所有写入，天然无竞态。
func (w *Worker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-w.in:
			if !ok {
				return
			}
			w.apply(t)
		}
	}
}

func (w *Worker) apply(t tick.Tick) {
	if int(t.SymbolID) >= len(w.cells) {
		return // 越界静默丢弃，跟 HotPath 的边界检查保持一致的容错哲学
	}
	if t.SymbolID < w.rangeLo || t.SymbolID >= w.rangeHi {
		return // 不属于本分片负责的区间，广播场景下由其它 Worker 处理
	}

	w.counter++
	recompute := w.counter%w.recomputeEveryN == 0

	w.cells[t.SymbolID].AppendAndPublish(t.PxE8, t.TsMs, recompute)
}
