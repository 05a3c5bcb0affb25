// 文件: pkg/pricering/snapshot.go
// SnapshotCell - 无锁的单写者/多读者快照槽
//
// 【面试高频】跟 mtrade.OrderBook 的 atomic.Pointer[OrderBookSnapshot] 是同一个套路：
// 写者 (MaintenancePath) load -> clone -> mutate -> store；
// 读者 (HotPath) 只做一次原子 load，拿到的永远是一份完整、不可变的快照。

package pricering

import "sync/atomic"

// View 是某一时刻某个标的的完整可读状态：价格环 + 随环一起轮换的聚合。
type View struct {
	Ring       *Ring
	Aggregates Aggregates
}

// Cell 是单个标的的原子可替换快照槽。
type Cell struct {
	p atomic.Pointer[View]
}

// NewCell 创建一个持有初始（空）环的快照槽。
func NewCell(capacity int, windowMs uint64) *Cell {
	c := &Cell{}
	c.p.Store(&View{Ring: NewRing(capacity, windowMs)})
	return c
}

// Load 无锁读取当前快照。热路径唯一允许的访问方式。
func (c *Cell) Load() *View {
	return c.p.Load()
}

// Store 原子发布一份新快照。仅供 MaintenancePath（单写者）调用。
func (c *Cell) Store(v *View) {
	c.p.Store(v)
}

// AppendAndPublish 是 MaintenancePath 的标准写入序列：
// load 当前环 -> clone -> 追加新点 -> （可选）重算聚合 -> 原子发布。
func (c *Cell) AppendAndPublish(pxE8, tsMs uint64, recomputeAggregates bool) {
	cur := c.p.Load()
	next := cur.Ring.Clone()
	next.Append(pxE8, tsMs)

	nv := &View{Ring: next, Aggregates: cur.Aggregates}
	if recomputeAggregates {
		nv.Aggregates = Compute(next, tsMs)
	}
	c.p.Store(nv)
}
