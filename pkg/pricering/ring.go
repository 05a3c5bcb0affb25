// 文件: pkg/pricering/ring.go
// PriceRing - 每个标的一个定长环形缓冲区
//
// 【核心设计】
// - 定长数组，预分配，append 绝不触发堆分配
// - 写指针取模前进，count 饱和在 capacity
// - 窗口查询按时间戳过滤，而不是按槽位顺序（允许窗口内乱序写入）
//
// 本包只被 MaintenancePath 写（单写者），热路径只读（见 SnapshotCell）。

package pricering

// Point 是环中的一个采样点。零值代表"空槽位"。
type Point struct {
	PxE8 uint64
	TsMs uint64
}

func (p Point) empty() bool {
	return p.PxE8 == 0 && p.TsMs == 0
}

// Ring 定长价格环。非并发安全；并发安全性由 SnapshotCell 的原子替换提供。
type Ring struct {
	points    []Point
	writeIdx  int
	count     int
	windowMs  uint64
}

// NewRing 创建一个容量为 capacity、窗口为 windowMs 的价格环。
// capacity 和 windowMs 都必须 > 0 —— 这是构造期的程序员错误，直接 panic。
func NewRing(capacity int, windowMs uint64) *Ring {
	if capacity <= 0 {
		panic("pricering: capacity must be > 0")
	}
	if windowMs == 0 {
		panic("pricering: windowMs must be > 0")
	}
	return &Ring{
		points:   make([]Point, capacity),
		windowMs: windowMs,
	}
}

// Capacity 返回环的容量。
func (r *Ring) Capacity() int { return len(r.points) }

// Count 返回当前有效采样数。
func (r *Ring) Count() int { return r.count }

// Clone 深拷贝一份环，供写者 copy-on-write 后追加新点再发布。
func (r *Ring) Clone() *Ring {
	cp := &Ring{
		points:   make([]Point, len(r.points)),
		writeIdx: r.writeIdx,
		count:    r.count,
		windowMs: r.windowMs,
	}
	copy(cp.points, r.points)
	return cp
}

// Append 写入一个新的价格点，O(1)，无分配。
func (r *Ring) Append(pxE8, tsMs uint64) {
	r.points[r.writeIdx] = Point{PxE8: pxE8, TsMs: tsMs}
	r.writeIdx = (r.writeIdx + 1) % len(r.points)
	if r.count < len(r.points) {
		r.count++
	}
}

// ReturnOver 计算 [nowMs-windowMs, nowMs] 窗口内的百分比收益率。
// 按时间戳挑选窗口内最老/最新的点（而非按槽位顺序），与源实现的
// compute_return_60s 行为一致：窗口内的乱序写入也能被正确处理。
// 少于两个有效点，或最老价格为 0，返回 ok=false。
func (r *Ring) ReturnOver(windowMs, nowMs uint64) (pct float64, ok bool) {
	if r.count < 2 {
		return 0, false
	}

	var cutoff uint64
	if nowMs > windowMs {
		cutoff = nowMs - windowMs
	}

	var (
		haveOldest, haveNewest   bool
		oldestPx, newestPx       uint64
		oldestTs, newestTs       uint64
	)

	for i := 0; i < r.count; i++ {
		p := r.points[i]
		if p.empty() || p.TsMs < cutoff || p.TsMs > nowMs {
			continue
		}
		if !haveOldest || p.TsMs < oldestTs {
			haveOldest = true
			oldestTs = p.TsMs
			oldestPx = p.PxE8
		}
		if !haveNewest || p.TsMs > newestTs {
			haveNewest = true
			newestTs = p.TsMs
			newestPx = p.PxE8
		}
	}

	if !haveOldest || !haveNewest || oldestPx == 0 {
		return 0, false
	}
	// 需要两个"不同"的点——单点窗口没有收益率可言。
	if oldestTs == newestTs && oldestPx == newestPx {
		return 0, false
	}

	ret := (float64(newestPx) - float64(oldestPx)) / float64(oldestPx) * 100.0
	return ret, true
}

// WindowMs 返回本环配置的窗口时长。
func (r *Ring) WindowMs() uint64 { return r.windowMs }
