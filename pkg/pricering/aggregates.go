// 文件: pkg/pricering/aggregates.go
// 多窗口聚合 - 与 Ring 一起原子发布，保证读者看到一致的 (ring, aggregates) 对

package pricering

// Aggregates 较长窗口的统计量，由 MaintenancePath 周期性重算。
// 与 Ring 打包在同一个 View 里一起发布，避免读者观察到"新 ring + 旧聚合"的撕裂状态。
type Aggregates struct {
	Avg15m float64
	Avg1h  float64
}

// Compute 在环上扫描出 15 分钟 / 1 小时均价。
func Compute(r *Ring, nowMs uint64) Aggregates {
	return Aggregates{
		Avg15m: avgOver(r, 15*60*1000, nowMs),
		Avg1h:  avgOver(r, 60*60*1000, nowMs),
	}
}

func avgOver(r *Ring, windowMs, nowMs uint64) float64 {
	var cutoff uint64
	if nowMs > windowMs {
		cutoff = nowMs - windowMs
	}

	var sum float64
	var n int
	for i := 0; i < r.count; i++ {
		p := r.points[i]
		if p.empty() || p.TsMs < cutoff || p.TsMs > nowMs {
			continue
		}
		sum += float64(p.PxE8)
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
