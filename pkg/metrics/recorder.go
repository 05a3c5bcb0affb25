// 文件: pkg/metrics/recorder.go
// LatencyRecorder - HDR 直方图延迟采集器
//
// 对应原始实现里的 hdrhistogram crate；Go 生态的直接对应物是
// github.com/HdrHistogram/hdrhistogram-go，API 形状几乎一一对应
// (RecordValue / ValueAtQuantile / Min / Max / TotalCount / Encode)。
// 记录单位统一用微秒，跟原始实现保持一致，避免精度损失。

package metrics

import (
	"fmt"

	hdr "github.com/HdrHistogram/hdrhistogram-go"
)

// Recorder 包装一个 HDR 直方图，用于记录热路径端到端延迟（微秒）。
type Recorder struct {
	hist       *hdr.Histogram
	maxValueUs int64
}

// NewRecorder 创建一个 Recorder。
// maxValueUs: 要追踪的最大延迟（微秒），如 100_000 = 100ms。
// sigfigs: 精度（有效数字位数），3 表示 0.1% 精度。
func NewRecorder(maxValueUs int64, sigfigs int) *Recorder {
	return &Recorder{hist: hdr.New(1, maxValueUs, sigfigs), maxValueUs: maxValueUs}
}

// Record 记录一次延迟（微秒）。允许被频繁调用：bench-shadow 在生产者循环里
// 每处理完一个 tick 就调用一次，它不在 Processor.Process 内部。
// 超出直方图可追踪范围的值钳制到 max，而不是被 RecordValue 拒绝后悄悄丢弃。
func (r *Recorder) Record(latencyUs int64) error {
	if latencyUs > r.maxValueUs {
		latencyUs = r.maxValueUs
	}
	if latencyUs < 1 {
		latencyUs = 1
	}
	return r.hist.RecordValue(latencyUs)
}

// Percentile 返回给定分位点（0-100 区间，如 99.9）对应的延迟值（微秒）。
func (r *Recorder) Percentile(q float64) int64 {
	return r.hist.ValueAtQuantile(q)
}

// Min 返回记录到的最小延迟。
func (r *Recorder) Min() int64 { return r.hist.Min() }

// Max 返回记录到的最大延迟。
func (r *Recorder) Max() int64 { return r.hist.Max() }

// Count 返回样本总数。
func (r *Recorder) Count() int64 { return r.hist.TotalCount() }

// Serialize 以 HDR V2 压缩格式编码直方图，便于落盘或跨进程传输。
func (r *Recorder) Serialize() ([]byte, error) {
	b, err := r.hist.Encode(hdr.V2CompressedEncodingCookieBase)
	if err != nil {
		return nil, fmt.Errorf("metrics: encode histogram: %w", err)
	}
	return b, nil
}

// ExecCounters 镜像 Gate/Simulator 的运行期计数器，汇总进最终 Summary。
type ExecCounters struct {
	EmittedIntents  uint64
	DroppedIntents  uint64
	AckCount        uint64
	FillCount       uint64
	GateBlockCount  uint64
	CooldownBlocked uint64
}

// Summary 是对外输出的 JSON 汇总结构，字段形状与原始实现的
// HistogramSummary 保持一致，方便做跨实现的基准结果比对。
type Summary struct {
	Count          int64   `json:"count"`
	Min            int64   `json:"min"`
	Max            int64   `json:"max"`
	P50            int64   `json:"p50"`
	P95            int64   `json:"p95"`
	P99            int64   `json:"p99"`
	P999           int64   `json:"p99_9"`
	ThroughputAvg  float64 `json:"throughput_avg"`
	EmittedIntents uint64  `json:"emitted_intents"`
	DroppedIntents uint64  `json:"dropped_intents"`
	AckCount       uint64  `json:"ack_count"`
	FillCount      uint64  `json:"fill_count"`
	GateBlockCount uint64  `json:"gate_block_count"`
	CooldownBlock  uint64  `json:"cooldown_block_count"`
	// PassStatus 是 p95 相对 target_p95_ms 的软门限结果："PASS" 或 "WARN"；
	// 跟原始实现一样，WARN 不会让进程以非零状态退出。
	PassStatus string `json:"pass_status"`
}

// EvaluateSoftGate 按 target_p95_ms（毫秒）对 p95（微秒）做软门限判定。
func EvaluateSoftGate(p95Us, targetP95Ms int64) string {
	if p95Us <= targetP95Ms*1000 {
		return "PASS"
	}
	return "WARN"
}

// Summarize 生成一份带吞吐量、执行计数器和软门限结果的完整汇总。
func (r *Recorder) Summarize(durationSecs float64, targetP95Ms int64, exec ExecCounters) Summary {
	var throughput float64
	if durationSecs > 0 {
		throughput = float64(r.Count()) / durationSecs
	}
	p95 := r.Percentile(95.0)
	return Summary{
		Count:          r.Count(),
		Min:            r.Min(),
		Max:            r.Max(),
		P50:            r.Percentile(50.0),
		P95:            p95,
		P99:            r.Percentile(99.0),
		P999:           r.Percentile(99.9),
		ThroughputAvg:  throughput,
		EmittedIntents: exec.EmittedIntents,
		DroppedIntents: exec.DroppedIntents,
		AckCount:       exec.AckCount,
		FillCount:      exec.FillCount,
		GateBlockCount: exec.GateBlockCount,
		CooldownBlock:  exec.CooldownBlocked,
		PassStatus:     EvaluateSoftGate(p95, targetP95Ms),
	}
}
