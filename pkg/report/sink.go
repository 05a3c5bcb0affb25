// 文件: pkg/report/sink.go
// Sink - 基准测试结果输出的统一抽象
//
// 三种落地方式：FileSink（本地 JSON 文件）、NATSSink（发布到消息总线，
// 套用 fund.NatsEventPublisher 的模式）、MySQLStore（持久化到关系库，
// 套用 futures.MySQLContractRepository 的 GORM 模式）。

package report

import (
	"context"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/metrics"
)

// BenchmarkRun 是一次完整基准测试运行的结果记录。
type BenchmarkRun struct {
	RunID       string          `json:"run_id"`
	StartedAt   int64           `json:"started_at_ms"`
	DurationSec float64         `json:"duration_secs"`
	NumTicks    int             `json:"num_ticks"`
	NumSymbols  uint32          `json:"num_symbols"`
	Summary     metrics.Summary `json:"summary"`
}

// Sink 接收一次基准测试运行的结果。
type Sink interface {
	Write(ctx context.Context, run BenchmarkRun) error
}
