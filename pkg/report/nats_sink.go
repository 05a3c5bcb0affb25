// 文件: pkg/report/nats_sink.go
// NATSSink - 发布基准测试结果到 NATS 主题
//
// 套用 fund.NatsEventPublisher 的模式：薄封装 + JSON 序列化 + Publish。

package report

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// TopicBenchmarkRuns 是基准测试结果发布的默认主题。
const TopicBenchmarkRuns = "altbot.benchmark.runs"

// NATSSink 把基准测试结果发布到 NATS。
type NATSSink struct {
	conn  *nats.Conn
	topic string
}

// NewNATSSink 连接到给定 NATS URL 并返回一个 Sink。
func NewNATSSink(url string, topic string) (*NATSSink, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("report: connect nats: %w", err)
	}
	if topic == "" {
		topic = TopicBenchmarkRuns
	}
	return &NATSSink{conn: conn, topic: topic}, nil
}

// Write 把 run 序列化为 JSON 并发布到配置的主题。
func (s *NATSSink) Write(_ context.Context, run BenchmarkRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("report: marshal run: %w", err)
	}
	return s.conn.Publish(s.topic, data)
}

// Close 关闭底层 NATS 连接。
func (s *NATSSink) Close() {
	s.conn.Close()
}
