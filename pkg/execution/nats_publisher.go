// 文件: pkg/execution/nats_publisher.go
// NATSEventPublisher - 把 Submitted/Ack/Fill 事件旁路发布到 NATS
//
// 套用 fund.NatsEventPublisher 的薄封装模式，实现 Simulator 的
// EventPublisher 接口。发布失败不影响 Simulator 主流程。

package execution

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
)

// TopicOrderEvents 是订单事件发布的默认主题。
const TopicOrderEvents = "altbot.execution.events"

// NATSEventPublisher 实现 EventPublisher，把事件发布到 NATS。
type NATSEventPublisher struct {
	conn  *nats.Conn
	topic string
}

// NewNATSEventPublisher 连接到给定 NATS URL。
func NewNATSEventPublisher(url string, topic string) (*NATSEventPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("execution: connect nats: %w", err)
	}
	if topic == "" {
		topic = TopicOrderEvents
	}
	return &NATSEventPublisher{conn: conn, topic: topic}, nil
}

// PublishEvent 序列化并发布一条事件。
func (p *NATSEventPublisher) PublishEvent(ev intent.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.conn.Publish(p.topic, data)
}

// Close 关闭底层连接。
func (p *NATSEventPublisher) Close() { p.conn.Close() }
