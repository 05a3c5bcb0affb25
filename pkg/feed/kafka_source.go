// 文件: pkg/feed/kafka_source.go
// KafkaSource - 生产环境行情接入
//
// 套用 pkg/kafka 的消费者组模式：每条消息的 value 是定长二进制编码的
// tick（symbol_id uint32 BE, px_e8 uint64 BE, ts_unix_ms uint64 BE），
// 解码失败的消息计数跳过，不中断消费。

package feed

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

const wireTickSize = 4 + 8 + 8 // symbol_id + px_e8 + ts_unix_ms

// KafkaConfig 配置 Kafka 行情源。
type KafkaConfig struct {
	Brokers []string
	GroupID string
	Topics  []string
}

// KafkaSource 从 Kafka 消费者组读取行情，解码为 tick.Tick 推入 out。
type KafkaSource struct {
	cfg      KafkaConfig
	skipped  uint64 // 解码失败的消息数
}

// NewKafkaSource 创建一个 KafkaSource。
func NewKafkaSource(cfg KafkaConfig) *KafkaSource {
	return &KafkaSource{cfg: cfg}
}

// Run 启动消费者组，把解码成功的 tick 推入 out；调用方负责传入带缓冲的
// channel。Run 只执行一次 Consume 会话，使用 context.Background()，
// 不对外提供可取消的 context。
func (k *KafkaSource) Run(out chan<- tick.Tick) error {
	saramaCfg := sarama.NewConfig()
	saramaCfg.Consumer.Group.Rebalance.Strategy = sarama.NewBalanceStrategyRoundRobin()
	saramaCfg.Consumer.Offsets.Initial = sarama.OffsetNewest

	group, err := sarama.NewConsumerGroup(k.cfg.Brokers, k.cfg.GroupID, saramaCfg)
	if err != nil {
		return fmt.Errorf("feed: create kafka consumer group: %w", err)
	}
	defer group.Close()

	handler := &kafkaHandler{out: out, source: k}
	return group.Consume(context.Background(), k.cfg.Topics, handler)
}

// Skipped 返回解码失败的消息数。
func (k *KafkaSource) Skipped() uint64 { return k.skipped }

func decodeWireTick(b []byte) (tick.Tick, bool) {
	if len(b) != wireTickSize {
		return tick.Tick{}, false
	}
	symbolID := binary.BigEndian.Uint32(b[0:4])
	pxE8 := binary.BigEndian.Uint64(b[4:12])
	tsMs := binary.BigEndian.Uint64(b[12:20])
	return tick.New(symbolID, pxE8, tsMs), true
}

type kafkaHandler struct {
	out    chan<- tick.Tick
	source *KafkaSource
}

func (h *kafkaHandler) Setup(_ sarama.ConsumerGroupSession) error   { return nil }
func (h *kafkaHandler) Cleanup(_ sarama.ConsumerGroupSession) error { return nil }

func (h *kafkaHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		t, ok := decodeWireTick(msg.Value)
		if !ok {
			h.source.skipped++
			session.MarkMessage(msg, "")
			continue
		}
		h.out <- t
		session.MarkMessage(msg, "")
	}
	return nil
}
