// 文件: pkg/execution/simulator.go
// ExecutionSimulator - 撮合/交易所响应的模拟器
//
// 不做任何真实 I/O，在热路径之外的 goroutine 里运行，对每个收到的
// Intent 产生确定性的 Submitted -> Ack -> Fill 三连事件。时间戳推算
// 纯靠加法（intent.ts + delay_us/1000），不依赖 wall clock，这样
// 基准测试结果是可重放、可复现的。

package execution

import (
	"context"
	"sync/atomic"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/hotpath"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/idgen"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
)

// EventPublisher 是事件的可选旁路出口（如 NATS），失败不影响主流程。
type EventPublisher interface {
	PublishEvent(ev intent.Event) error
}

// Config 是构造 Simulator 所需的参数。
type Config struct {
	Channels     *hotpath.Channels
	AckDelayUs   uint64 // Ack 相对 Intent 时间戳的延迟（微秒）
	FillDelayUs  uint64 // Fill 相对 Ack 时间戳的延迟（微秒）
	Publisher    EventPublisher // 可为 nil
}

// Simulator 消费 intents 通道，产出 events 通道；原子计数供报表读取。
type Simulator struct {
	in          <-chan intent.Intent
	out         chan<- intent.Event
	ackDelayUs  uint64
	fillDelayUs uint64
	publisher   EventPublisher

	counters struct{ Submitted, Acks, Fills atomic.Uint64 }
}

// Counters 是运行期原子计数器的聚合视图（非原子，仅用于 Snapshot 返回值）。
type Counters struct {
	Submitted uint64
	Acks      uint64
	Fills     uint64
}

// New 创建一个 Simulator，绑定到 Processor 持有的同一对 channel。
func New(cfg Config) *Simulator {
	return &Simulator{
		in:          cfg.Channels.Intents,
		out:         cfg.Channels.Events,
		ackDelayUs:  cfg.AckDelayUs,
		fillDelayUs: cfg.FillDelayUs,
		publisher:   cfg.Publisher,
	}
}

// Run 在独立 goroutine 中调用，阻塞直到 ctx 取消或输入 channel 关闭。
func (s *Simulator) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-s.in:
			if !ok {
				return
			}
			s.processIntent(in)
		}
	}
}

func (s *Simulator) processIntent(in intent.Intent) {
	submitEv := intent.Event{
		EventID:  idgen.Next(),
		Kind:     intent.EventSubmitted,
		IntentID: in.IntentID,
		SymbolID: in.SymbolID,
		PxE8:     in.PxE8,
		TsMs:     in.TsMs,
	}
	s.emit(submitEv)
	s.counters.Submitted.Add(1)

	ackTsMs := in.TsMs + s.ackDelayUs/1000
	ackEv := intent.Event{
		EventID:  idgen.Next(),
		Kind:     intent.EventAck,
		IntentID: in.IntentID,
		SymbolID: in.SymbolID,
		PxE8:     in.PxE8,
		TsMs:     ackTsMs,
	}
	s.emit(ackEv)
	s.counters.Acks.Add(1)

	fillTsMs := ackTsMs + s.fillDelayUs/1000
	fillEv := intent.Event{
		EventID:  idgen.Next(),
		Kind:     intent.EventFill,
		IntentID: in.IntentID,
		SymbolID: in.SymbolID,
		PxE8:     in.PxE8,
		TsMs:     fillTsMs,
	}
	s.emit(fillEv)
	s.counters.Fills.Add(1)
}

func (s *Simulator) emit(ev intent.Event) {
	select {
	case s.out <- ev:
	default:
		// events 队列满：丢弃事件，不阻塞模拟器；反压在这里同样表现为丢弃。
	}
	if s.publisher != nil {
		_ = s.publisher.PublishEvent(ev) // 旁路失败不影响主流程
	}
}

// Snapshot 原子地读取当前累计计数，可以在 Run 所在 goroutine 之外调用。
func (s *Simulator) Snapshot() Counters {
	return Counters{Submitted: s.counters.Submitted.Load(), Acks: s.counters.Acks.Load(), Fills: s.counters.Fills.Load()}
}
