// 文件: pkg/execution/feedback.go
// FeedbackReader - 消费 ExecutionSimulator 产出的事件，驱动 Gate 的释放
//
// 收到 Fill 事件时调用 gate.Release()，把未平仓计数还给闸门，
// 形成"准入 -> 执行 -> 释放"的完整闭环。Submitted/Ack 只做观测，
// 不影响 Gate 状态。

package execution

import (
	"context"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/gate"
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
)

// FeedbackReader drains一条 events 通道并对 Fill 事件调用 Release。
type FeedbackReader struct {
	in   <-chan intent.Event
	gate *gate.Gate

	onEvent func(intent.Event) // 可选钩子，供延迟采集器记录 fill 延迟
}

// NewFeedbackReader 创建一个 FeedbackReader。onEvent 可为 nil。
func NewFeedbackReader(events <-chan intent.Event, g *gate.Gate, onEvent func(intent.Event)) *FeedbackReader {
	return &FeedbackReader{in: events, gate: g, onEvent: onEvent}
}

// Run 阻塞直到 ctx 取消或 events 通道关闭。
func (f *FeedbackReader) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-f.in:
			if !ok {
				return
			}
			if ev.Kind == intent.EventFill {
				f.gate.Release()
			}
			if f.onEvent != nil {
				f.onEvent(ev)
			}
		}
	}
}
