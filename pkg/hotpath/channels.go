// 文件: pkg/hotpath/channels.go
// 两条有界 SPSC 队列：intents（HotPath -> ExecutionSimulator）、
// events（ExecutionSimulator -> FeedbackReader）。
//
// 热路径侧一律用 try-send（select + default），绝不阻塞；
// 队列满了就丢，由调用方负责计数。

package hotpath

import (
	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/intent"
)

// Channels 打包两条通道，构造时一次性确定容量。
type Channels struct {
	Intents chan intent.Intent
	Events  chan intent.Event
}

// NewChannels 创建两条指定容量的有界 channel。
func NewChannels(intentCap, eventCap int) *Channels {
	return &Channels{
		Intents: make(chan intent.Intent, intentCap),
		Events:  make(chan intent.Event, eventCap),
	}
}

// TrySendIntent 非阻塞发送；队列满返回 false，调用方据此计 dropped。
func TrySendIntent(ch chan<- intent.Intent, in intent.Intent) bool {
	select {
	case ch <- in:
		return true
	default:
		return false
	}
}

// TrySendEvent 非阻塞发送事件，同样满了就丢。
func TrySendEvent(ch chan<- intent.Event, ev intent.Event) bool {
	select {
	case ch <- ev:
		return true
	default:
		return false
	}
}
