// 文件: pkg/feed/broadcaster.go
// Broadcaster - tick 扇出广播器
//
// 设计模式：Fan-out。一条 tick 流需要同时喂给多个维护路径分片
// (MaintenancePath shard)，订阅者之间必须互相隔离——某个分片处理慢
// 不能拖慢其它分片，更不能拖慢生产者。
//
//	      Generator/KafkaSource (生产者)
//	            |
//	            v
//	      [Broadcaster]
//	       /    |    \
//	      v     v     v
//	   分片1  分片2  分片3  (各自独立 goroutine 维护自己的 Ring)
//
// Subscribe/Unsubscribe 用 RWMutex 保护（低频写），Broadcast 是热路径
// （高频读），用 select+default 保证慢订阅者只会丢自己的数据，不影响别人。

package feed

import (
	"sync"

	"github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"
)

// Broadcaster 把单一 tick 流扇出给任意数量的订阅者。
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers []chan tick.Tick
}

// NewBroadcaster 创建一个空的广播器。
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subscribers: make([]chan tick.Tick, 0)}
}

// Subscribe 注册一个新订阅者，返回一个只读 channel。
// 缓冲 1024：按 10k ticks/s 估算可以吸收约 100ms 的处理延迟。
func (b *Broadcaster) Subscribe() <-chan tick.Tick {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan tick.Tick, 1024)
	b.subscribers = append(b.subscribers, ch)
	return ch
}

// Broadcast 把一个 tick 分发给所有订阅者；订阅者队列满了直接丢弃该订阅者
// 的这一条，绝不阻塞，也不影响其它订阅者。
func (b *Broadcaster) Broadcast(t tick.Tick) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subscribers {
		select {
		case ch <- t:
		default:
		}
	}
}

// Close 关闭所有订阅者的 channel 并清空订阅者列表。
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers {
		close(ch)
	}
	b.subscribers = nil
}
