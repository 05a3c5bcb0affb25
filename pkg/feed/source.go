// 文件: pkg/feed/source.go
// Source - 行情输入的统一抽象
//
// 三种实现：Generator（合成数据，可复现基准）、KafkaSource（生产环境接入，
// 套用 pkg/kafka 的消费者组模式）、SBEDecoder（二进制 tick 解码占位）。

package feed

import "github.com/azoz54321/ultra-fast-altbot-15ms/pkg/tick"

// Source 是任何能产出 tick 的数据源的统一接口。
// Run 阻塞运行直到数据耗尽或上游关闭，把 tick 推进 out。
type Source interface {
	Run(out chan<- tick.Tick) error
}
