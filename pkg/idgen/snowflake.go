// 文件: pkg/idgen/snowflake.go
// 雪花算法 ID 生成器
// 使用开源库: github.com/bwmarrin/snowflake
//
// 用于给 Intent / Event 打 ID，方便下游通过 ID 关联两者，
// 而不必在 goroutine 之间共享指针。

package idgen

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node     *snowflake.Node
	initOnce sync.Once
)

// Init 初始化雪花算法节点。
// nodeID: 节点 ID (0-1023)，多实例部署时每个实例必须不同。
func Init(nodeID int64) error {
	var err error
	initOnce.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// Next 生成下一个 ID。未显式 Init 时懒加载为节点 0。
func Next() int64 {
	if node == nil {
		_ = Init(0)
	}
	return node.Generate().Int64()
}
