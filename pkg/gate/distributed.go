// 文件: pkg/gate/distributed.go
// DistributedMirror - 把全局 kill switch 状态镜像到 Redis
//
// 套用 alert.RedisSubscriptionManager 的客户端构造方式（go-redis/v9 +
// context-aware 调用），但这里的场景更简单：kill switch 是进程间需要
// 一致生效的单一布尔量，用 Pub/Sub 广播 + 一个持久化 key 做新订阅者的
// 初始状态读取，而不需要 Lua 脚本。

package gate

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const (
	killSwitchKey     = "altbot:kill_switch"
	killSwitchChannel = "altbot:kill_switch:changes"
)

// DistributedMirror 把一个 Gate 的 can_buy 状态和 Redis 中的共享状态对齐。
type DistributedMirror struct {
	client *redis.Client
	gate   *Gate
}

// NewDistributedMirror 连接到给定 Redis 地址。
func NewDistributedMirror(addr string, g *Gate) *DistributedMirror {
	client := redis.NewClient(&redis.Options{Addr: addr})
	return &DistributedMirror{client: client, gate: g}
}

// PublishCanBuy 把本地的 can_buy 变更广播给其它实例，并持久化当前值，
// 供新启动的实例读取初始状态。
func (m *DistributedMirror) PublishCanBuy(ctx context.Context, canBuy bool) error {
	val := "0"
	if canBuy {
		val = "1"
	}
	if err := m.client.Set(ctx, killSwitchKey, val, 0).Err(); err != nil {
		return err
	}
	return m.client.Publish(ctx, killSwitchChannel, val).Err()
}

// LoadInitial 从 Redis 读取当前共享的 kill switch 状态并应用到本地 Gate。
// key 不存在时保持 Gate 当前状态不变。
func (m *DistributedMirror) LoadInitial(ctx context.Context) error {
	val, err := m.client.Get(ctx, killSwitchKey).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return err
	}
	m.gate.SetCanBuy(val == "1")
	return nil
}

// Watch 订阅其它实例的 kill switch 变更并应用到本地 Gate，
// 阻塞直到 ctx 被取消。
func (m *DistributedMirror) Watch(ctx context.Context) error {
	sub := m.client.Subscribe(ctx, killSwitchChannel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			canBuy, err := strconv.ParseBool(translateFlag(msg.Payload))
			if err != nil {
				continue // 忽略畸形消息，保留上一个有效状态
			}
			m.gate.SetCanBuy(canBuy)
		}
	}
}

func translateFlag(payload string) string {
	if payload == "1" {
		return "true"
	}
	return "false"
}

// Close 关闭底层 Redis 连接。
func (m *DistributedMirror) Close() error {
	return m.client.Close()
}
