package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// ScoresPublishedStream 评分发布事件流（下游报表/通知服务消费）
const ScoresPublishedStream = "kol360:scores:published"

// StreamPublisher Redis Streams 事件发布器
type StreamPublisher struct {
	c *redis.Client
}

func NewStreamPublisher(c *redis.Client) *StreamPublisher {
	return &StreamPublisher{c: c}
}

// PublishJSON 将事件 JSON 序列化后追加到指定 stream
func (p *StreamPublisher) PublishJSON(ctx context.Context, stream string, data any) (string, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return p.c.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]interface{}{
			"data":      string(jsonBytes),
			"timestamp": time.Now().Unix(),
		},
	}).Result()
}
