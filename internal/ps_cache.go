package internal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const CHANNEL_EVENTS = "PROPT_EVENTS"

type EventMessage struct {
	Type      string `json:"type"`
	Payload   string `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// RedisPublisher publishes lifecycle events to redis pub/sub as JSON.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: CHANNEL_EVENTS}
}

func (p *RedisPublisher) Publish(ctx context.Context, messageType, payload string) error {
	messageJSON, err := json.Marshal(EventMessage{
		Type:      messageType,
		Payload:   payload,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	return errors.Wrapf(p.rdb.Publish(ctx, p.channel, string(messageJSON)).Err(), "publish %s", messageType)
}
