package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/vncsmyrnk/fanvote/internal/core/ports"
)

const DefaultChannel = "fanvote:events"

// Broadcaster delivers an encoded event to the clients of this process.
type Broadcaster interface {
	Broadcast(room, event string, data json.RawMessage)
}

type message struct {
	Room  string          `json:"room"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// RedisNotifier fans events out through a Redis channel so that every server
// process relays them to its own WebSocket clients.
type RedisNotifier struct {
	client  *redis.Client
	channel string
	local   Broadcaster
	log     logrus.FieldLogger
}

var _ ports.Notifier = (*RedisNotifier)(nil)

func NewRedisNotifier(client *redis.Client, channel string, local Broadcaster, log logrus.FieldLogger) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{
		client:  client,
		channel: channel,
		local:   local,
		log:     log,
	}
}

func (n *RedisNotifier) Publish(ctx context.Context, room, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	body, err := json.Marshal(message{Room: room, Event: event, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode %s message: %w", event, err)
	}

	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event, err)
	}
	return nil
}

// Run relays channel messages to the local broadcaster until ctx is done.
func (n *RedisNotifier) Run(ctx context.Context) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var m message
			if err := json.Unmarshal([]byte(msg.Payload), &m); err != nil {
				n.log.WithError(err).Warn("discarding malformed event")
				continue
			}
			n.local.Broadcast(m.Room, m.Event, m.Data)
		}
	}
}
