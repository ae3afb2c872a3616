package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thenoetrevino/pasoboard/internal/events"
)

// ErrBrokerClosed is returned by a broker after Close
var ErrBrokerClosed = errors.New("broker closed")

// Broker carries board events between server instances.
// Every subscriber, including the publishing instance, receives every event.
type Broker interface {
	Publish(ctx context.Context, event events.Event) error
	Subscribe(ctx context.Context) (<-chan events.Event, error)
	Close() error
}

// LocalBroker fans events out inside a single process
type LocalBroker struct {
	mu     sync.Mutex
	subs   map[chan events.Event]struct{}
	buffer int
	closed bool
}

// NewLocalBroker creates an in-process broker whose subscriber queues hold buffer events
func NewLocalBroker(buffer int) *LocalBroker {
	if buffer <= 0 {
		buffer = 100
	}
	return &LocalBroker{
		subs:   make(map[chan events.Event]struct{}),
		buffer: buffer,
	}
}

// Publish delivers the event to every subscriber without blocking.
// Subscribers whose queue is full miss the event.
func (b *LocalBroker) Publish(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}

	for ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.Warn("broker subscriber queue full, event dropped", "board_id", event.BoardID)
		}
	}
	return nil
}

// Subscribe registers a subscriber until ctx is done
func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan events.Event, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}

	ch := make(chan events.Event, b.buffer)
	b.subs[ch] = struct{}{}

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
	}()

	return ch, nil
}

// Close ends every subscription
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for ch := range b.subs {
		delete(b.subs, ch)
		close(ch)
	}
	return nil
}

// DefaultRedisChannel is the pub/sub channel board events travel on
const DefaultRedisChannel = "pasoboard:events"

// RedisBroker fans events out across instances through Redis pub/sub
type RedisBroker struct {
	client  *redis.Client
	channel string
}

// NewRedisBroker connects to Redis and verifies the connection
func NewRedisBroker(redisURL string) (*RedisBroker, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisBrokerWithClient(client), nil
}

// NewRedisBrokerWithClient creates a broker from an existing Redis client
func NewRedisBrokerWithClient(client *redis.Client) *RedisBroker {
	return &RedisBroker{
		client:  client,
		channel: DefaultRedisChannel,
	}
}

// Publish sends the event to every instance subscribed to the channel
func (b *RedisBroker) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Subscribe returns once the subscription is confirmed by Redis.
// The channel is closed when ctx is done or the connection is closed.
func (b *RedisBroker) Subscribe(ctx context.Context) (<-chan events.Event, error) {
	pubsub := b.client.Subscribe(ctx, b.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	out := make(chan events.Event, 100)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var event events.Event
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Warn("discarding malformed broker message", "channel", msg.Channel, "error", err)
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// Ping checks the Redis connection
func (b *RedisBroker) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (b *RedisBroker) Close() error {
	return b.client.Close()
}
