// Package events fans generation lifecycle events out to connected clients,
// with optional Redis pub/sub so multiple instances share one feed.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event types emitted by the generation pipeline.
const (
	TypeGenerationStarted   = "generation.started"
	TypeGenerationCompleted = "generation.completed"
	TypeGenerationFailed    = "generation.failed"
	TypeCanvasCleared       = "canvas.cleared"
)

// Event is one lifecycle notification.
type Event struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	Generation uint64      `json:"generation,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       interface{} `json:"data,omitempty"`
}

// Bus multiplexes events to local subscribers and, when configured, Redis.
type Bus struct {
	client redis.UniversalClient
	ch     string

	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// Options configure the bus.
type Options struct {
	Client  redis.UniversalClient
	Channel string
}

// NewBus creates an event bus. A nil Redis client keeps the bus local-only.
func NewBus(opts Options) *Bus {
	channel := opts.Channel
	if channel == "" {
		channel = "ai-teacher-events"
	}
	bus := &Bus{
		client:      opts.Client,
		ch:          channel,
		subscribers: make(map[chan Event]struct{}),
	}
	if bus.client != nil {
		go bus.observeRedis()
	}
	return bus
}

// Publish broadcasts an event to all subscribers and Redis.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}

	if b.client != nil {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("marshal event: %w", err)
		}
		if err := b.client.Publish(ctx, b.ch, payload).Err(); err != nil {
			return fmt.Errorf("redis publish: %w", err)
		}
		// Redis subscribers (including this process) rebroadcast locally.
		return nil
	}

	b.broadcast(evt)
	return nil
}

// Subscribe registers a subscriber and returns its channel plus a cancel
// func. The channel closes when the context ends or cancel is called.
func (b *Bus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()

	return ch, cancel
}

func (b *Bus) broadcast(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
			log.Printf("events: dropping event %s (subscriber backlog)", evt.ID)
		}
	}
}

func (b *Bus) observeRedis() {
	ctx := context.Background()
	pubsub := b.client.Subscribe(ctx, b.ch)
	defer pubsub.Close()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			log.Printf("events: redis subscriber error: %v", err)
			time.Sleep(2 * time.Second)
			continue
		}

		var evt Event
		if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
			log.Printf("events: invalid payload: %v", err)
			continue
		}
		b.broadcast(evt)
	}
}
