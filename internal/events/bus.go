package events

import (
	"sync"
	"time"
)

// Topics broadcast by the workflow and resource services. Any mounted
// consumer (websocket hub, another service) may subscribe and trigger its own
// refetch.
const (
	TopicOrdersUpdated        = "orders:updated"
	TopicNotificationsUpdated = "notifications:updated"
)

type Event struct {
	Topic   string      `json:"event"`
	At      time.Time   `json:"at"`
	Payload interface{} `json:"payload,omitempty"`
}

// Bus is a small in-process pub/sub channel. Publishing never blocks; a
// subscriber that stops draining its channel just misses events, which is
// acceptable for refresh signals.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]chan Event
	all  []chan Event
}

func NewBus() *Bus {
	return &Bus{subs: make(map[string][]chan Event)}
}

func (b *Bus) Subscribe(topic string) <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], ch)
	b.mu.Unlock()
	return ch
}

// SubscribeAll receives every topic. Used by the websocket hub.
func (b *Bus) SubscribeAll() <-chan Event {
	ch := make(chan Event, 16)
	b.mu.Lock()
	b.all = append(b.all, ch)
	b.mu.Unlock()
	return ch
}

func (b *Bus) Publish(topic string, payload interface{}) {
	event := Event{Topic: topic, At: time.Now(), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- event:
		default:
		}
	}
	for _, ch := range b.all {
		select {
		case ch <- event:
		default:
		}
	}
}
