// Package broker is an in-process pub/sub keyed by topic.
package broker

import "sync"

const defaultBuffer = 16

// Broker fans messages out to the subscribers of a topic. Publish never
// blocks: a subscriber whose buffer is full misses the message.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[string]map[chan T]struct{}
	buffer int
}

func New[T any]() *Broker[T] {
	return NewWithBuffer[T](defaultBuffer)
}

func NewWithBuffer[T any](buffer int) *Broker[T] {
	return &Broker[T]{
		subs:   make(map[string]map[chan T]struct{}),
		buffer: max(buffer, 1),
	}
}

// Subscribe returns a channel that receives messages published on topic.
func (b *Broker[T]) Subscribe(topic string) chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[chan T]struct{})
	}
	b.subs[topic][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the topic's subscribers.
func (b *Broker[T]) Unsubscribe(topic string, ch chan T) {
	b.mu.Lock()
	delete(b.subs[topic], ch)
	if len(b.subs[topic]) == 0 {
		delete(b.subs, topic)
	}
	b.mu.Unlock()
}

// Publish sends msg to all subscribers of topic.
func (b *Broker[T]) Publish(topic string, msg T) {
	b.mu.RLock()
	for ch := range b.subs[topic] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

// Subscribers reports how many channels listen on topic.
func (b *Broker[T]) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
