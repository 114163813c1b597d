/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package memorybus

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ortuman/c2sgate/bus"
	"github.com/ortuman/c2sgate/runqueue"
)

// Bus represents an in-process publish/subscribe bus.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*subscription
	seq    uint64
	closed bool
}

// New returns an empty in-memory bus.
func New() *Bus {
	return &Bus{subs: make(map[string]map[uint64]*subscription)}
}

// Publish sends a payload to every topic subscriber, including wildcard ones.
// Delivery is asynchronous and never blocks the publisher.
func (b *Bus) Publish(_ context.Context, topic string, payload []byte) error {
	msg := &bus.Message{
		Topic:   topic,
		Payload: append([]byte(nil), payload...),
	}
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return bus.ErrClosed
	}
	for _, sub := range b.subs[topic] {
		sub.deliver(msg)
	}
	if topic != bus.Wildcard {
		for _, sub := range b.subs[bus.Wildcard] {
			sub.deliver(msg)
		}
	}
	return nil
}

// Subscribe registers a handler for a given topic.
func (b *Bus) Subscribe(_ context.Context, topic string, h bus.Handler) (bus.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, bus.ErrClosed
	}
	b.seq++
	sub := &subscription{
		id:     b.seq,
		topic:  topic,
		b:      b,
		h:      h,
		active: 1,
		rq:     runqueue.New(fmt.Sprintf("bus:%s:%d", topic, b.seq)),
	}
	topicSubs := b.subs[topic]
	if topicSubs == nil {
		topicSubs = make(map[uint64]*subscription)
		b.subs[topic] = topicSubs
	}
	topicSubs[sub.id] = sub
	return sub, nil
}

// Close cancels every active subscription.
func (b *Bus) Close(_ context.Context) error {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[string]map[uint64]*subscription)
	b.closed = true
	b.mu.Unlock()

	for _, topicSubs := range subs {
		for _, sub := range topicSubs {
			sub.cancel()
		}
	}
	return nil
}

func (b *Bus) unsubscribe(sub *subscription) {
	b.mu.Lock()
	if topicSubs := b.subs[sub.topic]; topicSubs != nil {
		delete(topicSubs, sub.id)
		if len(topicSubs) == 0 {
			delete(b.subs, sub.topic)
		}
	}
	b.mu.Unlock()
}

type subscription struct {
	id     uint64
	topic  string
	b      *Bus
	h      bus.Handler
	active int32
	rq     *runqueue.RunQueue
}

func (s *subscription) Topic() string { return s.topic }

func (s *subscription) Unsubscribe() error {
	if atomic.LoadInt32(&s.active) == 0 {
		return nil
	}
	s.b.unsubscribe(s)
	s.cancel()
	return nil
}

func (s *subscription) deliver(msg *bus.Message) {
	s.rq.Run(func() {
		if atomic.LoadInt32(&s.active) == 1 {
			s.h(msg)
		}
	})
}

func (s *subscription) cancel() {
	if atomic.CompareAndSwapInt32(&s.active, 1, 0) {
		s.rq.Stop(nil)
	}
}
