/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package bus

import (
	"context"
	"errors"
)

// Wildcard is a topic matching every published message.
const Wildcard = "*"

// ErrClosed is returned when operating over a closed bus.
var ErrClosed = errors.New("bus: closed")

// Message represents a bus delivery.
type Message struct {
	Topic   string
	Payload []byte
}

// Handler is invoked once per delivered message.
// Handlers of a single subscription are never run concurrently.
type Handler func(msg *Message)

// Subscription represents an active topic subscription.
type Subscription interface {
	// Topic returns the subscription topic.
	Topic() string

	// Unsubscribe stops message delivery.
	// Messages not yet handled at the time of the call are discarded.
	Unsubscribe() error
}

// Bus represents a topic based publish/subscribe fabric.
//
// Every message published under a topic is delivered exactly once, in publication order,
// to every subscription on that topic existing at publish time.
type Bus interface {
	// Publish sends a payload to every topic subscriber.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe registers a handler for a given topic.
	Subscribe(ctx context.Context, topic string, h Handler) (Subscription, error)

	// Close shuts down the bus.
	Close(ctx context.Context) error
}
