/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package natsbus

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/ortuman/c2sgate/bus"
	"github.com/ortuman/c2sgate/log"
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"
)

// Bus represents a NATS backed publish/subscribe bus.
//
// Topics are mapped into subjects by base64 encoding them under a common prefix,
// so that any topic string, dots included, lands on a single subject token.
type Bus struct {
	conn     *nats.Conn
	prefix   string
	cb       *gobreaker.CircuitBreaker
	closedCh chan struct{}
	once     sync.Once
}

// New connects to a NATS server returning the resulting bus.
func New(cfg *bus.NATSConfig) (*Bus, error) {
	b := &Bus{
		prefix:   cfg.SubjectPrefix,
		closedCh: make(chan struct{}),
	}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name: "nats-publish",
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warnf("%s: circuit breaker state changed from %s to %s", name, from, to)
		},
	})
	opts := []nats.Option{
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DrainTimeout(cfg.DrainTimeout),
		nats.DisconnectErrHandler(b.handleDisconnect),
		nats.ReconnectHandler(b.handleReconnect),
		nats.ClosedHandler(b.handleClosed),
	}
	if len(cfg.Name) > 0 {
		opts = append(opts, nats.Name(cfg.Name))
	}
	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "natsbus: connect")
	}
	b.conn = conn
	log.Infof("natsbus: connected to %s", conn.ConnectedUrl())
	return b, nil
}

// Channel returns a view of the bus whose subjects live under the name token.
// Views share the parent connection, so only the parent needs to be closed.
func (b *Bus) Channel(name string) *Bus {
	return &Bus{
		conn:     b.conn,
		prefix:   b.prefix + "." + name,
		cb:       b.cb,
		closedCh: b.closedCh,
	}
}

// Publish sends a payload to every topic subscriber.
func (b *Bus) Publish(_ context.Context, topic string, payload []byte) error {
	subj := b.subject(topic)
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.conn.Publish(subj, payload)
	})
	if err == nats.ErrConnectionClosed {
		return bus.ErrClosed
	}
	return err
}

// Subscribe registers a handler for a given topic.
func (b *Bus) Subscribe(_ context.Context, topic string, h bus.Handler) (bus.Subscription, error) {
	ns, err := b.conn.Subscribe(b.subject(topic), func(m *nats.Msg) {
		t, err := b.topic(m.Subject)
		if err != nil {
			log.Warnf("natsbus: discarding message on subject %s: %v", m.Subject, err)
			return
		}
		h(&bus.Message{Topic: t, Payload: m.Data})
	})
	if err != nil {
		if err == nats.ErrConnectionClosed {
			return nil, bus.ErrClosed
		}
		return nil, err
	}
	// never drop messages for slow consumers
	if err := ns.SetPendingLimits(-1, -1); err != nil {
		_ = ns.Unsubscribe()
		return nil, err
	}
	return &subscription{topic: topic, ns: ns}, nil
}

// Close drains the underlying connection.
func (b *Bus) Close(ctx context.Context) error {
	if err := b.conn.Drain(); err != nil {
		b.conn.Close()
		if err == nats.ErrConnectionClosed {
			return nil
		}
		return err
	}
	select {
	case <-b.closedCh:
		return nil
	case <-ctx.Done():
		b.conn.Close()
		return ctx.Err()
	}
}

func (b *Bus) subject(topic string) string {
	if topic == bus.Wildcard {
		return b.prefix + ".>"
	}
	return b.prefix + "." + base64.RawURLEncoding.EncodeToString([]byte(topic))
}

func (b *Bus) topic(subject string) (string, error) {
	enc := strings.TrimPrefix(subject, b.prefix+".")
	t, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", err
	}
	return string(t), nil
}

func (b *Bus) handleDisconnect(_ *nats.Conn, err error) {
	if err != nil {
		log.Warnf("natsbus: disconnected: %v", err)
	}
}

func (b *Bus) handleReconnect(c *nats.Conn) {
	log.Infof("natsbus: reconnected to %s", c.ConnectedUrl())
}

func (b *Bus) handleClosed(_ *nats.Conn) {
	b.once.Do(func() { close(b.closedCh) })
}

type subscription struct {
	topic string
	ns    *nats.Subscription
}

func (s *subscription) Topic() string { return s.topic }

func (s *subscription) Unsubscribe() error {
	err := s.ns.Unsubscribe()
	if err == nats.ErrBadSubscription || err == nats.ErrConnectionClosed {
		return nil
	}
	return err
}
