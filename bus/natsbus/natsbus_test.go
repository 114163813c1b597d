/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package natsbus

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ortuman/c2sgate/bus"
	"github.com/stretchr/testify/require"
)

func TestBus_SubjectMapping(t *testing.T) {
	b := &Bus{prefix: "c2sgate"}

	subj := b.subject("alice@example.com/phone 1")
	require.True(t, strings.HasPrefix(subj, "c2sgate."))
	require.Equal(t, 1, strings.Count(subj, "."))
	require.False(t, strings.ContainsAny(subj, " */>"))

	topic, err := b.topic(subj)
	require.Nil(t, err)
	require.Equal(t, "alice@example.com/phone 1", topic)

	require.Equal(t, "c2sgate.>", b.subject(bus.Wildcard))

	_, err = b.topic("c2sgate.!!")
	require.NotNil(t, err)
}

func TestBus_Channel(t *testing.T) {
	b := &Bus{prefix: "c2sgate"}

	ingress := b.Channel("stanzas")
	delivery := b.Channel("deliveries")

	subj := ingress.subject("alice@example.com")
	require.True(t, strings.HasPrefix(subj, "c2sgate.stanzas."))
	require.NotEqual(t, subj, delivery.subject("alice@example.com"))

	topic, err := ingress.topic(subj)
	require.Nil(t, err)
	require.Equal(t, "alice@example.com", topic)

	require.Equal(t, "c2sgate.stanzas.>", ingress.subject(bus.Wildcard))
}

func TestBus_PublishSubscribe(t *testing.T) {
	url := os.Getenv("NATS_URL")
	if len(url) == 0 {
		t.Skip("NATS_URL not set")
	}
	cfg := &bus.NATSConfig{
		URL:           url,
		SubjectPrefix: "c2sgate-test",
		ReconnectWait: time.Second,
		MaxReconnects: 1,
		DrainTimeout:  time.Second,
	}
	b, err := New(cfg)
	require.Nil(t, err)

	ctx := context.Background()

	ch := make(chan *bus.Message, 16)
	wch := make(chan *bus.Message, 16)

	sub, err := b.Subscribe(ctx, "alice@example.com", func(msg *bus.Message) { ch <- msg })
	require.Nil(t, err)
	_, err = b.Subscribe(ctx, bus.Wildcard, func(msg *bus.Message) { wch <- msg })
	require.Nil(t, err)

	require.Nil(t, b.Publish(ctx, "alice@example.com", []byte("1")))
	require.Nil(t, b.Publish(ctx, "alice@example.com", []byte("2")))

	for _, expected := range []string{"1", "2"} {
		select {
		case msg := <-ch:
			require.Equal(t, "alice@example.com", msg.Topic)
			require.Equal(t, expected, string(msg.Payload))
		case <-time.After(time.Second * 2):
			require.Fail(t, "message not delivered")
		}
		select {
		case msg := <-wch:
			require.Equal(t, expected, string(msg.Payload))
		case <-time.After(time.Second * 2):
			require.Fail(t, "message not delivered to wildcard subscriber")
		}
	}
	require.Nil(t, sub.Unsubscribe())

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	require.Nil(t, b.Close(ctx))
}
