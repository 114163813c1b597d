/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package memorybus

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/ortuman/c2sgate/bus"
	"github.com/stretchr/testify/require"
)

type collector struct {
	mu   sync.Mutex
	msgs []*bus.Message
}

func (c *collector) handle(msg *bus.Message) {
	c.mu.Lock()
	c.msgs = append(c.msgs, msg)
	c.mu.Unlock()
}

func (c *collector) payloads() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	var ret []string
	for _, m := range c.msgs {
		ret = append(ret, string(m.Payload))
	}
	return ret
}

func (c *collector) waitCount(n int) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		c.mu.Lock()
		l := len(c.msgs)
		c.mu.Unlock()
		if l >= n {
			return true
		}
		time.Sleep(time.Millisecond * 5)
	}
	return false
}

func TestBus_PublishSubscribe(t *testing.T) {
	b := New()
	ctx := context.Background()

	c1, c2 := &collector{}, &collector{}
	s1, err := b.Subscribe(ctx, "alice@example.com", c1.handle)
	require.Nil(t, err)
	require.Equal(t, "alice@example.com", s1.Topic())
	_, err = b.Subscribe(ctx, "alice@example.com", c2.handle)
	require.Nil(t, err)

	payload := []byte("<message to='bob@example.com'/>")
	require.Nil(t, b.Publish(ctx, "alice@example.com", payload))
	require.Nil(t, b.Publish(ctx, "bob@example.com", []byte("<presence/>")))

	require.True(t, c1.waitCount(1))
	require.True(t, c2.waitCount(1))

	// give time for unexpected extra deliveries
	time.Sleep(time.Millisecond * 20)
	require.Equal(t, []string{string(payload)}, c1.payloads())
	require.Equal(t, []string{string(payload)}, c2.payloads())
	require.Equal(t, "alice@example.com", c1.msgs[0].Topic)
}

func TestBus_Ordering(t *testing.T) {
	b := New()
	ctx := context.Background()

	c := &collector{}
	_, _ = b.Subscribe(ctx, "t", c.handle)

	var expected []string
	for i := 0; i < 1000; i++ {
		p := strconv.Itoa(i)
		expected = append(expected, p)
		require.Nil(t, b.Publish(ctx, "t", []byte(p)))
	}
	require.True(t, c.waitCount(1000))
	require.Equal(t, expected, c.payloads())
}

func TestBus_PayloadCopy(t *testing.T) {
	b := New()
	ctx := context.Background()

	c := &collector{}
	_, _ = b.Subscribe(ctx, "t", c.handle)

	p := []byte("abc")
	_ = b.Publish(ctx, "t", p)
	p[0] = 'x'

	require.True(t, c.waitCount(1))
	require.Equal(t, []string{"abc"}, c.payloads())
}

func TestBus_Wildcard(t *testing.T) {
	b := New()
	ctx := context.Background()

	c := &collector{}
	_, _ = b.Subscribe(ctx, bus.Wildcard, c.handle)

	_ = b.Publish(ctx, "alice@example.com", []byte("a"))
	_ = b.Publish(ctx, "bob@example.com", []byte("b"))

	require.True(t, c.waitCount(2))
	require.Equal(t, []string{"a", "b"}, c.payloads())
}

func TestBus_Unsubscribe(t *testing.T) {
	b := New()
	ctx := context.Background()

	c := &collector{}
	sub, _ := b.Subscribe(ctx, "t", c.handle)
	_ = b.Publish(ctx, "t", []byte("1"))
	require.True(t, c.waitCount(1))

	require.Nil(t, sub.Unsubscribe())
	require.Nil(t, sub.Unsubscribe())

	_ = b.Publish(ctx, "t", []byte("2"))
	time.Sleep(time.Millisecond * 20)
	require.Equal(t, []string{"1"}, c.payloads())

	b.mu.RLock()
	require.Equal(t, 0, len(b.subs))
	b.mu.RUnlock()
}

func TestBus_Close(t *testing.T) {
	b := New()
	ctx := context.Background()

	c := &collector{}
	sub, _ := b.Subscribe(ctx, "t", c.handle)
	require.Nil(t, b.Close(ctx))

	require.Equal(t, bus.ErrClosed, b.Publish(ctx, "t", []byte("1")))
	_, err := b.Subscribe(ctx, "t", c.handle)
	require.Equal(t, bus.ErrClosed, err)
	require.Nil(t, sub.Unsubscribe())
}
