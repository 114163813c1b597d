/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package router

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/ortuman/c2sgate/xmpp/jid"
	"github.com/stretchr/testify/require"
)

func TestRegistry_BindUnbind(t *testing.T) {
	reg := NewRegistry()

	j, _ := jid.Parse("alice@example.com/phone")
	require.Nil(t, reg.Bind(j))
	require.True(t, reg.IsBound(j))
	require.Equal(t, 1, reg.Count())

	j2, _ := jid.Parse("alice@example.com/phone")
	require.Equal(t, ErrConflict, reg.Bind(j2))

	j3, _ := jid.Parse("alice@example.com/laptop")
	require.Nil(t, reg.Bind(j3))
	require.Equal(t, 2, reg.Count())

	reg.Unbind(j)
	require.False(t, reg.IsBound(j))
	require.Nil(t, reg.Bind(j2))

	bare, _ := jid.Parse("alice@example.com")
	require.Equal(t, ErrNotFullJID, reg.Bind(bare))
}

func TestRegistry_CaseSensitive(t *testing.T) {
	reg := NewRegistry()

	j1, _ := jid.Parse("alice@example.com/phone")
	j2, _ := jid.Parse("Alice@example.com/phone")
	require.Nil(t, reg.Bind(j1))
	require.Nil(t, reg.Bind(j2))
}

func TestRegistry_ConcurrentBind(t *testing.T) {
	for i := 0; i < 50; i++ {
		reg := NewRegistry()

		var succeeded, conflicted int32
		var wg sync.WaitGroup
		start := make(chan struct{})
		for n := 0; n < 2; n++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				j, _ := jid.Parse("alice@example.com/phone")
				<-start
				switch reg.Bind(j) {
				case nil:
					atomic.AddInt32(&succeeded, 1)
				case ErrConflict:
					atomic.AddInt32(&conflicted, 1)
				}
			}()
		}
		close(start)
		wg.Wait()

		require.Equal(t, int32(1), succeeded)
		require.Equal(t, int32(1), conflicted)
	}
}
