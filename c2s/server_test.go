/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/ortuman/c2sgate/auth"
	"github.com/ortuman/c2sgate/xmpp"
	"github.com/stretchr/testify/require"
)

func TestC2SSocketServer(t *testing.T) {
	r, _, _ := setupTest()

	cfg := Config{
		ID:             "srv-1234",
		Domains:        []string{"localhost"},
		ConnectTimeout: time.Second * 5,
		KeepAlive:      time.Second * 10,
		MaxStanzaSize:  8192,
		MaxConnections: 4,
		Transport: TransportConfig{
			BindAddress: "127.0.0.1",
			Port:        0,
		},
	}
	authr, err := auth.New([]string{"plain"}, auth.AllowAll)
	require.Nil(t, err)

	c := New(&cfg, r, authr)
	require.Nil(t, c.Addr())
	require.Nil(t, c.Start())
	require.NotNil(t, c.Addr())

	conn, err := net.Dial("tcp", c.Addr().String())
	require.Nil(t, err)
	defer conn.Close()

	_ = conn.SetDeadline(time.Now().Add(time.Second * 5))
	_, err = conn.Write([]byte(`<?xml version="1.0"?><stream:stream xmlns="jabber:client" xmlns:stream="http://etherx.jabber.org/streams" to="localhost" version="1.0">`))
	require.Nil(t, err)

	p := xmpp.NewParser(conn, xmpp.SocketStream, 0)
	elem := tUtilParseNext(t, p)
	require.Equal(t, xmpp.StreamName, elem.Name())
	elem = tUtilParseNext(t, p)
	require.Equal(t, "stream:features", elem.Name())

	require.Equal(t, 1, c.StreamCount())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	require.Nil(t, c.Shutdown(ctx))

	elem = tUtilParseNext(t, p)
	require.Equal(t, "stream:error", elem.Name())
	require.Equal(t, "system-shutdown", elem.Elements().First().Name())

	_, err = p.ParseElement()
	require.Equal(t, xmpp.ErrStreamClosedByPeer, err)

	require.Equal(t, 0, c.StreamCount())

	// shutting down twice is a no-op
	require.Nil(t, c.Shutdown(ctx))
}

func TestC2SListenerFailure(t *testing.T) {
	r, _, _ := setupTest()

	prev := listenerProvider
	defer func() { listenerProvider = prev }()

	listenerProvider = func(_, _ string) (net.Listener, error) {
		return nil, errors.New("c2s: address already in use")
	}
	c := New(&Config{ID: "srv-1234", Domains: []string{"localhost"}}, r, nil)
	require.NotNil(t, c.Start())
	require.Nil(t, c.Addr())
}

func tUtilParseNext(t *testing.T, p *xmpp.Parser) xmpp.XElement {
	for {
		elem, err := p.ParseElement()
		require.Nil(t, err)
		if elem != nil {
			return elem
		}
	}
}
