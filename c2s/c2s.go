/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package c2s

import (
	"context"
	"net"

	"github.com/ortuman/c2sgate/auth"
	"github.com/ortuman/c2sgate/router"
)

const (
	jabberClientNamespace = "jabber:client"
	streamNamespace       = "http://etherx.jabber.org/streams"
	bindNamespace         = "urn:ietf:params:xml:ns:xmpp-bind"
	sessionNamespace      = "urn:ietf:params:xml:ns:xmpp-session"
)

// C2S represents a client-to-server connection front door.
type C2S struct {
	srv *server
}

// New returns a new C2S instance serving the configured domains.
func New(cfg *Config, router *router.Router, authenticator auth.Authenticator) *C2S {
	return &C2S{
		srv: &server{
			cfg:           cfg,
			router:        router,
			authenticator: authenticator,
			streams:       make(map[string]*inStream),
		},
	}
}

// Start binds the configured listener address and begins accepting connections.
func (c *C2S) Start() error {
	return c.srv.start()
}

// Addr returns the listening network address, or nil when not started.
func (c *C2S) Addr() net.Addr {
	return c.srv.addr()
}

// StreamCount returns the number of active client streams.
func (c *C2S) StreamCount() int {
	return c.srv.streamCount()
}

// Shutdown closes the listener and disconnects every active stream.
func (c *C2S) Shutdown(ctx context.Context) error {
	return c.srv.shutdown(ctx)
}
