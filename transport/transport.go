/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"errors"
	"io"
	"net"
)

// ErrClosed is returned by Read once the transport has been closed locally.
var ErrClosed = errors.New("transport: closed")

// Type represents a stream transport type (socket).
type Type int

const (
	// Socket represents a socket transport type.
	Socket Type = iota + 1
)

// String returns Type string representation.
func (tt Type) String() string {
	switch tt {
	case Socket:
		return "socket"
	}
	return ""
}

// Transport represents a stream transport mechanism.
type Transport interface {
	io.ReadWriteCloser

	// Type returns transport type value.
	Type() Type

	// WriteString writes a raw string to the transport.
	WriteString(s string) (n int, err error)

	// RemoteAddr returns the remote peer network address.
	RemoteAddr() net.Addr
}
