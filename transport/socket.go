/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"io"
	"net"
	"sync/atomic"
	"time"
)

const (
	defaultPollInterval = 100 * time.Millisecond
	defaultWriteTimeout = 10 * time.Second
)

// SocketConfig defines socket transport timing parameters.
type SocketConfig struct {
	// KeepAlive is the maximum amount of time a read can remain idle.
	// Zero disables the idle bound.
	KeepAlive time.Duration

	// PollInterval is the read timeout used to observe local shutdown between reads.
	PollInterval time.Duration

	// WriteTimeout bounds every write operation.
	WriteTimeout time.Duration
}

type socketTransport struct {
	conn         net.Conn
	keepAlive    time.Duration
	pollInterval time.Duration
	writeTimeout time.Duration
	closed       uint32
}

// NewSocketTransport creates a socket class stream transport.
func NewSocketTransport(conn net.Conn, cfg SocketConfig) Transport {
	s := &socketTransport{
		conn:         conn,
		keepAlive:    cfg.KeepAlive,
		pollInterval: cfg.PollInterval,
		writeTimeout: cfg.WriteTimeout,
	}
	if s.pollInterval <= 0 {
		s.pollInterval = defaultPollInterval
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = defaultWriteTimeout
	}
	return s
}

func (s *socketTransport) Type() Type {
	return Socket
}

// Read reads from the underlying socket using short timeouts, so that a local
// close is noticed between reads. An idle period longer than the keep alive
// interval is reported as a timeout error.
func (s *socketTransport) Read(p []byte) (int, error) {
	var idleDeadline time.Time
	if s.keepAlive > 0 {
		idleDeadline = time.Now().Add(s.keepAlive)
	}
	for {
		if atomic.LoadUint32(&s.closed) == 1 {
			return 0, ErrClosed
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(s.pollInterval))
		n, err := s.conn.Read(p)
		if n == 0 && isTimeout(err) {
			if !idleDeadline.IsZero() && time.Now().After(idleDeadline) {
				return 0, err
			}
			continue
		}
		if err != nil && atomic.LoadUint32(&s.closed) == 1 {
			return n, ErrClosed
		}
		if isTimeout(err) {
			err = nil
		}
		return n, err
	}
}

func (s *socketTransport) Write(p []byte) (int, error) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.Write(p)
}

func (s *socketTransport) WriteString(str string) (int, error) {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return io.WriteString(s.conn, str)
}

func (s *socketTransport) Close() error {
	if !atomic.CompareAndSwapUint32(&s.closed, 0, 1) {
		return nil
	}
	return s.conn.Close()
}

func (s *socketTransport) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func isTimeout(err error) bool {
	netErr, ok := err.(net.Error)
	return ok && netErr.Timeout()
}
