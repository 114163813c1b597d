/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"bytes"
	"io"
	"net"
	"sync"
	"time"
)

const mockConnNetwork = "tcp"

const (
	mockConnLocalAddr  = "10.188.17.228:5222"
	mockConnRemoteAddr = "77.230.105.223:52144"
)

type mockAddress struct {
	network string
	str     string
}

func (ma *mockAddress) Network() string { return ma.network }
func (ma *mockAddress) String() string  { return ma.str }

type mockTimeoutError struct{}

func (mockTimeoutError) Error() string   { return "mock conn: i/o timeout" }
func (mockTimeoutError) Timeout() bool   { return true }
func (mockTimeoutError) Temporary() bool { return true }

// MockConn represents a net.Conn mocked implementation.
// Inbound data is injected with SendBytes/SendString, and everything written
// to the connection can be retrieved with ReadBytes.
type MockConn struct {
	readCh  chan []byte
	pending []byte
	closeCh chan struct{}

	mu           sync.Mutex
	wb           bytes.Buffer
	readDeadline time.Time
	closed       bool
}

// NewMockConn returns a new initialized MockConn instance.
func NewMockConn() *MockConn {
	return &MockConn{
		readCh:  make(chan []byte, 256),
		closeCh: make(chan struct{}),
	}
}

// Read performs a read operation on the mocked connection.
func (mc *MockConn) Read(b []byte) (n int, err error) {
	if len(mc.pending) > 0 {
		n = copy(b, mc.pending)
		mc.pending = mc.pending[n:]
		return n, nil
	}
	mc.mu.Lock()
	deadline := mc.readDeadline
	mc.mu.Unlock()

	var timeoutCh <-chan time.Time
	if !deadline.IsZero() {
		tm := time.NewTimer(time.Until(deadline))
		defer tm.Stop()
		timeoutCh = tm.C
	}
	select {
	case p := <-mc.readCh:
		n = copy(b, p)
		mc.pending = p[n:]
		return n, nil
	case <-mc.closeCh:
		return 0, io.EOF
	case <-timeoutCh:
		return 0, mockTimeoutError{}
	}
}

// SendBytes sets next read operation content.
func (mc *MockConn) SendBytes(b []byte) {
	p := make([]byte, len(b))
	copy(p, b)
	mc.readCh <- p
}

// SendString sets next read operation content.
func (mc *MockConn) SendString(s string) {
	mc.readCh <- []byte(s)
}

// Write performs a write operation on the mocked connection.
func (mc *MockConn) Write(b []byte) (n int, err error) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if mc.closed {
		return 0, io.ErrClosedPipe
	}
	return mc.wb.Write(b)
}

// ReadBytes retrieves and consumes all bytes written so far.
func (mc *MockConn) ReadBytes() []byte {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	b := make([]byte, mc.wb.Len())
	copy(b, mc.wb.Bytes())
	mc.wb.Reset()
	return b
}

// Close marks mocked connection as closed.
func (mc *MockConn) Close() error {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	if !mc.closed {
		mc.closed = true
		close(mc.closeCh)
	}
	return nil
}

// WaitClose waits until the mocked connection closes or the timeout fires,
// reporting whether the connection got closed.
func (mc *MockConn) WaitClose(timeout time.Duration) bool {
	select {
	case <-mc.closeCh:
		return true
	case <-time.After(timeout):
		return false
	}
}

// IsClosed returns whether or not the mocked connection has been closed.
func (mc *MockConn) IsClosed() bool {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	return mc.closed
}

// LocalAddr returns a mocked local address.
func (mc *MockConn) LocalAddr() net.Addr {
	return &mockAddress{network: mockConnNetwork, str: mockConnLocalAddr}
}

// RemoteAddr returns a mocked remote address.
func (mc *MockConn) RemoteAddr() net.Addr {
	return &mockAddress{network: mockConnNetwork, str: mockConnRemoteAddr}
}

// SetDeadline satisfies net.Conn interface.
func (mc *MockConn) SetDeadline(t time.Time) error {
	return mc.SetReadDeadline(t)
}

// SetReadDeadline satisfies net.Conn interface.
func (mc *MockConn) SetReadDeadline(t time.Time) error {
	mc.mu.Lock()
	mc.readDeadline = t
	mc.mu.Unlock()
	return nil
}

// SetWriteDeadline satisfies net.Conn interface.
func (mc *MockConn) SetWriteDeadline(t time.Time) error {
	return nil
}
