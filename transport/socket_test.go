/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSocket_ReadWrite(t *testing.T) {
	conn := NewMockConn()
	st := NewSocketTransport(conn, SocketConfig{PollInterval: 5 * time.Millisecond})
	require.Equal(t, Socket, st.Type())
	require.Equal(t, mockConnRemoteAddr, st.RemoteAddr().String())

	_, err := st.WriteString("<presence/>")
	require.Nil(t, err)
	_, err = st.Write([]byte("<message/>"))
	require.Nil(t, err)
	require.Equal(t, "<presence/><message/>", string(conn.ReadBytes()))

	// data arriving after several poll intervals is still read
	go func() {
		time.Sleep(30 * time.Millisecond)
		conn.SendString("<iq/>")
	}()
	buf := make([]byte, 64)
	n, err := st.Read(buf)
	require.Nil(t, err)
	require.Equal(t, "<iq/>", string(buf[:n]))
}

func TestSocket_KeepAlive(t *testing.T) {
	conn := NewMockConn()
	st := NewSocketTransport(conn, SocketConfig{
		KeepAlive:    30 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	buf := make([]byte, 64)
	_, err := st.Read(buf)
	require.NotNil(t, err)
	require.True(t, isTimeout(err))
}

func TestSocket_CloseWhileReading(t *testing.T) {
	conn := NewMockConn()
	st := NewSocketTransport(conn, SocketConfig{PollInterval: 5 * time.Millisecond})

	errCh := make(chan error, 1)
	go func() {
		buf := make([]byte, 64)
		_, err := st.Read(buf)
		errCh <- err
	}()
	time.Sleep(20 * time.Millisecond)
	require.Nil(t, st.Close())
	require.True(t, conn.IsClosed())

	select {
	case err := <-errCh:
		require.True(t, err == ErrClosed || err == io.EOF)
	case <-time.After(time.Second):
		require.Fail(t, "read did not return after close")
	}
	require.Nil(t, st.Close())
}
