/*
 * Copyright (c) 2018 Miguel Ángel Ortuño.
 * See the LICENSE file for more information.
 */

package transport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTypeStrings(t *testing.T) {
	require.Equal(t, "socket", Socket.String())
	require.Equal(t, "", Type(99).String())
}

func TestMockConn(t *testing.T) {
	mc := NewMockConn()

	_, _ = mc.Write([]byte("written"))
	require.Equal(t, "written", string(mc.ReadBytes()))
	require.Len(t, mc.ReadBytes(), 0)

	mc.SendString("0123456789")
	b := make([]byte, 4)
	n, err := mc.Read(b)
	require.Nil(t, err)
	require.Equal(t, "0123", string(b[:n]))
	n, _ = mc.Read(b)
	require.Equal(t, "4567", string(b[:n]))
	n, _ = mc.Read(b)
	require.Equal(t, "89", string(b[:n]))

	require.Nil(t, mc.SetReadDeadline(time.Now().Add(10*time.Millisecond)))
	_, err = mc.Read(b)
	require.True(t, isTimeout(err))

	require.Equal(t, mockConnNetwork, mc.LocalAddr().Network())
	require.Equal(t, mockConnRemoteAddr, mc.RemoteAddr().String())

	require.False(t, mc.WaitClose(time.Millisecond))
	_ = mc.Close()
	require.True(t, mc.IsClosed())
	require.True(t, mc.WaitClose(time.Millisecond))
}
