// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, url string) *websocket.Conn {
	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(url, "http"), nil)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return conn
}

// TestServerPublish adds a connection to a server then publishes a msg to
// be sent to all connections. Checks the message was delivered properly
// and the connection is properly handled when closed.
func TestServerPublish(t *testing.T) {
	require := require.New(t)

	server := New(logging.NoLog{}, NewDefaultServerConfig())
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	conn := dial(t, httpServer.URL)
	require.Eventually(func() bool {
		return server.Len() == 1
	}, time.Second, 10*time.Millisecond)

	require.Equal(1, server.Publish([]byte("dummy_msg")))
	_, msg, err := conn.ReadMessage()
	require.NoError(err)
	require.Equal([]byte("dummy_msg"), msg)

	require.NoError(conn.Close())
	require.Eventually(func() bool {
		return server.Len() == 0
	}, time.Second, 10*time.Millisecond)
	require.Zero(server.Publish([]byte("dummy_msg")))
}

func TestServerClose(t *testing.T) {
	require := require.New(t)

	server := New(logging.NoLog{}, NewDefaultServerConfig())
	httpServer := httptest.NewServer(server)
	defer httpServer.Close()

	conn := dial(t, httpServer.URL)
	defer conn.Close()
	require.Eventually(func() bool {
		return server.Len() == 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(server.Close())
	_, _, err := conn.ReadMessage()
	require.True(websocket.IsCloseError(err, websocket.CloseNormalClosure))
	require.Eventually(func() bool {
		return server.Len() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestConnectionBacklog(t *testing.T) {
	require := require.New(t)

	config := NewDefaultServerConfig()
	config.MaxPendingMessages = 1
	server := New(logging.NoLog{}, config)
	c := &Connection{
		s:    server,
		send: make(chan []byte, config.MaxPendingMessages),
	}

	require.True(c.Send([]byte{1}))
	require.False(c.Send([]byte{2}))
	c.deactivate()
	require.False(c.Send([]byte{3}))
	// Deactivating twice is a no-op
	c.deactivate()
}
