// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/pool"
)

// Message is a pool event as received by a [WebSocketClient].
type Message struct {
	Pool  codec.Address   `json:"pool"`
	Type  string          `json:"type"`
	Event json.RawMessage `json:"event"`
}

// Decode returns the typed event carried by [m].
func (m *Message) Decode() (pool.Event, error) {
	var e pool.Event
	switch m.Type {
	case pool.EventName(pool.SwapEventID):
		e = &pool.SwapEvent{}
	case pool.EventName(pool.AddLiquidityEventID):
		e = &pool.AddLiquidityEvent{}
	case pool.EventName(pool.RemoveLiquidityEventID):
		e = &pool.RemoveLiquidityEvent{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, m.Type)
	}
	if err := json.Unmarshal(m.Event, e); err != nil {
		return nil, err
	}
	return e, nil
}

type WebSocketClient struct {
	conn *websocket.Conn
	rl   sync.Mutex
	cl   sync.Once
}

// NewWebSocketClient dials the event stream of the node at [uri].
func NewWebSocketClient(uri string) (*WebSocketClient, error) {
	uri = strings.TrimSuffix(uri, "/")
	uri = strings.Replace(uri, "http://", "ws://", 1)
	uri = strings.Replace(uri, "https://", "wss://", 1)
	conn, resp, err := websocket.DefaultDialer.Dial(uri+Endpoint, nil)
	if err != nil {
		return nil, err
	}
	// not using resp for now
	_ = resp.Body.Close()
	return &WebSocketClient{conn: conn}, nil
}

// Listen blocks until the next event arrives.
func (c *WebSocketClient) Listen() (*Message, error) {
	c.rl.Lock()
	defer c.rl.Unlock()

	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	m := &Message{}
	if err := json.Unmarshal(msg, m); err != nil {
		return nil, err
	}
	return m, nil
}

// Close closes [c]'s connection to the event stream.
func (c *WebSocketClient) Close() error {
	var err error
	c.cl.Do(func() {
		err = c.conn.Close()
	})
	return err
}
