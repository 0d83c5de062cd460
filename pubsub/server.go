// Copyright (C) 2019-2022, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"net/http"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/ava-labs/avalanchego/utils/set"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type ServerConfig struct {
	ReadBufferSize     int
	WriteBufferSize    int
	MaxPendingMessages int
	MaxReadMessageSize int64
	// Time allowed to write a message to the peer.
	WriteWait time.Duration
	// Time allowed to read the next pong message from the peer.
	PongWait time.Duration
	// Send pings to peer with this period. Must be less than PongWait.
	PingPeriod time.Duration
}

func NewDefaultServerConfig() ServerConfig {
	const pongWait = 60 * time.Second
	return ServerConfig{
		ReadBufferSize:     units.KiB,
		WriteBufferSize:    units.KiB,
		MaxPendingMessages: 1024,
		MaxReadMessageSize: units.KiB,
		WriteWait:          10 * time.Second,
		PongWait:           pongWait,
		PingPeriod:         (pongWait * 9) / 10,
	}
}

// Server maintains the set of active clients and sends messages to the
// clients. It only publishes: anything a client sends is discarded.
//
// Mount the server on an http.ServeMux and connect with
// websocket.DefaultDialer.Dial().
type Server struct {
	log      logging.Logger
	config   ServerConfig
	upgrader websocket.Upgrader

	lock   sync.RWMutex
	conns  set.Set[*Connection]
	closed bool
}

func New(log logging.Logger, config ServerConfig) *Server {
	return &Server{
		log:    log,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},
	}
}

// ServeHTTP adds a connection to the server, and starts go routines for
// reading and writing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	wsConn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("failed to upgrade",
			zap.Error(err),
		)
		return
	}
	conn := &Connection{
		s:    s,
		conn: wsConn,
		send: make(chan []byte, s.config.MaxPendingMessages),
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		_ = wsConn.Close()
		return
	}
	s.conns.Add(conn)
	go conn.writePump()
	go conn.readPump()
}

// Publish sends [msg] to every connection and returns the number of
// connections that accepted it.
func (s *Server) Publish(msg []byte) int {
	sent := 0
	for _, conn := range s.connections() {
		if conn.Send(msg) {
			sent++
			continue
		}
		s.log.Verbo(
			"dropping message to connection due to too many pending messages",
		)
	}
	return sent
}

// Len returns the number of open connections.
func (s *Server) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conns.Len()
}

func (s *Server) connections() []*Connection {
	s.lock.RLock()
	defer s.lock.RUnlock()

	return s.conns.List()
}

func (s *Server) removeConnection(conn *Connection) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.conns.Remove(conn)
}

// Close asks every connection to close and rejects new ones.
func (s *Server) Close() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.closed = true
	for conn := range s.conns {
		conn.deactivate()
	}
	return nil
}
