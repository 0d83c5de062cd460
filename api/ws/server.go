// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/api"
	"github.com/ava-labs/cpamm/event"
	"github.com/ava-labs/cpamm/pubsub"
	"github.com/ava-labs/cpamm/vm"
)

const Endpoint = "/ext/cpamm/ws"

var _ event.Subscription[*vm.PoolEvent] = (*WebSocketServer)(nil)

// WebSocketServer streams every pool event, JSON encoded, to all connected
// clients. Slow clients drop events once [maxPendingMessages] are queued.
type WebSocketServer struct {
	log logging.Logger
	s   *pubsub.Server
}

func NewWebSocketServer(log logging.Logger, writeWait time.Duration, maxPendingMessages int) *WebSocketServer {
	config := pubsub.NewDefaultServerConfig()
	config.WriteWait = writeWait
	config.MaxPendingMessages = maxPendingMessages
	return &WebSocketServer{
		log: log,
		s:   pubsub.New(log, config),
	}
}

func (w *WebSocketServer) Handler() api.Handler {
	return api.Handler{
		Path:    Endpoint,
		Handler: w.s,
	}
}

func (w *WebSocketServer) Accept(_ context.Context, e *vm.PoolEvent) error {
	msg, err := json.Marshal(e)
	if err != nil {
		return err
	}
	sent := w.s.Publish(msg)
	w.log.Debug("published pool event",
		zap.Stringer("pool", e.Pool),
		zap.String("type", e.Type),
		zap.Int("connections", sent),
	)
	return nil
}

func (w *WebSocketServer) Close() error {
	return w.s.Close()
}
