// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/pool"
)

// PoolEvent tags an event with the pool that emitted it.
type PoolEvent struct {
	Pool  codec.Address `json:"pool"`
	Type  string        `json:"type"`
	Event pool.Event    `json:"event"`
}

func newPoolEvent(addr codec.Address) func(pool.Event) *PoolEvent {
	return func(e pool.Event) *PoolEvent {
		return &PoolEvent{
			Pool:  addr,
			Type:  pool.EventName(e.GetTypeID()),
			Event: e,
		}
	}
}
