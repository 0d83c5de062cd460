// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/cpamm/event"
	"github.com/ava-labs/cpamm/state"
)

type Option func(*VM)

func WithLogger(log logging.Logger) Option {
	return func(vm *VM) {
		vm.log = log
	}
}

// WithRegisterer registers all VM, pool and database metrics with [r].
func WithRegisterer(r prometheus.Registerer) Option {
	return func(vm *VM) {
		vm.registerer = r
	}
}

// WithDatabase overrides the database opened from the config.
func WithDatabase(db state.Database) Option {
	return func(vm *VM) {
		vm.db = db
	}
}

// WithEventSubscriptions receives the events of every pool.
func WithEventSubscriptions(subs ...event.Subscription[*PoolEvent]) Option {
	return func(vm *VM) {
		vm.subscriptions = append(vm.subscriptions, subs...)
	}
}
