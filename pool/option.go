// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/ava-labs/cpamm/event"
)

type Option func(*Pool)

// WithName labels logs and metrics emitted by the pool. The default name
// joins both token addresses.
func WithName(name string) Option {
	return func(p *Pool) {
		p.name = name
	}
}

func WithLogger(log logging.Logger) Option {
	return func(p *Pool) {
		p.log = log
	}
}

func WithMetrics(m *Metrics) Option {
	return func(p *Pool) {
		p.metrics = m
	}
}

func WithSubscriptions(subs ...event.Subscription[Event]) Option {
	return func(p *Pool) {
		p.subscriptions = append(p.subscriptions, subs...)
	}
}

// WithReserves restores reserves recorded by an earlier instance of the
// pool.
func WithReserves(reserveA uint64, reserveB uint64) Option {
	return func(p *Pool) {
		p.reserveA = reserveA
		p.reserveB = reserveB
	}
}
