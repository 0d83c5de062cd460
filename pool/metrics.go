// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pool"

// Metrics may be shared by many pools. Series are labelled with the pool
// name.
type Metrics struct {
	swaps            *prometheus.CounterVec
	liquidityAdded   *prometheus.CounterVec
	liquidityRemoved *prometheus.CounterVec
	failures         *prometheus.CounterVec
	reserveA         *prometheus.GaugeVec
	reserveB         *prometheus.GaugeVec
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		swaps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swaps",
			Help:      "number of successful swaps",
		}, []string{"pool"}),
		liquidityAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_added",
			Help:      "number of successful deposits",
		}, []string{"pool"}),
		liquidityRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "liquidity_removed",
			Help:      "number of successful withdrawals",
		}, []string{"pool"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failures",
			Help:      "number of rejected or reverted operations",
		}, []string{"pool", "operation"}),
		reserveA: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_a",
			Help:      "reserve of the first asset",
		}, []string{"pool"}),
		reserveB: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reserve_b",
			Help:      "reserve of the second asset",
		}, []string{"pool"}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.swaps),
		r.Register(m.liquidityAdded),
		r.Register(m.liquidityRemoved),
		r.Register(m.failures),
		r.Register(m.reserveA),
		r.Register(m.reserveB),
	)
	return m, errs.Err
}

func (m *Metrics) recordReserves(pool string, reserveA, reserveB uint64) {
	if m == nil {
		return
	}
	m.reserveA.WithLabelValues(pool).Set(float64(reserveA))
	m.reserveB.WithLabelValues(pool).Set(float64(reserveB))
}

func (m *Metrics) recordSuccess(pool string, operation string) {
	if m == nil {
		return
	}
	switch operation {
	case swapOp:
		m.swaps.WithLabelValues(pool).Inc()
	case addLiquidityOp:
		m.liquidityAdded.WithLabelValues(pool).Inc()
	case removeLiquidityOp:
		m.liquidityRemoved.WithLabelValues(pool).Inc()
	}
}

func (m *Metrics) recordFailure(pool string, operation string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(pool, operation).Inc()
}
