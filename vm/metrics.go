// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	stateChanges prometheus.Counter
	commits      prometheus.Counter
	discards     prometheus.Counter
	pools        prometheus.Gauge
	commitTime   prometheus.Histogram
}

func newMetrics(r prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		stateChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "state_changes",
			Help:      "number of keys written to the database",
		}),
		commits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "commits",
			Help:      "number of committed operations",
		}),
		discards: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vm",
			Name:      "discards",
			Help:      "number of discarded operations",
		}),
		pools: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "vm",
			Name:      "pools",
			Help:      "number of pools",
		}),
		commitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "vm",
			Name:      "commit_time",
			Help:      "time spent writing an operation to the database in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.stateChanges),
		r.Register(m.commits),
		r.Register(m.discards),
		r.Register(m.pools),
		r.Register(m.commitTime),
	)
	return m, errs.Err
}
