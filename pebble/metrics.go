// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace       = "pebble"
	metricsInterval = 10 * time.Second
)

type metrics struct {
	delayStart time.Time
	writeStall prometheus.Histogram
	getLatency prometheus.Histogram
	writes     prometheus.Counter

	l0Compactions     prometheus.Counter
	otherCompactions  prometheus.Counter
	activeCompactions prometheus.Gauge

	tombstoneCount     prometheus.Gauge
	obsoleteTableSize  prometheus.Gauge
	obsoleteTableCount prometheus.Gauge
	obsoleteWALSize    prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		writeStall: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "write_stall",
			Help:      "seconds spent waiting for disk write",
			Buckets:   prometheus.DefBuckets,
		}),
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "read_latency",
			Help:      "seconds spent waiting for db get",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		writes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "key_writes",
			Help:      "number of keys written or deleted",
		}),
		l0Compactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "l0_compactions",
			Help:      "number of l0 compactions",
		}),
		otherCompactions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "other_compactions",
			Help:      "number of l1+ compactions",
		}),
		activeCompactions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_compactions",
			Help:      "number of active compactions",
		}),
		tombstoneCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tombstone_count",
			Help:      "approximate count of internal tombstones",
		}),
		obsoleteTableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "obsolete_table_size",
			Help:      "number of bytes present in tables no longer referenced by the db",
		}),
		obsoleteTableCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "obsolete_table_count",
			Help:      "number of table files no longer referenced by the db",
		}),
		obsoleteWALSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "obsolete_wal_size",
			Help:      "number of bytes present in WAL no longer needed by the db",
		}),
	}
	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.writeStall),
		r.Register(m.getLatency),
		r.Register(m.writes),
		r.Register(m.l0Compactions),
		r.Register(m.otherCompactions),
		r.Register(m.activeCompactions),
		r.Register(m.tombstoneCount),
		r.Register(m.obsoleteTableSize),
		r.Register(m.obsoleteTableCount),
		r.Register(m.obsoleteWALSize),
	)
	return m, errs.Err
}

func (d *Database) onCompactionBegin(info pebble.CompactionInfo) {
	d.metrics.activeCompactions.Inc()
	if len(info.Input) > 0 && info.Input[0].Level == 0 {
		d.metrics.l0Compactions.Inc()
	} else {
		d.metrics.otherCompactions.Inc()
	}
}

func (d *Database) onCompactionEnd(pebble.CompactionInfo) {
	d.metrics.activeCompactions.Dec()
}

func (d *Database) onWriteStallBegin(pebble.WriteStallBeginInfo) {
	d.metrics.delayStart = time.Now()
}

func (d *Database) onWriteStallEnd() {
	d.metrics.writeStall.Observe(time.Since(d.metrics.delayStart).Seconds())
}

func (d *Database) collectMetrics() {
	t := time.NewTicker(metricsInterval)
	defer t.Stop()

	for {
		select {
		case <-t.C:
			metrics := d.db.Metrics()
			d.metrics.tombstoneCount.Set(float64(metrics.Keys.TombstoneCount))
			d.metrics.obsoleteTableSize.Set(float64(metrics.Table.ObsoleteSize))
			d.metrics.obsoleteTableCount.Set(float64(metrics.Table.ObsoleteCount))
			d.metrics.obsoleteWALSize.Set(float64(metrics.WAL.ObsoletePhysicalSize))
		case <-d.closing:
			return
		}
	}
}
