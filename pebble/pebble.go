// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/cpamm/state"
)

var _ state.Database = (*Database)(nil)

type Config struct {
	CacheSize             int64 `json:"cacheSize"`
	BytesPerSync          int   `json:"bytesPerSync"`
	MaxOpenFiles          int   `json:"maxOpenFiles"`
	ConcurrentCompactions int   `json:"concurrentCompactions"`
	Sync                  bool  `json:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             64 * 1024 * 1024,
		BytesPerSync:          1024 * 1024,
		MaxOpenFiles:          4_096,
		ConcurrentCompactions: 1,
		Sync:                  true,
	}
}

// Database is a pebble-backed [state.Database].
type Database struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
	metrics   *metrics

	closing chan struct{}
	wg      sync.WaitGroup
}

func New(file string, cfg Config, r prometheus.Registerer) (*Database, error) {
	m, err := newMetrics(r)
	if err != nil {
		return nil, err
	}
	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()

	d := &Database{
		writeOpts: &pebble.WriteOptions{Sync: cfg.Sync},
		metrics:   m,
		closing:   make(chan struct{}),
	}
	opts := &pebble.Options{
		Cache:                    cache,
		BytesPerSync:             cfg.BytesPerSync,
		Comparer:                 pebble.DefaultComparer,
		MaxOpenFiles:             cfg.MaxOpenFiles,
		MaxConcurrentCompactions: func() int { return cfg.ConcurrentCompactions },
	}
	opts.EventListener = &pebble.EventListener{
		CompactionBegin: d.onCompactionBegin,
		CompactionEnd:   d.onCompactionEnd,
		WriteStallBegin: d.onWriteStallBegin,
		WriteStallEnd:   d.onWriteStallEnd,
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, err
	}
	d.db = db

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, nil
}

// GetValue returns [database.ErrNotFound] for missing keys.
func (d *Database) GetValue(_ context.Context, key []byte) ([]byte, error) {
	start := time.Now()
	defer func() {
		d.metrics.getLatency.Observe(time.Since(start).Seconds())
	}()

	v, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	value := append([]byte{}, v...)
	return value, closer.Close()
}

func (d *Database) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := d.db.NewBatch()
	defer batch.Close()

	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k), nil); err != nil {
				return err
			}
			continue
		}
		if err := batch.Set([]byte(k), v.Value(), nil); err != nil {
			return err
		}
	}
	d.metrics.writes.Add(float64(len(changes)))
	return batch.Commit(d.writeOpts)
}

func (d *Database) Close() error {
	close(d.closing)
	d.wg.Wait()
	return d.db.Close()
}
