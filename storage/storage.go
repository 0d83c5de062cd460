// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ava-labs/cpamm/pebble"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/utils"
)

// New opens the state database under [dataDir]. An empty [dataDir] keeps
// all state in memory.
func New(cfg pebble.Config, dataDir string, r prometheus.Registerer) (state.Database, error) {
	if len(dataDir) == 0 {
		return state.NewDatabase(memdb.New()), nil
	}
	path, err := utils.InitSubDirectory(dataDir, stateDB)
	if err != nil {
		return nil, err
	}
	db, err := pebble.New(path, cfg, r)
	if err != nil {
		return nil, err
	}
	return db, nil
}
