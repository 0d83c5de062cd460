// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
)

var _ Database = (*avaDatabase)(nil)

type avaDatabase struct {
	db database.Database
}

// NewDatabase wraps an avalanchego [database.Database] (e.g. memdb).
func NewDatabase(db database.Database) Database {
	return &avaDatabase{db: db}
}

func (a *avaDatabase) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return a.db.Get(key)
}

func (a *avaDatabase) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	batch := a.db.NewBatch()
	for k, v := range changes {
		if v.IsNothing() {
			if err := batch.Delete([]byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put([]byte(k), v.Value()); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (a *avaDatabase) Close() error {
	return a.db.Close()
}
