// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/utils/maybe"
)

// Immutable returns [database.ErrNotFound] for missing keys.
type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Reversible is a Mutable that records every modification so it can be
// undone back to an earlier operation index.
type Reversible interface {
	Mutable

	OpIndex() int
	Rollback(ctx context.Context, restorePoint int)
}

// Database is the durable store below the in-memory overlay.
type Database interface {
	Immutable

	// Apply writes all [changes] atomically. A Nothing value deletes
	// the key.
	Apply(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
	Close() error
}
