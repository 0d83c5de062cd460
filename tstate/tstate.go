// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/cpamm/keys"
	"github.com/ava-labs/cpamm/state"
)

const defaultOps = 16

var _ state.Reversible = (*TState)(nil)

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
}

// TState buffers modifications on top of [base] until they are committed
// to a database. Every modification is recorded so that it can be rolled
// back to an earlier operation index.
//
// TState is not safe for concurrent use.
type TState struct {
	base        state.Immutable
	changedKeys map[string]maybe.Maybe[[]byte]

	// ops is a record of all operations performed since the last commit.
	ops []*op
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed
// between commits.
func New(base state.Immutable, changedSize int) *TState {
	return &TState{
		base:        base,
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
		ops:         make([]*op, 0, defaultOps),
	}
}

func (ts *TState) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, err := ts.base.GetValue(ctx, []byte(key))
	if errors.Is(err, database.ErrNotFound) {
		return nil, false, false, nil
	}
	if err != nil {
		return nil, false, false, err
	}
	return v, false, true, nil
}

// GetValue returns the value associated with [key] or
// [database.ErrNotFound].
func (ts *TState) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by [TState] and should
// not be modified/referenced after this call.
func (ts *TState) Insert(ctx context.Context, key []byte, value []byte) error {
	if !keys.VerifyValue(key, value) {
		return ErrInvalidKeyValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	ts.changedKeys[k] = maybe.Some(value)
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// Remove deletes [key].
func (ts *TState) Remove(ctx context.Context, key []byte) error {
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	ts.changedKeys[k] = maybe.Nothing[[]byte]()
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
	})
	return nil
}

// OpIndex returns the number of operations done on ts.
func (ts *TState) OpIndex() int {
	return len(ts.ops)
}

// Rollback restores the TState to the ts.op[restorePoint] operation.
func (ts *TState) Rollback(_ context.Context, restorePoint int) {
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]

		// Key was untouched before this op: drop it from the overlay.
		if !op.pastChanged {
			delete(ts.changedKeys, op.k)
			continue
		}

		// Key was previously deleted in the overlay.
		if !op.pastExists {
			ts.changedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		ts.changedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// PendingChanges returns the number of keys modified since the last
// commit.
func (ts *TState) PendingChanges() int {
	return len(ts.changedKeys)
}

// Commit writes all pending changes to [db] and resets the operation log.
// On failure the pending changes are retained.
func (ts *TState) Commit(ctx context.Context, db state.Database) error {
	if len(ts.changedKeys) == 0 {
		return nil
	}
	if err := db.Apply(ctx, ts.changedKeys); err != nil {
		return err
	}
	ts.changedKeys = make(map[string]maybe.Maybe[[]byte], len(ts.changedKeys))
	ts.ops = ts.ops[:0]
	return nil
}

// Discard drops all pending changes.
func (ts *TState) Discard() {
	ts.changedKeys = make(map[string]maybe.Maybe[[]byte], len(ts.changedKeys))
	ts.ops = ts.ops[:0]
}
