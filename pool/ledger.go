// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

//go:generate go run go.uber.org/mock/mockgen -source=ledger.go -destination=mock_ledger.go -package=pool

package pool

import (
	"context"

	"github.com/ava-labs/cpamm/codec"
)

// Ledger moves assets and claims on behalf of a pool. Custody is the
// account holding the pool's reserves.
//
// Every change made after [Checkpoint] must be undone by [Revert] with the
// returned restore point.
type Ledger interface {
	AssetExists(ctx context.Context, asset codec.Address) (bool, error)

	// Pull moves [amount] of [asset] from [from] to [to], consuming the
	// allowance [from] granted to the pool.
	Pull(ctx context.Context, asset codec.Address, from codec.Address, to codec.Address, amount uint64) error
	// Push moves [amount] of [asset] out of custody to [to].
	Push(ctx context.Context, asset codec.Address, to codec.Address, amount uint64) error

	MintClaims(ctx context.Context, to codec.Address, amount uint64) error
	BurnClaims(ctx context.Context, from codec.Address, amount uint64) error
	TransferClaims(ctx context.Context, from codec.Address, to codec.Address, amount uint64) error
	TotalClaims(ctx context.Context) (uint64, error)

	Custody() codec.Address

	Checkpoint() int
	Revert(ctx context.Context, restorePoint int)
}
