// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"fmt"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/pool"
	"github.com/ava-labs/cpamm/state"
)

var _ pool.Ledger = (*Ledger)(nil)

// Ledger keeps the assets and claims of a single pool in [state]. The pool
// address is its custody account and the spender of every allowance it
// pulls from.
type Ledger struct {
	mu         state.Reversible
	custody    codec.Address
	claimToken codec.Address
}

func NewLedger(mu state.Reversible, custody codec.Address, claimToken codec.Address) *Ledger {
	return &Ledger{
		mu:         mu,
		custody:    custody,
		claimToken: claimToken,
	}
}

func (l *Ledger) AssetExists(ctx context.Context, asset codec.Address) (bool, error) {
	return TokenExists(ctx, l.mu, asset)
}

func (l *Ledger) Pull(
	ctx context.Context,
	asset codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	if err := SpendAllowance(ctx, l.mu, asset, from, l.custody, amount); err != nil {
		return err
	}
	return TransferToken(ctx, l.mu, asset, from, to, amount)
}

func (l *Ledger) Push(
	ctx context.Context,
	asset codec.Address,
	to codec.Address,
	amount uint64,
) error {
	if amount == 0 {
		return nil
	}
	held, err := GetBalance(ctx, l.mu, asset, l.custody)
	if err != nil {
		return err
	}
	if held < amount {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientCustody, held, amount)
	}
	return TransferToken(ctx, l.mu, asset, l.custody, to, amount)
}

func (l *Ledger) MintClaims(ctx context.Context, to codec.Address, amount uint64) error {
	return MintToken(ctx, l.mu, l.claimToken, to, amount)
}

func (l *Ledger) BurnClaims(ctx context.Context, from codec.Address, amount uint64) error {
	return BurnToken(ctx, l.mu, l.claimToken, from, amount)
}

func (l *Ledger) TransferClaims(ctx context.Context, from codec.Address, to codec.Address, amount uint64) error {
	return TransferToken(ctx, l.mu, l.claimToken, from, to, amount)
}

func (l *Ledger) TotalClaims(ctx context.Context) (uint64, error) {
	info, err := GetTokenInfo(ctx, l.mu, l.claimToken)
	if err != nil {
		return 0, err
	}
	return info.TotalSupply, nil
}

func (l *Ledger) ClaimToken() codec.Address {
	return l.claimToken
}

func (l *Ledger) Custody() codec.Address {
	return l.custody
}

func (l *Ledger) Checkpoint() int {
	return l.mu.OpIndex()
}

func (l *Ledger) Revert(ctx context.Context, restorePoint int) {
	l.mu.Rollback(ctx, restorePoint)
}
