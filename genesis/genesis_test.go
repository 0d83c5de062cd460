// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codec/codectest"
	"github.com/ava-labs/cpamm/state/statetest"
	"github.com/ava-labs/cpamm/storage"
)

func newTestGenesis(alice codec.Address, bob codec.Address) *Genesis {
	return &Genesis{
		Tokens: []*Token{
			{
				Name:     "Alpha",
				Symbol:   "ALP",
				Decimals: 9,
				Owner:    alice,
				Allocations: []*Allocation{
					{Address: alice, Balance: 1_000_000, ApprovePools: true},
				},
				Approvals: []*Approval{
					{Owner: bob, Spender: alice, Amount: 5},
				},
			},
			{
				Name:     "Beta",
				Symbol:   "BET",
				Decimals: 6,
				Owner:    bob,
				Allocations: []*Allocation{
					{Address: alice, Balance: 2_000_000, ApprovePools: true},
					{Address: bob, Balance: 10},
				},
			},
		},
		Pools: []*Pool{{TokenA: "ALP", TokenB: "BET"}},
	}
}

func TestLoad(t *testing.T) {
	require := require.New(t)

	g := newTestGenesis(codectest.NewRandomAddress(), codectest.NewRandomAddress())
	b, err := json.Marshal(g)
	require.NoError(err)

	loaded, err := Load(b)
	require.NoError(err)
	require.Equal(g, loaded)

	empty, err := Load(nil)
	require.NoError(err)
	require.Empty(empty.Tokens)
	require.Empty(empty.Pools)
}

func TestVerify(t *testing.T) {
	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()

	tests := []struct {
		name        string
		modify      func(*Genesis)
		expectedErr error
	}{
		{
			name:   "valid",
			modify: func(*Genesis) {},
		},
		{
			name: "duplicate symbol",
			modify: func(g *Genesis) {
				g.Tokens[1].Symbol = "ALP"
			},
			expectedErr: ErrDuplicateSymbol,
		},
		{
			name: "unknown symbol",
			modify: func(g *Genesis) {
				g.Pools[0].TokenB = "GAM"
			},
			expectedErr: ErrUnknownSymbol,
		},
		{
			name: "duplicate pool in either order",
			modify: func(g *Genesis) {
				g.Pools = append(g.Pools, &Pool{TokenA: "BET", TokenB: "ALP"})
			},
			expectedErr: ErrDuplicatePool,
		},
		{
			name: "identical tokens",
			modify: func(g *Genesis) {
				g.Pools[0].TokenB = "ALP"
			},
			expectedErr: storage.ErrIdenticalAddresses,
		},
		{
			name: "invalid token",
			modify: func(g *Genesis) {
				g.Tokens[0].Decimals = storage.MaxTokenDecimals + 1
			},
			expectedErr: storage.ErrInvalidTokenDecimals,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenesis(alice, bob)
			tt.modify(g)
			require.ErrorIs(t, g.Verify(), tt.expectedErr)
		})
	}
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()
	g := newTestGenesis(alice, bob)
	mu := statetest.NewInMemoryStore()
	require.NoError(g.InitializeState(ctx, mu))

	alp := g.Tokens[0].Address()
	bet := g.Tokens[1].Address()

	info, err := storage.GetTokenInfo(ctx, mu, bet)
	require.NoError(err)
	require.Equal(uint64(2_000_010), info.TotalSupply)
	require.Equal(bob, info.Owner)

	balance, err := storage.GetBalance(ctx, mu, alp, alice)
	require.NoError(err)
	require.Equal(uint64(1_000_000), balance)

	pairs, err := g.PoolPairs()
	require.NoError(err)
	require.Len(pairs, 1)
	require.Equal(alp, pairs[0].TokenA)
	require.Equal(bet, pairs[0].TokenB)

	pool, err := storage.PoolAddress(alp, bet)
	require.NoError(err)
	for _, token := range []codec.Address{alp, bet} {
		allowance, err := storage.GetAllowance(ctx, mu, token, alice, pool)
		require.NoError(err)
		require.Equal(storage.Unlimited, allowance)
	}
	allowance, err := storage.GetAllowance(ctx, mu, bet, bob, pool)
	require.NoError(err)
	require.Zero(allowance)

	allowance, err = storage.GetAllowance(ctx, mu, alp, bob, alice)
	require.NoError(err)
	require.Equal(uint64(5), allowance)

	// Applying the same genesis twice fails
	require.ErrorIs(g.InitializeState(ctx, mu), storage.ErrTokenExists)
}
