// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codec/codectest"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/state/statetest"
)

func TestPoolAddress(t *testing.T) {
	require := require.New(t)
	a := codectest.NewRandomAddress()
	b := codectest.NewRandomAddress()

	ab, err := PoolAddress(a, b)
	require.NoError(err)
	ba, err := PoolAddress(b, a)
	require.NoError(err)
	require.Equal(ab, ba)
	require.Equal(consts.PoolID, ab.TypeID())
	require.Equal(consts.ClaimTokenID, ClaimTokenAddress(ab).TypeID())

	_, err = PoolAddress(a, a)
	require.ErrorIs(err, ErrIdenticalAddresses)
}

func TestPoolRecord(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	addr := codectest.NewRandomAddress()

	_, err := GetPool(ctx, mu, addr)
	require.ErrorIs(err, ErrPoolDoesNotExist)

	p := &Pool{
		TokenA:     codectest.NewRandomAddress(),
		TokenB:     codectest.NewRandomAddress(),
		ClaimToken: ClaimTokenAddress(addr),
		ReserveA:   150,
		ReserveB:   600,
	}
	require.NoError(SetPool(ctx, mu, addr, p))
	got, err := GetPool(ctx, mu, addr)
	require.NoError(err)
	require.Equal(p, got)

	_, err = UnmarshalPool([]byte{1, 2, 3})
	require.ErrorIs(err, ErrCorruptRecord)
}

func TestPoolIndex(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	pools, err := GetPools(ctx, mu)
	require.NoError(err)
	require.Empty(pools)

	expected := make([]codec.Address, 0, 3)
	for i := 0; i < 3; i++ {
		addr := codectest.NewRandomAddress()
		require.NoError(AddPool(ctx, mu, addr))
		expected = append(expected, addr)
	}
	pools, err = GetPools(ctx, mu)
	require.NoError(err)
	require.Equal(expected, pools)
}

func TestGenesisMarker(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	ok, err := HasGenesis(ctx, mu)
	require.NoError(err)
	require.False(ok)
	require.NoError(SetGenesis(ctx, mu))
	ok, err = HasGenesis(ctx, mu)
	require.NoError(err)
	require.True(ok)
}
