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

	smath "github.com/ava-labs/avalanchego/utils/math"
)

func newTestToken(t *testing.T, mu *statetest.InMemoryStore, symbol string) codec.Address {
	info := &TokenInfo{
		Name:     []byte("Token " + symbol),
		Symbol:   []byte(symbol),
		Decimals: 9,
		Metadata: []byte("test token"),
		Owner:    codectest.NewRandomAddress(),
	}
	token := TokenAddress(info.Name, info.Symbol, info.Decimals, info.Metadata)
	require.NoError(t, CreateToken(context.Background(), mu, token, info))
	return token
}

func TestTokenInfoRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()

	info := &TokenInfo{
		Name:        []byte("Token A"),
		Symbol:      []byte("TKA"),
		Decimals:    6,
		Metadata:    []byte("metadata"),
		TotalSupply: 100,
		Owner:       codectest.NewRandomAddress(),
	}
	token := TokenAddress(info.Name, info.Symbol, info.Decimals, info.Metadata)
	require.Equal(consts.TokenID, token.TypeID())
	require.NoError(SetTokenInfo(ctx, mu, token, info))

	got, err := GetTokenInfo(ctx, mu, token)
	require.NoError(err)
	require.Equal(info, got)

	_, err = GetTokenInfo(ctx, mu, codectest.NewRandomAddress())
	require.ErrorIs(err, ErrTokenDoesNotExist)

	_, err = UnmarshalTokenInfo(info.Marshal()[:10])
	require.ErrorIs(err, ErrCorruptRecord)
}

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name          string
		info          *TokenInfo
		expectedError error
	}{
		{
			name:          "empty name",
			info:          &TokenInfo{Symbol: []byte("A")},
			expectedError: ErrInvalidTokenName,
		},
		{
			name:          "long symbol",
			info:          &TokenInfo{Name: []byte("A"), Symbol: make([]byte, MaxTokenSymbolSize+1)},
			expectedError: ErrInvalidTokenSymbol,
		},
		{
			name:          "long metadata",
			info:          &TokenInfo{Name: []byte("A"), Symbol: []byte("A"), Metadata: make([]byte, MaxTokenMetadataSize+1)},
			expectedError: ErrInvalidTokenMetadata,
		},
		{
			name:          "too many decimals",
			info:          &TokenInfo{Name: []byte("A"), Symbol: []byte("A"), Decimals: MaxTokenDecimals + 1},
			expectedError: ErrInvalidTokenDecimals,
		},
		{
			name: "valid",
			info: &TokenInfo{Name: []byte("A"), Symbol: []byte("A"), TotalSupply: 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ctx := context.Background()
			mu := statetest.NewInMemoryStore()
			token := TokenAddress(tt.info.Name, tt.info.Symbol, tt.info.Decimals, tt.info.Metadata)

			err := CreateToken(ctx, mu, token, tt.info)
			require.ErrorIs(err, tt.expectedError)
			if err != nil {
				return
			}
			info, err := GetTokenInfo(ctx, mu, token)
			require.NoError(err)
			require.Zero(info.TotalSupply)
			require.ErrorIs(CreateToken(ctx, mu, token, tt.info), ErrTokenExists)
		})
	}
}

func TestMintBurnTransfer(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	token := newTestToken(t, mu, "TKA")
	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()

	require.NoError(MintToken(ctx, mu, token, alice, 100))
	require.NoError(TransferToken(ctx, mu, token, alice, bob, 30))
	require.ErrorIs(TransferToken(ctx, mu, token, alice, bob, 71), ErrInsufficientBalance)
	require.NoError(BurnToken(ctx, mu, token, bob, 10))
	require.ErrorIs(BurnToken(ctx, mu, token, bob, 21), ErrInsufficientBalance)

	balance, err := GetBalance(ctx, mu, token, alice)
	require.NoError(err)
	require.Equal(uint64(70), balance)
	balance, err = GetBalance(ctx, mu, token, bob)
	require.NoError(err)
	require.Equal(uint64(20), balance)
	info, err := GetTokenInfo(ctx, mu, token)
	require.NoError(err)
	require.Equal(uint64(90), info.TotalSupply)

	// Emptied balances are removed from state
	require.NoError(TransferToken(ctx, mu, token, bob, alice, 20))
	require.NotContains(mu.Storage, string(BalanceKey(token, bob)))

	require.ErrorIs(MintToken(ctx, mu, token, alice, consts.MaxUint64), smath.ErrOverflow)
	require.ErrorIs(TransferToken(ctx, mu, codectest.NewRandomAddress(), alice, bob, 1), ErrTokenDoesNotExist)
}

func TestAllowance(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	mu := statetest.NewInMemoryStore()
	token := newTestToken(t, mu, "TKA")
	owner := codectest.NewRandomAddress()
	spender := codectest.NewRandomAddress()

	require.NoError(Approve(ctx, mu, token, owner, spender, 50))
	require.NoError(SpendAllowance(ctx, mu, token, owner, spender, 20))
	allowance, err := GetAllowance(ctx, mu, token, owner, spender)
	require.NoError(err)
	require.Equal(uint64(30), allowance)
	require.ErrorIs(SpendAllowance(ctx, mu, token, owner, spender, 31), ErrInsufficientAllowance)

	require.NoError(Approve(ctx, mu, token, owner, spender, Unlimited))
	require.NoError(SpendAllowance(ctx, mu, token, owner, spender, 1_000))
	allowance, err = GetAllowance(ctx, mu, token, owner, spender)
	require.NoError(err)
	require.Equal(Unlimited, allowance)

	require.ErrorIs(Approve(ctx, mu, codectest.NewRandomAddress(), owner, spender, 1), ErrTokenDoesNotExist)
}
