// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codec/codectest"
	"github.com/ava-labs/cpamm/pool"
	"github.com/ava-labs/cpamm/state/statetest"
	"github.com/ava-labs/cpamm/storage"
	"github.com/ava-labs/cpamm/tstate"
)

type env struct {
	ts     *tstate.TState
	ledger *storage.Ledger
	pool   *pool.Pool
	tokenA codec.Address
	tokenB codec.Address
}

func createToken(t *testing.T, ts *tstate.TState, symbol string) codec.Address {
	info := &storage.TokenInfo{
		Name:     []byte("Token " + symbol),
		Symbol:   []byte(symbol),
		Decimals: 9,
		Owner:    codectest.NewRandomAddress(),
	}
	token := storage.TokenAddress(info.Name, info.Symbol, info.Decimals, info.Metadata)
	require.NoError(t, storage.CreateToken(context.Background(), ts, token, info))
	return token
}

func newEnv(t *testing.T) *env {
	require := require.New(t)
	ctx := context.Background()
	ts := tstate.New(statetest.NewInMemoryStore(), 64)
	tokenA := createToken(t, ts, "TKA")
	tokenB := createToken(t, ts, "TKB")

	custody, err := storage.PoolAddress(tokenA, tokenB)
	require.NoError(err)
	claimToken := storage.ClaimTokenAddress(custody)
	require.NoError(storage.CreateToken(ctx, ts, claimToken, storage.ClaimTokenInfo(custody)))

	ledger := storage.NewLedger(ts, custody, claimToken)
	p, err := pool.New(ctx, tokenA, tokenB, ledger)
	require.NoError(err)
	return &env{
		ts:     ts,
		ledger: ledger,
		pool:   p,
		tokenA: tokenA,
		tokenB: tokenB,
	}
}

// fund mints and approves both tokens for [account].
func (e *env) fund(t *testing.T, account codec.Address, amountA uint64, amountB uint64) {
	require := require.New(t)
	ctx := context.Background()
	custody := e.ledger.Custody()

	require.NoError(storage.MintToken(ctx, e.ts, e.tokenA, account, amountA))
	require.NoError(storage.MintToken(ctx, e.ts, e.tokenB, account, amountB))
	require.NoError(storage.Approve(ctx, e.ts, e.tokenA, account, custody, storage.Unlimited))
	require.NoError(storage.Approve(ctx, e.ts, e.tokenB, account, custody, storage.Unlimited))
}

func (e *env) balance(t *testing.T, token codec.Address, account codec.Address) uint64 {
	balance, err := storage.GetBalance(context.Background(), e.ts, token, account)
	require.NoError(t, err)
	return balance
}

func TestLiquidityLifecycle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	alice := codectest.NewRandomAddress()
	bob := codectest.NewRandomAddress()
	e.fund(t, alice, 1_000, 1_000)
	e.fund(t, bob, 1_000, 1_000)

	_, _, liquidity, err := e.pool.AddLiquidity(ctx, alice, 100, 400)
	require.NoError(err)
	require.Equal(uint64(200), liquidity)

	amountA, amountB, liquidity, err := e.pool.AddLiquidity(ctx, bob, 50, 500)
	require.NoError(err)
	require.Equal(uint64(50), amountA)
	require.Equal(uint64(200), amountB)
	require.Equal(uint64(100), liquidity)

	// Unused maximum stays with bob
	require.Equal(uint64(950), e.balance(t, e.tokenA, bob))
	require.Equal(uint64(800), e.balance(t, e.tokenB, bob))

	reserveA, reserveB := e.pool.GetReserves()
	require.Equal(uint64(150), reserveA)
	require.Equal(uint64(600), reserveB)
	total, err := e.pool.TotalClaims(ctx)
	require.NoError(err)
	require.Equal(uint64(300), total)

	amountA, amountB, err = e.pool.RemoveLiquidity(ctx, bob, 100)
	require.NoError(err)
	require.Equal(uint64(50), amountA)
	require.Equal(uint64(200), amountB)
	require.Equal(uint64(1_000), e.balance(t, e.tokenA, bob))
	require.Equal(uint64(1_000), e.balance(t, e.tokenB, bob))
	require.Zero(e.balance(t, e.ledger.ClaimToken(), bob))
	require.Zero(e.balance(t, e.ledger.ClaimToken(), e.ledger.Custody()))

	// Pool reserves always match custody balances
	reserveA, reserveB = e.pool.GetReserves()
	require.Equal(reserveA, e.balance(t, e.tokenA, e.ledger.Custody()))
	require.Equal(reserveB, e.balance(t, e.tokenB, e.ledger.Custody()))

	_, _, err = e.pool.RemoveLiquidity(ctx, bob, 1)
	require.ErrorIs(err, storage.ErrInsufficientBalance)
	_, _, err = e.pool.RemoveLiquidity(ctx, alice, 201)
	require.ErrorIs(err, pool.ErrInsufficientBurnAmount)
}

func TestSwapAgainstLedger(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	lp := codectest.NewRandomAddress()
	trader := codectest.NewRandomAddress()
	e.fund(t, lp, 100, 400)
	e.fund(t, trader, 100, 0)

	_, _, _, err := e.pool.AddLiquidity(ctx, lp, 100, 400)
	require.NoError(err)

	amountOut, err := e.pool.Swap(ctx, trader, e.tokenA, e.tokenB, 100)
	require.NoError(err)
	require.Equal(uint64(200), amountOut)
	require.Zero(e.balance(t, e.tokenA, trader))
	require.Equal(uint64(200), e.balance(t, e.tokenB, trader))

	_, err = e.pool.Swap(ctx, trader, e.tokenA, e.tokenB, 1)
	require.ErrorIs(err, storage.ErrInsufficientBalance)
}

func TestFailedPullRevertsEarlierTransfers(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	user := codectest.NewRandomAddress()
	custody := e.ledger.Custody()

	// Only token A is approved
	require.NoError(storage.MintToken(ctx, e.ts, e.tokenA, user, 100))
	require.NoError(storage.MintToken(ctx, e.ts, e.tokenB, user, 400))
	require.NoError(storage.Approve(ctx, e.ts, e.tokenA, user, custody, 100))

	_, _, _, err := e.pool.AddLiquidity(ctx, user, 100, 400)
	require.ErrorIs(err, storage.ErrInsufficientAllowance)

	require.Equal(uint64(100), e.balance(t, e.tokenA, user))
	require.Zero(e.balance(t, e.tokenA, custody))
	allowance, err := storage.GetAllowance(ctx, e.ts, e.tokenA, user, custody)
	require.NoError(err)
	require.Equal(uint64(100), allowance)
	reserveA, reserveB := e.pool.GetReserves()
	require.Zero(reserveA)
	require.Zero(reserveB)
}

func TestConcurrentSwaps(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	e := newEnv(t)
	lp := codectest.NewRandomAddress()
	e.fund(t, lp, 1_000_000, 1_000_000)
	_, _, _, err := e.pool.AddLiquidity(ctx, lp, 1_000_000, 1_000_000)
	require.NoError(err)

	traders := make([]codec.Address, 8)
	for i := range traders {
		traders[i] = codectest.NewRandomAddress()
		e.fund(t, traders[i], 10_000, 10_000)
	}

	var wg sync.WaitGroup
	for i, trader := range traders {
		wg.Add(1)
		go func(i int, trader codec.Address) {
			defer wg.Done()
			tokenIn, tokenOut := e.tokenA, e.tokenB
			if i%2 == 1 {
				tokenIn, tokenOut = tokenOut, tokenIn
			}
			for j := 0; j < 20; j++ {
				_, _ = e.pool.Swap(ctx, trader, tokenIn, tokenOut, 100)
				_, _ = e.pool.GetReserves()
			}
		}(i, trader)
	}
	wg.Wait()

	reserveA, reserveB := e.pool.GetReserves()
	require.Equal(reserveA, e.balance(t, e.tokenA, e.ledger.Custody()))
	require.Equal(reserveB, e.balance(t, e.tokenB, e.ledger.Custody()))
	require.GreaterOrEqual(reserveA*reserveB, uint64(1_000_000*1_000_000))
}
