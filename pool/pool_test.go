// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/codec/codectest"
	"github.com/ava-labs/cpamm/event"
)

var errTest = errors.New("test")

type fixture struct {
	ledger  *MockLedger
	tokenA  codec.Address
	tokenB  codec.Address
	custody codec.Address
	caller  codec.Address
}

func newFixture(t *testing.T) *fixture {
	ctrl := gomock.NewController(t)
	return &fixture{
		ledger:  NewMockLedger(ctrl),
		tokenA:  codectest.NewRandomAddress(),
		tokenB:  codectest.NewRandomAddress(),
		custody: codectest.NewRandomAddress(),
		caller:  codectest.NewRandomAddress(),
	}
}

func (f *fixture) newPool(t *testing.T, opts ...Option) *Pool {
	f.ledger.EXPECT().AssetExists(gomock.Any(), f.tokenA).Return(true, nil)
	f.ledger.EXPECT().AssetExists(gomock.Any(), f.tokenB).Return(true, nil)
	p, err := New(context.Background(), f.tokenA, f.tokenB, f.ledger, opts...)
	require.NoError(t, err)
	f.ledger.EXPECT().Custody().Return(f.custody).AnyTimes()
	return p
}

type recorder struct {
	events []Event
}

func (r *recorder) subscription() event.Subscription[Event] {
	return event.SubscriptionFunc[Event]{
		AcceptF: func(_ context.Context, e Event) error {
			r.events = append(r.events, e)
			return nil
		},
	}
}

func TestNew(t *testing.T) {
	tokenA := codectest.NewRandomAddress()
	tokenB := codectest.NewRandomAddress()
	tests := []struct {
		name          string
		tokenA        codec.Address
		tokenB        codec.Address
		setup         func(*MockLedger)
		expectedError error
	}{
		{
			name:          "empty token A",
			tokenA:        codec.EmptyAddress,
			tokenB:        tokenB,
			setup:         func(*MockLedger) {},
			expectedError: ErrTokenAIsNotContract,
		},
		{
			name:   "unknown token A",
			tokenA: tokenA,
			tokenB: tokenB,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(false, nil)
			},
			expectedError: ErrTokenAIsNotContract,
		},
		{
			name:   "empty token B",
			tokenA: tokenA,
			tokenB: codec.EmptyAddress,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(true, nil)
			},
			expectedError: ErrTokenBIsNotContract,
		},
		{
			name:   "unknown token B",
			tokenA: tokenA,
			tokenB: tokenB,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(true, nil)
				l.EXPECT().AssetExists(gomock.Any(), tokenB).Return(false, nil)
			},
			expectedError: ErrTokenBIsNotContract,
		},
		{
			name:   "identical tokens",
			tokenA: tokenA,
			tokenB: tokenA,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(true, nil).Times(2)
			},
			expectedError: ErrIdenticalAddress,
		},
		{
			name:   "ledger failure",
			tokenA: tokenA,
			tokenB: tokenB,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(false, errTest)
			},
			expectedError: errTest,
		},
		{
			name:   "valid",
			tokenA: tokenA,
			tokenB: tokenB,
			setup: func(l *MockLedger) {
				l.EXPECT().AssetExists(gomock.Any(), tokenA).Return(true, nil)
				l.EXPECT().AssetExists(gomock.Any(), tokenB).Return(true, nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			ledger := NewMockLedger(gomock.NewController(t))
			tt.setup(ledger)

			p, err := New(context.Background(), tt.tokenA, tt.tokenB, ledger)
			require.ErrorIs(err, tt.expectedError)
			if err != nil {
				return
			}
			require.Equal(tt.tokenA, p.TokenA())
			require.Equal(tt.tokenB, p.TokenB())
			reserveA, reserveB := p.GetReserves()
			require.Zero(reserveA)
			require.Zero(reserveB)
		})
	}
}

func TestSwapRejections(t *testing.T) {
	f := newFixture(t)
	p := f.newPool(t, WithReserves(100, 400))
	other := codectest.NewRandomAddress()

	tests := []struct {
		name          string
		tokenIn       codec.Address
		tokenOut      codec.Address
		amountIn      uint64
		expectedError error
	}{
		{
			name:          "unknown token in",
			tokenIn:       other,
			tokenOut:      f.tokenB,
			amountIn:      10,
			expectedError: ErrInvalidToken,
		},
		{
			name:          "unknown token out",
			tokenIn:       f.tokenA,
			tokenOut:      other,
			amountIn:      10,
			expectedError: ErrInvalidToken,
		},
		{
			name:          "identical assets",
			tokenIn:       f.tokenB,
			tokenOut:      f.tokenB,
			amountIn:      10,
			expectedError: ErrIdenticalAsset,
		},
		{
			name:          "zero amount",
			tokenIn:       f.tokenA,
			tokenOut:      f.tokenB,
			expectedError: ErrZeroAmount,
		},
		{
			// ceil(40_000/401) = 100 leaves nothing to pay out
			name:          "output rounds to zero",
			tokenIn:       f.tokenB,
			tokenOut:      f.tokenA,
			amountIn:      1,
			expectedError: ErrInsufficientOutput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := p.Swap(context.Background(), f.caller, tt.tokenIn, tt.tokenOut, tt.amountIn)
			require.ErrorIs(err, tt.expectedError)
			reserveA, reserveB := p.GetReserves()
			require.Equal(uint64(100), reserveA)
			require.Equal(uint64(400), reserveB)
		})
	}
}

func TestSwapEmptyPool(t *testing.T) {
	require := require.New(t)
	f := newFixture(t)
	p := f.newPool(t)

	_, err := p.Swap(context.Background(), f.caller, f.tokenA, f.tokenB, 1_000)
	require.ErrorIs(err, ErrInsufficientOutput)
}

func TestSwap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	r := &recorder{}
	p := f.newPool(t, WithReserves(100, 400), WithSubscriptions(r.subscription()))

	gomock.InOrder(
		f.ledger.EXPECT().Checkpoint().Return(3),
		f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(100)).Return(nil),
		f.ledger.EXPECT().Push(ctx, f.tokenB, f.caller, uint64(200)).Return(nil),
	)
	amountOut, err := p.Swap(ctx, f.caller, f.tokenA, f.tokenB, 100)
	require.NoError(err)
	require.Equal(uint64(200), amountOut)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(200), reserveA)
	require.Equal(uint64(200), reserveB)
	require.Equal([]Event{&SwapEvent{
		Caller:    f.caller,
		TokenIn:   f.tokenA,
		TokenOut:  f.tokenB,
		AmountIn:  100,
		AmountOut: 200,
	}}, r.events)
}

func TestSwapRevertsOnLedgerFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	r := &recorder{}
	p := f.newPool(t, WithReserves(100, 400), WithSubscriptions(r.subscription()))

	gomock.InOrder(
		f.ledger.EXPECT().Checkpoint().Return(7),
		f.ledger.EXPECT().Pull(ctx, f.tokenB, f.caller, f.custody, uint64(400)).Return(nil),
		f.ledger.EXPECT().Push(ctx, f.tokenA, f.caller, uint64(50)).Return(errTest),
		f.ledger.EXPECT().Revert(ctx, 7),
	)
	_, err := p.Swap(ctx, f.caller, f.tokenB, f.tokenA, 400)
	require.ErrorIs(err, errTest)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(100), reserveA)
	require.Equal(uint64(400), reserveB)
	require.Empty(r.events)
}

func TestAddLiquidityBootstrap(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t)

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(0), nil),
		f.ledger.EXPECT().Checkpoint().Return(0),
		f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(100)).Return(nil),
		f.ledger.EXPECT().Pull(ctx, f.tokenB, f.caller, f.custody, uint64(400)).Return(nil),
		f.ledger.EXPECT().MintClaims(ctx, f.caller, uint64(200)).Return(nil),
	)
	amountA, amountB, liquidity, err := p.AddLiquidity(ctx, f.caller, 100, 400)
	require.NoError(err)
	require.Equal(uint64(100), amountA)
	require.Equal(uint64(400), amountB)
	require.Equal(uint64(200), liquidity)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(100), reserveA)
	require.Equal(uint64(400), reserveB)
}

func TestAddLiquidityUnusedMaximumNotTransferred(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	r := &recorder{}
	p := f.newPool(t, WithReserves(100, 400), WithSubscriptions(r.subscription()))

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(200), nil),
		f.ledger.EXPECT().Checkpoint().Return(0),
		f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(50)).Return(nil),
		f.ledger.EXPECT().Pull(ctx, f.tokenB, f.caller, f.custody, uint64(200)).Return(nil),
		f.ledger.EXPECT().MintClaims(ctx, f.caller, uint64(100)).Return(nil),
	)
	amountA, amountB, liquidity, err := p.AddLiquidity(ctx, f.caller, 50, 500)
	require.NoError(err)
	require.Equal(uint64(50), amountA)
	require.Equal(uint64(200), amountB)
	require.Equal(uint64(100), liquidity)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(150), reserveA)
	require.Equal(uint64(600), reserveB)
	require.Equal([]Event{&AddLiquidityEvent{
		Caller:    f.caller,
		AmountA:   50,
		AmountB:   200,
		Liquidity: 100,
	}}, r.events)
}

func TestAddLiquidityRejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t, WithReserves(100, 400))

	_, _, _, err := p.AddLiquidity(ctx, f.caller, 0, 10)
	require.ErrorIs(err, ErrInsufficientInput)
	_, _, _, err = p.AddLiquidity(ctx, f.caller, 10, 0)
	require.ErrorIs(err, ErrInsufficientInput)

	f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(0), errTest)
	_, _, _, err = p.AddLiquidity(ctx, f.caller, 10, 10)
	require.ErrorIs(err, errTest)
}

func TestAddLiquidityTooSmallForClaims(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t, WithReserves(1_000, 1_000))

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(1), nil),
		f.ledger.EXPECT().Checkpoint().Return(0),
		f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(10)).Return(nil),
		f.ledger.EXPECT().Pull(ctx, f.tokenB, f.caller, f.custody, uint64(10)).Return(nil),
		f.ledger.EXPECT().MintClaims(ctx, f.caller, uint64(0)).Return(nil),
	)
	amountA, amountB, liquidity, err := p.AddLiquidity(ctx, f.caller, 10, 10)
	require.NoError(err)
	require.Equal(uint64(10), amountA)
	require.Equal(uint64(10), amountB)
	require.Zero(liquidity)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(1_010), reserveA)
	require.Equal(uint64(1_010), reserveB)
}

func TestAddLiquidityRevertsOnMintFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t)

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(0), nil),
		f.ledger.EXPECT().Checkpoint().Return(2),
		f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(100)).Return(nil),
		f.ledger.EXPECT().Pull(ctx, f.tokenB, f.caller, f.custody, uint64(400)).Return(nil),
		f.ledger.EXPECT().MintClaims(ctx, f.caller, uint64(200)).Return(errTest),
		f.ledger.EXPECT().Revert(ctx, 2),
	)
	_, _, _, err := p.AddLiquidity(ctx, f.caller, 100, 400)
	require.ErrorIs(err, errTest)

	reserveA, reserveB := p.GetReserves()
	require.Zero(reserveA)
	require.Zero(reserveB)
}

func TestRemoveLiquidity(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	r := &recorder{}
	p := f.newPool(t, WithReserves(150, 600), WithSubscriptions(r.subscription()))

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(300), nil),
		f.ledger.EXPECT().Checkpoint().Return(0),
		f.ledger.EXPECT().TransferClaims(ctx, f.caller, f.custody, uint64(100)).Return(nil),
		f.ledger.EXPECT().BurnClaims(ctx, f.custody, uint64(100)).Return(nil),
		f.ledger.EXPECT().Push(ctx, f.tokenA, f.caller, uint64(50)).Return(nil),
		f.ledger.EXPECT().Push(ctx, f.tokenB, f.caller, uint64(200)).Return(nil),
	)
	amountA, amountB, err := p.RemoveLiquidity(ctx, f.caller, 100)
	require.NoError(err)
	require.Equal(uint64(50), amountA)
	require.Equal(uint64(200), amountB)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(100), reserveA)
	require.Equal(uint64(400), reserveB)
	require.Equal([]Event{&RemoveLiquidityEvent{
		Caller:    f.caller,
		AmountA:   50,
		AmountB:   200,
		Liquidity: 100,
	}}, r.events)
}

func TestRemoveLiquidityRejections(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t, WithReserves(150, 600))

	f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(300), nil).Times(2)
	_, _, err := p.RemoveLiquidity(ctx, f.caller, 0)
	require.ErrorIs(err, ErrInsufficientBurnAmount)
	_, _, err = p.RemoveLiquidity(ctx, f.caller, 301)
	require.ErrorIs(err, ErrInsufficientBurnAmount)
}

func TestRemoveLiquidityRevertsOnClaimFailure(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	p := f.newPool(t, WithReserves(150, 600))

	gomock.InOrder(
		f.ledger.EXPECT().TotalClaims(ctx).Return(uint64(300), nil),
		f.ledger.EXPECT().Checkpoint().Return(4),
		f.ledger.EXPECT().TransferClaims(ctx, f.caller, f.custody, uint64(100)).Return(errTest),
		f.ledger.EXPECT().Revert(ctx, 4),
	)
	_, _, err := p.RemoveLiquidity(ctx, f.caller, 100)
	require.ErrorIs(err, errTest)

	reserveA, reserveB := p.GetReserves()
	require.Equal(uint64(150), reserveA)
	require.Equal(uint64(600), reserveB)
}

func TestSubscriberFailureDoesNotFailOperation(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	failing := event.SubscriptionFunc[Event]{
		AcceptF: func(context.Context, Event) error {
			return errTest
		},
	}
	p := f.newPool(t, WithReserves(100, 400), WithSubscriptions(failing))

	f.ledger.EXPECT().Checkpoint().Return(0)
	f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(100)).Return(nil)
	f.ledger.EXPECT().Push(ctx, f.tokenB, f.caller, uint64(200)).Return(nil)
	_, err := p.Swap(ctx, f.caller, f.tokenA, f.tokenB, 100)
	require.NoError(err)
}

func TestMetrics(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	f := newFixture(t)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(err)
	p := f.newPool(t, WithName("test"), WithMetrics(m), WithReserves(100, 400))

	f.ledger.EXPECT().Checkpoint().Return(0)
	f.ledger.EXPECT().Pull(ctx, f.tokenA, f.caller, f.custody, uint64(100)).Return(nil)
	f.ledger.EXPECT().Push(ctx, f.tokenB, f.caller, uint64(200)).Return(nil)
	_, err = p.Swap(ctx, f.caller, f.tokenA, f.tokenB, 100)
	require.NoError(err)
	_, err = p.Swap(ctx, f.caller, f.tokenA, f.tokenA, 100)
	require.ErrorIs(err, ErrIdenticalAsset)

	require.Equal(float64(1), testutil.ToFloat64(m.swaps.WithLabelValues("test")))
	require.Equal(float64(1), testutil.ToFloat64(m.failures.WithLabelValues("test", swapOp)))
	require.Equal(float64(200), testutil.ToFloat64(m.reserveA.WithLabelValues("test")))
	require.Equal(float64(200), testutil.ToFloat64(m.reserveB.WithLabelValues("test")))
}

func TestDefaultNameDistinguishesPools(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	ledger.EXPECT().AssetExists(gomock.Any(), gomock.Any()).Return(true, nil).AnyTimes()
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(err)

	// Tokens that only differ in their last byte.
	tokenA := codectest.NewRandomAddress()
	tokenB := tokenA
	tokenB[codec.AddressLen-1]++
	tokenC := tokenB
	tokenC[codec.AddressLen-1]++

	ab, err := New(ctx, tokenA, tokenB, ledger, WithMetrics(m), WithReserves(1, 2))
	require.NoError(err)
	ac, err := New(ctx, tokenA, tokenC, ledger, WithMetrics(m), WithReserves(3, 4))
	require.NoError(err)
	require.NotEqual(ab.name, ac.name)

	require.Equal(float64(1), testutil.ToFloat64(m.reserveA.WithLabelValues(ab.name)))
	require.Equal(float64(3), testutil.ToFloat64(m.reserveA.WithLabelValues(ac.name)))
}
