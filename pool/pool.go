// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"go.uber.org/zap"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/event"
	"github.com/ava-labs/cpamm/pricing"
)

const (
	swapOp            = "swap"
	addLiquidityOp    = "add_liquidity"
	removeLiquidityOp = "remove_liquidity"
)

// Pool is a two-asset constant-product pool. Reserves are owned by the
// pool; assets and claims live in the [Ledger].
//
// Every state-changing call holds the pool lock for its whole duration and
// either applies all of its ledger changes and reserve updates or none.
type Pool struct {
	name   string
	tokenA codec.Address
	tokenB codec.Address

	ledger        Ledger
	log           logging.Logger
	metrics       *Metrics
	subscriptions []event.Subscription[Event]

	l        sync.RWMutex
	reserveA uint64
	reserveB uint64
}

func New(
	ctx context.Context,
	tokenA codec.Address,
	tokenB codec.Address,
	ledger Ledger,
	opts ...Option,
) (*Pool, error) {
	if err := checkAsset(ctx, ledger, tokenA, ErrTokenAIsNotContract); err != nil {
		return nil, err
	}
	if err := checkAsset(ctx, ledger, tokenB, ErrTokenBIsNotContract); err != nil {
		return nil, err
	}
	if tokenA == tokenB {
		return nil, ErrIdenticalAddress
	}
	p := &Pool{
		name:   tokenA.String() + "-" + tokenB.String(),
		tokenA: tokenA,
		tokenB: tokenB,
		ledger: ledger,
		log:    logging.NoLog{},
	}
	for _, o := range opts {
		o(p)
	}
	p.metrics.recordReserves(p.name, p.reserveA, p.reserveB)
	return p, nil
}

func checkAsset(ctx context.Context, ledger Ledger, asset codec.Address, notContract error) error {
	if asset == codec.EmptyAddress {
		return notContract
	}
	exists, err := ledger.AssetExists(ctx, asset)
	if err != nil {
		return err
	}
	if !exists {
		return notContract
	}
	return nil
}

func (p *Pool) TokenA() codec.Address {
	return p.tokenA
}

func (p *Pool) TokenB() codec.Address {
	return p.tokenB
}

func (p *Pool) GetReserves() (uint64, uint64) {
	p.l.RLock()
	defer p.l.RUnlock()

	return p.reserveA, p.reserveB
}

// RestoreReserves resets the reserves to values read earlier with
// [GetReserves]. A host whose ledger changes are dropped after an operation
// succeeded uses it to undo that operation.
func (p *Pool) RestoreReserves(reserveA uint64, reserveB uint64) {
	p.l.Lock()
	defer p.l.Unlock()

	p.reserveA, p.reserveB = reserveA, reserveB
	p.metrics.recordReserves(p.name, reserveA, reserveB)
}

func (p *Pool) TotalClaims(ctx context.Context) (uint64, error) {
	p.l.RLock()
	defer p.l.RUnlock()

	return p.ledger.TotalClaims(ctx)
}

// Swap sells [amountIn] of [tokenIn] for [tokenOut] and returns the
// amount paid out to [caller].
func (p *Pool) Swap(
	ctx context.Context,
	caller codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
) (uint64, error) {
	p.l.Lock()
	defer p.l.Unlock()

	amountOut, err := p.swap(ctx, caller, tokenIn, tokenOut, amountIn)
	if err != nil {
		p.fail(swapOp, caller, err)
		return 0, err
	}
	p.log.Debug("swapped",
		zap.String("pool", p.name),
		zap.Stringer("caller", caller),
		zap.Stringer("tokenIn", tokenIn),
		zap.Uint64("amountIn", amountIn),
		zap.Uint64("amountOut", amountOut),
	)
	p.succeed(ctx, swapOp, &SwapEvent{
		Caller:    caller,
		TokenIn:   tokenIn,
		TokenOut:  tokenOut,
		AmountIn:  amountIn,
		AmountOut: amountOut,
	})
	return amountOut, nil
}

func (p *Pool) swap(
	ctx context.Context,
	caller codec.Address,
	tokenIn codec.Address,
	tokenOut codec.Address,
	amountIn uint64,
) (uint64, error) {
	if !p.isAsset(tokenIn) || !p.isAsset(tokenOut) {
		return 0, ErrInvalidToken
	}
	if tokenIn == tokenOut {
		return 0, ErrIdenticalAsset
	}
	if amountIn == 0 {
		return 0, ErrZeroAmount
	}

	model := pricing.NewConstantProduct(p.reserveA, p.reserveB)
	amountOut, err := model.Swap(amountIn, tokenIn == p.tokenA)
	if err != nil {
		return 0, err
	}
	if err := p.transact(ctx, func() error {
		if err := p.ledger.Pull(ctx, tokenIn, caller, p.ledger.Custody(), amountIn); err != nil {
			return err
		}
		return p.ledger.Push(ctx, tokenOut, caller, amountOut)
	}); err != nil {
		return 0, err
	}
	p.reserveA, p.reserveB = model.Reserves()
	return amountOut, nil
}

// AddLiquidity deposits at most [amountAIn] and [amountBIn] at the current
// reserve ratio and mints claims to [caller]. It returns the amounts
// actually taken and the claims issued.
func (p *Pool) AddLiquidity(
	ctx context.Context,
	caller codec.Address,
	amountAIn uint64,
	amountBIn uint64,
) (uint64, uint64, uint64, error) {
	p.l.Lock()
	defer p.l.Unlock()

	amountA, amountB, liquidity, err := p.addLiquidity(ctx, caller, amountAIn, amountBIn)
	if err != nil {
		p.fail(addLiquidityOp, caller, err)
		return 0, 0, 0, err
	}
	p.log.Debug("added liquidity",
		zap.String("pool", p.name),
		zap.Stringer("caller", caller),
		zap.Uint64("amountA", amountA),
		zap.Uint64("amountB", amountB),
		zap.Uint64("liquidity", liquidity),
	)
	p.succeed(ctx, addLiquidityOp, &AddLiquidityEvent{
		Caller:    caller,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	})
	return amountA, amountB, liquidity, nil
}

func (p *Pool) addLiquidity(
	ctx context.Context,
	caller codec.Address,
	amountAIn uint64,
	amountBIn uint64,
) (uint64, uint64, uint64, error) {
	if amountAIn == 0 || amountBIn == 0 {
		return 0, 0, 0, ErrInsufficientInput
	}
	totalClaims, err := p.ledger.TotalClaims(ctx)
	if err != nil {
		return 0, 0, 0, err
	}

	model := pricing.NewConstantProduct(p.reserveA, p.reserveB)
	amountA, amountB, liquidity, err := model.AddLiquidity(amountAIn, amountBIn, totalClaims)
	if err != nil {
		return 0, 0, 0, err
	}
	if err := p.transact(ctx, func() error {
		custody := p.ledger.Custody()
		if err := p.ledger.Pull(ctx, p.tokenA, caller, custody, amountA); err != nil {
			return err
		}
		if err := p.ledger.Pull(ctx, p.tokenB, caller, custody, amountB); err != nil {
			return err
		}
		return p.ledger.MintClaims(ctx, caller, liquidity)
	}); err != nil {
		return 0, 0, 0, err
	}
	p.reserveA, p.reserveB = model.Reserves()
	return amountA, amountB, liquidity, nil
}

// RemoveLiquidity redeems [liquidity] claims of [caller] for a pro-rata
// share of both reserves.
func (p *Pool) RemoveLiquidity(
	ctx context.Context,
	caller codec.Address,
	liquidity uint64,
) (uint64, uint64, error) {
	p.l.Lock()
	defer p.l.Unlock()

	amountA, amountB, err := p.removeLiquidity(ctx, caller, liquidity)
	if err != nil {
		p.fail(removeLiquidityOp, caller, err)
		return 0, 0, err
	}
	p.log.Debug("removed liquidity",
		zap.String("pool", p.name),
		zap.Stringer("caller", caller),
		zap.Uint64("amountA", amountA),
		zap.Uint64("amountB", amountB),
		zap.Uint64("liquidity", liquidity),
	)
	p.succeed(ctx, removeLiquidityOp, &RemoveLiquidityEvent{
		Caller:    caller,
		AmountA:   amountA,
		AmountB:   amountB,
		Liquidity: liquidity,
	})
	return amountA, amountB, nil
}

func (p *Pool) removeLiquidity(
	ctx context.Context,
	caller codec.Address,
	liquidity uint64,
) (uint64, uint64, error) {
	totalClaims, err := p.ledger.TotalClaims(ctx)
	if err != nil {
		return 0, 0, err
	}

	model := pricing.NewConstantProduct(p.reserveA, p.reserveB)
	amountA, amountB, err := model.RemoveLiquidity(liquidity, totalClaims)
	if err != nil {
		return 0, 0, err
	}
	if err := p.transact(ctx, func() error {
		custody := p.ledger.Custody()
		// Claims are routed through custody before they are burned.
		if err := p.ledger.TransferClaims(ctx, caller, custody, liquidity); err != nil {
			return err
		}
		if err := p.ledger.BurnClaims(ctx, custody, liquidity); err != nil {
			return err
		}
		if err := p.ledger.Push(ctx, p.tokenA, caller, amountA); err != nil {
			return err
		}
		return p.ledger.Push(ctx, p.tokenB, caller, amountB)
	}); err != nil {
		return 0, 0, err
	}
	p.reserveA, p.reserveB = model.Reserves()
	return amountA, amountB, nil
}

func (p *Pool) isAsset(token codec.Address) bool {
	return token == p.tokenA || token == p.tokenB
}

// transact reverts every ledger change made by [f] if it fails.
func (p *Pool) transact(ctx context.Context, f func() error) error {
	restorePoint := p.ledger.Checkpoint()
	if err := f(); err != nil {
		p.ledger.Revert(ctx, restorePoint)
		return err
	}
	return nil
}

func (p *Pool) succeed(ctx context.Context, operation string, e Event) {
	p.metrics.recordSuccess(p.name, operation)
	p.metrics.recordReserves(p.name, p.reserveA, p.reserveB)
	// Subscribers cannot undo a committed operation.
	if err := event.NotifyAll(ctx, e, p.subscriptions...); err != nil {
		p.log.Warn("failed to notify subscribers",
			zap.String("pool", p.name),
			zap.String("event", EventName(e.GetTypeID())),
			zap.Error(err),
		)
	}
}

func (p *Pool) fail(operation string, caller codec.Address, err error) {
	p.metrics.recordFailure(p.name, operation)
	p.log.Debug("operation rejected",
		zap.String("pool", p.name),
		zap.String("operation", operation),
		zap.Stringer("caller", caller),
		zap.Error(err),
	)
}
