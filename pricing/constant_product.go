// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import (
	"github.com/holiman/uint256"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// ConstantProduct prices swaps and liquidity changes against a pair of
// reserves under x*y = k. Methods update the reserves held by the model
// only when they succeed; callers persist [Reserves] once every transfer
// backing the change has succeeded.
//
// All products are computed with 256-bit intermediates.
type ConstantProduct struct {
	reserveA uint64
	reserveB uint64
}

func NewConstantProduct(reserveA uint64, reserveB uint64) *ConstantProduct {
	return &ConstantProduct{
		reserveA: reserveA,
		reserveB: reserveB,
	}
}

func (c *ConstantProduct) Reserves() (uint64, uint64) {
	return c.reserveA, c.reserveB
}

// Swap returns the output for [amountIn] of token A (when [aIn]) or
// token B. The new output reserve is rounded up, so the product of the
// reserves never decreases.
func (c *ConstantProduct) Swap(amountIn uint64, aIn bool) (uint64, error) {
	if amountIn == 0 {
		return 0, ErrZeroInput
	}
	reserveIn, reserveOut := c.reserveA, c.reserveB
	if !aIn {
		reserveIn, reserveOut = c.reserveB, c.reserveA
	}

	newReserveIn, err := smath.Add64(reserveIn, amountIn)
	if err != nil {
		return 0, err
	}
	k := mul(reserveIn, reserveOut)
	newReserveOut := ceilDiv(k, uint256.NewInt(newReserveIn))
	// k/newReserveIn <= reserveOut because newReserveIn >= reserveIn
	amountOut := reserveOut - newReserveOut.Uint64()
	if amountOut == 0 {
		return 0, ErrInsufficientOutput
	}

	if aIn {
		c.reserveA, c.reserveB = newReserveIn, reserveOut-amountOut
	} else {
		c.reserveA, c.reserveB = reserveOut-amountOut, newReserveIn
	}
	return amountOut, nil
}

// AddLiquidity sizes a deposit of at most [amountAIn] and [amountBIn]
// against the current ratio and returns the amounts to take and the
// claims to issue. The first deposit into an empty pool sets the ratio
// and issues sqrt(amountA*amountB) claims.
func (c *ConstantProduct) AddLiquidity(
	amountAIn uint64,
	amountBIn uint64,
	totalClaims uint64,
) (uint64, uint64, uint64, error) {
	if amountAIn == 0 || amountBIn == 0 {
		return 0, 0, 0, ErrInsufficientInput
	}

	var (
		amountA   uint64
		amountB   uint64
		liquidity uint64
	)
	if totalClaims == 0 {
		amountA, amountB = amountAIn, amountBIn
		// sqrt of a 128-bit product always fits in 64 bits
		liquidity = Sqrt(mul(amountA, amountB)).Uint64()
	} else {
		if c.reserveA == 0 || c.reserveB == 0 {
			return 0, 0, 0, ErrReservesZero
		}
		if mul(amountAIn, c.reserveB).Cmp(mul(amountBIn, c.reserveA)) <= 0 {
			// A binds: amountB <= amountBIn, fits in 64 bits
			amountA = amountAIn
			amountB = mulDiv(amountAIn, c.reserveB, c.reserveA).Uint64()
		} else {
			amountB = amountBIn
			amountA = mulDiv(amountBIn, c.reserveA, c.reserveB).Uint64()
		}
		l := mulDiv(amountA, totalClaims, c.reserveA)
		if !l.IsUint64() {
			return 0, 0, 0, ErrOverflow
		}
		// may be zero for deposits too small to earn a claim
		liquidity = l.Uint64()
	}

	newReserveA, err := smath.Add64(c.reserveA, amountA)
	if err != nil {
		return 0, 0, 0, err
	}
	newReserveB, err := smath.Add64(c.reserveB, amountB)
	if err != nil {
		return 0, 0, 0, err
	}
	c.reserveA, c.reserveB = newReserveA, newReserveB
	return amountA, amountB, liquidity, nil
}

// RemoveLiquidity returns the pro-rata share of both reserves for
// redeeming [liquidity] of [totalClaims], rounded down.
func (c *ConstantProduct) RemoveLiquidity(
	liquidity uint64,
	totalClaims uint64,
) (uint64, uint64, error) {
	if liquidity == 0 || liquidity > totalClaims {
		return 0, 0, ErrInsufficientBurnAmount
	}
	// liquidity <= totalClaims keeps both outputs within the reserves
	amountA := mulDiv(c.reserveA, liquidity, totalClaims).Uint64()
	amountB := mulDiv(c.reserveB, liquidity, totalClaims).Uint64()
	c.reserveA -= amountA
	c.reserveB -= amountB
	return amountA, amountB, nil
}

func mul(x, y uint64) *uint256.Int {
	return new(uint256.Int).Mul(uint256.NewInt(x), uint256.NewInt(y))
}

// mulDiv returns floor(x*y/d). [d] must not be zero.
func mulDiv(x, y, d uint64) *uint256.Int {
	p := mul(x, y)
	return p.Div(p, uint256.NewInt(d))
}

func ceilDiv(n, d *uint256.Int) *uint256.Int {
	q, r := new(uint256.Int), new(uint256.Int)
	q.DivMod(n, d, r)
	if !r.IsZero() {
		q.Add(q, one)
	}
	return q
}
