// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "github.com/holiman/uint256"

var (
	one   = uint256.NewInt(1)
	two   = uint256.NewInt(2)
	three = uint256.NewInt(3)
)

// Sqrt returns floor(sqrt(y)) using the Babylonian method.
//
// The iteration starts at y/2+1 and stops at the first non-decreasing
// step, matching the UniswapV2 Math.sqrt routine bit-for-bit.
func Sqrt(y *uint256.Int) *uint256.Int {
	if y.Gt(three) {
		z := y.Clone()
		x := new(uint256.Int).Div(y, two)
		x.Add(x, one)
		for x.Lt(z) {
			z.Set(x)
			// x = (y/x + x) / 2
			x.Add(new(uint256.Int).Div(y, x), x)
			x.Div(x, two)
		}
		return z
	} else if !y.IsZero() {
		return uint256.NewInt(1)
	}
	return uint256.NewInt(0)
}

// Sqrt64 is [Sqrt] for values that fit in 64 bits.
func Sqrt64(y uint64) uint64 {
	return Sqrt(uint256.NewInt(y)).Uint64()
}
