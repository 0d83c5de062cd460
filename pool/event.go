// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import "github.com/ava-labs/cpamm/codec"

const (
	SwapEventID uint8 = iota
	AddLiquidityEventID
	RemoveLiquidityEventID
)

var (
	_ Event = (*SwapEvent)(nil)
	_ Event = (*AddLiquidityEvent)(nil)
	_ Event = (*RemoveLiquidityEvent)(nil)
)

// Event is emitted after a state-changing operation succeeds.
type Event interface {
	GetTypeID() uint8
}

type SwapEvent struct {
	Caller    codec.Address `json:"caller"`
	TokenIn   codec.Address `json:"tokenIn"`
	TokenOut  codec.Address `json:"tokenOut"`
	AmountIn  uint64        `json:"amountIn"`
	AmountOut uint64        `json:"amountOut"`
}

func (*SwapEvent) GetTypeID() uint8 {
	return SwapEventID
}

type AddLiquidityEvent struct {
	Caller    codec.Address `json:"caller"`
	AmountA   uint64        `json:"amountA"`
	AmountB   uint64        `json:"amountB"`
	Liquidity uint64        `json:"liquidity"`
}

func (*AddLiquidityEvent) GetTypeID() uint8 {
	return AddLiquidityEventID
}

type RemoveLiquidityEvent struct {
	Caller    codec.Address `json:"caller"`
	AmountA   uint64        `json:"amountA"`
	AmountB   uint64        `json:"amountB"`
	Liquidity uint64        `json:"liquidity"`
}

func (*RemoveLiquidityEvent) GetTypeID() uint8 {
	return RemoveLiquidityEventID
}

// EventName returns a human readable name for [typeID].
func EventName(typeID uint8) string {
	switch typeID {
	case SwapEventID:
		return "swap"
	case AddLiquidityEventID:
		return "addLiquidity"
	case RemoveLiquidityEventID:
		return "removeLiquidity"
	default:
		return "unknown"
	}
}
