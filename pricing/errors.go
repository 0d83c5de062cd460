// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pricing

import "errors"

var (
	ErrZeroInput              = errors.New("zero input")
	ErrInsufficientInput      = errors.New("insufficient input")
	ErrInsufficientOutput     = errors.New("insufficient output")
	ErrInsufficientBurnAmount = errors.New("insufficient burn amount")
	ErrReservesZero           = errors.New("reserves are zero")
	ErrOverflow               = errors.New("overflow")
)
