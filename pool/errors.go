// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pool

import (
	"errors"

	"github.com/ava-labs/cpamm/pricing"
)

var (
	ErrTokenAIsNotContract = errors.New("token A is not a contract")
	ErrTokenBIsNotContract = errors.New("token B is not a contract")
	ErrIdenticalAddress    = errors.New("identical token addresses")

	ErrInvalidToken   = errors.New("invalid token")
	ErrIdenticalAsset = errors.New("identical assets")
	ErrZeroAmount     = errors.New("zero amount")

	ErrInsufficientInput      = pricing.ErrInsufficientInput
	ErrInsufficientOutput     = pricing.ErrInsufficientOutput
	ErrInsufficientBurnAmount = pricing.ErrInsufficientBurnAmount
	ErrEmptyReserves          = pricing.ErrReservesZero
)
