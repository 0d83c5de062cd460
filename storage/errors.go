// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrTokenDoesNotExist     = errors.New("token does not exist")
	ErrTokenExists           = errors.New("token already exists")
	ErrInvalidTokenName      = errors.New("invalid token name")
	ErrInvalidTokenSymbol    = errors.New("invalid token symbol")
	ErrInvalidTokenMetadata  = errors.New("invalid token metadata")
	ErrInvalidTokenDecimals  = errors.New("invalid token decimals")
	ErrInsufficientBalance   = errors.New("insufficient balance")
	ErrInsufficientAllowance = errors.New("insufficient allowance")
	ErrInsufficientCustody   = errors.New("insufficient custody balance")
	ErrIdenticalAddresses    = errors.New("identical addresses")
	ErrPoolDoesNotExist      = errors.New("pool does not exist")
	ErrTooManyPools          = errors.New("too many pools")
	ErrCorruptRecord         = errors.New("corrupt record")
)
