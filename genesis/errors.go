// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "errors"

var (
	ErrDuplicateSymbol = errors.New("duplicate token symbol")
	ErrDuplicatePool   = errors.New("duplicate pool")
	ErrUnknownSymbol   = errors.New("unknown token symbol")
)
