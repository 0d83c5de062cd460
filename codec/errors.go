// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrInvalidLength = errors.New("invalid length")
	ErrIncorrectHRP  = errors.New("incorrect hrp")
)
