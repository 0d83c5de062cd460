// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"

	"github.com/ava-labs/cpamm/storage"
)

var (
	ErrPoolExists   = errors.New("pool exists")
	ErrPoolNotFound = storage.ErrPoolDoesNotExist
	ErrTooManyPools = storage.ErrTooManyPools
	ErrUnauthorized = errors.New("unauthorized")
	ErrClosed       = errors.New("vm closed")
)
