// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	Name = "cpamm"

	// HRP is the human-readable part of bech32 encoded addresses.
	HRP = "amm"

	IDLen     = 32
	ByteLen   = 1
	BoolLen   = 1
	Uint8Len  = 1
	Uint16Len = 2
	Uint64Len = 8
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
)

// Address type prefixes
const (
	AccountID uint8 = iota
	TokenID
	PoolID
	ClaimTokenID
)
