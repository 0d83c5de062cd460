// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

// Key prefixes
const (
	tokenInfoPrefix byte = iota
	balancePrefix
	allowancePrefix
	poolPrefix
	poolIndexPrefix
	genesisPrefix
)

// Chunks
const (
	TokenInfoChunks uint16 = 6
	BalanceChunks   uint16 = 1
	AllowanceChunks uint16 = 1
	PoolChunks      uint16 = 2
	GenesisChunks   uint16 = 1
)

const (
	MaxTokenNameSize     = 64
	MaxTokenSymbolSize   = 8
	MaxTokenMetadataSize = 256
	MaxTokenDecimals     = 18

	// MaxPools bounds the persisted pool index.
	MaxPools = 1024
)

// All claim tokens have the following data
const (
	ClaimTokenName     = "CPAMM-Claim" // #nosec G101
	ClaimTokenSymbol   = "CLAIM"
	ClaimTokenDecimals = 9
	ClaimTokenMetadata = "A constant-product pool share"
)

const (
	stateDB = "statedb"
)
