// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/cpamm/codec"
	"github.com/ava-labs/cpamm/consts"
	"github.com/ava-labs/cpamm/keys"
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/utils"
)

// Pool is the persisted record of a pool.
type Pool struct {
	TokenA     codec.Address
	TokenB     codec.Address
	ClaimToken codec.Address
	ReserveA   uint64
	ReserveB   uint64
}

func PoolKey(pool codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = poolPrefix
	copy(k[1:1+codec.AddressLen], pool[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen:], PoolChunks)
	return k
}

func PoolIndexKey() []byte {
	// MaxPools*AddressLen always fits in uint16 chunks
	k, _ := keys.Encode([]byte{poolIndexPrefix}, MaxPools*codec.AddressLen)
	return k
}

func GenesisKey() []byte {
	return keys.EncodeChunks([]byte{genesisPrefix}, GenesisChunks)
}

// PoolAddress is independent of the order of [tokenX] and [tokenY].
func PoolAddress(tokenX codec.Address, tokenY codec.Address) (codec.Address, error) {
	var first, second codec.Address
	switch tokenX.Compare(tokenY) {
	case -1:
		first, second = tokenX, tokenY
	case 1:
		first, second = tokenY, tokenX
	default:
		return codec.EmptyAddress, ErrIdenticalAddresses
	}
	v := make([]byte, codec.AddressLen*2)
	copy(v, first[:])
	copy(v[codec.AddressLen:], second[:])
	return codec.CreateAddress(consts.PoolID, utils.ToID(v)), nil
}

func ClaimTokenAddress(pool codec.Address) codec.Address {
	return codec.CreateAddress(consts.ClaimTokenID, utils.ToID(pool[:]))
}

// ClaimTokenInfo is the token record created alongside every pool.
func ClaimTokenInfo(pool codec.Address) *TokenInfo {
	return &TokenInfo{
		Name:     []byte(ClaimTokenName),
		Symbol:   []byte(ClaimTokenSymbol),
		Decimals: ClaimTokenDecimals,
		Metadata: []byte(ClaimTokenMetadata),
		Owner:    pool,
	}
}

func (p *Pool) Marshal() []byte {
	v := make([]byte, 0, codec.AddressLen*3+consts.Uint64Len*2)
	v = append(v, p.TokenA[:]...)
	v = append(v, p.TokenB[:]...)
	v = append(v, p.ClaimToken[:]...)
	v = binary.BigEndian.AppendUint64(v, p.ReserveA)
	return binary.BigEndian.AppendUint64(v, p.ReserveB)
}

func UnmarshalPool(v []byte) (*Pool, error) {
	if len(v) != codec.AddressLen*3+consts.Uint64Len*2 {
		return nil, fmt.Errorf("%w: pool", ErrCorruptRecord)
	}
	r := reader{b: v}
	p := &Pool{
		TokenA:     codec.Address(r.fixed(codec.AddressLen)),
		TokenB:     codec.Address(r.fixed(codec.AddressLen)),
		ClaimToken: codec.Address(r.fixed(codec.AddressLen)),
		ReserveA:   r.uint64(),
		ReserveB:   r.uint64(),
	}
	return p, nil
}

func SetPool(
	ctx context.Context,
	mu state.Mutable,
	pool codec.Address,
	p *Pool,
) error {
	return mu.Insert(ctx, PoolKey(pool), p.Marshal())
}

func GetPool(
	ctx context.Context,
	im state.Immutable,
	pool codec.Address,
) (*Pool, error) {
	v, err := im.GetValue(ctx, PoolKey(pool))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrPoolDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalPool(v)
}

// GetPools returns the addresses of all pools in creation order.
func GetPools(ctx context.Context, im state.Immutable) ([]codec.Address, error) {
	v, err := im.GetValue(ctx, PoolIndexKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(v)%codec.AddressLen != 0 {
		return nil, fmt.Errorf("%w: pool index", ErrCorruptRecord)
	}
	pools := make([]codec.Address, 0, len(v)/codec.AddressLen)
	for i := 0; i < len(v); i += codec.AddressLen {
		pools = append(pools, codec.Address(v[i:i+codec.AddressLen]))
	}
	return pools, nil
}

// AddPool appends [pool] to the pool index.
func AddPool(ctx context.Context, mu state.Mutable, pool codec.Address) error {
	pools, err := GetPools(ctx, mu)
	if err != nil {
		return err
	}
	if len(pools) >= MaxPools {
		return ErrTooManyPools
	}
	v := make([]byte, 0, (len(pools)+1)*codec.AddressLen)
	for _, p := range pools {
		v = append(v, p[:]...)
	}
	v = append(v, pool[:]...)
	return mu.Insert(ctx, PoolIndexKey(), v)
}

func HasGenesis(ctx context.Context, im state.Immutable) (bool, error) {
	_, err := im.GetValue(ctx, GenesisKey())
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func SetGenesis(ctx context.Context, mu state.Mutable) error {
	return mu.Insert(ctx, GenesisKey(), []byte{1})
}
