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
	"github.com/ava-labs/cpamm/state"
	"github.com/ava-labs/cpamm/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// Unlimited is an allowance that is never decremented.
const Unlimited = consts.MaxUint64

type TokenInfo struct {
	Name        []byte
	Symbol      []byte
	Decimals    uint8
	Metadata    []byte
	TotalSupply uint64
	Owner       codec.Address
}

func TokenInfoKey(token codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen+consts.Uint16Len)
	k[0] = tokenInfoPrefix
	copy(k[1:1+codec.AddressLen], token[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen:], TokenInfoChunks)
	return k
}

func BalanceKey(token codec.Address, account codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen*2+consts.Uint16Len)
	k[0] = balancePrefix
	copy(k[1:], token[:])
	copy(k[1+codec.AddressLen:], account[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen*2:], BalanceChunks)
	return k
}

func AllowanceKey(token codec.Address, owner codec.Address, spender codec.Address) []byte {
	k := make([]byte, 1+codec.AddressLen*3+consts.Uint16Len)
	k[0] = allowancePrefix
	copy(k[1:], token[:])
	copy(k[1+codec.AddressLen:], owner[:])
	copy(k[1+codec.AddressLen*2:], spender[:])
	binary.BigEndian.PutUint16(k[1+codec.AddressLen*3:], AllowanceChunks)
	return k
}

// TokenAddress derives the address of a token from its immutable fields.
func TokenAddress(name []byte, symbol []byte, decimals uint8, metadata []byte) codec.Address {
	v := make([]byte, 0, len(name)+len(symbol)+consts.Uint8Len+len(metadata)+3*consts.Uint16Len)
	v = appendBytes(v, name)
	v = appendBytes(v, symbol)
	v = append(v, decimals)
	v = appendBytes(v, metadata)
	return codec.CreateAddress(consts.TokenID, utils.ToID(v))
}

func (t *TokenInfo) Verify() error {
	if len(t.Name) == 0 || len(t.Name) > MaxTokenNameSize {
		return ErrInvalidTokenName
	}
	if len(t.Symbol) == 0 || len(t.Symbol) > MaxTokenSymbolSize {
		return ErrInvalidTokenSymbol
	}
	if len(t.Metadata) > MaxTokenMetadataSize {
		return ErrInvalidTokenMetadata
	}
	if t.Decimals > MaxTokenDecimals {
		return ErrInvalidTokenDecimals
	}
	return nil
}

func (t *TokenInfo) Marshal() []byte {
	v := make([]byte, 0, 3*consts.Uint16Len+len(t.Name)+len(t.Symbol)+len(t.Metadata)+consts.Uint8Len+consts.Uint64Len+codec.AddressLen)
	v = appendBytes(v, t.Name)
	v = appendBytes(v, t.Symbol)
	v = append(v, t.Decimals)
	v = appendBytes(v, t.Metadata)
	v = binary.BigEndian.AppendUint64(v, t.TotalSupply)
	return append(v, t.Owner[:]...)
}

func UnmarshalTokenInfo(v []byte) (*TokenInfo, error) {
	var (
		t   TokenInfo
		err error
	)
	r := reader{b: v}
	t.Name = r.bytes()
	t.Symbol = r.bytes()
	t.Decimals = r.uint8()
	t.Metadata = r.bytes()
	t.TotalSupply = r.uint64()
	t.Owner, err = codec.ToAddress(r.fixed(codec.AddressLen))
	if r.err || err != nil || len(r.b) != 0 {
		return nil, fmt.Errorf("%w: token info", ErrCorruptRecord)
	}
	return &t, nil
}

func SetTokenInfo(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	info *TokenInfo,
) error {
	return mu.Insert(ctx, TokenInfoKey(token), info.Marshal())
}

// GetTokenInfo returns [ErrTokenDoesNotExist] if [token] was never created.
func GetTokenInfo(
	ctx context.Context,
	im state.Immutable,
	token codec.Address,
) (*TokenInfo, error) {
	v, err := im.GetValue(ctx, TokenInfoKey(token))
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrTokenDoesNotExist
	}
	if err != nil {
		return nil, err
	}
	return UnmarshalTokenInfo(v)
}

func TokenExists(
	ctx context.Context,
	im state.Immutable,
	token codec.Address,
) (bool, error) {
	_, err := im.GetValue(ctx, TokenInfoKey(token))
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// CreateToken registers a token with zero supply.
func CreateToken(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	info *TokenInfo,
) error {
	if err := info.Verify(); err != nil {
		return err
	}
	exists, err := TokenExists(ctx, mu, token)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenExists
	}
	info.TotalSupply = 0
	return SetTokenInfo(ctx, mu, token, info)
}

func SetBalance(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	account codec.Address,
	balance uint64,
) error {
	k := BalanceKey(token, account)
	if balance == 0 {
		return mu.Remove(ctx, k)
	}
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, balance)
	return mu.Insert(ctx, k, v)
}

// GetBalance returns 0 for accounts that never held [token].
func GetBalance(
	ctx context.Context,
	im state.Immutable,
	token codec.Address,
	account codec.Address,
) (uint64, error) {
	return getUint64(ctx, im, BalanceKey(token, account))
}

// MintToken updates both the token supply and the balance of [to].
func MintToken(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	to codec.Address,
	amount uint64,
) error {
	info, err := GetTokenInfo(ctx, mu, token)
	if err != nil {
		return err
	}
	balance, err := GetBalance(ctx, mu, token, to)
	if err != nil {
		return err
	}
	newTotalSupply, err := smath.Add64(info.TotalSupply, amount)
	if err != nil {
		return err
	}
	newBalance, err := smath.Add64(balance, amount)
	if err != nil {
		return err
	}
	info.TotalSupply = newTotalSupply
	if err := SetTokenInfo(ctx, mu, token, info); err != nil {
		return err
	}
	return SetBalance(ctx, mu, token, to, newBalance)
}

// BurnToken updates both the token supply and the balance of [from].
func BurnToken(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	from codec.Address,
	amount uint64,
) error {
	info, err := GetTokenInfo(ctx, mu, token)
	if err != nil {
		return err
	}
	balance, err := GetBalance(ctx, mu, token, from)
	if err != nil {
		return err
	}
	if balance < amount {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientBalance, balance, amount)
	}
	newTotalSupply, err := smath.Sub(info.TotalSupply, amount)
	if err != nil {
		return err
	}
	info.TotalSupply = newTotalSupply
	if err := SetBalance(ctx, mu, token, from, balance-amount); err != nil {
		return err
	}
	return SetTokenInfo(ctx, mu, token, info)
}

func TransferToken(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	from codec.Address,
	to codec.Address,
	amount uint64,
) error {
	exists, err := TokenExists(ctx, mu, token)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTokenDoesNotExist
	}
	fromBalance, err := GetBalance(ctx, mu, token, from)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientBalance, fromBalance, amount)
	}
	if from == to {
		return nil
	}
	toBalance, err := GetBalance(ctx, mu, token, to)
	if err != nil {
		return err
	}
	newToBalance, err := smath.Add64(toBalance, amount)
	if err != nil {
		return err
	}
	if err := SetBalance(ctx, mu, token, from, fromBalance-amount); err != nil {
		return err
	}
	return SetBalance(ctx, mu, token, to, newToBalance)
}

func SetAllowance(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
	amount uint64,
) error {
	k := AllowanceKey(token, owner, spender)
	if amount == 0 {
		return mu.Remove(ctx, k)
	}
	v := make([]byte, consts.Uint64Len)
	binary.BigEndian.PutUint64(v, amount)
	return mu.Insert(ctx, k, v)
}

func GetAllowance(
	ctx context.Context,
	im state.Immutable,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
) (uint64, error) {
	return getUint64(ctx, im, AllowanceKey(token, owner, spender))
}

// Approve sets the amount of [token] that [spender] may move out of the
// balance of [owner].
func Approve(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
	amount uint64,
) error {
	exists, err := TokenExists(ctx, mu, token)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTokenDoesNotExist
	}
	return SetAllowance(ctx, mu, token, owner, spender, amount)
}

// SpendAllowance consumes [amount] of the allowance [owner] granted to
// [spender]. An [Unlimited] allowance is left untouched.
func SpendAllowance(
	ctx context.Context,
	mu state.Mutable,
	token codec.Address,
	owner codec.Address,
	spender codec.Address,
	amount uint64,
) error {
	allowance, err := GetAllowance(ctx, mu, token, owner, spender)
	if err != nil {
		return err
	}
	if allowance == Unlimited {
		return nil
	}
	if allowance < amount {
		return fmt.Errorf("%w: %d < %d", ErrInsufficientAllowance, allowance, amount)
	}
	return SetAllowance(ctx, mu, token, owner, spender, allowance-amount)
}

func getUint64(ctx context.Context, im state.Immutable, k []byte) (uint64, error) {
	v, err := im.GetValue(ctx, k)
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(v) != consts.Uint64Len {
		return 0, ErrCorruptRecord
	}
	return binary.BigEndian.Uint64(v), nil
}
