// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/btcsuite/btcd/btcutil/bech32"
)

const AddressLen = 33

// Address identifies an account, a token, a pool or a pool's claim token.
// The first byte is the type prefix of the entity it identifies.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// CreateAddress returns [Address] made from concatenating
// [typeID] with [id].
func CreateAddress(typeID uint8, id ids.ID) Address {
	a := make([]byte, AddressLen)
	a[0] = typeID
	copy(a[1:], id[:])
	return Address(a)
}

// ToAddress copies [b] into an Address. [b] must be exactly
// [AddressLen] bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d, found %d", ErrInvalidLength, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// TypeID returns the type prefix of [a].
func (a Address) TypeID() uint8 {
	return a[0]
}

// Compare orders addresses bytewise.
func (a Address) Compare(b Address) int {
	return bytes.Compare(a[:], b[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	result := make([]byte, len(a)*2+2)
	copy(result, `0x`)
	hex.Encode(result[2:], a[:])
	return result, nil
}

// UnmarshalText parses a hex-encoded address. A bech32 encoded address is
// accepted as well.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) >= 2 && input[0] == '0' && input[1] == 'x' {
		input = input[2:]
	} else if hrp, _, err := bech32.Decode(string(input)); err == nil {
		parsed, err := ParseAddressBech32(hrp, string(input))
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}

	decoded, err := hex.DecodeString(string(input))
	if err != nil {
		return err
	}
	parsed, err := ToAddress(decoded)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// AddressBech32 returns a bech32 address from [hrp] and [p].
func AddressBech32(hrp string, p Address) (string, error) {
	// Data must be converted from 8-bit groups to 5-bit groups before
	// bech32 encoding.
	fiveBits, err := bech32.ConvertBits(p[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	return bech32.Encode(hrp, fiveBits)
}

// MustAddressBech32 returns a bech32 address from [hrp] and [p] or panics.
func MustAddressBech32(hrp string, p Address) string {
	addr, err := AddressBech32(hrp, p)
	if err != nil {
		panic(err)
	}
	return addr
}

// ParseAddressBech32 parses a bech32 encoded address string and extracts
// its [Address]. If the bech32 address prefix does not match [hrp], an
// error is returned.
func ParseAddressBech32(hrp, saddr string) (Address, error) {
	phrp, p, err := bech32.Decode(saddr)
	if err != nil {
		return EmptyAddress, err
	}
	if phrp != hrp {
		return EmptyAddress, ErrIncorrectHRP
	}
	// The parsed data is in 5-bit groups and needs to be converted back
	// to 8-bit groups.
	p, err = bech32.ConvertBits(p, 5, 8, false)
	if err != nil {
		return EmptyAddress, err
	}
	return ToAddress(p)
}
