// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"encoding/binary"

	"github.com/ava-labs/cpamm/consts"
)

// reader consumes a record written with the append helpers below. The
// first short read sets [err]; later reads return zero values.
type reader struct {
	b   []byte
	err bool
}

func (r *reader) fixed(n int) []byte {
	if r.err || len(r.b) < n {
		r.err = true
		return nil
	}
	v := r.b[:n]
	r.b = r.b[n:]
	return v
}

func (r *reader) uint8() uint8 {
	v := r.fixed(consts.Uint8Len)
	if v == nil {
		return 0
	}
	return v[0]
}

func (r *reader) uint16() uint16 {
	v := r.fixed(consts.Uint16Len)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint16(v)
}

func (r *reader) uint64() uint64 {
	v := r.fixed(consts.Uint64Len)
	if v == nil {
		return 0
	}
	return binary.BigEndian.Uint64(v)
}

// bytes reads a uint16 length-prefixed byte slice.
func (r *reader) bytes() []byte {
	l := r.uint16()
	v := r.fixed(int(l))
	if len(v) == 0 {
		return nil
	}
	return append([]byte{}, v...)
}

func appendBytes(v []byte, b []byte) []byte {
	v = binary.BigEndian.AppendUint16(v, uint16(len(b)))
	return append(v, b...)
}
