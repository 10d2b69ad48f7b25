//----------------------------------------------------------------------
// This file is part of Anchor.
// Copyright (C) 2024-2026 Bernd Fix  >Y<
//
// Anchor is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// Anchor is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package script

import (
	"math"

	"github.com/bfix/anchor/errors"
	"github.com/holiman/uint256"
)

// MaxUintBytes is the widest stack item that still has a numeric view.
const MaxUintBytes = 32

// Uint returns the unsigned 256-bit numeric view of the item. The item
// bytes are interpreted in little-endian order, padded on the right
// with zero bytes. Items longer than 32 bytes have no numeric view.
func (it Item) Uint() (*uint256.Int, error) {
	if len(it) > MaxUintBytes {
		return nil, errors.New(ErrStackUintConversion, "item length %d", len(it))
	}
	var buf [MaxUintBytes]byte
	for i, b := range it {
		buf[MaxUintBytes-1-i] = b
	}
	return new(uint256.Int).SetBytes32(buf[:]), nil
}

// Usize returns the numeric view of the item as a non-negative int
// for use as a count or a stack depth.
func (it Item) Usize() (int, error) {
	v, err := it.Uint()
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() || v.Uint64() > math.MaxInt32 {
		return 0, errors.New(ErrStackUintMaxOverflow, "value %s exceeds count range", v)
	}
	return int(v.Uint64()), nil
}

// ItemFromUint serializes a 256-bit value as the minimal-length
// little-endian item: trailing zero bytes are trimmed and zero is the
// empty item.
func ItemFromUint(v *uint256.Int) Item {
	buf := v.Bytes32()
	end := 0
	for i := 0; i < MaxUintBytes; i++ {
		if buf[i] != 0 {
			end = MaxUintBytes - i
			break
		}
	}
	out := make(Item, end)
	for i := 0; i < end; i++ {
		out[i] = buf[MaxUintBytes-1-i]
	}
	return out
}

// ItemFromUint64 is a convenience wrapper for intrinsic values.
func ItemFromUint64(v uint64) Item {
	return ItemFromUint(uint256.NewInt(v))
}
