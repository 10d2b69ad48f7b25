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
	"bytes"
	"errors"
	"testing"

	"github.com/holiman/uint256"
)

func TestUintRoundtrip(t *testing.T) {
	vals := []*uint256.Int{
		uint256.NewInt(0),
		uint256.NewInt(1),
		uint256.NewInt(255),
		uint256.NewInt(256),
		uint256.NewInt(65536),
		new(uint256.Int).Lsh(uint256.NewInt(1), 64),
		new(uint256.Int).Lsh(uint256.NewInt(1), 255),
		new(uint256.Int).Not(uint256.NewInt(0)), // 2^256 - 1
	}
	for _, v := range vals {
		it := ItemFromUint(v)
		back, err := it.Uint()
		if err != nil {
			t.Fatalf("%s: %s", v, err)
		}
		if !back.Eq(v) {
			t.Fatalf("roundtrip %s -> %s -> %s", v, it, back)
		}
	}
}

func TestUintEncoding(t *testing.T) {
	// zero is the empty item
	if it := ItemFromUint64(0); !it.IsFalse() {
		t.Fatalf("zero encodes as %s", it)
	}
	// little-endian with trailing zeros trimmed
	if it := ItemFromUint64(256); !it.Equal(Item{0x00, 0x01}) {
		t.Fatalf("256 encodes as %s", it)
	}
	if it := ItemFromUint64(1); !it.Equal(Item{0x01}) {
		t.Fatalf("1 encodes as %s", it)
	}
	// right-zero-padded items have the same numeric view
	a, err := Item{0x05, 0x00, 0x00}.Uint()
	if err != nil {
		t.Fatal(err)
	}
	if !a.Eq(uint256.NewInt(5)) {
		t.Fatalf("padded view = %s", a)
	}
	// 32-byte items convert, longer ones do not
	if _, err := Item(bytes.Repeat([]byte{0xff}, 32)).Uint(); err != nil {
		t.Fatal(err)
	}
	_, err = Item(bytes.Repeat([]byte{0xff}, 33)).Uint()
	if !errors.Is(err, ErrStackUintConversion) {
		t.Fatalf("error %v, want conversion error", err)
	}
}

func TestUsize(t *testing.T) {
	n, err := Item{0x10}.Usize()
	if err != nil || n != 16 {
		t.Fatalf("usize = %d, %v", n, err)
	}
	if _, err := Item(bytes.Repeat([]byte{0xff}, 9)).Usize(); !errors.Is(err, ErrStackUintMaxOverflow) {
		t.Fatalf("error %v, want overflow", err)
	}
}

func TestItemBool(t *testing.T) {
	if !TrueItem().IsCanonicalTrue() || !TrueItem().IsTrue() {
		t.Fatal("true item")
	}
	if !FalseItem().IsFalse() || FalseItem().IsTrue() {
		t.Fatal("false item")
	}
	if Item{0x02}.IsCanonicalTrue() {
		t.Fatal("0x02 is not canonical true")
	}
	if (Item{0x00}).IsFalse() {
		t.Fatal("a zero byte is still truthy")
	}
}
