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
)

func TestParseRoundtrip(t *testing.T) {
	srcs := []string{
		"OP_DUP OP_HASH160 deadbeefdeadbeefdeadbeefdeadbeefdeadbeef OP_EQUALVERIFY",
		"OP_TRUE OP_IF OP_2 OP_ELSE OP_3 OP_ENDIF",
		"#0 #1 #65535 OP_ADD OP_RETURNALL",
	}
	for _, src := range srcs {
		bin, err := Compile(src)
		if err != nil {
			t.Fatalf("compile '%s': %s", src, err)
		}
		scr, err := Parse(bin)
		if err != nil {
			t.Fatalf("parse '%s': %s", src, err)
		}
		if !bytes.Equal(scr.Bytes(), bin) {
			t.Fatalf("roundtrip mismatch for '%s'", src)
		}
		back, err := Decompile(bin)
		if err != nil {
			t.Fatalf("decompile '%s': %s", src, err)
		}
		bin2, err := Compile(back)
		if err != nil {
			t.Fatalf("recompile '%s': %s", back, err)
		}
		if !bytes.Equal(bin, bin2) {
			t.Fatalf("decompile roundtrip mismatch: '%s' vs '%s'", src, back)
		}
	}
}

func TestMinimalPushEncoding(t *testing.T) {
	// the assembler picks the unique minimal encoding per length
	for _, tc := range []struct {
		dataLen int
		opcode  byte
	}{
		{1, 0x01},
		{75, 0x4b},
		{76, OpPUSHDATA1},
		{255, OpPUSHDATA1},
		{256, OpPUSHDATA2},
		{65535, OpPUSHDATA2},
		{65536, OpPUSHDATA4},
	} {
		stmt := NewDataStatement(make([]byte, tc.dataLen))
		if stmt.Opcode != tc.opcode {
			t.Errorf("length %d: opcode 0x%02x, want 0x%02x", tc.dataLen, stmt.Opcode, tc.opcode)
		}
	}
	if stmt := NewDataStatement(nil); stmt.Opcode != OpFALSE {
		t.Error("empty push must encode as OP_FALSE")
	}
}

func TestParseRejectsNonMinimal(t *testing.T) {
	cases := [][]byte{
		// 5 bytes via PUSHDATA1 (must use OP_PUSHBYTES_5)
		append([]byte{OpPUSHDATA1, 5}, make([]byte, 5)...),
		// 80 bytes via PUSHDATA2 (must use OP_PUSHDATA1)
		append([]byte{OpPUSHDATA2, 80, 0}, make([]byte, 80)...),
		// 300 bytes via PUSHDATA4 (must use OP_PUSHDATA2)
		append([]byte{OpPUSHDATA4, 44, 1, 0, 0}, make([]byte, 300)...),
	}
	for i, body := range cases {
		if _, err := Parse(body); !errors.Is(err, ErrNonMinimalDataPush) {
			t.Errorf("case %d: error %v, want non-minimal push", i, err)
		}
	}
	// minimal encodings of the same lengths are accepted
	ok := [][]byte{
		append([]byte{5}, make([]byte, 5)...),
		append([]byte{OpPUSHDATA1, 80}, make([]byte, 80)...),
		append([]byte{OpPUSHDATA2, 44, 1}, make([]byte, 300)...),
	}
	for i, body := range ok {
		if _, err := Parse(body); err != nil {
			t.Errorf("case %d: unexpected error %s", i, err)
		}
	}
}

func TestParseRejectsTruncated(t *testing.T) {
	cases := [][]byte{
		{3, 0xde, 0xad},           // PUSHBYTES_3 with 2 bytes
		{OpPUSHDATA1},             // missing length
		{OpPUSHDATA1, 80, 0x01},   // missing payload
		{OpPUSHDATA2, 0x01},       // truncated length field
		{OpPUSHDATA4, 0, 0, 1, 0}, // missing payload
	}
	for i, body := range cases {
		if _, err := Parse(body); !errors.Is(err, ErrInvalidPushDataLength) {
			t.Errorf("case %d: error %v, want push data length", i, err)
		}
	}
}

func TestParseRejectsUndefined(t *testing.T) {
	for _, b := range []byte{0x7f, 0x80, 0x81, 0x8a, 0x93, 0x99, 0xac, 0xb1, 0xb5, 0xbe, 0xc9, 0xff} {
		if _, err := Parse([]byte{b}); !errors.Is(err, ErrUndefinedOpcode) {
			t.Errorf("byte 0x%02x: error %v, want undefined opcode", b, err)
		}
	}
}

func TestOpcodeTableConsistency(t *testing.T) {
	seen := make(map[byte]string)
	for _, opc := range OpCodes {
		if name, dup := seen[opc.Value]; dup {
			t.Errorf("byte 0x%02x assigned to %s and %s", opc.Value, name, opc.Name)
		}
		seen[opc.Value] = opc.Name
		if opc.Ops == 0 {
			t.Errorf("%s has no base cost", opc.Name)
		}
		if got := GetOpcode(opc.Value); got != opc {
			t.Errorf("lookup mismatch for %s", opc.Name)
		}
	}
	// every non-push opcode needs a handler
	for _, opc := range OpCodes {
		if opc.Value > OpPUSHDATA4 && opc.Exec == nil {
			t.Errorf("%s has no handler", opc.Name)
		}
	}
}

func TestCheckFlow(t *testing.T) {
	for _, tc := range []struct {
		src   string
		depth int
		err   error
	}{
		{"OP_TRUE OP_IF OP_2 OP_ENDIF", 1, nil},
		{"OP_TRUE OP_IF OP_TRUE OP_IF OP_2 OP_ENDIF OP_ELSE OP_3 OP_ENDIF", 2, nil},
		{"OP_ELSE", 0, ErrElseWithoutIf},
		{"OP_TRUE OP_IF OP_ELSE OP_ELSE OP_ENDIF", 0, ErrDoubleElse},
		{"OP_ENDIF", 0, ErrEndIfWithoutIf},
		{"OP_TRUE OP_IF", 0, ErrUnclosedConditional},
	} {
		bin, err := Compile(tc.src)
		if err != nil {
			t.Fatal(err)
		}
		scr, err := Parse(bin)
		if err != nil {
			t.Fatal(err)
		}
		depth, err := scr.CheckFlow()
		if tc.err == nil {
			if err != nil {
				t.Errorf("'%s': unexpected error %s", tc.src, err)
			} else if depth != tc.depth {
				t.Errorf("'%s': depth %d, want %d", tc.src, depth, tc.depth)
			}
			continue
		}
		if !errors.Is(err, tc.err) {
			t.Errorf("'%s': error %v, want %v", tc.src, err, tc.err)
		}
	}
}
