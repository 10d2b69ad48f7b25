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
	"encoding/hex"

	"github.com/bfix/anchor/errors"
)

// Statement is a single decoded script statement: an opcode and, for
// data pushes, the literal payload.
type Statement struct {
	Opcode byte
	Data   Item
}

// NewStatement creates a statement with an opcode.
func NewStatement(op byte) *Statement {
	return &Statement{
		Opcode: op,
	}
}

// NewDataStatement creates a data push statement with the minimal
// opcode for the payload length.
func NewDataStatement(data []byte) *Statement {
	var op byte
	ld := len(data)
	switch {
	case ld == 0:
		return &Statement{Opcode: OpFALSE}
	case ld < 76:
		op = byte(ld)
	case ld < 256:
		op = OpPUSHDATA1
	case ld < 65536:
		op = OpPUSHDATA2
	default:
		op = OpPUSHDATA4
	}
	return &Statement{
		Opcode: op,
		Data:   Item(data).Clone(),
	}
}

// IsPush returns whether the statement pushes a literal.
func (s *Statement) IsPush() bool {
	return s.Opcode <= OpPUSHDATA4
}

// String returns the string representation of a statement.
func (s *Statement) String() string {
	if s.IsPush() {
		return hex.EncodeToString(s.Data)
	}
	if opc := GetOpcode(s.Opcode); opc != nil {
		return opc.Name
	}
	return hex.EncodeToString([]byte{s.Opcode})
}

// Script is an ordered list of statements decoded from a method body.
type Script struct {
	Stmts []*Statement
}

// Parse decodes a method body into a script. Undefined tag bytes and
// non-minimal data pushes are rejected.
func Parse(body []byte) (*Script, error) {
	scr := new(Script)
	lb := len(body)
	for i := 0; i < lb; {
		op := body[i]
		i++
		switch {
		case op == OpFALSE:
			scr.Stmts = append(scr.Stmts, NewStatement(OpFALSE))

		case op < OpPUSHDATA1:
			// OP_PUSHBYTES_1..75
			s := int(op)
			if i+s > lb {
				return nil, errors.New(ErrInvalidPushDataLength,
					"need %d bytes at pos %d", s, i)
			}
			scr.Stmts = append(scr.Stmts, &Statement{
				Opcode: op,
				Data:   Item(body[i : i+s]).Clone(),
			})
			i += s

		case op <= OpPUSHDATA4:
			ls := 1 << (op - OpPUSHDATA1) // length-of-length: 1, 2, 4
			if i+ls > lb {
				return nil, errors.New(ErrInvalidPushDataLength,
					"truncated length field at pos %d", i)
			}
			s := int(getUint(body[i : i+ls]))
			i += ls
			switch {
			case op == OpPUSHDATA1 && s < 76,
				op == OpPUSHDATA2 && s < 256,
				op == OpPUSHDATA4 && s < 65536:
				return nil, errors.New(ErrNonMinimalDataPush,
					"%d bytes pushed with %s", s, GetOpcode(op).Name)
			}
			if i+s > lb {
				return nil, errors.New(ErrInvalidPushDataLength,
					"need %d bytes at pos %d", s, i)
			}
			scr.Stmts = append(scr.Stmts, &Statement{
				Opcode: op,
				Data:   Item(body[i : i+s]).Clone(),
			})
			i += s

		default:
			if GetOpcode(op) == nil {
				return nil, errors.New(ErrUndefinedOpcode, "0x%02x at pos %d", op, i-1)
			}
			scr.Stmts = append(scr.Stmts, NewStatement(op))
		}
	}
	return scr, nil
}

// Bytes returns the (flat) binary representation of the script with
// minimal push encodings.
func (s *Script) Bytes() []byte {
	bin := make([]byte, 0)
	for _, stmt := range s.Stmts {
		bin = append(bin, stmt.Opcode)
		if stmt.IsPush() && stmt.Opcode >= OpPUSHDATA1 && stmt.Opcode <= OpPUSHDATA4 {
			ls := 1 << (stmt.Opcode - OpPUSHDATA1)
			bin = append(bin, putUint(uint(len(stmt.Data)), ls)...)
		}
		if stmt.IsPush() {
			bin = append(bin, stmt.Data...)
		}
	}
	return bin
}

// CheckFlow statically verifies that the conditional structure of the
// script is well-formed and returns the maximum nesting depth.
func (s *Script) CheckFlow() (int, error) {
	var open []bool // per region: ELSE arm already seen
	maxDepth := 0
	for _, stmt := range s.Stmts {
		switch stmt.Opcode {
		case OpIF, OpNOTIF:
			open = append(open, false)
			if len(open) > maxDepth {
				maxDepth = len(open)
			}
		case OpELSE:
			if len(open) == 0 {
				return 0, ErrElseWithoutIf
			}
			if open[len(open)-1] {
				return 0, ErrDoubleElse
			}
			open[len(open)-1] = true
		case OpENDIF:
			if len(open) == 0 {
				return 0, ErrEndIfWithoutIf
			}
			open = open[:len(open)-1]
		}
	}
	if len(open) > 0 {
		return 0, errors.New(ErrUnclosedConditional, "%d open regions", len(open))
	}
	return maxDepth, nil
}

// getUint reads an unsigned little-endian integer from a buffer.
func getUint(buf []byte) uint {
	var v uint
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint(buf[i])
	}
	return v
}

// putUint writes an unsigned integer in little-endian order using n
// bytes.
func putUint(v uint, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
