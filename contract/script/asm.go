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
	"fmt"
	"strings"

	"github.com/holiman/uint256"
)

// Compile assembles a script source into its binary representation.
// Tokens are opcode mnemonics ("OP_DUP"), hex-encoded data pushes
// ("deadbeef") or decimal integers ("#42"); data is always emitted
// with the minimal push encoding.
func Compile(src string) ([]byte, error) {
	scr := new(Script)
	for _, tok := range strings.Split(src, " ") {
		if len(tok) == 0 {
			continue
		}
		switch {
		case strings.HasPrefix(tok, "OP_"):
			found := false
			for _, opc := range OpCodes {
				if opc.Name == tok {
					scr.Stmts = append(scr.Stmts, NewStatement(opc.Value))
					found = true
					break
				}
			}
			if !found {
				return nil, fmt.Errorf("unknown opcode '%s'", tok)
			}
		case strings.HasPrefix(tok, "#"):
			v, err := uint256.FromDecimal(tok[1:])
			if err != nil {
				return nil, err
			}
			scr.Stmts = append(scr.Stmts, NewDataStatement(ItemFromUint(v)))
		default:
			b, err := hex.DecodeString(tok)
			if err != nil {
				return nil, err
			}
			scr.Stmts = append(scr.Stmts, NewDataStatement(b))
		}
	}
	return scr.Bytes(), nil
}

// Decompile returns a human-readable script source from a binary
// method body.
func Decompile(body []byte) (string, error) {
	scr, err := Parse(body)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for i, stmt := range scr.Stmts {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case stmt.Opcode == OpFALSE:
			sb.WriteString("OP_FALSE")
		case stmt.IsPush() && len(stmt.Data) <= 4:
			v, _ := stmt.Data.Uint()
			sb.WriteString("#" + v.Dec())
		case stmt.IsPush():
			sb.WriteString(hex.EncodeToString(stmt.Data))
		default:
			sb.WriteString(GetOpcode(stmt.Opcode).Name)
		}
	}
	return sb.String(), nil
}
