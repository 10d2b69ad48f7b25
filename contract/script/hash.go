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
	"crypto/sha1" //nolint:gosec // part of the opcode set
	"crypto/sha256"

	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // part of the opcode set
)

// Hash160 computes RIPEMD-160(SHA-256(data))
func Hash160(data []byte) []byte {
	ripemd := ripemd160.New()
	ripemd.Write(Sha256(data))
	return ripemd.Sum(nil)
}

// Hash256 computes SHA-256(SHA-256(data))
func Hash256(data []byte) []byte {
	return Sha256(Sha256(data))
}

// Sha256 computes SHA-256(data)
func Sha256(data []byte) []byte {
	sha2 := sha256.New()
	sha2.Write(data)
	return sha2.Sum(nil)
}

// RipeMD160 computes RIPEMD160(data)
func RipeMD160(data []byte) []byte {
	ripemd := ripemd160.New()
	ripemd.Write(data)
	return ripemd.Sum(nil)
}

// Sha1 computes SHA1(data)
func Sha1(data []byte) []byte {
	sha := sha1.New() //nolint:gosec // part of the opcode set
	sha.Write(data)
	return sha.Sum(nil)
}

// TaggedHash computes the domain-separated digest
// SHA-256(SHA-256(tag) || SHA-256(tag) || data). An empty tag yields
// the plain SHA-256 of the data.
func TaggedHash(tag, data []byte) []byte {
	if len(tag) == 0 {
		return Sha256(data)
	}
	th := Sha256(tag)
	sha2 := sha256.New()
	sha2.Write(th)
	sha2.Write(th)
	sha2.Write(data)
	return sha2.Sum(nil)
}
