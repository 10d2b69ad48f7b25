package contract

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

/*
 * ====================================================================
 * Contract program and method model
 * ====================================================================
 * A deployed contract is a named program with up to 256 methods
 * addressed by index. Each method carries its type (callable,
 * internal or read-only), the declared call elements and the opcode
 * body executed by the engine in the script subpackage. The binary
 * container format is a flat concatenation of length-prefixed
 * fields; names are NFC-normalized before validation so visually
 * identical names cannot coexist.
 */
