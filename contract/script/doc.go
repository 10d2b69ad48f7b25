package script

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
 * Contract execution engine
 * ====================================================================
 * A deterministic, metered, stack-based virtual machine for compiled
 * contract methods. The instruction set follows the Bitcoin Script
 * tag bytes where meaning is preserved and adds a contract-oriented
 * extension block for memory, durable storage, payments, caller
 * context and secp256k1 primitives.
 *
 * Execution is strictly single-threaded and synchronous per
 * invocation: the only clock is the ops counter, which bounds every
 * run to min(budget, OpsLimit) cost units and so guarantees
 * termination. A StackHolder owns the main and alternate stacks, the
 * control-flow stack, the contract memory, the payment accountant
 * and borrowed views of durable state for the duration of one call;
 * the host commits the resulting memory, state and payment deltas
 * only when the interpreter returns normally.
 */
