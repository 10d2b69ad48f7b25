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
	"github.com/bfix/anchor/errors"
)

// Payment is one value transfer recorded by OP_PAY.
type Payment struct {
	From   [32]byte // paying contract
	To     [32]byte // receiving account or contract
	Amount uint32
}

// Accountant tracks the payable allocation of one invocation and the
// payments drawn from it. The allocation is immutable for the
// lifetime of the invocation; spending is monotone.
type Accountant struct {
	allocation uint64
	spent      uint64
	records    []Payment
}

// NewAccountant creates an accountant for a payable allocation.
func NewAccountant(allocation uint64) *Accountant {
	return &Accountant{
		allocation: allocation,
	}
}

// Allocation returns the immutable payable allocation.
func (a *Accountant) Allocation() uint64 {
	return a.allocation
}

// Spent returns the total amount drawn so far.
func (a *Accountant) Spent() uint64 {
	return a.spent
}

// Left returns the remaining payable balance.
func (a *Accountant) Left() uint64 {
	return a.allocation - a.spent
}

// Record appends a payment, failing if the invocation has no
// allocation or the amount exceeds the remaining balance.
func (a *Accountant) Record(p Payment) error {
	if a.allocation == 0 {
		return ErrNonAllocatedPayment
	}
	if uint64(p.Amount) > a.Left() {
		return errors.New(ErrAllocationExceeded, "amount %d, left %d", p.Amount, a.Left())
	}
	a.spent += uint64(p.Amount)
	a.records = append(a.records, p)
	return nil
}

// Records returns the recorded payments in program order.
func (a *Accountant) Records() []Payment {
	return a.records
}

// ValidateLedger checks the no-inflation invariant over an aggregated
// payment list: for every account, the amounts flowing out must be
// covered by its allocation plus the amounts flowing in.
func ValidateLedger(records []Payment, allocations map[[32]byte]uint64) error {
	in := make(map[[32]byte]uint64)
	out := make(map[[32]byte]uint64)
	for _, p := range records {
		out[p.From] += uint64(p.Amount)
		in[p.To] += uint64(p.Amount)
	}
	for acct, spent := range out {
		cover := allocations[acct] + in[acct]
		if spent > cover {
			return errors.New(ErrInflationEncountered,
				"account %x spends %d, covered %d", acct[:4], spent, cover)
		}
	}
	return nil
}
