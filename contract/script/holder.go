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

// Caller identifies the immediate invoker of a method: the end-user
// account for user-originated calls, or a contract for cross-contract
// calls.
type Caller struct {
	contract bool
	id       [32]byte
}

// AccountCaller creates a caller from an account key.
func AccountCaller(accountKey [32]byte) Caller {
	return Caller{id: accountKey}
}

// ContractCaller creates a caller from a contract id.
func ContractCaller(contractID [32]byte) Caller {
	return Caller{contract: true, id: contractID}
}

// ID returns the caller id (account key or contract id).
func (c Caller) ID() [32]byte {
	return c.id
}

// IsAccount returns whether the caller is an end-user account.
func (c Caller) IsAccount() bool {
	return !c.contract
}

// IsContract returns whether the caller is another contract.
func (c Caller) IsContract() bool {
	return c.contract
}

// StateReader is the engine-side view of durable contract state.
// Reads during a running invocation must return the latest
// uncommitted write, which the holder layers on top of this view.
type StateReader interface {
	ReadState(contractID [32]byte, key []byte) ([]byte, bool)
}

// HolderConfig collects the host-supplied context of one invocation.
type HolderConfig struct {
	Caller            Caller
	AccountKey        [32]byte // end-user key that initiated the transaction
	ContractID        [32]byte // executing contract
	Timestamp         uint64
	OpsBudget         uint32
	OpsPrice          uint32
	PayableAllocation uint64
	Memory            map[string][]byte // memory snapshot
	State             StateReader       // optional durable state view
}

// Holder is the execution state of one method invocation: the main
// and alternate stacks, the control-flow stack, the contract memory,
// the ops meter, the payment accountant and the read-only caller
// context. It exists for the duration of one call; its memory and
// payment deltas are committed by the host only on a normal return.
type Holder struct {
	cfg         HolderConfig
	stack       *Stack
	alt         *Stack
	flow        []FlowEncounter
	memory      *Memory
	acct        *Accountant
	opsCounter  uint32
	stateWrites map[string]Item
}

// NewHolder creates the execution state for one invocation.
func NewHolder(cfg HolderConfig) *Holder {
	return &Holder{
		cfg:         cfg,
		stack:       NewStack(),
		alt:         NewStack(),
		memory:      NewMemory(cfg.Memory),
		acct:        NewAccountant(cfg.PayableAllocation),
		stateWrites: make(map[string]Item),
	}
}

//=====================================================================
// Main / alternate stack
//=====================================================================

// checkItem validates size and count bounds before a push.
func (h *Holder) checkItem(item Item) error {
	if len(item) > MaxStackItemSize {
		return errors.New(ErrStackItemTooLarge, "%d of %d bytes", len(item), MaxStackItemSize)
	}
	if h.stack.Len()+h.alt.Len()+1 > MaxStackItemsCount {
		return errors.New(ErrStackOverflow, "%d items", MaxStackItemsCount)
	}
	return nil
}

// Push appends an item to the main stack.
func (h *Holder) Push(item Item) error {
	if err := h.checkItem(item); err != nil {
		return err
	}
	h.stack.Push(item)
	return nil
}

// Pop removes and returns the top item of the main stack.
func (h *Holder) Pop() (Item, error) {
	return h.stack.Pop()
}

// LastItem clone-reads the top item of the main stack.
func (h *Holder) LastItem() (Item, error) {
	return h.stack.Peek()
}

// ItemByDepth clone-reads the item at the given depth (0 is the top).
func (h *Holder) ItemByDepth(depth int) (Item, error) {
	return h.stack.PeekAt(depth)
}

// RemoveItemByDepth deletes the item at the given depth without
// returning it.
func (h *Holder) RemoveItemByDepth(depth int) error {
	return h.stack.RemoveAt(depth)
}

// AltPush appends an item to the alternate stack.
func (h *Holder) AltPush(item Item) error {
	if err := h.checkItem(item); err != nil {
		return err
	}
	h.alt.Push(item)
	return nil
}

// AltPop removes and returns the top item of the alternate stack.
func (h *Holder) AltPop() (Item, error) {
	return h.alt.Pop()
}

// Stack returns the main stack.
func (h *Holder) Stack() *Stack {
	return h.stack
}

// AltStack returns the alternate stack.
func (h *Holder) AltStack() *Stack {
	return h.alt
}

//=====================================================================
// Ops meter
//=====================================================================

// opsCap returns the effective budget of the invocation.
func (h *Holder) opsCap() uint32 {
	if h.cfg.OpsBudget < OpsLimit {
		return h.cfg.OpsBudget
	}
	return OpsLimit
}

// IncrementOps advances the ops counter, failing when the budget is
// exhausted. The failure is not recoverable.
func (h *Holder) IncrementOps(n uint32) error {
	limit := h.opsCap()
	if h.opsCounter+n > limit {
		return errors.New(ErrOpsBudgetExceeded, "counter %d, budget %d", h.opsCounter+n, limit)
	}
	h.opsCounter += n
	return nil
}

// OpsCounter returns the current counter value.
func (h *Holder) OpsCounter() uint32 {
	return h.opsCounter
}

//=====================================================================
// Control flow
//=====================================================================

// PushFlowEncounter opens a conditional region.
func (h *Holder) PushFlowEncounter(e FlowEncounter) {
	h.flow = append(h.flow, e)
}

// PopFlowEncounter closes the innermost region; it returns false if
// no region is open.
func (h *Holder) PopFlowEncounter() (FlowEncounter, bool) {
	l := len(h.flow)
	if l == 0 {
		return FlowEncounter{}, false
	}
	e := h.flow[l-1]
	h.flow = h.flow[:l-1]
	return e, true
}

// FlowDepth returns the number of open regions.
func (h *Holder) FlowDepth() int {
	return len(h.flow)
}

// ActiveExecution returns true iff the current instruction is in an
// active region: the flow stack is empty or every entry is Active.
func (h *Holder) ActiveExecution() bool {
	for _, e := range h.flow {
		if e.Status != FlowActive {
			return false
		}
	}
	return true
}

//=====================================================================
// Memory and durable state
//=====================================================================

// Memory returns the per-contract memory of the invocation.
func (h *Holder) Memory() *Memory {
	return h.memory
}

// StateRead returns the latest value under key: a staged write of
// this invocation wins over the durable view.
func (h *Holder) StateRead(key []byte) (Item, bool) {
	if v, ok := h.stateWrites[string(key)]; ok {
		return v.Clone(), true
	}
	if h.cfg.State == nil {
		return nil, false
	}
	v, ok := h.cfg.State.ReadState(h.cfg.ContractID, key)
	if !ok {
		return nil, false
	}
	return Item(v).Clone(), true
}

// StateWrite stages a durable write; it is flushed by the host after
// a successful return.
func (h *Holder) StateWrite(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) < MinValueLength {
		return errors.New(ErrInvalidMemoryValueLength, "value length %d", len(value))
	}
	h.stateWrites[string(key)] = Item(value).Clone()
	return nil
}

// StateWrites returns the staged durable writes.
func (h *Holder) StateWrites() map[string][]byte {
	out := make(map[string][]byte, len(h.stateWrites))
	for k, v := range h.stateWrites {
		out[k] = v.Clone()
	}
	return out
}

//=====================================================================
// Payments
//=====================================================================

// RecordPayment appends a payment record. Only the executing contract
// may authorize payments from itself.
func (h *Holder) RecordPayment(from, to [32]byte, amount uint32) error {
	if from != h.cfg.ContractID {
		return errors.New(ErrNonAllocatedPayment, "from %x is not the executing contract", from[:4])
	}
	return h.acct.Record(Payment{From: from, To: to, Amount: amount})
}

// Payments returns the recorded payments in program order.
func (h *Holder) Payments() []Payment {
	return h.acct.Records()
}

// PayableAllocation returns the immutable allocation.
func (h *Holder) PayableAllocation() uint64 {
	return h.acct.Allocation()
}

// PayableSpent returns the amount drawn so far.
func (h *Holder) PayableSpent() uint64 {
	return h.acct.Spent()
}

// PayableLeft returns the remaining payable balance.
func (h *Holder) PayableLeft() uint64 {
	return h.acct.Left()
}

//=====================================================================
// Read-only call context
//=====================================================================

// Caller returns the immediate invoker.
func (h *Holder) Caller() Caller {
	return h.cfg.Caller
}

// CallerID returns the 32-byte caller id.
func (h *Holder) CallerID() [32]byte {
	return h.cfg.Caller.ID()
}

// AccountKey returns the end-user key that initiated the transaction.
func (h *Holder) AccountKey() [32]byte {
	return h.cfg.AccountKey
}

// ContractID returns the id of the executing contract.
func (h *Holder) ContractID() [32]byte {
	return h.cfg.ContractID
}

// Timestamp returns the transaction timestamp.
func (h *Holder) Timestamp() uint64 {
	return h.cfg.Timestamp
}

// OpsBudget returns the per-call ops budget.
func (h *Holder) OpsBudget() uint32 {
	return h.cfg.OpsBudget
}

// OpsPrice returns the per-op price.
func (h *Holder) OpsPrice() uint32 {
	return h.cfg.OpsPrice
}
