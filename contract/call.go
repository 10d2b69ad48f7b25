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

package contract

import (
	"github.com/bfix/anchor/contract/script"
	"github.com/bfix/anchor/errors"
	"github.com/bfix/anchor/logger"
)

// CallContext is the host-supplied context of one method invocation.
type CallContext struct {
	Caller            script.Caller
	AccountKey        [32]byte
	Timestamp         uint64
	OpsBudget         uint32
	OpsPrice          uint32
	PayableAllocation uint64
	Memory            map[string][]byte  // memory snapshot of the contract
	State             script.StateReader // durable state view (optional)
}

// Call executes a method of the program on behalf of the caller. It
// resolves the method by index, validates the arguments against the
// method's call elements, seeds a fresh stack holder and runs the
// interpreter. The arguments are pushed in declaration order, so the
// last argument is on top of the stack when the body starts.
func (p *Program) Call(contractID [32]byte, index int, args []script.Item, ctx *CallContext) (*script.Outcome, error) {
	m, err := p.MethodByIndex(index)
	if err != nil {
		return nil, err
	}
	if m.Type == MethodInternal && !ctx.Caller.IsContract() {
		return nil, errors.New(ErrInternalMethod, "'%s'", m.Name)
	}
	if err := m.checkArgs(args); err != nil {
		return nil, err
	}
	h := script.NewHolder(script.HolderConfig{
		Caller:            ctx.Caller,
		AccountKey:        ctx.AccountKey,
		ContractID:        contractID,
		Timestamp:         ctx.Timestamp,
		OpsBudget:         ctx.OpsBudget,
		OpsPrice:          ctx.OpsPrice,
		PayableAllocation: ctx.PayableAllocation,
		Memory:            ctx.Memory,
		State:             ctx.State,
	})
	for _, arg := range args {
		if err := h.Push(arg.Clone()); err != nil {
			return nil, err
		}
	}
	logger.Printf(logger.DBG, "[contract] call %s.%s (%d args)\n", p.Name, m.Name, len(args))
	return script.NewRuntime(h).ExecBody(m.Body)
}

// checkArgs validates call arguments against the method's declared
// call elements.
func (m *Method) checkArgs(args []script.Item) error {
	if len(args) != len(m.CallElements) {
		return errors.New(ErrCallArguments, "%d args, %d elements", len(args), len(m.CallElements))
	}
	for i, e := range m.CallElements {
		w := e.maxWidth()
		if w < 0 {
			if len(args[i]) > script.MaxStackItemSize {
				return errors.New(ErrCallArguments, "arg %d is %d bytes", i, len(args[i]))
			}
			continue
		}
		if len(args[i]) > w {
			return errors.New(ErrCallArguments, "arg %d is %d bytes, element takes %d", i, len(args[i]), w)
		}
	}
	return nil
}
