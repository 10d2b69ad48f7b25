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
	"github.com/bfix/anchor/logger"
)

// Outcome is the result of a normal method invocation: the returned
// items (top of stack first), the final memory content, the staged
// durable-state writes, the recorded payments and the consumed ops.
// The host commits memory, state and payments only on a normal
// return; on error everything is discarded.
type Outcome struct {
	Return   []Item
	Memory   map[string][]byte
	State    map[string][]byte
	Payments []Payment
	Ops      uint32
}

// R is the contract script runtime environment: it binds a decoded
// script to the execution state of one invocation.
type R struct {
	script *Script // list of parsed statements
	pos    int     // index of current statement
	h      *Holder // execution state
	done   bool    // structured exit fired
	ret    []Item  // collected return items (top first)
	// CbStep is an optional per-statement hook for tracing and tests.
	CbStep func(h *Holder, stmt *Statement, err error)
}

// NewRuntime creates an execution runtime over a holder.
func NewRuntime(h *Holder) *R {
	return &R{
		pos: -1,
		h:   h,
	}
}

// Holder returns the execution state of the runtime.
func (r *R) Holder() *Holder {
	return r.h
}

// stmt returns the statement under execution.
func (r *R) stmt() *Statement {
	return r.script.Stmts[r.pos]
}

// ExecBody parses a compiled method body and executes it.
func (r *R) ExecBody(body []byte) (*Outcome, error) {
	scr, err := Parse(body)
	if err != nil {
		return nil, err
	}
	return r.Exec(scr)
}

// Exec runs a parsed script against the holder. The loop reads one
// statement at a time and invokes its handler; it terminates when the
// body is exhausted, a structured return fires or a handler fails.
// Every dispatched statement costs at least one op, so execution
// finishes in at most budget+1 dispatches.
func (r *R) Exec(scr *Script) (*Outcome, error) {
	r.script = scr
	r.pos = 0
	r.done = false
	r.ret = nil
	size := len(scr.Stmts)

	for r.pos < size && !r.done {
		stmt := r.stmt()
		active := r.h.ActiveExecution()
		err := r.step(stmt, active)
		if r.CbStep != nil {
			r.CbStep(r.h, stmt, err)
		}
		if err != nil {
			logger.Printf(logger.WARN, "[script] abort at pos %d (%s): %s\n",
				r.pos, stmt.String(), err.Error())
			return nil, err
		}
		r.pos++
	}
	if !r.done && r.h.FlowDepth() > 0 {
		return nil, ErrUnclosedConditional
	}
	return &Outcome{
		Return:   r.ret,
		Memory:   r.h.Memory().Entries(),
		State:    r.h.StateWrites(),
		Payments: r.h.Payments(),
		Ops:      r.h.OpsCounter(),
	}, nil
}

// step dispatches a single statement.
func (r *R) step(stmt *Statement, active bool) error {
	if stmt.IsPush() {
		// literal push; skipped pushes cost the plain dispatch op
		if err := r.h.IncrementOps(1); err != nil {
			return err
		}
		if !active {
			return nil
		}
		if stmt.Data == nil {
			return r.h.Push(FalseItem())
		}
		return r.h.Push(stmt.Data.Clone())
	}
	opc := GetOpcode(stmt.Opcode)
	if opc == nil {
		// unreachable for parsed scripts
		return ErrUndefinedOpcode
	}
	cost := opc.Ops
	if !active && !opc.Flow {
		cost = 1
	}
	if err := r.h.IncrementOps(cost); err != nil {
		return err
	}
	if !active && !opc.Flow {
		// skipped statements advance the counter but have no effect
		return nil
	}
	return opc.Exec(r)
}
