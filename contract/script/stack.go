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

// Stack represents the LIFO stack used during the execution of a
// contract method. Depth arguments address items from the top: the
// top-level item is at depth 0.
type Stack struct {
	d []Item
}

// NewStack creates a new empty stack.
func NewStack() *Stack {
	return &Stack{
		d: make([]Item, 0),
	}
}

// Len returns the number of items on the stack.
func (s *Stack) Len() int {
	return len(s.d)
}

// Values returns the stack content (bottom first).
func (s *Stack) Values() []Item {
	return s.d
}

// Push an item onto the stack.
func (s *Stack) Push(v Item) {
	s.d = append(s.d, v)
}

// Peek looks up the top-level item on the stack without removing it.
func (s *Stack) Peek() (Item, error) {
	return s.PeekAt(0)
}

// PeekAt looks up the item at depth 'i' of the stack without removing
// it. The returned item is a clone; mutating it does not change the
// stack.
func (s *Stack) PeekAt(i int) (Item, error) {
	x := len(s.d)
	if i < 0 || x < i+1 {
		return nil, errors.New(ErrPickedEmptyStack, "depth %d, size %d", i, x)
	}
	return s.d[x-1-i].Clone(), nil
}

// Pop removes the top-level item from the stack and returns it.
func (s *Stack) Pop() (Item, error) {
	x := len(s.d)
	if x == 0 {
		return nil, ErrEmptyStack
	}
	v := s.d[x-1]
	s.d = s.d[:x-1]
	return v, nil
}

// RemoveAt deletes the item at depth 'i' from the stack without
// returning it.
func (s *Stack) RemoveAt(i int) error {
	x := len(s.d)
	if i < 0 || x < i+1 {
		return errors.New(ErrPickedEmptyStack, "depth %d, size %d", i, x)
	}
	pos := x - 1 - i
	s.d = append(s.d[:pos], s.d[pos+1:]...)
	return nil
}
