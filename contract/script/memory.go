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

// Memory is the per-contract key-value store mutated by a single
// invocation. The host seeds it with a snapshot and flushes the final
// entries to durable state after a successful return.
type Memory struct {
	entries map[string]Item
	size    int
}

// NewMemory creates a contract memory from a snapshot. A nil snapshot
// yields an empty memory.
func NewMemory(snapshot map[string][]byte) *Memory {
	m := &Memory{
		entries: make(map[string]Item),
	}
	for k, v := range snapshot {
		m.entries[k] = Item(v).Clone()
		m.size += len(k) + len(v)
	}
	return m
}

// checkKey validates a memory/storage key length.
func checkKey(key []byte) error {
	if len(key) < MinKeyLength || len(key) > MaxKeyLength {
		return errors.New(ErrInvalidMemoryKeyLength, "key length %d", len(key))
	}
	return nil
}

// Read returns the value stored under key, or false if absent.
func (m *Memory) Read(key []byte) (Item, bool) {
	v, ok := m.entries[string(key)]
	if !ok {
		return nil, false
	}
	return v.Clone(), true
}

// Write stores a value under key, replacing any previous value.
func (m *Memory) Write(key, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if len(value) < MinValueLength {
		return errors.New(ErrInvalidMemoryValueLength, "value length %d", len(value))
	}
	size := m.size + len(key) + len(value)
	if old, ok := m.entries[string(key)]; ok {
		size -= len(key) + len(old)
	}
	if size > MaxContractMemorySize {
		return errors.New(ErrMemoryFull, "%d of %d bytes", size, MaxContractMemorySize)
	}
	m.entries[string(key)] = Item(value).Clone()
	m.size = size
	return nil
}

// Free removes the entry under key and reports whether an entry was
// removed.
func (m *Memory) Free(key []byte) (bool, error) {
	if err := checkKey(key); err != nil {
		return false, err
	}
	old, ok := m.entries[string(key)]
	if !ok {
		return false, nil
	}
	delete(m.entries, string(key))
	m.size -= len(key) + len(old)
	return true, nil
}

// Size returns the total byte size of all keys and values.
func (m *Memory) Size() int {
	return m.size
}

// Entries returns a copy of the memory content.
func (m *Memory) Entries() map[string][]byte {
	out := make(map[string][]byte, len(m.entries))
	for k, v := range m.entries {
		out[k] = v.Clone()
	}
	return out
}
