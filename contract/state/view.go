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

// Package state provides the durable per-contract key-value state
// behind the execution engine: a view interface, an in-memory
// implementation, an overlay for uncommitted call-graph writes and a
// bbolt-backed store.
package state

// View is the host-side interface to per-contract state. Every
// implementation in this package also satisfies the engine's reader
// interface via ReadState.
type View interface {
	// Read returns the value under (contractID, key).
	Read(contractID [32]byte, key []byte) ([]byte, bool)
	// Write replaces the value under (contractID, key).
	Write(contractID [32]byte, key, value []byte) error
	// Free removes the entry under (contractID, key).
	Free(contractID [32]byte, key []byte) error
}

// MemView is a map-backed state view for hosts and tests.
type MemView struct {
	entries map[[32]byte]map[string][]byte
}

// NewMemView creates an empty in-memory state view.
func NewMemView() *MemView {
	return &MemView{
		entries: make(map[[32]byte]map[string][]byte),
	}
}

// Read returns the value under (contractID, key).
func (v *MemView) Read(contractID [32]byte, key []byte) ([]byte, bool) {
	m, ok := v.entries[contractID]
	if !ok {
		return nil, false
	}
	val, ok := m[string(key)]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, true
}

// ReadState satisfies the engine's state reader.
func (v *MemView) ReadState(contractID [32]byte, key []byte) ([]byte, bool) {
	return v.Read(contractID, key)
}

// Write replaces the value under (contractID, key).
func (v *MemView) Write(contractID [32]byte, key, value []byte) error {
	m, ok := v.entries[contractID]
	if !ok {
		m = make(map[string][]byte)
		v.entries[contractID] = m
	}
	out := make([]byte, len(value))
	copy(out, value)
	m[string(key)] = out
	return nil
}

// Free removes the entry under (contractID, key).
func (v *MemView) Free(contractID [32]byte, key []byte) error {
	if m, ok := v.entries[contractID]; ok {
		delete(m, string(key))
	}
	return nil
}

// Overlay is a read-through view layering the uncommitted writes of
// a transaction's call graph over a base view. Reads prefer the
// overlay; writes and frees stay in the overlay until applied.
type Overlay struct {
	base    View
	writes  map[[32]byte]map[string][]byte
	deletes map[[32]byte]map[string]bool
}

// NewOverlay creates an overlay over a base view.
func NewOverlay(base View) *Overlay {
	return &Overlay{
		base:    base,
		writes:  make(map[[32]byte]map[string][]byte),
		deletes: make(map[[32]byte]map[string]bool),
	}
}

// Read returns the latest value under (contractID, key).
func (o *Overlay) Read(contractID [32]byte, key []byte) ([]byte, bool) {
	if m, ok := o.writes[contractID]; ok {
		if val, ok := m[string(key)]; ok {
			out := make([]byte, len(val))
			copy(out, val)
			return out, true
		}
	}
	if m, ok := o.deletes[contractID]; ok && m[string(key)] {
		return nil, false
	}
	return o.base.Read(contractID, key)
}

// ReadState satisfies the engine's state reader.
func (o *Overlay) ReadState(contractID [32]byte, key []byte) ([]byte, bool) {
	return o.Read(contractID, key)
}

// Write stages a value under (contractID, key).
func (o *Overlay) Write(contractID [32]byte, key, value []byte) error {
	m, ok := o.writes[contractID]
	if !ok {
		m = make(map[string][]byte)
		o.writes[contractID] = m
	}
	out := make([]byte, len(value))
	copy(out, value)
	m[string(key)] = out
	if d, ok := o.deletes[contractID]; ok {
		delete(d, string(key))
	}
	return nil
}

// Free stages a removal of (contractID, key).
func (o *Overlay) Free(contractID [32]byte, key []byte) error {
	if m, ok := o.writes[contractID]; ok {
		delete(m, string(key))
	}
	d, ok := o.deletes[contractID]
	if !ok {
		d = make(map[string]bool)
		o.deletes[contractID] = d
	}
	d[string(key)] = true
	return nil
}

// Apply flushes the staged writes and removals to the base view and
// resets the overlay.
func (o *Overlay) Apply() error {
	for id, m := range o.writes {
		for k, v := range m {
			if err := o.base.Write(id, []byte(k), v); err != nil {
				return err
			}
		}
	}
	for id, d := range o.deletes {
		for k := range d {
			if err := o.base.Free(id, []byte(k)); err != nil {
				return err
			}
		}
	}
	o.writes = make(map[[32]byte]map[string][]byte)
	o.deletes = make(map[[32]byte]map[string]bool)
	return nil
}
