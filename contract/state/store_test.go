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

package state

import (
	"bytes"
	"path/filepath"
	"testing"
)

var (
	tstC1 = [32]byte{0x01}
	tstC2 = [32]byte{0x02}
)

func tstStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "state.db"), "state")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundtrip(t *testing.T) {
	s := tstStore(t)
	if _, ok := s.Read(tstC1, []byte("k")); ok {
		t.Fatal("read hit on empty store")
	}
	if err := s.Write(tstC1, []byte("k"), []byte{0x11}); err != nil {
		t.Fatal(err)
	}
	v, ok := s.Read(tstC1, []byte("k"))
	if !ok || !bytes.Equal(v, []byte{0x11}) {
		t.Fatalf("read back %v", v)
	}
	// contracts do not share key spaces
	if _, ok := s.Read(tstC2, []byte("k")); ok {
		t.Fatal("cross-contract read hit")
	}
	if err := s.Free(tstC1, []byte("k")); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Read(tstC1, []byte("k")); ok {
		t.Fatal("read hit after free")
	}
	// freeing on an unknown contract is a no-op
	if err := s.Free(tstC2, []byte("k")); err != nil {
		t.Fatal(err)
	}
}

func TestStoreApplyDiff(t *testing.T) {
	s := tstStore(t)
	if err := s.Write(tstC1, []byte("old"), []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	diff := map[string][]byte{
		"old": nil, // removal
		"new": {0x02},
	}
	if err := s.ApplyDiff(tstC1, diff); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Read(tstC1, []byte("old")); ok {
		t.Fatal("removed entry still present")
	}
	v, ok := s.Read(tstC1, []byte("new"))
	if !ok || !bytes.Equal(v, []byte{0x02}) {
		t.Fatalf("applied entry %v", v)
	}
}

func TestStoreNamespaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shared.db")
	s1, err := NewStore(path, "state")
	if err != nil {
		t.Fatal(err)
	}
	if err := s1.Write(tstC1, []byte("k"), []byte{0x11}); err != nil {
		t.Fatal(err)
	}
	s1.Close()
	s2, err := NewStore(path, "memory")
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	if _, ok := s2.Read(tstC1, []byte("k")); ok {
		t.Fatal("namespaces share entries")
	}
}

func TestMemViewAndOverlay(t *testing.T) {
	base := NewMemView()
	if err := base.Write(tstC1, []byte("a"), []byte{0x01}); err != nil {
		t.Fatal(err)
	}
	ov := NewOverlay(base)
	// read-through
	v, ok := ov.Read(tstC1, []byte("a"))
	if !ok || !bytes.Equal(v, []byte{0x01}) {
		t.Fatalf("read-through %v", v)
	}
	// overlay write wins, base stays untouched
	if err := ov.Write(tstC1, []byte("a"), []byte{0x02}); err != nil {
		t.Fatal(err)
	}
	v, _ = ov.Read(tstC1, []byte("a"))
	if !bytes.Equal(v, []byte{0x02}) {
		t.Fatalf("overlay read %v", v)
	}
	v, _ = base.Read(tstC1, []byte("a"))
	if !bytes.Equal(v, []byte{0x01}) {
		t.Fatal("overlay write leaked into base")
	}
	// staged free hides the base entry
	if err := ov.Free(tstC1, []byte("a")); err != nil {
		t.Fatal(err)
	}
	if _, ok := ov.Read(tstC1, []byte("a")); ok {
		t.Fatal("freed entry still visible")
	}
	// apply flushes writes and removals
	if err := ov.Write(tstC1, []byte("b"), []byte{0x03}); err != nil {
		t.Fatal(err)
	}
	if err := ov.Apply(); err != nil {
		t.Fatal(err)
	}
	if _, ok := base.Read(tstC1, []byte("a")); ok {
		t.Fatal("apply missed the removal")
	}
	if v, ok := base.Read(tstC1, []byte("b")); !ok || !bytes.Equal(v, []byte{0x03}) {
		t.Fatal("apply missed the write")
	}
}
