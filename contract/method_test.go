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
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/bfix/anchor/contract/script"
)

// tstBody assembles a minimal valid method body.
func tstBody(t *testing.T, src string) []byte {
	t.Helper()
	body, err := script.Compile(src)
	if err != nil {
		t.Fatal(err)
	}
	return body
}

const tstSrc = "OP_TRUE OP_IF OP_2 OP_ELSE OP_3 OP_ENDIF OP_NOP OP_RETURNALL"

func TestMethodRoundtrip(t *testing.T) {
	m, err := NewMethod(MethodCallable, "transfer", []CallElementType{ElementU32, ElementBytes}, tstBody(t, tstSrc))
	if err != nil {
		t.Fatal(err)
	}
	blob := m.Encode()
	back, err := DecodeMethod(blob)
	if err != nil {
		t.Fatal(err)
	}
	if back.Type != m.Type || back.Name != m.Name {
		t.Fatal("header mismatch")
	}
	if len(back.CallElements) != 2 || back.CallElements[0] != ElementU32 || back.CallElements[1] != ElementBytes {
		t.Fatal("call elements mismatch")
	}
	if !bytes.Equal(back.Body, m.Body) {
		t.Fatal("body mismatch")
	}
}

func TestMethodValidation(t *testing.T) {
	body := tstBody(t, tstSrc)
	if _, err := NewMethod(MethodType(0x07), "name12", nil, body); !errors.Is(err, ErrMethodType) {
		t.Errorf("error %v, want method type", err)
	}
	if _, err := NewMethod(MethodCallable, "x", nil, body); !errors.Is(err, ErrMethodNameLength) {
		t.Errorf("error %v, want name length", err)
	}
	if _, err := NewMethod(MethodCallable, strings.Repeat("x", 41), nil, body); !errors.Is(err, ErrMethodNameLength) {
		t.Errorf("error %v, want name length", err)
	}
	elems := make([]CallElementType, MaxCallElementCount+1)
	if _, err := NewMethod(MethodCallable, "name12", elems, body); !errors.Is(err, ErrCallElementCount) {
		t.Errorf("error %v, want element count", err)
	}
	if _, err := NewMethod(MethodCallable, "name12", []CallElementType{0x09}, body); !errors.Is(err, ErrCallElementType) {
		t.Errorf("error %v, want element type", err)
	}
	// too short / unbalanced bodies
	if _, err := NewMethod(MethodCallable, "name12", nil, tstBody(t, "OP_TRUE OP_2")); !errors.Is(err, ErrMethodOpcodeCount) {
		t.Errorf("error %v, want opcode count", err)
	}
	if _, err := NewMethod(MethodCallable, "name12", nil,
		tstBody(t, "OP_TRUE OP_IF OP_2 OP_3 OP_4 OP_5 OP_6 OP_7")); !errors.Is(err, script.ErrUnclosedConditional) {
		t.Errorf("error %v, want unclosed conditional", err)
	}
	// undecodable body
	if _, err := NewMethod(MethodCallable, "name12", nil, []byte{0xff, 0, 0, 0, 0, 0, 0, 0}); !errors.Is(err, script.ErrUndefinedOpcode) {
		t.Errorf("error %v, want undefined opcode", err)
	}
}

func TestMethodNameNormalization(t *testing.T) {
	body := tstBody(t, tstSrc)
	// decomposed "é" (e + combining acute) normalizes to the composed
	// form, so both spellings name the same method
	m1, err := NewMethod(MethodCallable, "café", nil, body)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := NewMethod(MethodCallable, "café", nil, body)
	if err != nil {
		t.Fatal(err)
	}
	if m1.Name != m2.Name {
		t.Fatalf("names differ: %q vs %q", m1.Name, m2.Name)
	}
}

func TestProgramValidation(t *testing.T) {
	body := tstBody(t, tstSrc)
	m1, _ := NewMethod(MethodCallable, "deposit", nil, body)
	m2, _ := NewMethod(MethodInternal, "settle", nil, body)

	if _, err := NewProgram("ab", []*Method{m1}); !errors.Is(err, ErrProgramNameLength) {
		t.Errorf("error %v, want program name length", err)
	}
	if _, err := NewProgram("wallet", nil); !errors.Is(err, ErrMethodCount) {
		t.Errorf("error %v, want method count", err)
	}
	if _, err := NewProgram("wallet", []*Method{m1, m1}); !errors.Is(err, ErrDuplicateMethod) {
		t.Errorf("error %v, want duplicate method", err)
	}
	if _, err := NewProgram("wallet", []*Method{m2}); !errors.Is(err, ErrAllMethodsInternal) {
		t.Errorf("error %v, want all-internal", err)
	}
	p, err := NewProgram("wallet", []*Method{m1, m2})
	if err != nil {
		t.Fatal(err)
	}
	if p.MethodCount() != 2 {
		t.Fatal("method count")
	}
	if _, err := p.MethodByIndex(2); !errors.Is(err, ErrMethodNotFound) {
		t.Errorf("error %v, want method not found", err)
	}
	if _, idx, err := p.MethodByName("settle"); err != nil || idx != 1 {
		t.Errorf("lookup by name: %d, %v", idx, err)
	}
}

func TestProgramRoundtrip(t *testing.T) {
	body := tstBody(t, tstSrc)
	m1, _ := NewMethod(MethodCallable, "deposit", []CallElementType{ElementU64}, body)
	m2, _ := NewMethod(MethodReadOnly, "balance", nil, body)
	p, err := NewProgram("wallet", []*Method{m1, m2})
	if err != nil {
		t.Fatal(err)
	}
	blob := p.Encode()
	back, err := DecodeProgram(blob)
	if err != nil {
		t.Fatal(err)
	}
	if back.Name != "wallet" || back.MethodCount() != 2 {
		t.Fatal("program header mismatch")
	}
	if back.Methods[1].Type != MethodReadOnly || back.Methods[1].Name != "balance" {
		t.Fatal("method mismatch")
	}
	// truncation anywhere fails the decode
	for cut := 1; cut < len(blob); cut += 7 {
		if _, err := DecodeProgram(blob[:cut]); err == nil {
			t.Fatalf("truncated blob of %d bytes decoded", cut)
		}
	}
}

func TestRegistry(t *testing.T) {
	body := tstBody(t, tstSrc)
	m, _ := NewMethod(MethodCallable, "deposit", nil, body)
	p, _ := NewProgram("wallet", []*Method{m})
	reg := NewMemoryRegistry()
	id := [32]byte{0x42}
	reg.Register(id, p)
	got, err := reg.Lookup(id)
	if err != nil || got != p {
		t.Fatalf("lookup: %v", err)
	}
	if _, err := reg.Lookup([32]byte{0x43}); !errors.Is(err, ErrContractNotFound) {
		t.Fatalf("error %v, want contract not found", err)
	}
}
