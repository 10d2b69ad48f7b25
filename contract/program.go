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
	"github.com/bfix/anchor/errors"
	"golang.org/x/text/unicode/norm"
)

// Program is a deployed contract: a name and an ordered list of
// methods addressed by index.
type Program struct {
	Name    string
	Methods []*Method
}

// NewProgram creates and validates a program. The name is normalized
// to NFC before length checks.
func NewProgram(name string, methods []*Method) (*Program, error) {
	p := &Program{
		Name:    norm.NFC.String(name),
		Methods: methods,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks program-level limits and cross-method rules.
func (p *Program) validate() error {
	if l := len(p.Name); l < MinProgramNameLength || l > MaxProgramNameLength {
		return errors.New(ErrProgramNameLength, "%d bytes", l)
	}
	if n := len(p.Methods); n < MinMethodCount || n > MaxMethodCount {
		return errors.New(ErrMethodCount, "%d methods", n)
	}
	seen := make(map[string]bool)
	callable := false
	for _, m := range p.Methods {
		if err := m.validate(); err != nil {
			return err
		}
		if seen[m.Name] {
			return errors.New(ErrDuplicateMethod, "'%s'", m.Name)
		}
		seen[m.Name] = true
		if m.Type != MethodInternal {
			callable = true
		}
	}
	if !callable {
		return ErrAllMethodsInternal
	}
	return nil
}

// MethodCount returns the number of methods.
func (p *Program) MethodCount() int {
	return len(p.Methods)
}

// MethodByIndex resolves a method by its call index.
func (p *Program) MethodByIndex(index int) (*Method, error) {
	if index < 0 || index >= len(p.Methods) {
		return nil, errors.New(ErrMethodNotFound, "index %d", index)
	}
	return p.Methods[index], nil
}

// MethodByName resolves a method by its unique name.
func (p *Program) MethodByName(name string) (*Method, int, error) {
	name = norm.NFC.String(name)
	for i, m := range p.Methods {
		if m.Name == name {
			return m, i, nil
		}
	}
	return nil, -1, errors.New(ErrMethodNotFound, "name '%s'", name)
}

// Encode returns the container representation of the program: the
// length-prefixed name, the method count and the length-prefixed
// method blobs.
func (p *Program) Encode() []byte {
	out := make([]byte, 0)
	out = append(out, byte(len(p.Name)))
	out = append(out, []byte(p.Name)...)
	out = append(out, putUint(uint(len(p.Methods)), 2)...)
	for _, m := range p.Methods {
		blob := m.Encode()
		out = append(out, putUint(uint(len(blob)), 4)...)
		out = append(out, blob...)
	}
	return out
}

// DecodeProgram parses and validates a program container.
func DecodeProgram(blob []byte) (*Program, error) {
	if len(blob) < 1 {
		return nil, errors.New(ErrTruncatedContainer, "empty program blob")
	}
	nn := int(blob[0])
	pos := 1
	if pos+nn+2 > len(blob) {
		return nil, errors.New(ErrTruncatedContainer, "program name")
	}
	name := norm.NFC.String(string(blob[pos : pos+nn]))
	pos += nn
	count := int(getUint(blob[pos : pos+2]))
	pos += 2
	methods := make([]*Method, 0, count)
	for i := 0; i < count; i++ {
		if pos+4 > len(blob) {
			return nil, errors.New(ErrTruncatedContainer, "method %d length", i)
		}
		ml := int(getUint(blob[pos : pos+4]))
		pos += 4
		if pos+ml > len(blob) {
			return nil, errors.New(ErrTruncatedContainer, "method %d blob", i)
		}
		m, err := DecodeMethod(blob[pos : pos+ml])
		if err != nil {
			return nil, err
		}
		methods = append(methods, m)
		pos += ml
	}
	if pos != len(blob) {
		return nil, errors.New(ErrTruncatedContainer, "%d trailing bytes", len(blob)-pos)
	}
	p := &Program{
		Name:    name,
		Methods: methods,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// getUint reads an unsigned little-endian integer from a buffer.
func getUint(buf []byte) uint {
	var v uint
	for i := len(buf) - 1; i >= 0; i-- {
		v = (v << 8) | uint(buf[i])
	}
	return v
}

// putUint writes an unsigned integer in little-endian order using n
// bytes.
func putUint(v uint, n int) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = byte(v)
		v >>= 8
	}
	return out
}
