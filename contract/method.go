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
	stderr "errors"

	"github.com/bfix/anchor/contract/script"
	"github.com/bfix/anchor/errors"
	"golang.org/x/text/unicode/norm"
)

// Method and program limits.
const (
	MinProgramNameLength = 4
	MaxProgramNameLength = 40
	MinMethodCount       = 1
	MaxMethodCount       = 256
	MinMethodNameLength  = 2
	MaxMethodNameLength  = 40
	MinMethodOpcodeCount = 8
	MaxMethodOpcodeCount = 32768
	MaxCallElementCount  = 16
)

// Model errors.
var (
	ErrProgramNameLength  = stderr.New("invalid program name length")
	ErrMethodCount        = stderr.New("invalid method count")
	ErrMethodNameLength   = stderr.New("invalid method name length")
	ErrMethodOpcodeCount  = stderr.New("invalid method opcode count")
	ErrMethodType         = stderr.New("unknown method type")
	ErrCallElementCount   = stderr.New("too many call elements")
	ErrCallElementType    = stderr.New("unknown call element type")
	ErrDuplicateMethod    = stderr.New("duplicate method name")
	ErrAllMethodsInternal = stderr.New("all method types are internal")
	ErrMethodNotFound     = stderr.New("method not found at index")
	ErrInternalMethod     = stderr.New("internal method is contract-callable only")
	ErrTruncatedContainer = stderr.New("truncated container")
	ErrCallArguments      = stderr.New("call arguments do not match method")
)

// MethodType classifies how a method may be invoked.
type MethodType byte

// Method types.
const (
	// MethodCallable methods are invocable by accounts and contracts.
	MethodCallable MethodType = 0x00
	// MethodInternal methods are invocable by contracts only.
	MethodInternal MethodType = 0x01
	// MethodReadOnly methods promise no state mutation; hosts route
	// query calls to them without committing a diff.
	MethodReadOnly MethodType = 0x02
)

// String returns the method type name.
func (t MethodType) String() string {
	switch t {
	case MethodCallable:
		return "Callable"
	case MethodInternal:
		return "Internal"
	case MethodReadOnly:
		return "ReadOnly"
	}
	return "Unknown"
}

// valid reports whether the type byte is defined.
func (t MethodType) valid() bool {
	return t <= MethodReadOnly
}

// CallElementType describes one argument slot of a method call.
type CallElementType byte

// Call element types.
const (
	ElementU8    CallElementType = 0x00
	ElementU16   CallElementType = 0x01
	ElementU32   CallElementType = 0x02
	ElementU64   CallElementType = 0x03
	ElementBytes CallElementType = 0x04
)

// valid reports whether the element type byte is defined.
func (t CallElementType) valid() bool {
	return t <= ElementBytes
}

// maxWidth returns the widest item accepted for the element, or -1
// for unbounded byte strings.
func (t CallElementType) maxWidth() int {
	switch t {
	case ElementU8:
		return 1
	case ElementU16:
		return 2
	case ElementU32:
		return 4
	case ElementU64:
		return 8
	}
	return -1
}

// Method is one compiled method of a program: metadata plus the
// opcode body executed by the engine.
type Method struct {
	Type         MethodType
	Name         string
	CallElements []CallElementType
	Body         []byte
}

// NewMethod creates and validates a method. The name is normalized
// to NFC before length checks.
func NewMethod(mtype MethodType, name string, elements []CallElementType, body []byte) (*Method, error) {
	m := &Method{
		Type:         mtype,
		Name:         norm.NFC.String(name),
		CallElements: elements,
		Body:         body,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// validate checks all method limits and the static structure of the
// body.
func (m *Method) validate() error {
	if !m.Type.valid() {
		return errors.New(ErrMethodType, "type 0x%02x", byte(m.Type))
	}
	if l := len(m.Name); l < MinMethodNameLength || l > MaxMethodNameLength {
		return errors.New(ErrMethodNameLength, "%d bytes", len(m.Name))
	}
	if len(m.CallElements) > MaxCallElementCount {
		return errors.New(ErrCallElementCount, "%d elements", len(m.CallElements))
	}
	for _, e := range m.CallElements {
		if !e.valid() {
			return errors.New(ErrCallElementType, "element 0x%02x", byte(e))
		}
	}
	scr, err := script.Parse(m.Body)
	if err != nil {
		return err
	}
	if n := len(scr.Stmts); n < MinMethodOpcodeCount || n > MaxMethodOpcodeCount {
		return errors.New(ErrMethodOpcodeCount, "%d opcodes", n)
	}
	if _, err := scr.CheckFlow(); err != nil {
		return err
	}
	return nil
}

// Encode returns the container representation of the method: the
// header (type, call elements, length-prefixed name) followed by the
// opcode bytes.
func (m *Method) Encode() []byte {
	out := make([]byte, 0, 3+len(m.CallElements)+len(m.Name)+len(m.Body))
	out = append(out, byte(m.Type))
	out = append(out, byte(len(m.CallElements)))
	for _, e := range m.CallElements {
		out = append(out, byte(e))
	}
	out = append(out, byte(len(m.Name)))
	out = append(out, []byte(m.Name)...)
	out = append(out, m.Body...)
	return out
}

// DecodeMethod parses and validates a method container blob.
func DecodeMethod(blob []byte) (*Method, error) {
	if len(blob) < 3 {
		return nil, errors.New(ErrTruncatedContainer, "method blob of %d bytes", len(blob))
	}
	mtype := MethodType(blob[0])
	ne := int(blob[1])
	pos := 2
	if pos+ne+1 > len(blob) {
		return nil, errors.New(ErrTruncatedContainer, "call elements")
	}
	elements := make([]CallElementType, ne)
	for i := 0; i < ne; i++ {
		elements[i] = CallElementType(blob[pos+i])
	}
	pos += ne
	nn := int(blob[pos])
	pos++
	if pos+nn > len(blob) {
		return nil, errors.New(ErrTruncatedContainer, "method name")
	}
	name := norm.NFC.String(string(blob[pos : pos+nn]))
	pos += nn
	body := make([]byte, len(blob)-pos)
	copy(body, blob[pos:])
	m := &Method{
		Type:         mtype,
		Name:         name,
		CallElements: elements,
		Body:         body,
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}
