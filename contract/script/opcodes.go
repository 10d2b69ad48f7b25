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
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/holiman/uint256"
)

// Contract script opcodes. Bytes 0x01..0x4b are the implicit
// OP_PUSHBYTES_1..75 pushes and carry no symbolic constant.
const (
	OpFALSE                  = 0x00
	OpPUSHDATA1              = 0x4c
	OpPUSHDATA2              = 0x4d
	OpPUSHDATA4              = 0x4e
	Op1NEGATE                = 0x4f
	OpRESERVED               = 0x50
	OpTRUE                   = 0x51
	Op2                      = 0x52
	Op3                      = 0x53
	Op4                      = 0x54
	Op5                      = 0x55
	Op6                      = 0x56
	Op7                      = 0x57
	Op8                      = 0x58
	Op9                      = 0x59
	Op10                     = 0x5a
	Op11                     = 0x5b
	Op12                     = 0x5c
	Op13                     = 0x5d
	Op14                     = 0x5e
	Op15                     = 0x5f
	Op16                     = 0x60
	OpNOP                    = 0x61
	OpRETURNERR              = 0x62
	OpIF                     = 0x63
	OpNOTIF                  = 0x64
	OpRETURNALL              = 0x65
	OpRETURNSOME             = 0x66
	OpELSE                   = 0x67
	OpENDIF                  = 0x68
	OpVERIFY                 = 0x69
	OpFAIL                   = 0x6a
	OpTOALTSTACK             = 0x6b
	OpFROMALTSTACK           = 0x6c
	Op2DROP                  = 0x6d
	Op2DUP                   = 0x6e
	Op3DUP                   = 0x6f
	Op2OVER                  = 0x70
	Op2ROT                   = 0x71
	Op2SWAP                  = 0x72
	OpIFDUP                  = 0x73
	OpDEPTH                  = 0x74
	OpDROP                   = 0x75
	OpDUP                    = 0x76
	OpNIP                    = 0x77
	OpOVER                   = 0x78
	OpPICK                   = 0x79
	OpROLL                   = 0x7a
	OpROT                    = 0x7b
	OpSWAP                   = 0x7c
	OpTUCK                   = 0x7d
	OpCAT                    = 0x7e
	OpSIZE                   = 0x82
	OpINVERT                 = 0x83
	OpAND                    = 0x84
	OpOR                     = 0x85
	OpXOR                    = 0x86
	OpEQUAL                  = 0x87
	OpEQUALVERIFY            = 0x88
	OpREVERSE                = 0x89
	OpADD                    = 0x8b
	OpSUB                    = 0x8c
	OpMUL                    = 0x8d
	OpDIV                    = 0x8e
	OpADDMOD                 = 0x8f
	OpMULMOD                 = 0x90
	OpNOT                    = 0x91
	Op0NOTEQUAL              = 0x92
	OpBOOLAND                = 0x9a
	OpBOOLOR                 = 0x9b
	OpNUMEQUAL               = 0x9c
	OpNUMEQUALVERIFY         = 0x9d
	OpNUMNOTEQUAL            = 0x9e
	OpLESSTHAN               = 0x9f
	OpGREATERTHAN            = 0xa0
	OpLESSTHANOREQUAL        = 0xa1
	OpGREATERTHANOREQUAL     = 0xa2
	OpMIN                    = 0xa3
	OpMAX                    = 0xa4
	OpWITHIN                 = 0xa5
	OpRIPEMD160              = 0xa6
	OpSHA1                   = 0xa7
	OpSHA256                 = 0xa8
	OpHASH160                = 0xa9
	OpHASH256                = 0xaa
	OpTAGGEDHASH             = 0xab
	OpPUSHSECPGENERATORPOINT = 0xb2
	OpISINFINITESECPPOINT    = 0xb3
	OpISZEROSECPSCALAR       = 0xb4
	OpACCOUNTKEY             = 0xb8
	OpCALLER                 = 0xb9
	OpOPSBUDGET              = 0xba
	OpOPSCOUNTER             = 0xbb
	OpOPSPRICE               = 0xbc
	OpTIMESTAMP              = 0xbd
	OpPAYABLEALLOC           = 0xc0
	OpPAYABLESPENT           = 0xc1
	OpPAYABLELEFT            = 0xc2
	OpMREAD                  = 0xc3
	OpMWRITE                 = 0xc4
	OpMFREE                  = 0xc5
	OpSREAD                  = 0xc6
	OpSWRITE                 = 0xc7
	OpPAY                    = 0xc8
)

// Digest output sizes for the dynamic cost term.
const (
	ripemd160OutLen = 20
	sha1OutLen      = 20
	sha256OutLen    = 32
)

// OpCode describes a contract script opcode.
type OpCode struct {
	// Name is the mnemonic name of the opcode.
	Name string
	// Value is the tag byte of the opcode.
	Value byte
	// Ops is the static base cost charged per dispatch.
	Ops uint32
	// Flow marks the opcode as control-flow: it executes in skipped
	// regions too, so that nesting stays tracked.
	Flow bool
	// Exec performs the stack operations for the opcode. It is nil
	// for data pushes, which the runtime handles directly.
	Exec func(r *R) error
}

// opIndex maps tag bytes to opcodes for O(1) lookup.
var opIndex [256]*OpCode

func init() {
	for _, opc := range OpCodes {
		opIndex[opc.Value] = opc
	}
}

// GetOpcode returns the descriptor for a tag byte, or nil if the byte
// is undefined (data-push bytes 0x01..0x4b included).
func GetOpcode(v byte) *OpCode {
	return opIndex[v]
}

// dynDigestCost returns the input-length-dependent surcharge of a
// digest opcode: one op per output byte not covered by input bytes.
func dynDigestCost(outLen, inLen int) uint32 {
	if inLen >= outLen {
		return 0
	}
	return uint32(outLen - inLen)
}

// popPair pops the top two items: x2 was on top of x1.
func popPair(r *R) (x1, x2 Item, err error) {
	if x2, err = r.h.Pop(); err != nil {
		return
	}
	x1, err = r.h.Pop()
	return
}

// popUintPair pops the top two items through the numeric view.
func popUintPair(r *R) (a, b *uint256.Int, err error) {
	x1, x2, err := popPair(r)
	if err != nil {
		return
	}
	if a, err = x1.Uint(); err != nil {
		return
	}
	b, err = x2.Uint()
	return
}

var (
	// OpCodes is the list of all valid opcodes in a contract script.
	OpCodes = []*OpCode{
		// Constants and pushes. The runtime pushes the literal for all
		// statements up to OP_PUSHDATA4.
		{"OP_FALSE", OpFALSE, 1, false, nil},
		{"OP_PUSHDATA1", OpPUSHDATA1, 1, false, nil},
		{"OP_PUSHDATA2", OpPUSHDATA2, 1, false, nil},
		{"OP_PUSHDATA4", OpPUSHDATA4, 1, false, nil},
		{"OP_1NEGATE", Op1NEGATE, 1, false, func(r *R) error {
			// -1 in the modular view: 2^256 - 1
			m := new(uint256.Int).Not(uint256.NewInt(0))
			return r.h.Push(ItemFromUint(m))
		}},
		{"OP_RESERVED", OpRESERVED, 1, false, func(r *R) error {
			return ErrReservedOpcode
		}},
		{"OP_TRUE", OpTRUE, 1, false, func(r *R) error {
			return r.h.Push(TrueItem())
		}},
		{"OP_2", Op2, 1, false, func(r *R) error {
			return r.h.Push(Item{2})
		}},
		{"OP_3", Op3, 1, false, func(r *R) error {
			return r.h.Push(Item{3})
		}},
		{"OP_4", Op4, 1, false, func(r *R) error {
			return r.h.Push(Item{4})
		}},
		{"OP_5", Op5, 1, false, func(r *R) error {
			return r.h.Push(Item{5})
		}},
		{"OP_6", Op6, 1, false, func(r *R) error {
			return r.h.Push(Item{6})
		}},
		{"OP_7", Op7, 1, false, func(r *R) error {
			return r.h.Push(Item{7})
		}},
		{"OP_8", Op8, 1, false, func(r *R) error {
			return r.h.Push(Item{8})
		}},
		{"OP_9", Op9, 1, false, func(r *R) error {
			return r.h.Push(Item{9})
		}},
		{"OP_10", Op10, 1, false, func(r *R) error {
			return r.h.Push(Item{10})
		}},
		{"OP_11", Op11, 1, false, func(r *R) error {
			return r.h.Push(Item{11})
		}},
		{"OP_12", Op12, 1, false, func(r *R) error {
			return r.h.Push(Item{12})
		}},
		{"OP_13", Op13, 1, false, func(r *R) error {
			return r.h.Push(Item{13})
		}},
		{"OP_14", Op14, 1, false, func(r *R) error {
			return r.h.Push(Item{14})
		}},
		{"OP_15", Op15, 1, false, func(r *R) error {
			return r.h.Push(Item{15})
		}},
		{"OP_16", Op16, 1, false, func(r *R) error {
			return r.h.Push(Item{16})
		}},

		// Control flow. IF/NOTIF/ELSE/ENDIF run in every region so
		// nesting is tracked; everything else is gated by the runtime.
		{"OP_NOP", OpNOP, 1, false, func(r *R) error {
			return nil
		}},
		{"OP_RETURNERR", OpRETURNERR, 1, false, func(r *R) error {
			payload, err := r.h.Pop()
			if err != nil {
				return err
			}
			return &ReturnError{Payload: payload}
		}},
		{"OP_IF", OpIF, 1, true, func(r *R) error {
			return execIfNotif(r, true)
		}},
		{"OP_NOTIF", OpNOTIF, 1, true, func(r *R) error {
			return execIfNotif(r, false)
		}},
		{"OP_RETURNALL", OpRETURNALL, 1, false, func(r *R) error {
			for r.h.Stack().Len() > 0 {
				v, err := r.h.Pop()
				if err != nil {
					return err
				}
				r.ret = append(r.ret, v)
			}
			r.done = true
			return nil
		}},
		{"OP_RETURNSOME", OpRETURNSOME, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			n, err := v.Usize()
			if err != nil {
				return err
			}
			for i := 0; i < n; i++ {
				item, err := r.h.Pop()
				if err != nil {
					return err
				}
				r.ret = append(r.ret, item)
			}
			r.done = true
			return nil
		}},
		{"OP_ELSE", OpELSE, 1, true, func(r *R) error {
			enc, ok := r.h.PopFlowEncounter()
			if !ok {
				return ErrElseWithoutIf
			}
			if enc.Else {
				return ErrDoubleElse
			}
			r.h.PushFlowEncounter(enc.invert())
			return nil
		}},
		{"OP_ENDIF", OpENDIF, 1, true, func(r *R) error {
			if _, ok := r.h.PopFlowEncounter(); !ok {
				return ErrEndIfWithoutIf
			}
			return nil
		}},
		{"OP_VERIFY", OpVERIFY, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			if !v.IsCanonicalTrue() {
				return ErrMandatoryVerify
			}
			return nil
		}},
		{"OP_FAIL", OpFAIL, 1, false, func(r *R) error {
			return ErrFail
		}},

		// Stack operations
		{"OP_TOALTSTACK", OpTOALTSTACK, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.AltPush(v)
		}},
		{"OP_FROMALTSTACK", OpFROMALTSTACK, 1, false, func(r *R) error {
			v, err := r.h.AltPop()
			if err != nil {
				return err
			}
			return r.h.Push(v)
		}},
		{"OP_2DROP", Op2DROP, 2, false, func(r *R) error {
			if _, err := r.h.Pop(); err != nil {
				return err
			}
			_, err := r.h.Pop()
			return err
		}},
		{"OP_2DUP", Op2DUP, 2, false, func(r *R) error {
			return dupTop(r, 2)
		}},
		{"OP_3DUP", Op3DUP, 3, false, func(r *R) error {
			return dupTop(r, 3)
		}},
		{"OP_2OVER", Op2OVER, 2, false, func(r *R) error {
			for i := 0; i < 2; i++ {
				v, err := r.h.ItemByDepth(3)
				if err != nil {
					return err
				}
				if err = r.h.Push(v); err != nil {
					return err
				}
			}
			return nil
		}},
		{"OP_2ROT", Op2ROT, 2, false, func(r *R) error {
			return liftPair(r, 5)
		}},
		{"OP_2SWAP", Op2SWAP, 2, false, func(r *R) error {
			return liftPair(r, 3)
		}},
		{"OP_IFDUP", OpIFDUP, 1, false, func(r *R) error {
			v, err := r.h.LastItem()
			if err != nil {
				return err
			}
			if v.IsTrue() {
				return r.h.Push(v)
			}
			return nil
		}},
		{"OP_DEPTH", OpDEPTH, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(uint64(r.h.Stack().Len())))
		}},
		{"OP_DROP", OpDROP, 1, false, func(r *R) error {
			_, err := r.h.Pop()
			return err
		}},
		{"OP_DUP", OpDUP, 1, false, func(r *R) error {
			return dupTop(r, 1)
		}},
		{"OP_NIP", OpNIP, 1, false, func(r *R) error {
			x2, err := r.h.Pop()
			if err != nil {
				return err
			}
			if _, err = r.h.Pop(); err != nil {
				return err
			}
			return r.h.Push(x2)
		}},
		{"OP_OVER", OpOVER, 1, false, func(r *R) error {
			v, err := r.h.ItemByDepth(1)
			if err != nil {
				return err
			}
			return r.h.Push(v)
		}},
		{"OP_PICK", OpPICK, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			n, err := v.Usize()
			if err != nil {
				return err
			}
			item, err := r.h.ItemByDepth(n)
			if err != nil {
				return err
			}
			return r.h.Push(item)
		}},
		{"OP_ROLL", OpROLL, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			n, err := v.Usize()
			if err != nil {
				return err
			}
			item, err := r.h.ItemByDepth(n)
			if err != nil {
				return err
			}
			if err = r.h.RemoveItemByDepth(n); err != nil {
				return err
			}
			return r.h.Push(item)
		}},
		{"OP_ROT", OpROT, 1, false, func(r *R) error {
			item, err := r.h.ItemByDepth(2)
			if err != nil {
				return err
			}
			if err = r.h.RemoveItemByDepth(2); err != nil {
				return err
			}
			return r.h.Push(item)
		}},
		{"OP_SWAP", OpSWAP, 1, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			if err = r.h.Push(x2); err != nil {
				return err
			}
			return r.h.Push(x1)
		}},
		{"OP_TUCK", OpTUCK, 1, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			if err = r.h.Push(x2); err != nil {
				return err
			}
			if err = r.h.Push(x1); err != nil {
				return err
			}
			return r.h.Push(x2)
		}},

		// Splice / bitwise
		{"OP_CAT", OpCAT, 10, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			out := make(Item, 0, len(x1)+len(x2))
			out = append(out, x1...)
			out = append(out, x2...)
			return r.h.Push(out)
		}},
		{"OP_SIZE", OpSIZE, 1, false, func(r *R) error {
			v, err := r.h.LastItem()
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint64(uint64(len(v))))
		}},
		{"OP_INVERT", OpINVERT, 3, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			a, err := v.Uint()
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Not(a)))
		}},
		{"OP_AND", OpAND, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).And(a, b)))
		}},
		{"OP_OR", OpOR, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Or(a, b)))
		}},
		{"OP_XOR", OpXOR, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Xor(a, b)))
		}},
		{"OP_EQUAL", OpEQUAL, 1, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(x1.Equal(x2)))
		}},
		{"OP_EQUALVERIFY", OpEQUALVERIFY, 2, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			if !x1.Equal(x2) {
				return ErrMandatoryEqualVerify
			}
			return nil
		}},
		{"OP_REVERSE", OpREVERSE, 3, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			l := len(v)
			out := make(Item, l)
			for i, b := range v {
				out[l-1-i] = b
			}
			return r.h.Push(out)
		}},

		// Arithmetic over the 256-bit numeric view. The standard ops
		// push the empty item on overflow; the modular ops wrap.
		{"OP_ADD", OpADD, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			sum, overflow := new(uint256.Int).AddOverflow(a, b)
			if overflow {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(ItemFromUint(sum))
		}},
		{"OP_SUB", OpSUB, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			diff, underflow := new(uint256.Int).SubOverflow(a, b)
			if underflow {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(ItemFromUint(diff))
		}},
		{"OP_MUL", OpMUL, 10, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			prod, overflow := new(uint256.Int).MulOverflow(a, b)
			if overflow {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(ItemFromUint(prod))
		}},
		{"OP_DIV", OpDIV, 10, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			if b.IsZero() {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Div(a, b)))
		}},
		{"OP_ADDMOD", OpADDMOD, 3, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Add(a, b)))
		}},
		{"OP_MULMOD", OpMULMOD, 10, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(ItemFromUint(new(uint256.Int).Mul(a, b)))
		}},
		{"OP_NOT", OpNOT, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			a, err := v.Uint()
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(a.IsZero()))
		}},
		{"OP_0NOTEQUAL", Op0NOTEQUAL, 1, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			a, err := v.Uint()
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(!a.IsZero()))
		}},
		{"OP_BOOLAND", OpBOOLAND, 1, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(x1.IsTrue() && x2.IsTrue()))
		}},
		{"OP_BOOLOR", OpBOOLOR, 1, false, func(r *R) error {
			x1, x2, err := popPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(x1.IsTrue() || x2.IsTrue()))
		}},
		{"OP_NUMEQUAL", OpNUMEQUAL, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(a.Eq(b)))
		}},
		{"OP_NUMEQUALVERIFY", OpNUMEQUALVERIFY, 2, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			if !a.Eq(b) {
				return ErrMandatoryVerify
			}
			return nil
		}},
		{"OP_NUMNOTEQUAL", OpNUMNOTEQUAL, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(!a.Eq(b)))
		}},
		{"OP_LESSTHAN", OpLESSTHAN, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(a.Lt(b)))
		}},
		{"OP_GREATERTHAN", OpGREATERTHAN, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(a.Gt(b)))
		}},
		{"OP_LESSTHANOREQUAL", OpLESSTHANOREQUAL, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(!a.Gt(b)))
		}},
		{"OP_GREATERTHANOREQUAL", OpGREATERTHANOREQUAL, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(!a.Lt(b)))
		}},
		{"OP_MIN", OpMIN, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			if b.Lt(a) {
				return r.h.Push(ItemFromUint(b))
			}
			return r.h.Push(ItemFromUint(a))
		}},
		{"OP_MAX", OpMAX, 1, false, func(r *R) error {
			a, b, err := popUintPair(r)
			if err != nil {
				return err
			}
			if b.Gt(a) {
				return r.h.Push(ItemFromUint(b))
			}
			return r.h.Push(ItemFromUint(a))
		}},
		{"OP_WITHIN", OpWITHIN, 2, false, func(r *R) error {
			vMax, err := r.h.Pop()
			if err != nil {
				return err
			}
			vMin, err := r.h.Pop()
			if err != nil {
				return err
			}
			vx, err := r.h.Pop()
			if err != nil {
				return err
			}
			mx, err := vMax.Uint()
			if err != nil {
				return err
			}
			mn, err := vMin.Uint()
			if err != nil {
				return err
			}
			x, err := vx.Uint()
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(!x.Lt(mn) && x.Lt(mx)))
		}},

		// Crypto digests. The dynamic surcharge is one op per output
		// byte not covered by the input length.
		{"OP_RIPEMD160", OpRIPEMD160, 30, false, func(r *R) error {
			return execDigest(r, ripemd160OutLen, RipeMD160)
		}},
		{"OP_SHA1", OpSHA1, 30, false, func(r *R) error {
			return execDigest(r, sha1OutLen, Sha1)
		}},
		{"OP_SHA256", OpSHA256, 42, false, func(r *R) error {
			return execDigest(r, sha256OutLen, Sha256)
		}},
		{"OP_HASH160", OpHASH160, 72, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.Push(Hash160(v))
		}},
		{"OP_HASH256", OpHASH256, 84, false, func(r *R) error {
			v, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.Push(Hash256(v))
		}},
		{"OP_TAGGEDHASH", OpTAGGEDHASH, 84, false, func(r *R) error {
			tag, err := r.h.Pop()
			if err != nil {
				return err
			}
			preimage, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.Push(TaggedHash(tag, preimage))
		}},

		// Secp256k1 primitives
		{"OP_PUSHSECPGENERATORPOINT", OpPUSHSECPGENERATORPOINT, 1, false, func(r *R) error {
			return r.h.Push(secpGenerator())
		}},
		{"OP_ISINFINITESECPPOINT", OpISINFINITESECPPOINT, 1, false, func(r *R) error {
			v, err := r.h.LastItem()
			if err != nil {
				return err
			}
			if isZeroBytes(v) {
				return r.h.Push(TrueItem())
			}
			if _, err := secp256k1.ParsePubKey(v); err != nil {
				return errors.New(ErrInvalidSecpPoint, "%d bytes", len(v))
			}
			return r.h.Push(FalseItem())
		}},
		{"OP_ISZEROSECPSCALAR", OpISZEROSECPSCALAR, 1, false, func(r *R) error {
			v, err := r.h.LastItem()
			if err != nil {
				return err
			}
			if len(v) > 32 {
				return errors.New(ErrInvalidSecpScalar, "%d bytes", len(v))
			}
			var s secp256k1.ModNScalar
			if overflow := s.SetByteSlice(v); overflow {
				return errors.New(ErrInvalidSecpScalar, "scalar exceeds group order")
			}
			return r.h.Push(boolItem(s.IsZero()))
		}},

		// Caller context
		{"OP_ACCOUNTKEY", OpACCOUNTKEY, 1, false, func(r *R) error {
			key := r.h.AccountKey()
			return r.h.Push(key[:])
		}},
		{"OP_CALLER", OpCALLER, 1, false, func(r *R) error {
			id := r.h.CallerID()
			return r.h.Push(id[:])
		}},
		{"OP_OPSBUDGET", OpOPSBUDGET, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(uint64(r.h.OpsBudget())))
		}},
		{"OP_OPSCOUNTER", OpOPSCOUNTER, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(uint64(r.h.OpsCounter())))
		}},
		{"OP_OPSPRICE", OpOPSPRICE, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(uint64(r.h.OpsPrice())))
		}},
		{"OP_TIMESTAMP", OpTIMESTAMP, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(r.h.Timestamp()))
		}},

		// Payments
		{"OP_PAYABLEALLOC", OpPAYABLEALLOC, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(r.h.PayableAllocation()))
		}},
		{"OP_PAYABLESPENT", OpPAYABLESPENT, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(r.h.PayableSpent()))
		}},
		{"OP_PAYABLELEFT", OpPAYABLELEFT, 1, false, func(r *R) error {
			return r.h.Push(ItemFromUint64(r.h.PayableLeft()))
		}},
		{"OP_PAY", OpPAY, 5, false, func(r *R) error {
			vAmount, err := r.h.Pop()
			if err != nil {
				return err
			}
			amount, err := vAmount.Uint()
			if err != nil {
				return err
			}
			if !amount.IsUint64() || amount.Uint64() > 0xffffffff {
				return errors.New(ErrStackUintMaxOverflow, "amount %s", amount)
			}
			vTo, err := r.h.Pop()
			if err != nil {
				return err
			}
			if len(vTo) != 32 {
				return errors.New(ErrNonAllocatedPayment, "recipient is %d bytes", len(vTo))
			}
			var to [32]byte
			copy(to[:], vTo)
			return r.h.RecordPayment(r.h.ContractID(), to, uint32(amount.Uint64()))
		}},

		// Memory
		{"OP_MREAD", OpMREAD, 5, false, func(r *R) error {
			key, err := r.h.Pop()
			if err != nil {
				return err
			}
			if err := checkKey(key); err != nil {
				return err
			}
			v, ok := r.h.Memory().Read(key)
			if !ok {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(v)
		}},
		{"OP_MWRITE", OpMWRITE, 5, false, func(r *R) error {
			value, err := r.h.Pop()
			if err != nil {
				return err
			}
			key, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.Memory().Write(key, value)
		}},
		{"OP_MFREE", OpMFREE, 1, false, func(r *R) error {
			key, err := r.h.Pop()
			if err != nil {
				return err
			}
			removed, err := r.h.Memory().Free(key)
			if err != nil {
				return err
			}
			return r.h.Push(boolItem(removed))
		}},

		// Durable storage
		{"OP_SREAD", OpSREAD, 25, false, func(r *R) error {
			key, err := r.h.Pop()
			if err != nil {
				return err
			}
			if err := checkKey(key); err != nil {
				return err
			}
			v, ok := r.h.StateRead(key)
			if !ok {
				return r.h.Push(FalseItem())
			}
			return r.h.Push(v)
		}},
		{"OP_SWRITE", OpSWRITE, 50, false, func(r *R) error {
			value, err := r.h.Pop()
			if err != nil {
				return err
			}
			key, err := r.h.Pop()
			if err != nil {
				return err
			}
			return r.h.StateWrite(key, value)
		}},
	}
)

// execIfNotif opens a conditional region for OP_IF / OP_NOTIF.
func execIfNotif(r *R, wantTrue bool) error {
	if !r.h.ActiveExecution() {
		// the branch is syntactically tracked but semantically skipped;
		// the predicate stays untouched.
		r.h.PushFlowEncounter(FlowEncounter{Status: FlowInactive})
		return nil
	}
	pred, err := r.h.Pop()
	if err != nil {
		return err
	}
	status := FlowUncovered
	switch {
	case pred.IsCanonicalTrue():
		if wantTrue {
			status = FlowActive
		} else {
			status = FlowInactive
		}
	case pred.IsFalse():
		if wantTrue {
			status = FlowInactive
		} else {
			status = FlowActive
		}
	}
	r.h.PushFlowEncounter(FlowEncounter{Status: status})
	return nil
}

// execDigest pops the preimage, charges the dynamic cost term and
// pushes the digest.
func execDigest(r *R, outLen int, digest func([]byte) []byte) error {
	v, err := r.h.Pop()
	if err != nil {
		return err
	}
	if err := r.h.IncrementOps(dynDigestCost(outLen, len(v))); err != nil {
		return err
	}
	return r.h.Push(digest(v))
}

// dupTop duplicates the top n items of the main stack.
func dupTop(r *R, n int) error {
	for i := 0; i < n; i++ {
		v, err := r.h.ItemByDepth(n - 1)
		if err != nil {
			return err
		}
		if err = r.h.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// liftPair moves the two items at the given depth to the top,
// preserving their order.
func liftPair(r *R, depth int) error {
	for i := 0; i < 2; i++ {
		v, err := r.h.ItemByDepth(depth)
		if err != nil {
			return err
		}
		if err = r.h.RemoveItemByDepth(depth); err != nil {
			return err
		}
		if err = r.h.Push(v); err != nil {
			return err
		}
	}
	return nil
}

// isZeroBytes reports whether all bytes of an item are zero. The
// empty item counts as zero (the serialized point at infinity).
func isZeroBytes(v Item) bool {
	for _, b := range v {
		if b != 0 {
			return false
		}
	}
	return true
}

// secpGenerator returns the uncompressed serialization of the
// secp256k1 generator point.
func secpGenerator() Item {
	params := secp256k1.S256().Params()
	out := make(Item, 65)
	out[0] = 0x04
	params.Gx.FillBytes(out[1:33])
	params.Gy.FillBytes(out[33:65])
	return out
}
