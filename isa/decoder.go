package isa

import "github.com/Jorgecmartins/riscv-emulator/bitutil"

// Opcode values (bits 6..0) dispatched on in Decode.
const (
	opcodeR34    = 0b0110011 // register-register arithmetic/logic
	opcodeImm    = 0b0010011 // arith-immediate, and shift-immediate when func3 is 001/101
	opcodeLoad   = 0b0000011
	opcodeJalr   = 0b1100111
	opcodeStore  = 0b0100011
	opcodeBranch = 0b1100011
	opcodeLui    = 0b0110111
	opcodeAuipc  = 0b0010111
	opcodeJal    = 0b1101111
	opcodeECALL  = 0b1110011
)

// Decoder maps 32-bit instruction words to decoded instructions. It carries
// no state; a single Decoder may be shared across calls.
type Decoder struct{}

// NewDecoder creates a Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode maps a 32-bit instruction word to its decoded form. The returned
// Instruction has Format == FormatUnknown and Op == OpUnknown if the opcode,
// func3 or func7 bits do not identify a supported RV32I instruction; the
// caller is responsible for treating that as a fatal decode error.
func (d *Decoder) Decode(word uint32) Instruction {
	opcode := bitutil.Bits(word, 0, 6)
	func3 := bitutil.Bits(word, 12, 14)

	switch {
	case opcode == opcodeImm && (func3 == 0b001 || func3 == 0b101):
		return decodeRShift(word, func3)
	case opcode == opcodeR34:
		return decodeRReg(word, func3)
	case opcode == opcodeJalr || opcode == opcodeLoad || opcode == opcodeImm:
		return decodeI(word, opcode, func3)
	case opcode == opcodeStore:
		return decodeS(word, func3)
	case opcode == opcodeBranch:
		return decodeB(word, func3)
	case opcode == opcodeLui || opcode == opcodeAuipc:
		return decodeU(word, opcode)
	case opcode == opcodeJal:
		return decodeJ(word)
	case opcode == opcodeECALL:
		return Instruction{Format: FormatECALL}
	default:
		return Instruction{}
	}
}

func rFields(word uint32) (rs1, rs2, rd uint8) {
	return uint8(bitutil.Bits(word, 15, 19)),
		uint8(bitutil.Bits(word, 20, 24)),
		uint8(bitutil.Bits(word, 7, 11))
}

func decodeRReg(word uint32, func3 uint32) Instruction {
	rs1, rs2, rd := rFields(word)
	func7 := bitutil.Bits(word, 25, 31)

	var op Op
	switch {
	case func3 == 0b000 && func7 == 0b0000000:
		op = OpAdd
	case func3 == 0b000 && func7 == 0b0100000:
		op = OpSub
	case func3 == 0b001 && func7 == 0b0000000:
		op = OpSll
	case func3 == 0b010 && func7 == 0b0000000:
		op = OpSlt
	case func3 == 0b011 && func7 == 0b0000000:
		op = OpSltu
	case func3 == 0b100 && func7 == 0b0000000:
		op = OpXor
	case func3 == 0b101 && func7 == 0b0000000:
		op = OpSrl
	case func3 == 0b101 && func7 == 0b0100000:
		op = OpSra
	case func3 == 0b110 && func7 == 0b0000000:
		op = OpOr
	case func3 == 0b111 && func7 == 0b0000000:
		op = OpAnd
	default:
		return Instruction{}
	}

	return Instruction{Format: FormatR, Op: op, Rs1: rs1, Rs2: rs2, Rd: rd}
}

func decodeRShift(word uint32, func3 uint32) Instruction {
	rs1, shamtField, rd := rFields(word)
	func7 := bitutil.Bits(word, 25, 31)
	shamt := shamtField & 0x1F

	var op Op
	switch {
	case func3 == 0b001 && func7 == 0b0000000:
		op = OpSlli
	case func3 == 0b101 && func7 == 0b0000000:
		op = OpSrli
	case func3 == 0b101 && func7 == 0b0100000:
		op = OpSrai
	default:
		return Instruction{}
	}

	return Instruction{Format: FormatR, Op: op, Rs1: rs1, Rd: rd, Shamt: shamt}
}

func decodeI(word uint32, opcode, func3 uint32) Instruction {
	rs1 := uint8(bitutil.Bits(word, 15, 19))
	rd := uint8(bitutil.Bits(word, 7, 11))
	imm := int32(bitutil.SignExtend(bitutil.Bits(word, 20, 31), 12))

	var op Op
	switch {
	case opcode == opcodeJalr && func3 == 0b000:
		op = OpJalr
	case opcode == opcodeLoad && func3 == 0b000:
		op = OpLb
	case opcode == opcodeLoad && func3 == 0b001:
		op = OpLh
	case opcode == opcodeLoad && func3 == 0b010:
		op = OpLw
	case opcode == opcodeLoad && func3 == 0b100:
		op = OpLbu
	case opcode == opcodeLoad && func3 == 0b101:
		op = OpLhu
	case opcode == opcodeImm && func3 == 0b000:
		op = OpAddi
	case opcode == opcodeImm && func3 == 0b010:
		op = OpSlti
	case opcode == opcodeImm && func3 == 0b011:
		op = OpSltiu
	case opcode == opcodeImm && func3 == 0b100:
		op = OpXori
	case opcode == opcodeImm && func3 == 0b110:
		op = OpOri
	case opcode == opcodeImm && func3 == 0b111:
		op = OpAndi
	default:
		return Instruction{}
	}

	return Instruction{Format: FormatI, Op: op, Rs1: rs1, Rd: rd, Imm: imm}
}

func decodeS(word uint32, func3 uint32) Instruction {
	rs1 := uint8(bitutil.Bits(word, 15, 19)) // base
	rs2 := uint8(bitutil.Bits(word, 20, 24)) // src
	raw := bitutil.Bits(word, 25, 31)<<5 | bitutil.Bits(word, 7, 11)
	imm := int32(bitutil.SignExtend(raw, 12))

	var op Op
	switch func3 {
	case 0b000:
		op = OpSb
	case 0b001:
		op = OpSh
	case 0b010:
		op = OpSw
	default:
		return Instruction{}
	}

	return Instruction{Format: FormatS, Op: op, Rs1: rs1, Rs2: rs2, Imm: imm}
}

func decodeB(word uint32, func3 uint32) Instruction {
	rs1 := uint8(bitutil.Bits(word, 15, 19))
	rs2 := uint8(bitutil.Bits(word, 20, 24))
	raw := bitutil.Bits(word, 31, 31)<<12 |
		bitutil.Bits(word, 7, 7)<<11 |
		bitutil.Bits(word, 25, 30)<<5 |
		bitutil.Bits(word, 8, 11)<<1
	imm := int32(bitutil.SignExtend(raw, 13))

	var op Op
	switch func3 {
	case 0b000:
		op = OpBeq
	case 0b001:
		op = OpBne
	case 0b100:
		op = OpBlt
	case 0b101:
		op = OpBge
	case 0b110:
		op = OpBltu
	case 0b111:
		op = OpBgeu
	default:
		return Instruction{}
	}

	return Instruction{Format: FormatB, Op: op, Rs1: rs1, Rs2: rs2, Imm: imm}
}

func decodeU(word uint32, opcode uint32) Instruction {
	rd := uint8(bitutil.Bits(word, 7, 11))
	imm := int32(bitutil.Bits(word, 12, 31) << 12)

	op := OpLui
	if opcode == opcodeAuipc {
		op = OpAuipc
	}

	return Instruction{Format: FormatU, Op: op, Rd: rd, Imm: imm}
}

func decodeJ(word uint32) Instruction {
	rd := uint8(bitutil.Bits(word, 7, 11))
	raw := bitutil.Bits(word, 31, 31)<<20 |
		bitutil.Bits(word, 12, 19)<<12 |
		bitutil.Bits(word, 20, 20)<<11 |
		bitutil.Bits(word, 21, 30)<<1
	imm := int32(bitutil.SignExtend(raw, 21))

	return Instruction{Format: FormatJ, Op: OpJal, Rd: rd, Imm: imm}
}
