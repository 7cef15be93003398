// Package isa provides the RV32I decoded-instruction model: the instruction
// formats, opcode variants, and the bit layout a 32-bit instruction word is
// decoded from.
package isa

// Format identifies which RISC-V instruction encoding a word belongs to.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // register-register and shift-immediate
	FormatI              // arith-immediate, loads, Jalr
	FormatS              // stores
	FormatB              // branches
	FormatU              // Lui, Auipc
	FormatJ              // Jal
	FormatECALL          // environment call
)

// Op identifies the opcode variant within a Format.
type Op uint8

// Opcode variants, grouped by the Format that carries them.
const (
	OpUnknown Op = iota

	// R-format, register-register.
	OpAdd
	OpSub
	OpSll
	OpSlt
	OpSltu
	OpXor
	OpSrl
	OpSra
	OpOr
	OpAnd

	// R-format, shift-immediate (shamt in place of rs2).
	OpSlli
	OpSrli
	OpSrai

	// I-format.
	OpJalr
	OpLb
	OpLh
	OpLw
	OpLbu
	OpLhu
	OpAddi
	OpSlti
	OpSltiu
	OpXori
	OpOri
	OpAndi

	// S-format.
	OpSb
	OpSh
	OpSw

	// B-format.
	OpBeq
	OpBne
	OpBlt
	OpBge
	OpBltu
	OpBgeu

	// U-format.
	OpLui
	OpAuipc

	// J-format.
	OpJal
)

// Instruction is the decoded form of a 32-bit RV32I instruction word. Only
// the fields relevant to Format/Op are meaningful; the rest are left zero.
// Modeling all families as one flat struct (rather than a Go interface
// hierarchy per family) keeps decode and dispatch a pair of exhaustive
// switches on Format/Op instead of a type-switch over implementations.
type Instruction struct {
	Format Format
	Op     Op

	Rd   uint8
	Rs1  uint8
	Rs2  uint8
	// Shamt holds the shift amount for Slli/Srli/Srai (0..31).
	Shamt uint8
	// Imm holds the format's immediate, already sign-extended (except for
	// U-format, whose immediate is pre-shifted into bits 31..12 and carries
	// no sign extension).
	Imm int32
}
