// Package disasm renders decoded instructions as assembly text, for the
// interpreter's auxiliary per-instruction trace stream.
package disasm

import (
	"fmt"

	"github.com/Jorgecmartins/riscv-emulator/isa"
)

func regName(i uint8) string {
	return fmt.Sprintf("x%d", i)
}

// Format renders inst as one line of assembly text, e.g. "add x3, x1, x2".
// Unknown instructions render as "<unknown>".
func Format(inst isa.Instruction) string {
	switch inst.Format {
	case isa.FormatR:
		return formatR(inst)
	case isa.FormatI:
		return formatI(inst)
	case isa.FormatS:
		return formatS(inst)
	case isa.FormatB:
		return formatB(inst)
	case isa.FormatU:
		return formatU(inst)
	case isa.FormatJ:
		return fmt.Sprintf("jal %s, %d", regName(inst.Rd), inst.Imm)
	case isa.FormatECALL:
		return "ecall"
	default:
		return "<unknown>"
	}
}

func formatR(inst isa.Instruction) string {
	switch inst.Op {
	case isa.OpAdd:
		return rrr("add", inst)
	case isa.OpSub:
		return rrr("sub", inst)
	case isa.OpSll:
		return rrr("sll", inst)
	case isa.OpSlt:
		return rrr("slt", inst)
	case isa.OpSltu:
		return rrr("sltu", inst)
	case isa.OpXor:
		return rrr("xor", inst)
	case isa.OpSrl:
		return rrr("srl", inst)
	case isa.OpSra:
		return rrr("sra", inst)
	case isa.OpOr:
		return rrr("or", inst)
	case isa.OpAnd:
		return rrr("and", inst)
	case isa.OpSlli:
		return shift("slli", inst)
	case isa.OpSrli:
		return shift("srli", inst)
	case isa.OpSrai:
		return shift("srai", inst)
	default:
		return "<unknown>"
	}
}

func rrr(mnemonic string, inst isa.Instruction) string {
	return fmt.Sprintf("%s %s, %s, %s", mnemonic, regName(inst.Rd), regName(inst.Rs1), regName(inst.Rs2))
}

func shift(mnemonic string, inst isa.Instruction) string {
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regName(inst.Rd), regName(inst.Rs1), inst.Shamt)
}

func formatI(inst isa.Instruction) string {
	switch inst.Op {
	case isa.OpJalr:
		return fmt.Sprintf("jalr %s, %s, %d", regName(inst.Rd), regName(inst.Rs1), inst.Imm)
	case isa.OpLb:
		return load("lb", inst)
	case isa.OpLh:
		return load("lh", inst)
	case isa.OpLw:
		return load("lw", inst)
	case isa.OpLbu:
		return load("lbu", inst)
	case isa.OpLhu:
		return load("lhu", inst)
	case isa.OpAddi:
		return rri("addi", inst)
	case isa.OpSlti:
		return rri("slti", inst)
	case isa.OpSltiu:
		return rri("sltiu", inst)
	case isa.OpXori:
		return rri("xori", inst)
	case isa.OpOri:
		return rri("ori", inst)
	case isa.OpAndi:
		return rri("andi", inst)
	default:
		return "<unknown>"
	}
}

func rri(mnemonic string, inst isa.Instruction) string {
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regName(inst.Rd), regName(inst.Rs1), inst.Imm)
}

func load(mnemonic string, inst isa.Instruction) string {
	return fmt.Sprintf("%s %s, %d(%s)", mnemonic, regName(inst.Rd), inst.Imm, regName(inst.Rs1))
}

func formatS(inst isa.Instruction) string {
	var mnemonic string
	switch inst.Op {
	case isa.OpSb:
		mnemonic = "sb"
	case isa.OpSh:
		mnemonic = "sh"
	case isa.OpSw:
		mnemonic = "sw"
	default:
		return "<unknown>"
	}
	return fmt.Sprintf("%s %s, %d(%s)", mnemonic, regName(inst.Rs2), inst.Imm, regName(inst.Rs1))
}

func formatB(inst isa.Instruction) string {
	var mnemonic string
	switch inst.Op {
	case isa.OpBeq:
		mnemonic = "beq"
	case isa.OpBne:
		mnemonic = "bne"
	case isa.OpBlt:
		mnemonic = "blt"
	case isa.OpBge:
		mnemonic = "bge"
	case isa.OpBltu:
		mnemonic = "bltu"
	case isa.OpBgeu:
		mnemonic = "bgeu"
	default:
		return "<unknown>"
	}
	return fmt.Sprintf("%s %s, %s, %d", mnemonic, regName(inst.Rs1), regName(inst.Rs2), inst.Imm)
}

func formatU(inst isa.Instruction) string {
	switch inst.Op {
	case isa.OpLui:
		return fmt.Sprintf("lui %s, 0x%x", regName(inst.Rd), uint32(inst.Imm)>>12)
	case isa.OpAuipc:
		return fmt.Sprintf("auipc %s, 0x%x", regName(inst.Rd), uint32(inst.Imm)>>12)
	default:
		return "<unknown>"
	}
}

// Trace renders a "0xPC: mnemonic" line for the auxiliary trace stream.
func Trace(pc uint32, inst isa.Instruction) string {
	return fmt.Sprintf("0x%08X: %s", pc, Format(inst))
}
