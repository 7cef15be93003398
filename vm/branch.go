package vm

// BranchUnit implements the RV32I conditional branches and the
// unconditional jumps. Each conditional branch returns true if it changed
// PC, so the run loop knows whether to apply the implicit +4 advance; Jal
// and Jalr always change PC and return nothing.
type BranchUnit struct {
	regs *RegFile
}

// NewBranchUnit creates a BranchUnit connected to the given register file.
func NewBranchUnit(regs *RegFile) *BranchUnit {
	return &BranchUnit{regs: regs}
}

// Beq, Bne, Blt, Bge, Bltu and Bgeu each compare rs1 against rs2 and, if the
// predicate holds, set PC = PC + offset (wrapping) and report true.
// Blt/Bge compare as signed two's-complement values; Bltu/Bgeu compare as
// unsigned.

func (b *BranchUnit) Beq(rs1, rs2 uint8, offset int32) bool {
	return b.takeIf(b.regs.ReadReg(rs1) == b.regs.ReadReg(rs2), offset)
}

func (b *BranchUnit) Bne(rs1, rs2 uint8, offset int32) bool {
	return b.takeIf(b.regs.ReadReg(rs1) != b.regs.ReadReg(rs2), offset)
}

func (b *BranchUnit) Blt(rs1, rs2 uint8, offset int32) bool {
	lhs := int32(b.regs.ReadReg(rs1))
	rhs := int32(b.regs.ReadReg(rs2))
	return b.takeIf(lhs < rhs, offset)
}

func (b *BranchUnit) Bge(rs1, rs2 uint8, offset int32) bool {
	lhs := int32(b.regs.ReadReg(rs1))
	rhs := int32(b.regs.ReadReg(rs2))
	return b.takeIf(lhs >= rhs, offset)
}

func (b *BranchUnit) Bltu(rs1, rs2 uint8, offset int32) bool {
	return b.takeIf(b.regs.ReadReg(rs1) < b.regs.ReadReg(rs2), offset)
}

func (b *BranchUnit) Bgeu(rs1, rs2 uint8, offset int32) bool {
	return b.takeIf(b.regs.ReadReg(rs1) >= b.regs.ReadReg(rs2), offset)
}

func (b *BranchUnit) takeIf(cond bool, offset int32) bool {
	if !cond {
		return false
	}
	b.regs.SetPC(b.regs.PC() + uint32(offset))
	return true
}

// Jal saves PC+4 in rd and branches to PC + offset (wrapping). Always
// changes PC.
func (b *BranchUnit) Jal(rd uint8, offset int32) {
	ret := b.regs.PC() + 4
	b.regs.SetPC(b.regs.PC() + uint32(offset))
	b.regs.WriteReg(rd, ret)
}

// Jalr saves PC+4 in rd (computed before the jump), then sets
// PC = (rs1 + imm) with bit 0 forced to 0. Always changes PC.
func (b *BranchUnit) Jalr(rd, rs1 uint8, imm int32) {
	ret := b.regs.PC() + 4
	target := (b.regs.ReadReg(rs1) + uint32(imm)) &^ 1
	b.regs.WriteReg(rd, ret)
	b.regs.SetPC(target)
}
