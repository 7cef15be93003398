package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jorgecmartins/riscv-emulator/isa"
)

var _ = Describe("Isa Package", func() {
	It("has a zero-value Instruction", func() {
		var i isa.Instruction
		Expect(i).To(BeZero())
	})

	It("has a Decoder type", func() {
		d := isa.NewDecoder()
		Expect(d).ToNot(BeNil())
	})
})

var _ = Describe("Decoder", func() {
	var d *isa.Decoder

	BeforeEach(func() {
		d = isa.NewDecoder()
	})

	It("decodes addi x0, x0, 0x7FF", func() {
		inst := d.Decode(0x7FF00013)
		Expect(inst.Format).To(Equal(isa.FormatI))
		Expect(inst.Op).To(Equal(isa.OpAddi))
		Expect(inst.Rd).To(Equal(uint8(0)))
		Expect(inst.Rs1).To(Equal(uint8(0)))
		Expect(inst.Imm).To(Equal(int32(0x7FF)))
	})

	It("decodes an R-type add", func() {
		// add x3, x1, x2: opcode 0110011, func3 000, func7 0000000
		word := uint32(0)
		word |= 0b0110011       // opcode
		word |= 0 << 12         // func3 = 0
		word |= 1 << 15         // rs1 = x1
		word |= 2 << 20         // rs2 = x2
		word |= 3 << 7          // rd = x3
		word |= 0b0000000 << 25 // func7

		inst := d.Decode(word)
		Expect(inst.Format).To(Equal(isa.FormatR))
		Expect(inst.Op).To(Equal(isa.OpAdd))
		Expect(inst.Rs1).To(Equal(uint8(1)))
		Expect(inst.Rs2).To(Equal(uint8(2)))
		Expect(inst.Rd).To(Equal(uint8(3)))
	})

	It("distinguishes Srai from Srli by func7", func() {
		base := uint32(0)
		base |= 0b0010011 // opcode
		base |= 0b101 << 12
		base |= 1 << 15
		base |= 2 << 7
		base |= 4 << 20 // shamt = 4

		srli := d.Decode(base)
		Expect(srli.Op).To(Equal(isa.OpSrli))
		Expect(srli.Shamt).To(Equal(uint8(4)))

		srai := d.Decode(base | (0b0100000 << 25))
		Expect(srai.Op).To(Equal(isa.OpSrai))
		Expect(srai.Shamt).To(Equal(uint8(4)))
	})

	It("decodes a store with the correct immediate split", func() {
		// sw x1, 4(x10): opcode 0100011, func3 010, imm = 4
		word := uint32(0)
		word |= 0b0100011
		word |= 0b010 << 12
		word |= 10 << 15 // rs1 (base)
		word |= 1 << 20  // rs2 (src)
		word |= 4 << 7   // imm[4:0]

		inst := d.Decode(word)
		Expect(inst.Format).To(Equal(isa.FormatS))
		Expect(inst.Op).To(Equal(isa.OpSw))
		Expect(inst.Rs1).To(Equal(uint8(10)))
		Expect(inst.Rs2).To(Equal(uint8(1)))
		Expect(inst.Imm).To(Equal(int32(4)))
	})

	It("decodes a branch offset with the low bit forced to 0", func() {
		// beq x0, x0, 8
		word := uint32(0)
		word |= 0b1100011
		word |= 0b000 << 12
		// imm = 8 -> imm[4:1] = 0b0100 in word bits [11:8], rest 0
		word |= 1 << 8 // bit 8 of word -> imm bit 1; superseded below

		// Simpler: build via known encoding bits directly.
		// imm[4:1] occupies word bits [11:8]; imm=8 => imm[4:1]=0b0100
		word = 0
		word |= 0b1100011
		word |= 0b000 << 12
		word |= 0b0100 << 8 // imm[4:1] = 0100 -> imm bit 3 set -> imm=8

		inst := d.Decode(word)
		Expect(inst.Format).To(Equal(isa.FormatB))
		Expect(inst.Op).To(Equal(isa.OpBeq))
		Expect(inst.Imm).To(Equal(int32(8)))
	})

	It("decodes Lui with the immediate pre-shifted", func() {
		word := uint32(0)
		word |= 0b0110111
		word |= 5 << 7        // rd
		word |= 0xABCDE << 12 // imm[31:12]

		inst := d.Decode(word)
		Expect(inst.Format).To(Equal(isa.FormatU))
		Expect(inst.Op).To(Equal(isa.OpLui))
		Expect(inst.Rd).To(Equal(uint8(5)))
		Expect(uint32(inst.Imm)).To(Equal(uint32(0xABCDE000)))
	})

	It("decodes an ecall", func() {
		inst := d.Decode(0b1110011)
		Expect(inst.Format).To(Equal(isa.FormatECALL))
	})

	It("reports an unknown opcode as FormatUnknown", func() {
		inst := d.Decode(0x7F) // opcode 1111111, unassigned
		Expect(inst.Format).To(Equal(isa.FormatUnknown))
	})
})
