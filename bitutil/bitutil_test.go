package bitutil_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jorgecmartins/riscv-emulator/bitutil"
)

var _ = Describe("Bits", func() {
	It("extracts a right-aligned slice", func() {
		Expect(bitutil.Bits(0xDEADBEEF, 0, 7)).To(Equal(uint32(0xEF)))
		Expect(bitutil.Bits(0xDEADBEEF, 8, 15)).To(Equal(uint32(0xBE)))
		Expect(bitutil.Bits(0xDEADBEEF, 24, 31)).To(Equal(uint32(0xDE)))
	})

	It("composes with a shift and mask as the identity on the slice", func() {
		w := uint32(0x12345678)
		lsb, msb := uint8(4), uint8(11)
		got := bitutil.Bits(w, lsb, msb)
		mask := uint32(1)<<(msb-lsb+1) - 1
		Expect(got).To(Equal((w >> lsb) & mask))
	})

	It("panics on an invalid range", func() {
		Expect(func() { bitutil.Bits(0, 5, 2) }).To(Panic())
	})
})

var _ = Describe("SignExtend", func() {
	It("leaves a positive value untouched", func() {
		Expect(bitutil.SignExtend(0x3FF, 12)).To(Equal(uint32(0x3FF)))
	})

	It("replicates a set sign bit into bits width..31", func() {
		got := bitutil.SignExtend(0xFFF, 12) // all 12 bits set -> -1
		Expect(got).To(Equal(uint32(0xFFFFFFFF)))
	})

	It("sign-extends a 13-bit branch offset", func() {
		// bit 12 set, rest clear: -4096
		got := bitutil.SignExtend(1<<12, 13)
		Expect(got).To(Equal(uint32(0xFFFFF000)))
	})
})
