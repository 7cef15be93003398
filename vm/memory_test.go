package vm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/Jorgecmartins/riscv-emulator/vm"
)

var _ = Describe("Memory", func() {
	var m *vm.Memory

	BeforeEach(func() {
		m = vm.NewMemory(0x1000, make([]byte, 16))
	})

	Describe("Belongs", func() {
		It("accepts a span fully inside the region", func() {
			Expect(m.Belongs(0x1000, 4)).To(BeTrue())
			Expect(m.Belongs(0x100C, 4)).To(BeTrue())
		})

		It("rejects a span before the region", func() {
			Expect(m.Belongs(0x0FFC, 4)).To(BeFalse())
		})

		It("rejects a span that runs past the end", func() {
			Expect(m.Belongs(0x100D, 4)).To(BeFalse())
		})
	})

	Describe("round trips", func() {
		It("round-trips a 32-bit write/read", func() {
			m.Write32(0x1000, 0xDEADBEEF)
			Expect(m.Read32(0x1000)).To(Equal(uint32(0xDEADBEEF)))
		})

		It("round-trips a 16-bit write/read", func() {
			m.Write16(0x1000, 0xBEEF)
			Expect(m.Read16(0x1000)).To(Equal(uint16(0xBEEF)))
		})

		It("round-trips an 8-bit write/read", func() {
			m.Write8(0x1000, 0xAB)
			Expect(m.Read8(0x1000)).To(Equal(uint8(0xAB)))
		})

		It("stores little-endian bytes for a 32-bit write", func() {
			m.Write32(0x1000, 0x04030201)
			Expect(m.ReadN(0x1000, 4)).To(Equal([]byte{0x01, 0x02, 0x03, 0x04}))
		})
	})

	Describe("bulk access", func() {
		It("round-trips WriteN/ReadN", func() {
			data := []byte{1, 2, 3, 4, 5}
			m.WriteN(0x1004, data)
			Expect(m.ReadN(0x1004, 5)).To(Equal(data))
		})
	})
})
