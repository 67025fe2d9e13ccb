package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smips/isa"
)

var _ = Describe("Disassemble", func() {
	DescribeTable("should follow the operand template",
		func(word uint32, text string) {
			s, err := isa.Disassemble(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(s).To(Equal(text))
		},
		Entry("add", uint32(0x01095020), "add  $10, $8, $9"),
		Entry("addi", uint32(0x20080005), "addi $8, $0, 5"),
		Entry("negative addi", uint32(0x2008FFFF), "addi $8, $0, -1"),
		Entry("ori zero-extends", uint32(0x3408FFFF), "ori  $8, $0, 65535"),
		Entry("bne", uint32(0x1500FFFE), "bne  $8, $0, -2"),
		Entry("bgez", uint32(0x05010003), "bgez $8, 3"),
		Entry("lui", uint32(0x3C081234), "lui  $8, 4660"),
		Entry("lw", uint32(0x8D090004), "lw   $9, 4($8)"),
		Entry("sll", uint32(0x00084880), "sll  $9, $8, 2"),
		Entry("jr", uint32(0x03E00008), "jr   $31"),
		Entry("mflo", uint32(0x00004012), "mflo $8"),
		Entry("mult", uint32(0x01090018), "mult $8, $9"),
		Entry("j", uint32(0x08000004), "j    4"),
		Entry("mul", uint32(0x01095002), "mul  $10, $8, $9"),
		Entry("syscall", uint32(0x0000000C), "syscall"),
	)

	It("should use conventional names on request", func() {
		s, err := isa.DisassembleWith(0x01095020, isa.SymbolicNames)

		Expect(err).NotTo(HaveOccurred())
		Expect(s).To(Equal("add  $t2, $t0, $t1"))
	})

	It("should report malformed words", func() {
		_, err := isa.Disassemble(0x00000001)

		Expect(err).To(MatchError(isa.ErrMalformed))
	})
})

var _ = Describe("Registers", func() {
	It("should name registers both ways", func() {
		Expect(isa.Reg(8).Name()).To(Equal("$8"))
		Expect(isa.Reg(8).Alias()).To(Equal("$t0"))
		Expect(isa.RegRA.Alias()).To(Equal("$ra"))
	})

	DescribeTable("should resolve names",
		func(name string, reg isa.Reg, ok bool) {
			r, found := isa.LookupReg(name)
			Expect(found).To(Equal(ok))
			if ok {
				Expect(r).To(Equal(reg))
			}
		},
		Entry("numeric", "$17", isa.Reg(17), true),
		Entry("alias", "$a0", isa.RegA0, true),
		Entry("legacy frame alias", "$fa", isa.Reg(30), true),
		Entry("out of range", "$32", isa.Reg(0), false),
		Entry("missing sigil", "t0", isa.Reg(0), false),
		Entry("floating point slot", "$f0", isa.Reg(0), false),
	)
})
