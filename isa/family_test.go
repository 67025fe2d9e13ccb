package isa_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smips/isa"
)

var _ = Describe("Classify", func() {
	DescribeTable("should pick the family of a word",
		func(word uint32, family isa.Family, op isa.Op) {
			f, err := isa.Classify(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(f).To(Equal(family))

			inst, err := isa.Decode(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Info().Op).To(Equal(op))
			Expect(inst.Word()).To(Equal(word))
		},
		Entry("syscall", uint32(0x0000000C), isa.FamilyPseudo, isa.OpSyscall),
		Entry("mul", uint32(0x01095002), isa.FamilyPseudo, isa.OpMul),
		Entry("add", uint32(0x01095020), isa.FamilyRegister, isa.OpAdd),
		Entry("nop", uint32(0x00000000), isa.FamilyRegister, isa.OpSll),
		Entry("jr", uint32(0x03E00008), isa.FamilyRegister, isa.OpJr),
		Entry("j", uint32(0x08000004), isa.FamilyJump, isa.OpJ),
		Entry("jal", uint32(0x0C000004), isa.FamilyJump, isa.OpJal),
		Entry("addi", uint32(0x20080005), isa.FamilyImmediate, isa.OpAddi),
		Entry("bne", uint32(0x1500FFFE), isa.FamilyImmediate, isa.OpBne),
		Entry("bgez", uint32(0x05010003), isa.FamilyImmediate, isa.OpBgez),
		Entry("bltz", uint32(0x05000003), isa.FamilyImmediate, isa.OpBltz),
		Entry("lui", uint32(0x3C081234), isa.FamilyImmediate, isa.OpLui),
	)

	It("should shadow srl with mul", func() {
		word := isa.RFormat{Rt: 8, Rd: 9, Shamt: 2, Funct: 0x02}.Encode()

		inst, err := isa.Decode(word)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst).To(BeAssignableToTypeOf(isa.PInst{}))
		Expect(inst.Info().Op).To(Equal(isa.OpMul))
	})

	It("should reject a zero primary word with an unknown funct", func() {
		_, err := isa.Classify(0x00000001)

		Expect(err).To(MatchError(isa.ErrMalformed))
	})

	It("should reject an unknown primary opcode", func() {
		_, err := isa.Decode(0xFC000000)

		Expect(err).To(MatchError(isa.ErrMalformed))
	})

	It("should reject a branch-on-sign word with an unknown rt selector", func() {
		_, err := isa.Decode(0x05020003)

		Expect(err).To(MatchError(isa.ErrMalformed))
	})

	It("should classify every word as exactly one family or reject it", func() {
		for op := uint32(0); op < 64; op++ {
			for funct := uint32(0); funct < 64; funct++ {
				for _, rt := range []uint32{0, 1, 2} {
					word := op<<26 | rt<<16 | funct

					inst, err := isa.Decode(word)
					if err != nil {
						Expect(err).To(MatchError(isa.ErrMalformed))
						continue
					}

					family, _ := isa.Classify(word)
					Expect(inst.Info().Family).To(Equal(family))
				}
			}
		}
	})

	It("should return typed variants", func() {
		inst, err := isa.Decode(0x20080005)
		Expect(err).NotTo(HaveOccurred())

		i, ok := inst.(isa.IInst)
		Expect(ok).To(BeTrue())
		Expect(i.Rt).To(Equal(isa.Reg(8)))
		Expect(i.Imm).To(Equal(int16(5)))
	})
})

var _ = Describe("Table", func() {
	It("should index every row by op and mnemonic", func() {
		for i := range isa.Table {
			row := &isa.Table[i]

			Expect(isa.ByOp(row.Op)).To(BeIdenticalTo(row))
			Expect(isa.ByMnemonic(row.Mnemonic)).To(BeIdenticalTo(row))
			Expect(row.Op.String()).To(Equal(row.Mnemonic))
		}
	})

	It("should keep keys unique inside a family", func() {
		type key struct {
			family isa.Family
			key    uint8
			sub    int
		}

		seen := map[key]string{}
		for _, row := range isa.Table {
			k := key{row.Family, row.Key, row.Sub}
			Expect(seen).NotTo(HaveKey(k), row.Mnemonic)
			seen[k] = row.Mnemonic
		}
	})

	It("should find rows by family and key", func() {
		Expect(isa.Lookup(isa.FamilyRegister, 0x22, 0).Mnemonic).To(Equal("sub"))
		Expect(isa.Lookup(isa.FamilyImmediate, 0x0F, 7).Mnemonic).To(Equal("lui"))
		Expect(isa.Lookup(isa.FamilyJump, 0x04, 0)).To(BeNil())
		Expect(isa.ByMnemonic("nope")).To(BeNil())
		Expect(isa.Op(200).String()).To(Equal("invalid"))
	})
})
