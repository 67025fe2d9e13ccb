package core

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/smips/isa"
)

var _ = Describe("InstEmulator", func() {
	var (
		ie  instEmulator
		s   coreState
		out *bytes.Buffer
	)

	BeforeEach(func() {
		ie = newInstEmulator()
		out = new(bytes.Buffer)
		s = coreState{
			Capacity: DefaultCapacity,
			Out:      out,
		}
	})

	run := func(word uint32) {
		Expect(ie.RunInst(word, &s)).To(Succeed())
	}

	Context("Arithmetic Instructions", func() {
		It("should add commutatively", func() {
			for _, pair := range [][2]int32{{3, 4}, {-7, 2}, {2147483647, 1}} {
				s.Regs.GPR[8], s.Regs.GPR[9] = pair[0], pair[1]
				run(isa.R(isa.OpAdd, 10, 8, 9, 0))
				run(isa.R(isa.OpAdd, 11, 9, 8, 0))
				Expect(s.Regs.GPR[10]).To(Equal(s.Regs.GPR[11]))
			}
		})

		It("should wrap on overflow", func() {
			s.Regs.GPR[8] = 2147483647
			s.Regs.GPR[9] = 1
			run(isa.R(isa.OpAddu, 10, 8, 9, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(-2147483648)))
		})

		It("should subtract antisymmetrically", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = 15, 4
			run(isa.R(isa.OpSub, 10, 8, 9, 0))
			run(isa.R(isa.OpSubu, 11, 9, 8, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(11)))
			Expect(s.Regs.GPR[11]).To(Equal(-s.Regs.GPR[10]))
		})

		It("should add a sign-extended immediate", func() {
			s.Regs.GPR[8] = 10
			run(isa.I(isa.OpAddi, 9, 8, -3))
			run(isa.I(isa.OpAddiu, 10, 8, -3))
			Expect(s.Regs.GPR[9]).To(Equal(int32(7)))
			Expect(s.Regs.GPR[10]).To(Equal(int32(7)))
			Expect(s.PC).To(Equal(uint32(2)))
		})

		It("should put the product in both accumulators", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = 6, -7
			run(isa.R(isa.OpMult, 0, 8, 9, 0))
			Expect(s.Regs.HI).To(Equal(int32(-42)))
			Expect(s.Regs.LO).To(Equal(int32(-42)))

			run(isa.R(isa.OpMultu, 0, 8, 8, 0))
			Expect(s.Regs.HI).To(Equal(int32(36)))
			Expect(s.Regs.LO).To(Equal(int32(36)))
		})

		It("should multiply into rd with mul", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = 6, 7
			run(isa.R(isa.OpMul, 10, 8, 9, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(42)))
			Expect(s.Regs.LO).To(Equal(int32(42)))
		})

		It("should match mult followed by mflo", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = -12, 5
			run(isa.R(isa.OpMul, 10, 8, 9, 0))
			run(isa.R(isa.OpMult, 0, 8, 9, 0))
			run(isa.R(isa.OpMflo, 11, 0, 0, 0))
			Expect(s.Regs.GPR[10]).To(Equal(s.Regs.GPR[11]))
		})

		It("should divide into LO and HI", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = 17, 5
			run(isa.R(isa.OpDiv, 0, 8, 9, 0))
			Expect(s.Regs.LO).To(Equal(int32(3)))
			Expect(s.Regs.HI).To(Equal(int32(2)))

			run(isa.R(isa.OpMfhi, 10, 0, 0, 0))
			run(isa.R(isa.OpMflo, 11, 0, 0, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(2)))
			Expect(s.Regs.GPR[11]).To(Equal(int32(3)))
		})

		It("should divide unsigned", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = -1, 2
			run(isa.R(isa.OpDivu, 0, 8, 9, 0))
			Expect(s.Regs.LO).To(Equal(int32(0x7FFFFFFF)))
			Expect(s.Regs.HI).To(Equal(int32(1)))
		})

		It("should fail on division by zero without touching state", func() {
			s.Regs.GPR[8] = 5
			s.Regs.HI, s.Regs.LO = 1, 2

			err := ie.RunInst(isa.R(isa.OpDiv, 0, 8, 9, 0), &s)
			Expect(err).To(MatchError(ErrDivisionByZero))
			Expect(s.Regs.HI).To(Equal(int32(1)))
			Expect(s.Regs.LO).To(Equal(int32(2)))
			Expect(s.PC).To(Equal(uint32(0)))

			err = ie.RunInst(isa.R(isa.OpDivu, 0, 8, 9, 0), &s)
			Expect(err).To(MatchError(ErrDivisionByZero))
		})

		It("should move into the accumulators from rd", func() {
			s.Regs.GPR[8] = 9
			run(isa.R(isa.OpMthi, 8, 0, 0, 0))
			run(isa.R(isa.OpMtlo, 8, 0, 0, 0))
			Expect(s.Regs.HI).To(Equal(int32(9)))
			Expect(s.Regs.LO).To(Equal(int32(9)))
		})
	})

	Context("Logic Instructions", func() {
		BeforeEach(func() {
			s.Regs.GPR[8] = 0b1100
			s.Regs.GPR[9] = 0b1010
		})

		DescribeTable("register forms",
			func(op isa.Op, want int32) {
				run(isa.R(op, 10, 8, 9, 0))
				Expect(s.Regs.GPR[10]).To(Equal(want))
			},
			Entry("and", isa.OpAnd, int32(0b1000)),
			Entry("or", isa.OpOr, int32(0b1110)),
			Entry("xor", isa.OpXor, int32(0b0110)),
			Entry("nor", isa.OpNor, ^int32(0b1110)),
		)

		DescribeTable("immediate forms zero-extend",
			func(op isa.Op, imm int16, want int32) {
				run(isa.I(op, 10, 8, imm))
				Expect(s.Regs.GPR[10]).To(Equal(want))
			},
			Entry("andi", isa.OpAndi, int16(0b0110), int32(0b0100)),
			Entry("ori", isa.OpOri, int16(-1), int32(0xFFFF)),
			Entry("xori", isa.OpXori, int16(0b0101), int32(0b1001)),
		)

		It("should load the upper half", func() {
			run(isa.I(isa.OpLui, 10, 0, 0x1234))
			Expect(s.Regs.GPR[10]).To(Equal(int32(0x12340000)))

			run(isa.I(isa.OpLui, 10, 0, -1))
			Expect(uint32(s.Regs.GPR[10])).To(Equal(uint32(0xFFFF0000)))
		})
	})

	Context("Comparison Instructions", func() {
		It("should compare signed and unsigned", func() {
			s.Regs.GPR[8], s.Regs.GPR[9] = -1, 1

			run(isa.R(isa.OpSlt, 10, 8, 9, 0))
			run(isa.R(isa.OpSltu, 11, 8, 9, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(1)))
			Expect(s.Regs.GPR[11]).To(Equal(int32(0)))

			run(isa.I(isa.OpSlti, 12, 8, 0))
			run(isa.I(isa.OpSltiu, 13, 9, -1))
			Expect(s.Regs.GPR[12]).To(Equal(int32(1)))
			Expect(s.Regs.GPR[13]).To(Equal(int32(1)))
		})
	})

	Context("Shift Instructions", func() {
		It("should shift by the amount field", func() {
			s.Regs.GPR[8] = -16
			run(isa.R(isa.OpSll, 10, 0, 8, 2))
			run(isa.R(isa.OpSra, 11, 0, 8, 2))
			Expect(s.Regs.GPR[10]).To(Equal(int32(-64)))
			Expect(s.Regs.GPR[11]).To(Equal(int32(-4)))
		})

		It("should shift by the low bits of rs", func() {
			s.Regs.GPR[8] = -16
			s.Regs.GPR[9] = 33
			run(isa.R(isa.OpSllv, 10, 9, 8, 0))
			run(isa.R(isa.OpSrav, 11, 9, 8, 0))
			run(isa.R(isa.OpSrlv, 12, 9, 8, 0))
			Expect(s.Regs.GPR[10]).To(Equal(int32(-32)))
			Expect(s.Regs.GPR[11]).To(Equal(int32(-8)))
			Expect(s.Regs.GPR[12]).To(Equal(int32(0x7FFFFFF8)))
		})

		It("should shift rs logically in the srl handler", func() {
			s.Regs.GPR[8] = -1
			_, err := ie.runSrl(isa.RFormat{Rs: 8, Rd: 10, Shamt: 28}, &s)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Regs.GPR[10]).To(Equal(int32(0xF)))
		})
	})

	Context("Register Copies", func() {
		It("should copy rs into rt on loads and rt into rs on stores", func() {
			s.Regs.GPR[8] = 77
			run(isa.I(isa.OpLw, 9, 8, 4))
			Expect(s.Regs.GPR[9]).To(Equal(int32(77)))

			s.Regs.GPR[10] = 5
			run(isa.I(isa.OpSb, 10, 11, 0))
			Expect(s.Regs.GPR[11]).To(Equal(int32(5)))
		})
	})

	Context("Zero Register", func() {
		It("should read zero after any write", func() {
			s.Regs.GPR[8] = 3
			run(isa.I(isa.OpAddi, 0, 8, 4))
			run(isa.R(isa.OpAdd, 0, 8, 8, 0))
			Expect(s.Regs.GPR[0]).To(Equal(int32(0)))
			Expect(s.Regs.Read(isa.RegZero)).To(Equal(int32(0)))
		})
	})

	Context("Control Flow", func() {
		BeforeEach(func() {
			s.PC = 10
		})

		It("should branch relative to the branch", func() {
			s.Regs.GPR[8] = 1
			run(isa.I(isa.OpBeq, 9, 8, -3))
			Expect(s.PC).To(Equal(uint32(11)))

			run(isa.I(isa.OpBne, 9, 8, -3))
			Expect(s.PC).To(Equal(uint32(8)))
		})

		DescribeTable("sign branches",
			func(op isa.Op, value int32, taken bool) {
				s.Regs.GPR[8] = value
				run(isa.I(op, 0, 8, 5))
				if taken {
					Expect(s.PC).To(Equal(uint32(15)))
				} else {
					Expect(s.PC).To(Equal(uint32(11)))
				}
			},
			Entry("bgez on zero", isa.OpBgez, int32(0), true),
			Entry("bgez on negative", isa.OpBgez, int32(-1), false),
			Entry("bltz on negative", isa.OpBltz, int32(-1), true),
			Entry("bltz on zero", isa.OpBltz, int32(0), false),
			Entry("bgtz on positive", isa.OpBgtz, int32(1), true),
			Entry("bgtz on zero", isa.OpBgtz, int32(0), false),
			Entry("blez on zero", isa.OpBlez, int32(0), true),
			Entry("blez on positive", isa.OpBlez, int32(2), false),
		)

		It("should jump to an absolute index", func() {
			run(isa.J(isa.OpJ, 3))
			Expect(s.PC).To(Equal(uint32(3)))
		})

		It("should link on jal and return with jr", func() {
			run(isa.J(isa.OpJal, 20))
			Expect(s.PC).To(Equal(uint32(20)))
			Expect(s.Regs.GPR[isa.RegRA]).To(Equal(int32(11)))

			run(isa.R(isa.OpJr, 0, isa.RegRA, 0, 0))
			Expect(s.PC).To(Equal(uint32(11)))
		})

		It("should link into rd on jalr", func() {
			s.Regs.GPR[8] = 30
			run(isa.R(isa.OpJalr, 8, 8, 0, 0))
			Expect(s.PC).To(Equal(uint32(30)))
			Expect(s.Regs.GPR[8]).To(Equal(int32(11)))
		})

		It("should redirect to rd on break", func() {
			s.Regs.GPR[9] = 2
			run(isa.R(isa.OpBreak, 9, 0, 0, 0))
			Expect(s.PC).To(Equal(uint32(2)))
		})
	})

	Context("Syscalls", func() {
		It("should print an integer", func() {
			s.Regs.GPR[isa.RegV0] = 1
			s.Regs.GPR[isa.RegA0] = -42
			run(isa.Syscall())
			Expect(out.String()).To(Equal("-42"))
			Expect(s.Halted).To(BeFalse())
			Expect(s.PC).To(Equal(uint32(1)))
		})

		It("should print a character", func() {
			s.Regs.GPR[isa.RegV0] = 11
			s.Regs.GPR[isa.RegA0] = 'A'
			run(isa.Syscall())
			Expect(out.String()).To(Equal("A"))
		})

		It("should halt on exit", func() {
			s.Regs.GPR[isa.RegV0] = 10
			run(isa.Syscall())
			Expect(s.Halted).To(BeTrue())
			Expect(s.Reason).To(Equal(HaltExit))
			Expect(s.PC).To(Equal(uint32(DefaultCapacity)))
		})

		It("should report and halt on an unknown code", func() {
			s.Regs.GPR[isa.RegV0] = 99
			run(isa.Syscall())
			Expect(out.String()).To(Equal("Unknown system call: 99\n"))
			Expect(s.Reason).To(Equal(HaltUnknownSyscall))
		})
	})

	It("should reject a malformed word", func() {
		err := ie.RunInst(0x00000001, &s)
		Expect(err).To(MatchError(ErrMalformedInstruction))
	})

	It("should have a handler for every row of the table", func() {
		for _, row := range isa.Table {
			var ok bool
			switch row.Family {
			case isa.FamilyRegister:
				_, ok = ie.register[row.Op]
			case isa.FamilyImmediate:
				_, ok = ie.immediate[row.Op]
			case isa.FamilyJump:
				_, ok = ie.jump[row.Op]
			case isa.FamilyPseudo:
				_, ok = ie.pseudo[row.Op]
			}
			Expect(ok).To(BeTrue(), row.Mnemonic)
		}
	})
})
