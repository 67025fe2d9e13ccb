package core_test

import (
	"bytes"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

var _ = Describe("Core", func() {
	var (
		engine sim.Engine
		out    *bytes.Buffer
		c      *core.Core
	)

	BeforeEach(func() {
		engine = sim.NewSerialEngine()
		out = new(bytes.Buffer)
		c = core.NewBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithStdout(out).
			Build("Core")
	})

	It("should retire one instruction per cycle", func() {
		Expect(c.MapProgram(core.NewProgram("p",
			isa.I(isa.OpAddi, 8, 0, 6),
			isa.I(isa.OpAddi, 9, 0, 7),
			isa.R(isa.OpMul, 10, 8, 9, 0),
			isa.I(isa.OpAddi, isa.RegV0, 0, 1),
			isa.R(isa.OpAdd, isa.RegA0, 10, 0, 0),
			isa.Syscall(),
		))).To(Succeed())

		c.TickNow()
		Expect(engine.Run()).To(Succeed())

		result, err := c.Result()
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Steps).To(Equal(uint64(6)))
		Expect(result.Reason).To(Equal(core.HaltEndOfProgram))
		Expect(c.Regs().GPR[10]).To(Equal(int32(42)))
		Expect(out.String()).To(Equal("42"))
		Expect(float64(engine.CurrentTime())).To(BeNumerically(">", 0))
	})

	It("should start from the initial registers of the builder", func() {
		c = core.NewBuilder().
			WithEngine(engine).
			WithStdout(out).
			WithInitialRegs(map[isa.Reg]int32{isa.RegA0: 77}).
			Build("Seeded")

		Expect(c.MapProgram(core.NewProgram("p",
			isa.I(isa.OpAddi, isa.RegV0, 0, 1),
			isa.Syscall(),
		))).To(Succeed())

		c.TickNow()
		Expect(engine.Run()).To(Succeed())

		Expect(out.String()).To(Equal("77"))
	})

	It("should surface faults through the result", func() {
		Expect(c.MapProgram(core.NewProgram("p",
			isa.R(isa.OpDiv, 0, 8, 9, 0),
		))).To(Succeed())

		c.TickNow()
		Expect(engine.Run()).To(Succeed())

		_, err := c.Result()
		Expect(err).To(MatchError(core.ErrDivisionByZero))
	})

	It("should stop ticking after halting", func() {
		Expect(c.MapProgram(core.NewProgram("p"))).To(Succeed())

		Expect(c.Tick()).To(BeFalse())
		Expect(c.Tick()).To(BeFalse())
	})

	It("should refuse an oversized program", func() {
		small := core.NewBuilder().
			WithEngine(engine).
			WithCapacity(1).
			Build("Small")

		Expect(small.MapProgram(core.NewProgram("p", 0, 0))).NotTo(Succeed())
	})
})
