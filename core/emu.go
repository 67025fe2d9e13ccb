package core

import (
	"fmt"
	"io"

	"github.com/sarchlab/smips/isa"
)

// HaltReason tells why a run stopped.
type HaltReason uint8

// Halt reasons.
const (
	Running HaltReason = iota
	HaltEndOfProgram
	HaltExit
	HaltUnknownSyscall
	HaltFault
)

func (r HaltReason) String() string {
	switch r {
	case Running:
		return "running"
	case HaltEndOfProgram:
		return "end of program"
	case HaltExit:
		return "exit"
	case HaltUnknownSyscall:
		return "unknown syscall"
	case HaltFault:
		return "fault"
	default:
		return "unknown"
	}
}

type coreState struct {
	PC       uint32
	Regs     RegFile
	Code     []uint32
	Capacity uint32
	Halted   bool
	Reason   HaltReason
	Steps    uint64
	Out      io.Writer
}

// halt stops the machine and parks the PC on the capacity sentinel.
func (s *coreState) halt(reason HaltReason) {
	s.PC = s.Capacity
	s.Halted = true
	s.Reason = reason
}

// Handlers report whether they redirected the PC. The PC advances by one
// only when they did not.
type (
	rHandler func(f isa.RFormat, state *coreState) (jumped bool, err error)
	iHandler func(f isa.IFormat, state *coreState) (jumped bool)
	jHandler func(f isa.JFormat, state *coreState)
	pHandler func(f isa.RFormat, state *coreState) (jumped bool, err error)
)

type instEmulator struct {
	register  map[isa.Op]rHandler
	immediate map[isa.Op]iHandler
	jump      map[isa.Op]jHandler
	pseudo    map[isa.Op]pHandler
}

func newInstEmulator() instEmulator {
	i := instEmulator{}

	i.register = map[isa.Op]rHandler{
		isa.OpAdd:   i.runAdd,
		isa.OpAddu:  i.runAdd,
		isa.OpAnd:   i.runAnd,
		isa.OpBreak: i.runBreak,
		isa.OpDiv:   i.runDiv,
		isa.OpDivu:  i.runDivu,
		isa.OpJalr:  i.runJalr,
		isa.OpJr:    i.runJr,
		isa.OpMfhi:  i.runMfhi,
		isa.OpMflo:  i.runMflo,
		isa.OpMthi:  i.runMthi,
		isa.OpMtlo:  i.runMtlo,
		isa.OpMult:  i.runMult,
		isa.OpMultu: i.runMultu,
		isa.OpNor:   i.runNor,
		isa.OpOr:    i.runOr,
		isa.OpSll:   i.runSll,
		isa.OpSllv:  i.runSllv,
		isa.OpSlt:   i.runSlt,
		isa.OpSltu:  i.runSltu,
		isa.OpSra:   i.runSra,
		isa.OpSrav:  i.runSrav,
		isa.OpSrl:   i.runSrl,
		isa.OpSrlv:  i.runSrlv,
		isa.OpSub:   i.runSub,
		isa.OpSubu:  i.runSub,
		isa.OpXor:   i.runXor,
	}

	i.immediate = map[isa.Op]iHandler{
		isa.OpAddi:  i.runAddi,
		isa.OpAddiu: i.runAddi,
		isa.OpAndi:  i.runAndi,
		isa.OpOri:   i.runOri,
		isa.OpXori:  i.runXori,
		isa.OpSlti:  i.runSlti,
		isa.OpSltiu: i.runSltiu,
		isa.OpLui:   i.runLui,
		isa.OpLb:    i.runLoad,
		isa.OpLh:    i.runLoad,
		isa.OpLw:    i.runLoad,
		isa.OpSb:    i.runStore,
		isa.OpSh:    i.runStore,
		isa.OpSw:    i.runStore,
		isa.OpBeq:   i.runBeq,
		isa.OpBne:   i.runBne,
		isa.OpBgez:  i.runBgez,
		isa.OpBltz:  i.runBltz,
		isa.OpBgtz:  i.runBgtz,
		isa.OpBlez:  i.runBlez,
	}

	i.jump = map[isa.Op]jHandler{
		isa.OpJ:   i.runJ,
		isa.OpJal: i.runJal,
	}

	i.pseudo = map[isa.Op]pHandler{
		isa.OpMul:     i.runMul,
		isa.OpSyscall: i.runSyscall,
	}

	return i
}

// RunInst executes one word against the state. The zero register is
// restored afterwards, whatever the instruction wrote.
func (i instEmulator) RunInst(word uint32, state *coreState) error {
	inst, err := isa.Decode(word)
	if err != nil {
		return err
	}

	jumped, err := i.dispatch(inst, state)
	if err != nil {
		return err
	}

	if !jumped {
		state.PC++
	}

	state.Regs.ClearZero()

	return nil
}

func (i instEmulator) dispatch(inst isa.Inst, state *coreState) (bool, error) {
	op := inst.Info().Op

	switch inst := inst.(type) {
	case isa.PInst:
		if h, ok := i.pseudo[op]; ok {
			return h(inst.RFormat, state)
		}
	case isa.RInst:
		if h, ok := i.register[op]; ok {
			return h(inst.RFormat, state)
		}
	case isa.IInst:
		if h, ok := i.immediate[op]; ok {
			return h(inst.IFormat, state), nil
		}
	case isa.JInst:
		if h, ok := i.jump[op]; ok {
			h(inst.JFormat, state)
			return true, nil
		}
	}

	return false, fmt.Errorf("%w: no handler for %s", ErrMalformedInstruction, op)
}

func (i instEmulator) runAdd(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rs)+r.Read(f.Rt))

	return false, nil
}

func (i instEmulator) runSub(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rs)-r.Read(f.Rt))

	return false, nil
}

func (i instEmulator) runAnd(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rs)&r.Read(f.Rt))

	return false, nil
}

func (i instEmulator) runOr(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rs)|r.Read(f.Rt))

	return false, nil
}

func (i instEmulator) runXor(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rs)^r.Read(f.Rt))

	return false, nil
}

func (i instEmulator) runNor(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, ^(r.Read(f.Rs) | r.Read(f.Rt)))

	return false, nil
}

func (i instEmulator) runSlt(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, boolToInt(r.Read(f.Rs) < r.Read(f.Rt)))

	return false, nil
}

func (i instEmulator) runSltu(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, boolToInt(uint32(r.Read(f.Rs)) < uint32(r.Read(f.Rt))))

	return false, nil
}

func (i instEmulator) runSll(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rt)<<f.Shamt)

	return false, nil
}

func (i instEmulator) runSllv(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rt)<<(r.Read(f.Rs)&0x1F))

	return false, nil
}

func (i instEmulator) runSra(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rt)>>f.Shamt)

	return false, nil
}

func (i instEmulator) runSrav(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, r.Read(f.Rt)>>(r.Read(f.Rs)&0x1F))

	return false, nil
}

// runSrl shifts rs, not rt. Words never reach it since funct 0x02 decodes
// as mul.
func (i instEmulator) runSrl(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, int32(uint32(r.Read(f.Rs))>>f.Shamt))

	return false, nil
}

func (i instEmulator) runSrlv(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	r.Write(f.Rd, int32(uint32(r.Read(f.Rt))>>(r.Read(f.Rs)&0x1F)))

	return false, nil
}

// runMult keeps the low word of the product in both accumulators.
func (i instEmulator) runMult(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	p := r.Read(f.Rs) * r.Read(f.Rt)
	r.HI, r.LO = p, p

	return false, nil
}

func (i instEmulator) runMultu(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs
	p := int32(uint32(r.Read(f.Rs)) * uint32(r.Read(f.Rt)))
	r.HI, r.LO = p, p

	return false, nil
}

func (i instEmulator) runDiv(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs

	divisor := r.Read(f.Rt)
	if divisor == 0 {
		return false, ErrDivisionByZero
	}

	dividend := r.Read(f.Rs)
	r.HI = dividend % divisor
	r.LO = dividend / divisor

	return false, nil
}

func (i instEmulator) runDivu(f isa.RFormat, state *coreState) (bool, error) {
	r := &state.Regs

	divisor := uint32(r.Read(f.Rt))
	if divisor == 0 {
		return false, ErrDivisionByZero
	}

	dividend := uint32(r.Read(f.Rs))
	r.HI = int32(dividend % divisor)
	r.LO = int32(dividend / divisor)

	return false, nil
}

func (i instEmulator) runMfhi(f isa.RFormat, state *coreState) (bool, error) {
	state.Regs.Write(f.Rd, state.Regs.HI)
	return false, nil
}

func (i instEmulator) runMflo(f isa.RFormat, state *coreState) (bool, error) {
	state.Regs.Write(f.Rd, state.Regs.LO)
	return false, nil
}

func (i instEmulator) runMthi(f isa.RFormat, state *coreState) (bool, error) {
	state.Regs.HI = state.Regs.Read(f.Rd)
	return false, nil
}

func (i instEmulator) runMtlo(f isa.RFormat, state *coreState) (bool, error) {
	state.Regs.LO = state.Regs.Read(f.Rd)
	return false, nil
}

func (i instEmulator) runMul(f isa.RFormat, state *coreState) (bool, error) {
	if _, err := i.runMult(f, state); err != nil {
		return false, err
	}

	return i.runMflo(f, state)
}

func (i instEmulator) runAddi(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, r.Read(f.Rs)+f.SignExt())

	return false
}

func (i instEmulator) runAndi(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, r.Read(f.Rs)&f.ZeroExt())

	return false
}

func (i instEmulator) runOri(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, r.Read(f.Rs)|f.ZeroExt())

	return false
}

func (i instEmulator) runXori(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, r.Read(f.Rs)^f.ZeroExt())

	return false
}

func (i instEmulator) runSlti(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, boolToInt(r.Read(f.Rs) < f.SignExt()))

	return false
}

func (i instEmulator) runSltiu(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	r.Write(f.Rt, boolToInt(uint32(r.Read(f.Rs)) < uint32(f.SignExt())))

	return false
}

func (i instEmulator) runLui(f isa.IFormat, state *coreState) bool {
	state.Regs.Write(f.Rt, f.ZeroExt()<<16)
	return false
}

// There is no data memory. Loads copy rs into rt and stores copy rt into rs.
func (i instEmulator) runLoad(f isa.IFormat, state *coreState) bool {
	state.Regs.Write(f.Rt, state.Regs.Read(f.Rs))
	return false
}

func (i instEmulator) runStore(f isa.IFormat, state *coreState) bool {
	state.Regs.Write(f.Rs, state.Regs.Read(f.Rt))
	return false
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}

	return 0
}
