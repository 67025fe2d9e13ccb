package core

import "github.com/sarchlab/smips/isa"

// branch moves the PC by the signed offset relative to the branch itself.
func (i instEmulator) branch(taken bool, f isa.IFormat, state *coreState) bool {
	if !taken {
		return false
	}

	state.PC = uint32(int32(state.PC) + f.SignExt())

	return true
}

func (i instEmulator) runBeq(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	return i.branch(r.Read(f.Rs) == r.Read(f.Rt), f, state)
}

func (i instEmulator) runBne(f isa.IFormat, state *coreState) bool {
	r := &state.Regs
	return i.branch(r.Read(f.Rs) != r.Read(f.Rt), f, state)
}

func (i instEmulator) runBgez(f isa.IFormat, state *coreState) bool {
	return i.branch(state.Regs.Read(f.Rs) >= 0, f, state)
}

func (i instEmulator) runBltz(f isa.IFormat, state *coreState) bool {
	return i.branch(state.Regs.Read(f.Rs) < 0, f, state)
}

func (i instEmulator) runBgtz(f isa.IFormat, state *coreState) bool {
	return i.branch(state.Regs.Read(f.Rs) > 0, f, state)
}

func (i instEmulator) runBlez(f isa.IFormat, state *coreState) bool {
	return i.branch(state.Regs.Read(f.Rs) <= 0, f, state)
}

// Jump targets are instruction indices, not byte addresses.
func (i instEmulator) runJ(f isa.JFormat, state *coreState) {
	state.PC = f.Addr
}

// runJal links pc+1, the same as linking pc and letting the loop advance.
func (i instEmulator) runJal(f isa.JFormat, state *coreState) {
	state.Regs.Write(isa.RegRA, int32(state.PC+1))
	state.PC = f.Addr
}

func (i instEmulator) runJr(f isa.RFormat, state *coreState) (bool, error) {
	state.PC = uint32(state.Regs.Read(f.Rs))
	return true, nil
}

// runJalr links pc+1. Redirecting handlers skip the loop's increment, so this
// equals linking pc and advancing afterwards.
func (i instEmulator) runJalr(f isa.RFormat, state *coreState) (bool, error) {
	target := uint32(state.Regs.Read(f.Rs))
	state.Regs.Write(f.Rd, int32(state.PC+1))
	state.PC = target

	return true, nil
}

// runBreak redirects to the index held in rd. An index outside the program
// ends the run.
func (i instEmulator) runBreak(f isa.RFormat, state *coreState) (bool, error) {
	state.PC = uint32(state.Regs.Read(f.Rd))
	return true, nil
}
