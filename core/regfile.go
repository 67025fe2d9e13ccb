package core

import "github.com/sarchlab/smips/isa"

// RegFile holds the architectural registers. The floating point slots are
// reserved and never touched by any instruction.
type RegFile struct {
	GPR [isa.NumGPR]int32
	HI  int32
	LO  int32
	FPR [isa.NumFPR]uint32
}

// Read returns the value of a general purpose register. Register 0 always
// reads as zero.
func (r *RegFile) Read(reg isa.Reg) int32 {
	if reg == isa.RegZero {
		return 0
	}

	return r.GPR[reg&0x1F]
}

// Write sets a general purpose register. Writes to register 0 are kept until
// ClearZero runs at the end of the instruction.
func (r *RegFile) Write(reg isa.Reg, value int32) {
	r.GPR[reg&0x1F] = value
}

// ClearZero restores the hard-wired zero register.
func (r *RegFile) ClearZero() {
	r.GPR[isa.RegZero] = 0
}

// Indices of the accumulators, following the general purpose registers.
const (
	RegIndexLO = isa.NumGPR
	RegIndexHI = isa.NumGPR + 1
)

// RegChange records one register that differs between two snapshots.
type RegChange struct {
	Index    int
	Name     string
	Old, New int32
}

// Diff lists the registers whose value changed from old to r, ordered by
// index.
func (r *RegFile) Diff(old *RegFile) []RegChange {
	var changes []RegChange

	for i := range r.GPR {
		if r.GPR[i] != old.GPR[i] {
			changes = append(changes, RegChange{
				Index: i,
				Name:  isa.Reg(i).Name(),
				Old:   old.GPR[i],
				New:   r.GPR[i],
			})
		}
	}

	if r.LO != old.LO {
		changes = append(changes, RegChange{Index: RegIndexLO, Name: "Lo", Old: old.LO, New: r.LO})
	}

	if r.HI != old.HI {
		changes = append(changes, RegChange{Index: RegIndexHI, Name: "Hi", Old: old.HI, New: r.HI})
	}

	return changes
}
