package isa

import "strconv"

// Reg is the index of a general purpose register.
type Reg uint8

// Register file geometry.
const (
	NumGPR = 32
	NumFPR = 27 // reserved, no instruction reads or writes them
)

// Well-known registers.
const (
	RegZero Reg = 0
	RegV0   Reg = 2
	RegA0   Reg = 4
	RegSP   Reg = 29
	RegRA   Reg = 31
)

var gprAliases = [NumGPR]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// Name returns the numeric name of the register, such as "$8".
func (r Reg) Name() string {
	return "$" + strconv.Itoa(int(r))
}

// Alias returns the conventional name of the register, such as "$t0".
func (r Reg) Alias() string {
	if int(r) >= NumGPR {
		return r.Name()
	}

	return gprAliases[r]
}

// LookupReg resolves either a numeric ("$8") or a conventional ("$t0")
// register name. "$fa" is accepted for register 30.
func LookupReg(name string) (Reg, bool) {
	if name == "$fa" {
		return 30, true
	}

	for i, alias := range gprAliases {
		if alias == name {
			return Reg(i), true
		}
	}

	if len(name) < 2 || name[0] != '$' {
		return 0, false
	}

	n, err := strconv.Atoi(name[1:])
	if err != nil || n < 0 || n >= NumGPR {
		return 0, false
	}

	return Reg(n), true
}
