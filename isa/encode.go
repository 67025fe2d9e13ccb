package isa

import "fmt"

// R builds the word of a register or pseudo instruction.
func R(op Op, rd, rs, rt Reg, shamt uint8) uint32 {
	info := mustFamily(op, FamilyRegister, FamilyPseudo)

	return RFormat{Rs: rs, Rt: rt, Rd: rd, Shamt: shamt, Funct: info.Key}.Encode()
}

// I builds the word of an immediate instruction. For rows that select on
// the rt field the selector replaces rt.
func I(op Op, rt, rs Reg, imm int16) uint32 {
	info := mustFamily(op, FamilyImmediate)
	if info.Sub != AnySub {
		rt = Reg(info.Sub)
	}

	return IFormat{Op: info.Key, Rs: rs, Rt: rt, Imm: imm}.Encode()
}

// J builds the word of a jump instruction.
func J(op Op, addr uint32) uint32 {
	info := mustFamily(op, FamilyJump)

	return JFormat{Op: info.Key, Addr: addr}.Encode()
}

// Syscall is the word of the syscall instruction.
func Syscall() uint32 {
	return R(OpSyscall, 0, 0, 0, 0)
}

func mustFamily(op Op, families ...Family) *OpInfo {
	info := ByOp(op)
	if info == nil {
		panic(fmt.Sprintf("unknown op %d", op))
	}

	for _, f := range families {
		if info.Family == f {
			return info
		}
	}

	panic(fmt.Sprintf("%s is a %s instruction", info.Mnemonic, info.Family))
}
