package core

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/smips/isa"
)

// Syscall codes read from $v0.
const (
	SyscallPrintInt  = 1
	SyscallExit      = 10
	SyscallPrintChar = 11
)

func (i instEmulator) runSyscall(_ isa.RFormat, state *coreState) (bool, error) {
	code := state.Regs.Read(isa.RegV0)
	arg := state.Regs.Read(isa.RegA0)

	Trace("Syscall", "PC", state.PC, "Code", code, "Arg", arg)

	var err error

	switch code {
	case SyscallPrintInt:
		_, err = fmt.Fprintf(state.Out, "%d", arg)
	case SyscallPrintChar:
		_, err = state.Out.Write([]byte{byte(arg)})
	case SyscallExit:
		state.halt(HaltExit)
		return true, nil
	default:
		_, err = fmt.Fprintf(state.Out, "Unknown system call: %d\n", code)
		state.halt(HaltUnknownSyscall)

		return true, errors.Wrap(err, "syscall output")
	}

	return false, errors.Wrap(err, "syscall output")
}
