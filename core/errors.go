package core

import (
	"errors"
	"fmt"

	"github.com/sarchlab/smips/isa"
)

// Failures that stop a run.
var (
	ErrMalformedInstruction = isa.ErrMalformed
	ErrDivisionByZero       = errors.New("division by zero")
	ErrStepLimit            = errors.New("step limit exceeded")
)

// ErrorKind tells which failure stopped a run.
type ErrorKind uint8

// Error kinds.
const (
	KindMalformedInstruction ErrorKind = iota + 1
	KindArithmeticFault
	KindStepLimit
	KindOutput
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedInstruction:
		return "malformed instruction"
	case KindArithmeticFault:
		return "arithmetic fault"
	case KindStepLimit:
		return "step limit"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// ExecError is the failure of one instruction. PC is the position of the
// instruction in the program.
type ExecError struct {
	Kind ErrorKind
	PC   uint32
	Word uint32
	Err  error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("pc %d (0x%08x): %v", e.PC, e.Word, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}

func newExecError(pc, word uint32, err error) *ExecError {
	kind := KindOutput

	switch {
	case errors.Is(err, ErrMalformedInstruction):
		kind = KindMalformedInstruction
	case errors.Is(err, ErrDivisionByZero):
		kind = KindArithmeticFault
	case errors.Is(err, ErrStepLimit):
		kind = KindStepLimit
	}

	return &ExecError{Kind: kind, PC: pc, Word: word, Err: err}
}
