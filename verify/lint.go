package verify

import (
	"fmt"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

// RunLint performs static checks on a program without executing it.
// Returns a list of issues found in program order, or an empty list.
func RunLint(p core.Program) []Issue {
	var issues []Issue

	hasSyscall := false

	for pc, word := range p.Words {
		inst, err := isa.Decode(word)
		if err != nil {
			issues = append(issues, Issue{
				Type:     IssueDecode,
				Severity: SeverityError,
				PC:       pc,
				Word:     word,
				Message:  err.Error(),
				Details:  map[string]interface{}{"primary": isa.Primary(word)},
			})

			continue
		}

		if inst.Info().Op == isa.OpSyscall {
			hasSyscall = true
		}

		issues = append(issues, checkControl(pc, inst, len(p.Words))...)
		issues = append(issues, checkRegisters(pc, inst)...)
	}

	if len(p.Words) > 0 && !hasSyscall {
		issues = append(issues, Issue{
			Type:     IssueHalt,
			Severity: SeverityInfo,
			PC:       -1,
			Message:  "program has no syscall and only stops by leaving the program",
		})
	}

	return issues
}

func isBranch(op isa.Op) bool {
	switch op {
	case isa.OpBeq, isa.OpBne, isa.OpBgez, isa.OpBltz, isa.OpBgtz, isa.OpBlez:
		return true
	default:
		return false
	}
}

func checkControl(pc int, inst isa.Inst, length int) []Issue {
	var target int

	switch inst := inst.(type) {
	case isa.IInst:
		if !isBranch(inst.Info().Op) {
			return nil
		}

		if inst.Imm == 0 {
			return []Issue{{
				Type:     IssueControl,
				Severity: SeverityWarning,
				PC:       pc,
				Word:     inst.Word(),
				Message:  fmt.Sprintf("%s branches to itself", inst.Info().Mnemonic),
			}}
		}

		target = pc + int(inst.Imm)
	case isa.JInst:
		target = int(inst.Addr)
	default:
		return nil
	}

	// Landing exactly on the end is a normal way to stop.
	if target >= 0 && target <= length {
		return nil
	}

	return []Issue{{
		Type:     IssueControl,
		Severity: SeverityWarning,
		PC:       pc,
		Word:     inst.Word(),
		Message: fmt.Sprintf("%s target %d is outside the program (0-%d)",
			inst.Info().Mnemonic, target, length),
		Details: map[string]interface{}{"target": target},
	}}
}

// destination returns the register an instruction writes, if any.
func destination(inst isa.Inst) (isa.Reg, bool) {
	switch inst := inst.(type) {
	case isa.PInst:
		if inst.Info().Op == isa.OpMul {
			return inst.Rd, true
		}
	case isa.RInst:
		switch inst.Info().Op {
		case isa.OpBreak, isa.OpDiv, isa.OpDivu, isa.OpJr,
			isa.OpMthi, isa.OpMtlo, isa.OpMult, isa.OpMultu:
			return 0, false
		default:
			return inst.Rd, true
		}
	case isa.IInst:
		switch op := inst.Info().Op; {
		case isBranch(op):
			return 0, false
		case op == isa.OpSb || op == isa.OpSh || op == isa.OpSw:
			return inst.Rs, true
		default:
			return inst.Rt, true
		}
	}

	return 0, false
}

func checkRegisters(pc int, inst isa.Inst) []Issue {
	var issues []Issue

	// The all-zero word is the canonical nop.
	if dst, ok := destination(inst); ok && dst == isa.RegZero && inst.Word() != 0 {
		issues = append(issues, Issue{
			Type:     IssueRegister,
			Severity: SeverityWarning,
			PC:       pc,
			Word:     inst.Word(),
			Message:  fmt.Sprintf("%s writes $zero, the result is discarded", inst.Info().Mnemonic),
		})
	}

	if r, ok := inst.(isa.RInst); ok {
		op := r.Info().Op
		if (op == isa.OpDiv || op == isa.OpDivu) && r.Rt == isa.RegZero {
			issues = append(issues, Issue{
				Type:     IssueRegister,
				Severity: SeverityError,
				PC:       pc,
				Word:     r.Word(),
				Message:  fmt.Sprintf("%s divides by $zero", op),
			})
		}
	}

	return issues
}
