package isa

import (
	"fmt"
	"strconv"
	"strings"
)

// NameStyle selects how registers are printed.
type NameStyle uint8

// Register name styles.
const (
	NumericNames NameStyle = iota
	SymbolicNames
)

func (s NameStyle) reg(r Reg) string {
	if s == SymbolicNames {
		return r.Alias()
	}

	return r.Name()
}

// Disassemble renders a word with numeric register names.
func Disassemble(word uint32) (string, error) {
	return DisassembleWith(word, NumericNames)
}

// DisassembleWith renders a word with the given register name style.
func DisassembleWith(word uint32, style NameStyle) (string, error) {
	inst, err := Decode(word)
	if err != nil {
		return "", err
	}

	return Format(inst, style), nil
}

// Format renders a decoded instruction following its operand template.
func Format(inst Inst, style NameStyle) string {
	info := inst.Info()
	if info.Template == TmplNone {
		return info.Mnemonic
	}

	var fields map[string]string

	switch inst := inst.(type) {
	case RInst:
		fields = rFields(inst.RFormat, style)
	case PInst:
		fields = rFields(inst.RFormat, style)
	case IInst:
		fields = map[string]string{
			"rs":  style.reg(inst.Rs),
			"rt":  style.reg(inst.Rt),
			"imm": strconv.Itoa(int(immediateOf(info.Op, inst.IFormat))),
		}
	case JInst:
		fields = map[string]string{
			"addr": strconv.FormatUint(uint64(inst.Addr), 10),
		}
	}

	return fmt.Sprintf("%-4s %s", info.Mnemonic, fill(info.Template, fields))
}

func rFields(f RFormat, style NameStyle) map[string]string {
	return map[string]string{
		"rs":    style.reg(f.Rs),
		"rt":    style.reg(f.Rt),
		"rd":    style.reg(f.Rd),
		"shamt": strconv.Itoa(int(f.Shamt)),
	}
}

// immediateOf is the immediate value as the handler sees it.
func immediateOf(op Op, f IFormat) int32 {
	if ZeroExtends(op) {
		return f.ZeroExt()
	}

	return f.SignExt()
}

// ZeroExtends reports whether the op zero-extends its immediate.
func ZeroExtends(op Op) bool {
	switch op {
	case OpAndi, OpOri, OpXori:
		return true
	default:
		return false
	}
}

func fill(tmpl Template, fields map[string]string) string {
	var sb strings.Builder

	s := string(tmpl)
	for len(s) > 0 {
		end := strings.IndexAny(s, ", ()")
		if end == 0 {
			sb.WriteByte(s[0])
			s = s[1:]

			continue
		}

		if end < 0 {
			end = len(s)
		}

		sb.WriteString(fields[s[:end]])
		s = s[end:]
	}

	return sb.String()
}
