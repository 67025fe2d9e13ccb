package isa

import (
	"errors"
	"fmt"
)

// Family is the encoding family of an instruction.
type Family uint8

// Families, in the order they are tried by Classify.
const (
	FamilyPseudo Family = iota
	FamilyRegister
	FamilyJump
	FamilyImmediate
)

var familyNames = map[Family]string{
	FamilyPseudo:    "PSEUDO",
	FamilyRegister:  "REGISTER",
	FamilyJump:      "JUMP",
	FamilyImmediate: "IMMEDIATE",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}

	return fmt.Sprintf("Family(%d)", uint8(f))
}

// ErrMalformed is returned for words that belong to no family.
var ErrMalformed = errors.New("malformed instruction")

// Inst is a classified word. The concrete type is one of RInst, IInst,
// JInst or PInst.
type Inst interface {
	Word() uint32
	Info() *OpInfo
	isInst()
}

// RInst is an instruction of the register family.
type RInst struct {
	RFormat
	word uint32
	info *OpInfo
}

// IInst is an instruction of the immediate family.
type IInst struct {
	IFormat
	word uint32
	info *OpInfo
}

// JInst is an instruction of the jump family.
type JInst struct {
	JFormat
	word uint32
	info *OpInfo
}

// PInst is a pseudo instruction. Its operands use the register layout.
type PInst struct {
	RFormat
	word uint32
	info *OpInfo
}

func (i RInst) Word() uint32 { return i.word }
func (i IInst) Word() uint32 { return i.word }
func (i JInst) Word() uint32 { return i.word }
func (i PInst) Word() uint32 { return i.word }

func (i RInst) Info() *OpInfo { return i.info }
func (i IInst) Info() *OpInfo { return i.info }
func (i JInst) Info() *OpInfo { return i.info }
func (i PInst) Info() *OpInfo { return i.info }

func (RInst) isInst() {}
func (IInst) isInst() {}
func (JInst) isInst() {}
func (PInst) isInst() {}

// Classify returns the family of a word.
//
// Pseudo instructions are tried before the register table, so funct 0x02
// always means mul and srl can never be reached through a word.
func Classify(word uint32) (Family, error) {
	info, err := classify(word)
	if err != nil {
		return 0, err
	}

	return info.Family, nil
}

func classify(word uint32) (*OpInfo, error) {
	primary := Primary(word)
	r := DecodeR(word)

	if primary == 0 {
		if info := Lookup(FamilyPseudo, r.Funct, r.Rt); info != nil {
			return info, nil
		}

		if info := Lookup(FamilyRegister, r.Funct, r.Rt); info != nil {
			return info, nil
		}

		return nil, fmt.Errorf("%w: 0x%08x has unknown funct 0x%02x",
			ErrMalformed, word, r.Funct)
	}

	if info := Lookup(FamilyJump, primary, r.Rt); info != nil {
		return info, nil
	}

	if info := Lookup(FamilyImmediate, primary, r.Rt); info != nil {
		return info, nil
	}

	return nil, fmt.Errorf("%w: 0x%08x has unknown opcode 0x%02x",
		ErrMalformed, word, primary)
}

// Decode classifies a word and returns its typed form.
func Decode(word uint32) (Inst, error) {
	info, err := classify(word)
	if err != nil {
		return nil, err
	}

	switch info.Family {
	case FamilyPseudo:
		return PInst{RFormat: DecodeR(word), word: word, info: info}, nil
	case FamilyRegister:
		return RInst{RFormat: DecodeR(word), word: word, info: info}, nil
	case FamilyJump:
		return JInst{JFormat: DecodeJ(word), word: word, info: info}, nil
	default:
		return IInst{IFormat: DecodeI(word), word: word, info: info}, nil
	}
}
