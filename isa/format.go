package isa

// RFormat is the register layout of a word.
type RFormat struct {
	Op    uint8
	Rs    Reg
	Rt    Reg
	Rd    Reg
	Shamt uint8
	Funct uint8
}

// IFormat is the immediate layout of a word. Imm holds the low 16 bits
// reinterpreted as a signed value.
type IFormat struct {
	Op  uint8
	Rs  Reg
	Rt  Reg
	Imm int16
}

// JFormat is the jump layout of a word.
type JFormat struct {
	Op   uint8
	Addr uint32
}

// Primary returns the 6-bit primary opcode field of a word.
func Primary(word uint32) uint8 {
	return uint8(word >> 26)
}

// DecodeR views a word through the register layout.
func DecodeR(word uint32) RFormat {
	return RFormat{
		Op:    Primary(word),
		Rs:    Reg(word >> 21 & 0x1F),
		Rt:    Reg(word >> 16 & 0x1F),
		Rd:    Reg(word >> 11 & 0x1F),
		Shamt: uint8(word >> 6 & 0x1F),
		Funct: uint8(word & 0x3F),
	}
}

// DecodeI views a word through the immediate layout.
func DecodeI(word uint32) IFormat {
	return IFormat{
		Op:  Primary(word),
		Rs:  Reg(word >> 21 & 0x1F),
		Rt:  Reg(word >> 16 & 0x1F),
		Imm: int16(uint16(word)),
	}
}

// DecodeJ views a word through the jump layout.
func DecodeJ(word uint32) JFormat {
	return JFormat{
		Op:   Primary(word),
		Addr: word & 0x3FFFFFF,
	}
}

// Encode packs the fields back into a word. Out-of-range fields are masked.
func (f RFormat) Encode() uint32 {
	return uint32(f.Op&0x3F)<<26 |
		uint32(f.Rs&0x1F)<<21 |
		uint32(f.Rt&0x1F)<<16 |
		uint32(f.Rd&0x1F)<<11 |
		uint32(f.Shamt&0x1F)<<6 |
		uint32(f.Funct&0x3F)
}

// Encode packs the fields back into a word.
func (f IFormat) Encode() uint32 {
	return uint32(f.Op&0x3F)<<26 |
		uint32(f.Rs&0x1F)<<21 |
		uint32(f.Rt&0x1F)<<16 |
		uint32(uint16(f.Imm))
}

// Encode packs the fields back into a word.
func (f JFormat) Encode() uint32 {
	return uint32(f.Op&0x3F)<<26 | f.Addr&0x3FFFFFF
}

// SignExt returns the immediate sign-extended to 32 bits.
func (f IFormat) SignExt() int32 {
	return int32(f.Imm)
}

// ZeroExt returns the immediate zero-extended to 32 bits.
func (f IFormat) ZeroExt() int32 {
	return int32(uint16(f.Imm))
}
