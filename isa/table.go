package isa

// Op identifies one instruction of the supported subset.
type Op uint8

// Supported operations.
const (
	OpInvalid Op = iota

	OpAdd
	OpAddu
	OpAnd
	OpBreak
	OpDiv
	OpDivu
	OpJalr
	OpJr
	OpMfhi
	OpMflo
	OpMthi
	OpMtlo
	OpMult
	OpMultu
	OpNor
	OpOr
	OpSll
	OpSllv
	OpSlt
	OpSltu
	OpSra
	OpSrav
	OpSrl
	OpSrlv
	OpSub
	OpSubu
	OpXor

	OpAddi
	OpAddiu
	OpAndi
	OpBeq
	OpBgez
	OpBltz
	OpBgtz
	OpBlez
	OpBne
	OpLb
	OpLh
	OpLui
	OpLw
	OpOri
	OpSb
	OpSlti
	OpSltiu
	OpSh
	OpSw
	OpXori

	OpJ
	OpJal

	OpMul
	OpSyscall

	numOps
)

// Template describes the operand order used when a word is disassembled.
type Template string

// Operand templates.
const (
	TmplNone     Template = ""
	TmplRdRsRt   Template = "rd, rs, rt"
	TmplRdRtSa   Template = "rd, rt, shamt"
	TmplRdRtRs   Template = "rd, rt, rs"
	TmplRsRt     Template = "rs, rt"
	TmplRs       Template = "rs"
	TmplRd       Template = "rd"
	TmplRdRs     Template = "rd, rs"
	TmplRtRsImm  Template = "rt, rs, imm"
	TmplRsRtImm  Template = "rs, rt, imm"
	TmplRsImm    Template = "rs, imm"
	TmplRtImm    Template = "rt, imm"
	TmplRtOffset Template = "rt, imm(rs)"
	TmplAddr     Template = "addr"
)

// AnySub marks an immediate entry that does not look at the rt field.
const AnySub = -1

// OpInfo is one row of the instruction table.
type OpInfo struct {
	Op       Op
	Mnemonic string
	Family   Family

	// Key is the funct field for register and pseudo entries and the
	// primary opcode for immediate and jump entries.
	Key uint8

	// Sub selects on the rt field when several immediate entries share a
	// primary opcode. AnySub disables the check.
	Sub int

	Template Template
}

// Table lists every supported instruction. Lookups below are projections of
// this table and are built once.
var Table = []OpInfo{
	{OpAdd, "add", FamilyRegister, 0x20, AnySub, TmplRdRsRt},
	{OpAddu, "addu", FamilyRegister, 0x21, AnySub, TmplRdRsRt},
	{OpAnd, "and", FamilyRegister, 0x24, AnySub, TmplRdRsRt},
	{OpBreak, "break", FamilyRegister, 0x0D, AnySub, TmplRd},
	{OpDiv, "div", FamilyRegister, 0x1A, AnySub, TmplRsRt},
	{OpDivu, "divu", FamilyRegister, 0x1B, AnySub, TmplRsRt},
	{OpJalr, "jalr", FamilyRegister, 0x09, AnySub, TmplRdRs},
	{OpJr, "jr", FamilyRegister, 0x08, AnySub, TmplRs},
	{OpMfhi, "mfhi", FamilyRegister, 0x10, AnySub, TmplRd},
	{OpMflo, "mflo", FamilyRegister, 0x12, AnySub, TmplRd},
	{OpMthi, "mthi", FamilyRegister, 0x11, AnySub, TmplRd},
	{OpMtlo, "mtlo", FamilyRegister, 0x13, AnySub, TmplRd},
	{OpMult, "mult", FamilyRegister, 0x18, AnySub, TmplRsRt},
	{OpMultu, "multu", FamilyRegister, 0x19, AnySub, TmplRsRt},
	{OpNor, "nor", FamilyRegister, 0x27, AnySub, TmplRdRsRt},
	{OpOr, "or", FamilyRegister, 0x25, AnySub, TmplRdRsRt},
	{OpSll, "sll", FamilyRegister, 0x00, AnySub, TmplRdRtSa},
	{OpSllv, "sllv", FamilyRegister, 0x04, AnySub, TmplRdRtRs},
	{OpSlt, "slt", FamilyRegister, 0x2A, AnySub, TmplRdRsRt},
	{OpSltu, "sltu", FamilyRegister, 0x2B, AnySub, TmplRdRsRt},
	{OpSra, "sra", FamilyRegister, 0x03, AnySub, TmplRdRtSa},
	{OpSrav, "srav", FamilyRegister, 0x07, AnySub, TmplRdRtRs},
	{OpSrl, "srl", FamilyRegister, 0x02, AnySub, TmplRdRtSa},
	{OpSrlv, "srlv", FamilyRegister, 0x06, AnySub, TmplRdRtRs},
	{OpSub, "sub", FamilyRegister, 0x22, AnySub, TmplRdRsRt},
	{OpSubu, "subu", FamilyRegister, 0x23, AnySub, TmplRdRsRt},
	{OpXor, "xor", FamilyRegister, 0x26, AnySub, TmplRdRsRt},

	{OpAddi, "addi", FamilyImmediate, 0x08, AnySub, TmplRtRsImm},
	{OpAddiu, "addiu", FamilyImmediate, 0x09, AnySub, TmplRtRsImm},
	{OpAndi, "andi", FamilyImmediate, 0x0C, AnySub, TmplRtRsImm},
	{OpBeq, "beq", FamilyImmediate, 0x04, AnySub, TmplRsRtImm},
	{OpBltz, "bltz", FamilyImmediate, 0x01, 0, TmplRsImm},
	{OpBgez, "bgez", FamilyImmediate, 0x01, 1, TmplRsImm},
	{OpBgtz, "bgtz", FamilyImmediate, 0x07, AnySub, TmplRsImm},
	{OpBlez, "blez", FamilyImmediate, 0x06, AnySub, TmplRsImm},
	{OpBne, "bne", FamilyImmediate, 0x05, AnySub, TmplRsRtImm},
	{OpLb, "lb", FamilyImmediate, 0x20, AnySub, TmplRtOffset},
	{OpLh, "lh", FamilyImmediate, 0x21, AnySub, TmplRtOffset},
	{OpLui, "lui", FamilyImmediate, 0x0F, AnySub, TmplRtImm},
	{OpLw, "lw", FamilyImmediate, 0x23, AnySub, TmplRtOffset},
	{OpOri, "ori", FamilyImmediate, 0x0D, AnySub, TmplRtRsImm},
	{OpSb, "sb", FamilyImmediate, 0x28, AnySub, TmplRtOffset},
	{OpSlti, "slti", FamilyImmediate, 0x0A, AnySub, TmplRtRsImm},
	{OpSltiu, "sltiu", FamilyImmediate, 0x0B, AnySub, TmplRtRsImm},
	{OpSh, "sh", FamilyImmediate, 0x29, AnySub, TmplRtOffset},
	{OpSw, "sw", FamilyImmediate, 0x2B, AnySub, TmplRtOffset},
	{OpXori, "xori", FamilyImmediate, 0x0E, AnySub, TmplRtRsImm},

	{OpJ, "j", FamilyJump, 0x02, AnySub, TmplAddr},
	{OpJal, "jal", FamilyJump, 0x03, AnySub, TmplAddr},

	{OpMul, "mul", FamilyPseudo, 0x02, AnySub, TmplRdRsRt},
	{OpSyscall, "syscall", FamilyPseudo, 0x0C, AnySub, TmplNone},
}

var (
	byOp       [numOps]*OpInfo
	byMnemonic = map[string]*OpInfo{}
	byFamily   = map[Family]map[uint8][]*OpInfo{}
)

func init() {
	for i := range Table {
		info := &Table[i]

		if byOp[info.Op] != nil {
			panic("duplicate op in instruction table: " + info.Mnemonic)
		}

		byOp[info.Op] = info
		byMnemonic[info.Mnemonic] = info

		keys, ok := byFamily[info.Family]
		if !ok {
			keys = map[uint8][]*OpInfo{}
			byFamily[info.Family] = keys
		}

		keys[info.Key] = append(keys[info.Key], info)
	}
}

// String returns the mnemonic of the op.
func (op Op) String() string {
	if info := ByOp(op); info != nil {
		return info.Mnemonic
	}

	return "invalid"
}

// ByOp returns the table row of an op, or nil.
func ByOp(op Op) *OpInfo {
	if op >= numOps {
		return nil
	}

	return byOp[op]
}

// ByMnemonic returns the table row with the given mnemonic, or nil.
func ByMnemonic(mnemonic string) *OpInfo {
	return byMnemonic[mnemonic]
}

// Lookup finds the row of a family by key. sub is the rt field of the word
// and only matters for rows that select on it.
func Lookup(family Family, key uint8, sub Reg) *OpInfo {
	for _, info := range byFamily[family][key] {
		if info.Sub == AnySub || info.Sub == int(sub) {
			return info
		}
	}

	return nil
}
