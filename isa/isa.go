// Package isa describes the instruction words understood by the emulator.
//
// A word is 32 bits wide and is read through one of three fixed layouts:
//
//	R: op(6) rs(5) rt(5) rd(5) shamt(5) funct(6)
//	I: op(6) rs(5) rt(5) imm(16)
//	J: op(6) addr(26)
//
// Every word can be viewed through all three layouts. Classify picks the
// family that applies and Decode turns a word into an Inst variant that
// carries the opcode record from Table.
package isa
