package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/sarchlab/smips/isa"
)

const (
	LevelTrace slog.Level = slog.LevelInfo + 1
)

func Trace(msg string, args ...any) {
	slog.Log(context.Background(), LevelTrace, msg, args...)
}

// LineFunc rewrites the text of one listing line. decoded is false for words
// that are shown in hex.
type LineFunc func(text string, decoded bool) string

// WriteListing prints every word of the program with its index and
// disassembly. Malformed words are shown in hex.
func WriteListing(w io.Writer, p Program, style isa.NameStyle) error {
	return WriteListingFunc(w, p, style, nil)
}

// WriteListingFunc is WriteListing with every line passed through line.
func WriteListingFunc(w io.Writer, p Program, style isa.NameStyle, line LineFunc) error {
	for i, word := range p.Words {
		text, err := isa.DisassembleWith(word, style)
		if err != nil {
			text = fmt.Sprintf(".word 0x%08x", word)
		}

		if line != nil {
			text = line(text, err == nil)
		}

		if _, err := fmt.Fprintf(w, "%3d: %s\n", i, text); err != nil {
			return err
		}
	}

	return nil
}

// WriteRegisters prints the non-zero general purpose registers in register
// order.
func WriteRegisters(w io.Writer, regs *RegFile, style isa.NameStyle) error {
	for i := range regs.GPR {
		reg := isa.Reg(i)

		v := regs.Read(reg)
		if v == 0 {
			continue
		}

		name := reg.Name()
		if style == isa.SymbolicNames {
			name = reg.Alias()
		}

		if _, err := fmt.Fprintf(w, "%-3s = %d\n", name, v); err != nil {
			return err
		}
	}

	return nil
}

// RenderRegisters draws all registers as a table of 4 rows by 8 columns,
// followed by the accumulators.
func RenderRegisters(regs *RegFile) string {
	regTable := table.NewWriter()
	regTable.SetTitle("Registers")

	header := table.Row{"Row"}
	for col := 0; col < 8; col++ {
		header = append(header, fmt.Sprintf("+%d", col))
	}
	regTable.AppendHeader(header)

	for row := 0; row < 4; row++ {
		regRow := table.Row{fmt.Sprintf("$%d-$%d", row*8, row*8+7)}
		for col := 0; col < 8; col++ {
			regRow = append(regRow, regs.Read(isa.Reg(row*8+col)))
		}
		regTable.AppendRow(regRow)
	}

	regTable.AppendFooter(table.Row{"Hi", regs.HI, "Lo", regs.LO})

	return regTable.Render()
}

// LogState dumps the machine state at debug level.
func LogState(e *Emulator) {
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	slog.Debug("State",
		"PC", e.PC(),
		"Halted", e.Halted(),
		"Steps", e.Result().Steps,
		"Hi", e.Regs().HI,
		"Lo", e.Regs().LO,
	)
}
