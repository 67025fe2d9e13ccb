package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mgutz/ansi"

	"github.com/sarchlab/smips/core"
	"github.com/sarchlab/smips/isa"
)

var (
	colorMnemonic = ansi.ColorCode("cyan+b")
	colorChanged  = ansi.ColorCode("default+bu:default")
	colorFault    = ansi.ColorCode("red+b")
)

type painter struct {
	enabled bool
}

func (p painter) paint(s, color string) string {
	if !p.enabled {
		return s
	}

	return color + s + ansi.Reset
}

// listing highlights the mnemonic of a disassembled line.
func (p painter) listing(line string) string {
	mnemonic, rest, found := strings.Cut(line, " ")
	if !found {
		return p.paint(line, colorMnemonic)
	}

	return p.paint(mnemonic, colorMnemonic) + " " + rest
}

func writeListing(w io.Writer, prog core.Program, style isa.NameStyle, p painter) error {
	return core.WriteListingFunc(w, prog, style, func(text string, decoded bool) string {
		if !decoded {
			return p.paint(text, colorFault)
		}

		return p.listing(text)
	})
}

// stepPrinter prints every executed instruction and the registers it
// changed.
type stepPrinter struct {
	w       io.Writer
	style   isa.NameStyle
	painter painter
}

func (s *stepPrinter) TraceStep(rec core.StepRecord) error {
	text, err := isa.DisassembleWith(rec.Word, s.style)
	if err != nil {
		text = fmt.Sprintf(".word 0x%08x", rec.Word)
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "[%6d] %3d: %-24s", rec.Step, rec.PC, text)

	for _, c := range rec.Changes {
		name := c.Name
		if s.style == isa.SymbolicNames && c.Index < isa.NumGPR {
			name = isa.Reg(c.Index).Alias()
		}

		sb.WriteString(" ")
		sb.WriteString(s.painter.paint(fmt.Sprintf("%s=%d", name, c.New), colorChanged))
	}

	sb.WriteString("\n")

	_, err = io.WriteString(s.w, sb.String())

	return err
}
