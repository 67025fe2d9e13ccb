// Package trace records executed instructions to a compact binary file.
//
// A trace file starts with a fixed header packed with struc, followed by a
// snappy stream of frames. Every frame starts with a one byte kind.
package trace

import (
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/sarchlab/smips/core"
)

// Magic identifies trace files.
const Magic = "SMTR"

// Version is the current file format version.
const Version = 1

// Frame kinds.
const (
	KindStep = 1
	KindHalt = 2
)

// MaxProgramName is the size of the program name field. Longer names are
// cut when the header is written.
const MaxProgramName = 32

// Header describes the traced program.
type Header struct {
	Magic    string `struc:"[4]byte"`
	Version  uint32
	Program  string `struc:"[32]byte"`
	Words    uint32
	Capacity uint32
}

// RegWrite is a register that received a new value. Reg follows the core
// numbering: 0-31 for general purpose registers, then LO and HI.
type RegWrite struct {
	Reg   uint8
	Value int32
}

// Step is the frame of one executed instruction.
type Step struct {
	Step      uint64
	PC        uint32
	Word      uint32
	NumWrites uint16 `struc:"sizeof=Writes"`
	Writes    []RegWrite
}

// Halt is the final frame of a run.
type Halt struct {
	Steps  uint64
	PC     uint32
	Reason uint8
}

// Writer records a run. It implements core.Tracer.
type Writer struct {
	w  io.WriteCloser
	zw *snappy.Writer
}

// NewWriter writes the header and prepares the frame stream.
func NewWriter(w io.WriteCloser, p core.Program, capacity int) (*Writer, error) {
	name := p.Name
	if len(name) > MaxProgramName {
		name = name[:MaxProgramName]
	}

	header := &Header{
		Magic:    Magic,
		Version:  Version,
		Program:  name,
		Words:    uint32(len(p.Words)),
		Capacity: uint32(capacity),
	}

	if err := struc.Pack(w, header); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}

	return &Writer{w: w, zw: snappy.NewBufferedWriter(w)}, nil
}

func (t *Writer) pack(kind byte, frame interface{}) error {
	if _, err := t.zw.Write([]byte{kind}); err != nil {
		return err
	}

	return struc.Pack(t.zw, frame)
}

// TraceStep writes one step frame.
func (t *Writer) TraceStep(rec core.StepRecord) error {
	frame := &Step{
		Step: rec.Step,
		PC:   rec.PC,
		Word: rec.Word,
	}

	for _, c := range rec.Changes {
		frame.Writes = append(frame.Writes, RegWrite{Reg: uint8(c.Index), Value: c.New})
	}

	return errors.Wrap(t.pack(KindStep, frame), "failed to pack step")
}

// Finish writes the halt frame.
func (t *Writer) Finish(r core.Result) error {
	frame := &Halt{Steps: r.Steps, PC: r.PC, Reason: uint8(r.Reason)}

	return errors.Wrap(t.pack(KindHalt, frame), "failed to pack halt")
}

// Close flushes the frame stream and closes the underlying writer.
func (t *Writer) Close() error {
	if err := t.zw.Close(); err != nil {
		t.w.Close()
		return errors.Wrap(err, "failed to flush trace")
	}

	return t.w.Close()
}

// Reader reads a trace file back.
type Reader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header Header
}

// NewReader checks the header and opens the frame stream.
func NewReader(r io.ReadCloser) (*Reader, error) {
	t := &Reader{r: r}
	if err := struc.Unpack(r, &t.Header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}

	if t.Header.Magic != Magic {
		return nil, errors.New("invalid trace file magic")
	}

	if t.Header.Version != Version {
		return nil, errors.Errorf("unsupported trace version %d", t.Header.Version)
	}

	t.Header.Program = strings.TrimRight(t.Header.Program, "\x00")
	t.zr = snappy.NewReader(r)

	return t, nil
}

// Next returns the next frame, a *Step or a *Halt. It returns io.EOF after
// the last frame.
func (t *Reader) Next() (interface{}, error) {
	var kind [1]byte
	if _, err := io.ReadFull(t.zr, kind[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}

		return nil, errors.Wrap(err, "failed to read frame kind")
	}

	var frame interface{}

	switch kind[0] {
	case KindStep:
		frame = &Step{}
	case KindHalt:
		frame = &Halt{}
	default:
		return nil, errors.Errorf("unknown frame kind %d", kind[0])
	}

	if err := struc.Unpack(t.zr, frame); err != nil {
		return nil, errors.Wrap(err, "failed to unpack frame")
	}

	return frame, nil
}

// Close releases the reader.
func (t *Reader) Close() error {
	t.zr.Reset(nil)
	return t.r.Close()
}
