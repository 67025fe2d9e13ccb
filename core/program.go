package core

import (
	"bufio"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultCapacity is the number of words the instruction buffer holds.
const DefaultCapacity = 1000

// Program is an ordered list of instruction words.
type Program struct {
	Name  string
	Words []uint32

	// Truncated is set when the source held more words than the capacity.
	Truncated bool
}

// NewProgram wraps words in a program.
func NewProgram(name string, words ...uint32) Program {
	return Program{Name: name, Words: words}
}

func (p *Program) add(word uint32, capacity int) {
	if len(p.Words) >= capacity {
		if !p.Truncated {
			slog.Warn("Program exceeds capacity, dropping the rest",
				"Program", p.Name, "Capacity", capacity)
		}

		p.Truncated = true

		return
	}

	p.Words = append(p.Words, word)
}

// ParseWord reads one hexadecimal word, with or without a 0x prefix.
func ParseWord(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid instruction word %q", s)
	}

	return uint32(v), nil
}

// LoadProgram reads one hexadecimal word per line. Blank lines and text
// after '#' are ignored.
func LoadProgram(r io.Reader, name string, capacity int) (Program, error) {
	p := Program{Name: name}

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		word, err := ParseWord(line)
		if err != nil {
			return Program{}, errors.Wrapf(err, "%s:%d", name, lineNo)
		}

		p.add(word, capacity)
	}

	if err := scanner.Err(); err != nil {
		return Program{}, errors.Wrapf(err, "reading %s", name)
	}

	return p, nil
}

// LoadProgramFile reads a text program from disk.
func LoadProgramFile(path string, capacity int) (Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return Program{}, errors.Wrap(err, "open program")
	}
	defer f.Close()

	return LoadProgram(f, filepath.Base(path), capacity)
}

type yamlProgram struct {
	Name  string   `yaml:"name"`
	Words []string `yaml:"words"`
}

// LoadProgramFromYAML reads a program of the form
//
//	name: countdown
//	words:
//	  - "0x20080005"
//	  - "0x0000000c"
func LoadProgramFromYAML(data []byte, capacity int) (Program, error) {
	var doc yamlProgram
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Program{}, errors.Wrap(err, "parse program yaml")
	}

	p := Program{Name: doc.Name}

	for i, s := range doc.Words {
		word, err := ParseWord(s)
		if err != nil {
			return Program{}, errors.Wrapf(err, "word %d", i)
		}

		p.add(word, capacity)
	}

	return p, nil
}

// LoadProgramFileFromYAML reads a YAML program from disk. The file name is
// used when the document has no name.
func LoadProgramFileFromYAML(path string, capacity int) (Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Program{}, errors.Wrap(err, "read program")
	}

	p, err := LoadProgramFromYAML(data, capacity)
	if err != nil {
		return Program{}, errors.Wrap(err, path)
	}

	if p.Name == "" {
		p.Name = filepath.Base(path)
	}

	return p, nil
}

// LoadProgramPath picks the YAML loader for .yaml and .yml files and the
// text loader otherwise.
func LoadProgramPath(path string, capacity int) (Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadProgramFileFromYAML(path, capacity)
	default:
		return LoadProgramFile(path, capacity)
	}
}
