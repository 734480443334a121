package puz

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// The fixed header occupies the first 0x34 bytes of a binary file.
const headerLen = 0x34

// Format selects how Parse interprets its input.
type Format int

const (
	// FormatAuto sniffs the input: the text authoring format when the
	// buffer starts with '<' and byte 0x0D is non-zero, binary otherwise.
	FormatAuto Format = iota

	// FormatBinary is the binary container format.
	FormatBinary

	// FormatText is the line-oriented text authoring format.
	FormatText
)

// Parse loads a puzzle from data.  With FormatAuto the input format is
// guessed the same way other readers of the format do; with an explicit
// format, input that sniffs as the other one is rejected.
func Parse(data []byte, format Format) (*Puzzle, error) {
	guess := FormatBinary
	if len(data) > 0x0D && data[0] == '<' && data[0x0D] != 0 {
		guess = FormatText
	}

	if format != FormatAuto && format != guess {
		return nil, fmt.Errorf("%w: input doesn't match the requested format", ErrFormat)
	}

	if guess == FormatText {
		return ParseText(data)
	}

	return ParseBinary(data)
}

// ParseBinary decodes a binary puzzle file.  Every field is copied out of
// data, so the returned puzzle doesn't alias the input buffer.
func ParseBinary(data []byte) (*Puzzle, error) {
	if len(data) < headerLen {
		return nil, fmt.Errorf("%w: %d byte file is shorter than the %d byte header", ErrTruncated, len(data), headerLen)
	}

	p := NewPuzzle()

	p.fileChecksum = binary.LittleEndian.Uint16(data[0x00:])
	copy(p.signature[:], data[0x02:0x0E])
	p.cibChecksum = binary.LittleEndian.Uint16(data[0x0E:])
	copy(p.magic10[:], data[0x10:0x14])
	copy(p.magic14[:], data[0x14:0x18])
	copy(p.version[:], data[0x18:0x1C])
	p.noise1C = binary.LittleEndian.Uint16(data[0x1C:])
	p.scrambledCksum = binary.LittleEndian.Uint16(data[0x1E:])
	for i := range p.noise {
		p.noise[i] = binary.LittleEndian.Uint16(data[0x20+2*i:])
	}
	p.width = data[0x2C]
	p.height = data[0x2D]
	p.clueCount = binary.LittleEndian.Uint16(data[0x2E:])
	p.bitmask = binary.LittleEndian.Uint16(data[0x30:])
	p.scrambledTag = binary.LittleEndian.Uint16(data[0x32:])

	area := p.Area()
	i := headerLen

	if len(data) < i+2*area {
		return nil, fmt.Errorf("%w: %dx%d boards don't fit", ErrTruncated, p.width, p.height)
	}

	p.solution = append([]byte(nil), data[i:i+area]...)
	i += area
	p.grid = append([]byte(nil), data[i:i+area]...)
	i += area

	var err error
	if p.title, i, err = readString(data, i); err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}

	if p.author, i, err = readString(data, i); err != nil {
		return nil, fmt.Errorf("author: %w", err)
	}

	if p.copyright, i, err = readString(data, i); err != nil {
		return nil, fmt.Errorf("copyright: %w", err)
	}

	p.clues = make([][]byte, p.clueCount)
	for n := range p.clues {
		if p.clues[n], i, err = readString(data, i); err != nil {
			return nil, fmt.Errorf("%w: got %d of %d clues", ErrClueCountShort, n, p.clueCount)
		}
	}

	if i < len(data) {
		if p.notes, i, err = readString(data, i); err != nil {
			return nil, fmt.Errorf("notes: %w", err)
		}
	}

	if err := p.readSections(data, i); err != nil {
		return nil, err
	}

	return p, nil
}

// readString copies the NUL-terminated string starting at data[i] and
// returns it along with the offset just past the terminator.
func readString(data []byte, i int) ([]byte, int, error) {
	if i >= len(data) {
		return nil, i, ErrTruncated
	}

	n := bytes.IndexByte(data[i:], 0)
	if n == -1 {
		return nil, i, ErrTruncated
	}

	return append([]byte(nil), data[i:i+n]...), i + n + 1, nil
}
