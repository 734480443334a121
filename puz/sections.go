package puz

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log"
)

// Extension section tags.  Each section is framed as a 4-byte ASCII tag, a
// 2-byte payload length, a 2-byte stored checksum, the payload, and a NUL.
const (
	tagRebus      = "GRBS"
	tagRebusTable = "RTBL"
	tagTimer      = "LTIM"
	tagExtras     = "GEXT"
	tagUserRebus  = "RUSR"
)

// readSections consumes the extension sections that follow the notes string.
// Sections may appear in any order, except that a rebus table must
// immediately follow a non-empty rebus grid.  Unknown tags are skipped.
func (p *Puzzle) readSections(data []byte, i int) error {
	for i+5 < len(data) {
		tag := string(data[i : i+4])
		length := int(binary.LittleEndian.Uint16(data[i+4 : i+6]))
		body := data[i+6:]

		var advance int
		var err error

		switch tag {
		case tagRebus:
			advance, err = p.readRebus(body)
		case tagTimer:
			advance, err = p.readTimer(body, length)
		case tagExtras:
			advance, err = p.readExtras(body)
		case tagUserRebus:
			advance, err = p.readUserRebus(body)
		default:
			log.Printf("puz: skipping unknown section %q", tag)
			i += 8 + length + 1
			continue
		}

		if err != nil {
			return fmt.Errorf("%s section: %w", tag, err)
		}
		if advance == 0 {
			return fmt.Errorf("%s section: %w", tag, ErrMalformedExtension)
		}

		i += 6 + advance
	}

	return nil
}

// readRebus reads the GRBS payload and, when the overlay marks any cell, the
// RTBL section that must follow it.  An all-zero overlay is discarded: the
// file simply has no rebus.  Returns the number of bytes consumed.
func (p *Puzzle) readRebus(body []byte) (int, error) {
	area := p.Area()
	if len(body) < 2+area+1 {
		return 0, ErrMalformedExtension
	}

	p.rebusChecksum = binary.LittleEndian.Uint16(body)
	i := 2

	overlay := body[i : i+area]
	i += area + 1

	empty := true
	for _, cell := range overlay {
		if cell != 0 {
			empty = false
			break
		}
	}

	if !empty {
		p.rebus = append([]byte(nil), overlay...)
	} else {
		p.rebusChecksum = 0
	}

	if !bytes.HasPrefix(body[i:], []byte(tagRebusTable)) {
		if !empty {
			return 0, ErrMissingRTBL
		}
		return i, nil
	}
	i += 4

	if len(body) < i+4 {
		return 0, ErrMalformedExtension
	}

	strsz := int(binary.LittleEndian.Uint16(body[i:]))
	i += 2

	if !empty {
		p.rebusTableChecksum = binary.LittleEndian.Uint16(body[i:])
	}
	i += 2

	if len(body) < i+strsz+1 {
		return 0, ErrMalformedExtension
	}

	if !empty {
		if err := p.SetRebusTableString(body[i : i+strsz]); err != nil {
			return 0, err
		}
	}
	i += strsz + 1

	return i, nil
}

// readTimer reads the LTIM payload: the ASCII "<elapsed>,<stopped>" text.
func (p *Puzzle) readTimer(body []byte, length int) (int, error) {
	if len(body) < 2+length+1 {
		return 0, ErrMalformedExtension
	}

	p.timerChecksum = binary.LittleEndian.Uint16(body)
	p.timer = append([]byte(nil), body[2:2+length]...)

	return 2 + length + 1, nil
}

// readExtras reads the GEXT payload: one flag byte per cell.
func (p *Puzzle) readExtras(body []byte) (int, error) {
	area := p.Area()
	if len(body) < 2+area+1 {
		return 0, ErrMalformedExtension
	}

	p.extrasChecksum = binary.LittleEndian.Uint16(body)
	p.extras = append([]byte(nil), body[2:2+area]...)

	return 2 + area + 1, nil
}

// readUserRebus reads the RUSR payload: one NUL-terminated string per cell,
// an empty cell being a single NUL, with one more NUL closing the section.
// Cell strings are clamped to the maximum rebus length.
func (p *Puzzle) readUserRebus(body []byte) (int, error) {
	area := p.Area()
	if len(body) < 2 {
		return 0, ErrMalformedExtension
	}

	p.userRebusChecksum = binary.LittleEndian.Uint16(body)
	i := 2

	cells := make([][]byte, area)
	for n := range cells {
		if i >= len(body) {
			return 0, ErrMalformedExtension
		}

		if body[i] == 0 {
			i++
			continue
		}

		end := i
		for end < len(body) && body[end] != 0 && end-i < maxUserRebusLen {
			end++
		}

		cells[n] = append([]byte(nil), body[i:end]...)
		i = end + 1
	}

	p.userRebus = cells
	p.userRebusLen = i - 2

	if i >= len(body) {
		return 0, ErrMalformedExtension
	}
	i++ // section terminator

	return i, nil
}
