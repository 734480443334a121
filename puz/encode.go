package puz

import (
	"encoding/binary"
	"fmt"
)

// Size returns the number of bytes the puzzle occupies when encoded.
func (p *Puzzle) Size() int {
	area := p.Area()

	sz := headerLen
	sz += 2 * area
	sz += len(p.title) + 1
	sz += len(p.author) + 1
	sz += len(p.copyright) + 1

	for _, clue := range p.clues {
		sz += len(clue) + 1
	}

	sz += len(p.notes) + 1

	if p.HasRebus() {
		sz += 8 + area + 1
		sz += 8 + len(p.RebusTableString()) + 1
	}

	if p.HasTimer() {
		sz += 8 + len(p.timer) + 1
	}

	if p.HasExtras() {
		sz += 8 + area + 1
	}

	if p.HasUserRebus() {
		sz += 8 + p.userRebusLen + 1
	}

	return sz
}

// EncodeBinary renders the puzzle as a binary file.  The stored header
// checksums are written as-is; call Commit first if the contents have
// changed since they were computed.  Extension sections are written in a
// fixed order (rebus grid and table first, then timer, flags, user rebus)
// so output is deterministic.
func (p *Puzzle) EncodeBinary() ([]byte, error) {
	area := p.Area()
	if len(p.solution) != area || len(p.grid) != area {
		return nil, fmt.Errorf("puz: boards have %d and %d cells, want %d", len(p.solution), len(p.grid), area)
	}

	out := make([]byte, 0, p.Size())

	var header [headerLen]byte
	binary.LittleEndian.PutUint16(header[0x00:], p.fileChecksum)
	copy(header[0x02:], p.signature[:])
	binary.LittleEndian.PutUint16(header[0x0E:], p.cibChecksum)
	copy(header[0x10:], p.magic10[:])
	copy(header[0x14:], p.magic14[:])
	copy(header[0x18:], p.version[:])
	binary.LittleEndian.PutUint16(header[0x1C:], p.noise1C)
	binary.LittleEndian.PutUint16(header[0x1E:], p.scrambledCksum)
	for i, noise := range p.noise {
		binary.LittleEndian.PutUint16(header[0x20+2*i:], noise)
	}
	header[0x2C] = p.width
	header[0x2D] = p.height
	binary.LittleEndian.PutUint16(header[0x2E:], p.clueCount)
	binary.LittleEndian.PutUint16(header[0x30:], p.bitmask)
	binary.LittleEndian.PutUint16(header[0x32:], p.scrambledTag)
	out = append(out, header[:]...)

	out = append(out, p.solution...)
	out = append(out, p.grid...)

	out = appendString(out, p.title)
	out = appendString(out, p.author)
	out = appendString(out, p.copyright)

	for _, clue := range p.clues {
		out = appendString(out, clue)
	}

	out = appendString(out, p.notes)

	if p.HasRebus() {
		out = appendSection(out, tagRebus, p.rebusChecksum, p.rebus)

		table := p.RebusTableString()
		out = appendSection(out, tagRebusTable, p.rebusTableChecksum, table)
	}

	if p.HasTimer() {
		out = appendSection(out, tagTimer, p.timerChecksum, p.timer)
	}

	if p.HasExtras() {
		out = appendSection(out, tagExtras, p.extrasChecksum, p.extras)
	}

	if p.HasUserRebus() {
		out = appendSection(out, tagUserRebus, p.userRebusChecksum, p.userRebusBytes())
	}

	return out, nil
}

// appendString appends a NUL-terminated string.
func appendString(out, s []byte) []byte {
	out = append(out, s...)
	return append(out, 0)
}

// appendSection appends a framed extension section: tag, payload length,
// stored checksum, payload, NUL.
func appendSection(out []byte, tag string, cksum uint16, payload []byte) []byte {
	out = append(out, tag...)

	var frame [4]byte
	binary.LittleEndian.PutUint16(frame[0:], uint16(len(payload)))
	binary.LittleEndian.PutUint16(frame[2:], cksum)
	out = append(out, frame[:]...)

	out = append(out, payload...)
	return append(out, 0)
}
