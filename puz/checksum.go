package puz

import "encoding/binary"

// Checksum is the 16-bit rolling checksum that protects every region of a
// puzzle file.  For each input byte the running value is rotated right by one
// bit and then the byte is added with natural 16-bit wraparound.  The zero
// value is the usual seed; regions are chained together by using the result
// of one region as the seed for the next.
type Checksum uint16

// Write folds a region of bytes into the checksum and returns the new value.
func (c Checksum) Write(bs []byte) Checksum {
	for _, b := range bs {
		if c&0x0001 == 0x0001 {
			c = (c >> 1) | 0x8000
		} else {
			c = c >> 1
		}

		c += Checksum(b)
	}

	return c
}

// Write8 folds a single byte into the checksum.
func (c Checksum) Write8(value uint8) Checksum {
	return c.Write([]byte{value})
}

// Write16 folds a 16-bit value into the checksum in little-endian order.
func (c Checksum) Write16(value uint16) Checksum {
	return c.Write([]byte{byte(value), byte(value >> 8)})
}

// The masks applied to the low and high checksum bytes stored at offsets
// 0x10 and 0x14 of the header.  Together they spell "ICHEATED".
var (
	magic10Mask = [4]byte{'I', 'C', 'H', 'E'}
	magic14Mask = [4]byte{'A', 'T', 'E', 'D'}
)

// Checksums holds every checksum that can be computed from a puzzle's current
// contents.  The four component sums (CIB, solution, grid, text) are combined
// into the masked magic bytes; File is the chained whole-file checksum stored
// at offset 0.
type Checksums struct {
	File     uint16
	CIB      uint16
	Solution uint16
	Grid     uint16
	Text     uint16

	Magic10 [4]byte
	Magic14 [4]byte

	Rebus      uint16
	RebusTable uint16
	Timer      uint16
	Extras     uint16
	UserRebus  uint16
}

// cibBytes returns the 8-byte checksummable header summary: width, height,
// clue count, the unknown bitmask and the scrambled tag, shorts in
// little-endian.
func (p *Puzzle) cibBytes() []byte {
	cib := make([]byte, 8)
	cib[0] = p.width
	cib[1] = p.height
	binary.LittleEndian.PutUint16(cib[2:], p.clueCount)
	binary.LittleEndian.PutUint16(cib[4:], p.bitmask)
	binary.LittleEndian.PutUint16(cib[6:], p.scrambledTag)
	return cib
}

// textChecksum chains the metadata strings and clues into the checksum.  The
// title, author, copyright and notes contribute their bytes plus the
// terminating NUL, but only when non-empty; clues contribute their bytes
// without the NUL.
func (p *Puzzle) textChecksum(c Checksum) Checksum {
	if len(p.title) > 0 {
		c = c.Write(p.title).Write8(0)
	}

	if len(p.author) > 0 {
		c = c.Write(p.author).Write8(0)
	}

	if len(p.copyright) > 0 {
		c = c.Write(p.copyright).Write8(0)
	}

	for _, clue := range p.clues {
		if len(clue) > 0 {
			c = c.Write(clue)
		}
	}

	if len(p.notes) > 0 {
		c = c.Write(p.notes).Write8(0)
	}

	return c
}

// Compute calculates every checksum for the puzzle's current contents.  It
// doesn't modify the stored header values; call Commit for that.
func (p *Puzzle) Compute() Checksums {
	var cs Checksums

	cs.CIB = uint16(Checksum(0).Write(p.cibBytes()))
	cs.Solution = uint16(Checksum(0).Write(p.solution))
	cs.Grid = uint16(Checksum(0).Write(p.grid))
	cs.Text = uint16(p.textChecksum(0))

	// The whole-file checksum seeds with the CIB sum, chains across the
	// solution and grid, and then runs the same text chain.
	file := Checksum(cs.CIB).Write(p.solution).Write(p.grid)
	cs.File = uint16(p.textChecksum(file))

	sums := [4]uint16{cs.CIB, cs.Solution, cs.Grid, cs.Text}
	for i, sum := range sums {
		cs.Magic10[i] = byte(sum) ^ magic10Mask[i]
		cs.Magic14[i] = byte(sum>>8) ^ magic14Mask[i]
	}

	if p.HasRebus() {
		cs.Rebus = uint16(Checksum(0).Write(p.rebus))
		cs.RebusTable = uint16(Checksum(0).Write(p.RebusTableString()))
	}

	if p.HasTimer() {
		cs.Timer = uint16(Checksum(0).Write(p.timer))
	}

	if p.HasExtras() {
		cs.Extras = uint16(Checksum(0).Write(p.extras))
	}

	if p.HasUserRebus() {
		cs.UserRebus = uint16(Checksum(0).Write(p.userRebusBytes()))
	}

	return cs
}

// Commit computes the checksums and copies them into the header fields, so a
// subsequent encode produces a file that passes verification.
func (p *Puzzle) Commit() {
	cs := p.Compute()

	p.fileChecksum = cs.File
	p.cibChecksum = cs.CIB
	p.magic10 = cs.Magic10
	p.magic14 = cs.Magic14

	if p.HasRebus() {
		p.rebusChecksum = cs.Rebus
		p.rebusTableChecksum = cs.RebusTable
	}

	if p.HasTimer() {
		p.timerChecksum = cs.Timer
	}

	if p.HasExtras() {
		p.extrasChecksum = cs.Extras
	}

	if p.HasUserRebus() {
		p.userRebusChecksum = cs.UserRebus
	}
}

// Verify recomputes every checksum and compares it against the stored header
// values.  It returns the number of mismatched fields; zero means the file
// passes.  The masked magic bytes are compared individually, so a single bad
// component sum can count more than once.
func (p *Puzzle) Verify() int {
	cs := p.Compute()

	var mismatches int

	if p.cibChecksum != cs.CIB {
		mismatches++
	}

	if p.fileChecksum != cs.File {
		mismatches++
	}

	for i := 0; i < 4; i++ {
		if p.magic10[i] != cs.Magic10[i] {
			mismatches++
		}
		if p.magic14[i] != cs.Magic14[i] {
			mismatches++
		}
	}

	if p.HasRebus() {
		if p.rebusChecksum != cs.Rebus {
			mismatches++
		}
		if p.rebusTableChecksum != cs.RebusTable {
			mismatches++
		}
	}

	if p.HasTimer() && p.timerChecksum != cs.Timer {
		mismatches++
	}

	if p.HasExtras() && p.extrasChecksum != cs.Extras {
		mismatches++
	}

	if p.HasUserRebus() && p.userRebusChecksum != cs.UserRebus {
		mismatches++
	}

	return mismatches
}
