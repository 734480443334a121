// Package puz reads, writes, verifies and unscrambles crossword puzzles in
// the binary container format used by AcrossLite and most commercial
// crossword distribution, along with the plain text authoring format.
//
// Details on the file format can be found at:
//	https://code.google.com/archive/p/puz/wikis/FileFormat.wiki
package puz

import (
	"fmt"
	"strconv"
	"strings"
)

// The identifying signature at offset 0x02 and the default version string at
// offset 0x18, both NUL terminated on disk.
var (
	fileSignature  = [12]byte{'A', 'C', 'R', 'O', 'S', 'S', '&', 'D', 'O', 'W', 'N', 0}
	defaultVersion = [4]byte{'1', '.', '2', 0}
)

// Board byte values.  A solution holds letters and black squares; a grid
// additionally uses '-' for cells the solver hasn't filled in yet.
const (
	Black = '.'
	Empty = '-'
)

// The GEXT flag bit marking a circled cell.
const Circled = 0x80

// A user entered rebus value is limited to this many bytes; longer cell
// strings in a file are clamped while decoding.
const maxUserRebusLen = 100

// Puzzle is an in-memory crossword puzzle file.  It carries everything found
// in the container: the header with its checksums, the solution and player
// grids in row-major order, the metadata strings, the clue list, and the
// optional extension sections (rebus overlay and table, per-cell flags, timer
// state, user entered rebus values).
//
// All strings are raw bytes in the file's Windows-1252 encoding; the
// checksums are defined over those bytes, so the puzzle never re-encodes
// them.  Decoded accessors are available for display purposes.
//
// Mutators copy their inputs, so a Puzzle never aliases caller memory.  The
// header checksums only describe the contents after Commit has been called.
// A Puzzle is not safe for concurrent mutation.
type Puzzle struct {
	fileChecksum   uint16
	signature      [12]byte
	cibChecksum    uint16
	magic10        [4]byte
	magic14        [4]byte
	version        [4]byte
	noise1C        uint16
	scrambledCksum uint16
	noise          [6]uint16
	width          uint8
	height         uint8
	clueCount      uint16
	bitmask        uint16
	scrambledTag   uint16

	solution []byte
	grid     []byte

	title     []byte
	author    []byte
	copyright []byte
	clues     [][]byte
	notes     []byte

	// Extension sections.  A nil board or table means the section is absent.
	rebus              []byte
	rebusChecksum      uint16
	rebusTable         [][]byte
	rebusTableChecksum uint16
	timer              []byte
	timerChecksum      uint16
	extras             []byte
	extrasChecksum     uint16
	userRebus          [][]byte
	userRebusLen       int
	userRebusChecksum  uint16
}

// NewPuzzle returns an empty puzzle with the signature, version string and
// header bitmask set to their conventional values.  Everything else is zero.
func NewPuzzle() *Puzzle {
	return &Puzzle{
		signature: fileSignature,
		version:   defaultVersion,
		bitmask:   0x0001,
	}
}

// Area returns the number of cells in the grid.
func (p *Puzzle) Area() int {
	return int(p.width) * int(p.height)
}

// Width returns the width of the board in cells.
func (p *Puzzle) Width() int {
	return int(p.width)
}

// SetWidth sets the width of the board in cells.
func (p *Puzzle) SetWidth(w uint8) {
	p.width = w
}

// Height returns the height of the board in cells.
func (p *Puzzle) Height() int {
	return int(p.height)
}

// SetHeight sets the height of the board in cells.
func (p *Puzzle) SetHeight(h uint8) {
	p.height = h
}

// Version returns the version string from the header, e.g. "1.2".
func (p *Puzzle) Version() string {
	s := p.version[:]
	for i, b := range s {
		if b == 0 {
			s = s[:i]
			break
		}
	}
	return string(s)
}

// Solution returns the solution board in row-major order.  Callers must not
// modify the returned slice.
func (p *Puzzle) Solution() []byte {
	return p.solution
}

// SetSolution copies val in as the puzzle's solution board.
func (p *Puzzle) SetSolution(val []byte) {
	p.solution = append([]byte(nil), val...)
}

// Grid returns the player's board in row-major order.  Callers must not
// modify the returned slice.
func (p *Puzzle) Grid() []byte {
	return p.grid
}

// SetGrid copies val in as the player's board.
func (p *Puzzle) SetGrid(val []byte) {
	p.grid = append([]byte(nil), val...)
}

// Title returns the raw title bytes.
func (p *Puzzle) Title() []byte {
	return p.title
}

// SetTitle copies val in as the puzzle's title.
func (p *Puzzle) SetTitle(val []byte) {
	p.title = append([]byte(nil), val...)
}

// Author returns the raw author bytes.
func (p *Puzzle) Author() []byte {
	return p.author
}

// SetAuthor copies val in as the puzzle's author.
func (p *Puzzle) SetAuthor(val []byte) {
	p.author = append([]byte(nil), val...)
}

// Copyright returns the raw copyright bytes.
func (p *Puzzle) Copyright() []byte {
	return p.copyright
}

// SetCopyright copies val in as the puzzle's copyright line.
func (p *Puzzle) SetCopyright(val []byte) {
	p.copyright = append([]byte(nil), val...)
}

// Notes returns the raw notes bytes, which may be empty.
func (p *Puzzle) Notes() []byte {
	return p.notes
}

// SetNotes copies val in as the puzzle's notes.
func (p *Puzzle) SetNotes(val []byte) {
	p.notes = append([]byte(nil), val...)
}

// ClueCount returns the number of clues.
func (p *Puzzle) ClueCount() int {
	return int(p.clueCount)
}

// SetClueCount allocates storage for n clues.  It can only be used on a
// puzzle without clues; to change the count of an existing puzzle call
// ClearClues first.
func (p *Puzzle) SetClueCount(n int) error {
	if n < 0 {
		return fmt.Errorf("puz: negative clue count %d", n)
	}

	if p.clueCount != 0 {
		return fmt.Errorf("puz: clue count already set to %d", p.clueCount)
	}

	p.clues = make([][]byte, n)
	p.clueCount = uint16(n)
	return nil
}

// ClearClues releases all clues and resets the clue count to zero.
func (p *Puzzle) ClearClues() {
	p.clues = nil
	p.clueCount = 0
}

// Clue returns the raw bytes of the nth clue.  The ordering is the standard
// crossword numbering with across and down clues interleaved; the library
// treats it as opaque.
func (p *Puzzle) Clue(n int) ([]byte, error) {
	if n < 0 || n >= len(p.clues) {
		return nil, fmt.Errorf("puz: clue %d out of range [0,%d)", n, len(p.clues))
	}

	return p.clues[n], nil
}

// SetClue copies val in as the nth clue.
func (p *Puzzle) SetClue(n int, val []byte) error {
	if n < 0 || n >= len(p.clues) {
		return fmt.Errorf("puz: clue %d out of range [0,%d)", n, len(p.clues))
	}

	p.clues[n] = append([]byte(nil), val...)
	return nil
}

// HasRebus reports whether the puzzle carries a rebus overlay.
func (p *Puzzle) HasRebus() bool {
	return p.rebus != nil
}

// Rebus returns the rebus overlay: one byte per cell, zero for "no rebus",
// N greater than zero for "rebus table entry N-1".
func (p *Puzzle) Rebus() ([]byte, error) {
	if !p.HasRebus() {
		return nil, ErrNotPresent
	}

	return p.rebus, nil
}

// SetRebus copies the first Area() bytes of val in as the rebus overlay.
func (p *Puzzle) SetRebus(val []byte) {
	p.rebus = append([]byte(nil), val[:p.Area()]...)
}

// RebusCount returns the number of entries in the rebus table.
func (p *Puzzle) RebusCount() int {
	return len(p.rebusTable)
}

// SetRebusCount allocates storage for n rebus table entries, replacing any
// existing table.
func (p *Puzzle) SetRebusCount(n int) error {
	if n < 0 {
		return fmt.Errorf("puz: negative rebus count %d", n)
	}

	p.rebusTable = make([][]byte, n)
	return nil
}

// RebusEntry returns the nth rebus table entry as its on-disk "key:value"
// fragment.  The numbering is positional and unrelated to the numeric keys
// inside the entries.
func (p *Puzzle) RebusEntry(n int) ([]byte, error) {
	if n < 0 || n >= len(p.rebusTable) {
		return nil, fmt.Errorf("puz: rebus entry %d out of range [0,%d)", n, len(p.rebusTable))
	}

	return p.rebusTable[n], nil
}

// SetRebusEntry copies val in as the nth rebus table entry.
func (p *Puzzle) SetRebusEntry(n int, val []byte) error {
	if n < 0 || n >= len(p.rebusTable) {
		return fmt.Errorf("puz: rebus entry %d out of range [0,%d)", n, len(p.rebusTable))
	}

	p.rebusTable[n] = append([]byte(nil), val...)
	return nil
}

// RebusTableString renders the rebus table in its on-disk form: each entry
// followed by a semicolon, e.g. " 0:STAR; 1:MOON;".  Returns nil when the
// table is empty.
func (p *Puzzle) RebusTableString() []byte {
	if len(p.rebusTable) == 0 {
		return nil
	}

	var sz int
	for _, entry := range p.rebusTable {
		sz += len(entry) + 1
	}

	out := make([]byte, 0, sz)
	for _, entry := range p.rebusTable {
		out = append(out, entry...)
		out = append(out, ';')
	}

	return out
}

// SetRebusTableString replaces the rebus table by splitting the on-disk
// semicolon-delimited form into entries.
func (p *Puzzle) SetRebusTableString(val []byte) error {
	entries := strings.Split(string(val), ";")

	// A well-formed table ends with a semicolon, so the split leaves one
	// trailing empty element.
	if len(entries) > 0 && entries[len(entries)-1] == "" {
		entries = entries[:len(entries)-1]
	}

	for _, entry := range entries {
		if !strings.Contains(entry, ":") {
			return fmt.Errorf("puz: malformed rebus table entry %q", entry)
		}
	}

	p.rebusTable = make([][]byte, len(entries))
	for i, entry := range entries {
		p.rebusTable[i] = []byte(entry)
	}

	return nil
}

// ClearRebusTable releases the rebus table and its checksum.
func (p *Puzzle) ClearRebusTable() {
	p.rebusTable = nil
	p.rebusTableChecksum = 0
}

// HasTimer reports whether the puzzle carries timer state.
func (p *Puzzle) HasTimer() bool {
	return p.timer != nil
}

// Timer returns the elapsed seconds and whether the timer is stopped.  The
// on-disk form is "<elapsed>,<stopped>"; a malformed elapsed value reads as
// zero and a missing stopped field reads as stopped, matching the lenient
// behavior of other readers of the format.
func (p *Puzzle) Timer() (elapsed int, stopped bool, err error) {
	if !p.HasTimer() {
		return 0, false, ErrNotPresent
	}

	text := string(p.timer)
	comma := strings.IndexByte(text, ',')
	if comma == -1 {
		comma = len(text)
	}

	elapsed, convErr := strconv.Atoi(strings.TrimSpace(text[:comma]))
	if convErr != nil {
		elapsed = 0
	}

	if comma == len(text) {
		return elapsed, true, nil
	}

	flag, convErr := strconv.Atoi(strings.TrimSpace(text[comma+1:]))
	if convErr != nil {
		return elapsed, true, nil
	}

	return elapsed, flag != 0, nil
}

// SetTimer sets the puzzle's timer state.
func (p *Puzzle) SetTimer(elapsed int, stopped bool) {
	flag := 0
	if stopped {
		flag = 1
	}

	p.timer = []byte(strconv.Itoa(elapsed) + "," + strconv.Itoa(flag))
}

// HasExtras reports whether the puzzle carries the per-cell flags overlay.
func (p *Puzzle) HasExtras() bool {
	return p.extras != nil
}

// Extras returns the per-cell flag bytes (bit 7 marks a circled cell).
func (p *Puzzle) Extras() ([]byte, error) {
	if !p.HasExtras() {
		return nil, ErrNotPresent
	}

	return p.extras, nil
}

// SetExtras copies the first Area() bytes of val in as the flags overlay.
func (p *Puzzle) SetExtras(val []byte) {
	p.extras = append([]byte(nil), val[:p.Area()]...)
}

// HasUserRebus reports whether the puzzle carries user entered rebus values.
func (p *Puzzle) HasUserRebus() bool {
	return p.userRebus != nil
}

// UserRebus returns the per-cell user entered rebus values.  Cells without a
// value are nil.
func (p *Puzzle) UserRebus() ([][]byte, error) {
	if !p.HasUserRebus() {
		return nil, ErrNotPresent
	}

	return p.userRebus, nil
}

// SetUserRebus copies val in as the per-cell user rebus values.  val must
// have one (possibly nil) entry per cell; entries are clamped to the maximum
// rebus length.
func (p *Puzzle) SetUserRebus(val [][]byte) error {
	area := p.Area()
	if len(val) != area {
		return fmt.Errorf("puz: user rebus has %d cells, board has %d", len(val), area)
	}

	cells := make([][]byte, area)
	size := area
	for i, cell := range val {
		if cell == nil {
			continue
		}

		if len(cell) > maxUserRebusLen {
			cell = cell[:maxUserRebusLen]
		}

		cells[i] = append([]byte(nil), cell...)
		size += len(cells[i])
	}

	p.userRebus = cells
	p.userRebusLen = size
	return nil
}

// ClearUserRebus releases the user rebus values and their checksum.
func (p *Puzzle) ClearUserRebus() {
	p.userRebus = nil
	p.userRebusLen = 0
	p.userRebusChecksum = 0
}

// userRebusBytes reconstructs the on-disk byte layout of the user rebus
// cells: each cell's string followed by a NUL, an empty cell being a single
// NUL.  The outer section terminator isn't included.
func (p *Puzzle) userRebusBytes() []byte {
	out := make([]byte, 0, p.userRebusLen)
	for _, cell := range p.userRebus {
		out = append(out, cell...)
		out = append(out, 0)
	}

	return out
}

// Locked reports whether the solution is scrambled.
func (p *Puzzle) Locked() bool {
	return p.scrambledTag != 0
}

// LockedChecksum returns, for a locked puzzle, the checksum of the real
// solution's non-black letters in column-major order.
func (p *Puzzle) LockedChecksum() uint16 {
	return p.scrambledCksum
}

// SetLock marks the puzzle locked with the given solution checksum, or
// unlocked when cksum is zero.  It only updates the header metadata; it does
// not transform the solution.
func (p *Puzzle) SetLock(cksum uint16) {
	if cksum != 0 {
		p.scrambledTag = 4
		p.scrambledCksum = cksum
	} else {
		p.scrambledTag = 0
		p.scrambledCksum = 0
	}
}
