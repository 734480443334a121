package puz

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// The marker lines of the text authoring format, in the order a file must
// present them.  Lines between two markers belong to the section the first
// marker opened.
var textMarkers = []string{
	"<ACROSS PUZZLE>",
	"<TITLE>",
	"<AUTHOR>",
	"<COPYRIGHT>",
	"<SIZE>",
	"<GRID>",
	"<ACROSS>",
	"<DOWN>",
}

// Section indices, matching textMarkers.
const (
	sectionFile = iota
	sectionTitle
	sectionAuthor
	sectionCopyright
	sectionSize
	sectionGrid
	sectionAcross
	sectionDown
)

// ParseText loads a puzzle from the line-oriented authoring format.  The
// player's grid is derived from the solution by blanking every non-black
// cell, and the across and down clue lines are stored as one clue list in
// file order, across lines first and then down lines.  Checksums are
// computed and committed before returning.
func ParseText(data []byte) (*Puzzle, error) {
	if len(data) == 0 || data[0] != '<' {
		return nil, fmt.Errorf("%w: text file must start with a marker line", ErrFormat)
	}

	p := NewPuzzle()

	// Clue lines accumulate across the <ACROSS> to <DOWN> transition, so
	// that the final flush sees the across and down lines together.
	var acc []string
	seen := 0

	flush := func(section int) error {
		text := strings.Join(acc, "")

		switch section {
		case sectionFile:
			// Nothing precedes <TITLE>.

		case sectionTitle:
			p.SetTitle([]byte(text))

		case sectionAuthor:
			p.SetAuthor([]byte(text))

		case sectionCopyright:
			p.SetCopyright([]byte(text))

		case sectionSize:
			sep := strings.IndexByte(text, 'x')
			if sep == -1 {
				return fmt.Errorf("%w: bad size line %q", ErrFormat, text)
			}

			w, werr := strconv.Atoi(strings.TrimSpace(text[:sep]))
			h, herr := strconv.Atoi(strings.TrimSpace(text[sep+1:]))
			if werr != nil || herr != nil || w < 1 || w > 255 || h < 1 || h > 255 {
				return fmt.Errorf("%w: bad size line %q", ErrFormat, text)
			}

			p.SetWidth(uint8(w))
			p.SetHeight(uint8(h))

		case sectionGrid:
			soln := []byte(text)
			if len(soln) != p.Area() {
				return fmt.Errorf("%w: grid has %d cells, size says %d", ErrFormat, len(soln), p.Area())
			}

			grid := make([]byte, len(soln))
			for i, b := range soln {
				if b == Black {
					grid[i] = Black
				} else {
					grid[i] = Empty
				}
			}

			p.SetSolution(soln)
			p.SetGrid(grid)

		case sectionAcross:
			// Keep accumulating; the down clues follow in the same list.
			return nil

		case sectionDown:
			p.ClearClues()
			if err := p.SetClueCount(len(acc)); err != nil {
				return err
			}
			for i, clue := range acc {
				if err := p.SetClue(i, []byte(clue)); err != nil {
					return err
				}
			}
		}

		acc = acc[:0]
		return nil
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, "<") {
			if seen >= len(textMarkers) || line != textMarkers[seen] {
				want := "nothing"
				if seen < len(textMarkers) {
					want = textMarkers[seen]
				}
				return nil, fmt.Errorf("%w: marker %q where %s was expected", ErrFormat, line, want)
			}

			if seen > 0 {
				if err := flush(seen - 1); err != nil {
					return nil, err
				}
			}

			seen++
			continue
		}

		if line == "" {
			continue
		}

		if seen == 0 {
			return nil, fmt.Errorf("%w: content before the file marker", ErrFormat)
		}

		acc = append(acc, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if seen != len(textMarkers) {
		return nil, fmt.Errorf("%w: file ends inside section %q", ErrFormat, textMarkers[seen-1])
	}

	if err := flush(sectionDown); err != nil {
		return nil, err
	}

	p.Commit()
	return p, nil
}
