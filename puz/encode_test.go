package puz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPuzzle_SizeMatchesEncoding(t *testing.T) {
	tests := []struct {
		name  string
		build func(t *testing.T) *Puzzle
	}{
		{
			name: "bare puzzle",
			build: func(t *testing.T) *Puzzle {
				return testPuzzle(t)
			},
		},
		{
			name: "all extension sections",
			build: func(t *testing.T) *Puzzle {
				return testPuzzleWithExtensions(t)
			},
		},
		{
			name: "1x1 single cell",
			build: func(t *testing.T) *Puzzle {
				p := NewPuzzle()
				p.SetWidth(1)
				p.SetHeight(1)
				p.SetSolution([]byte("A"))
				p.SetGrid([]byte("-"))
				require.NoError(t, p.SetClueCount(1))
				require.NoError(t, p.SetClue(0, []byte("Article")))
				return p
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := test.build(t)
			p.Commit()

			bs, err := p.EncodeBinary()
			require.NoError(t, err)
			assert.Equal(t, p.Size(), len(bs))
		})
	}
}

func TestPuzzle_EncodeDecodeRoundTrip(t *testing.T) {
	p := testPuzzleWithExtensions(t)
	p.Commit()

	bs, err := p.EncodeBinary()
	require.NoError(t, err)

	decoded, err := ParseBinary(bs)
	require.NoError(t, err)

	assert.Equal(t, p, decoded)
	assert.Equal(t, 0, decoded.Verify())
}

func TestPuzzle_DecodeEncodeReproducesBytes(t *testing.T) {
	p := testPuzzleWithExtensions(t)
	p.Commit()

	bs, err := p.EncodeBinary()
	require.NoError(t, err)

	decoded, err := ParseBinary(bs)
	require.NoError(t, err)

	out, err := decoded.EncodeBinary()
	require.NoError(t, err)
	assert.Equal(t, bs, out)
}

func TestPuzzle_EncodeRejectsMismatchedBoards(t *testing.T) {
	p := testPuzzle(t)
	p.SetGrid([]byte("---"))

	_, err := p.EncodeBinary()
	assert.Error(t, err)
}

// testPuzzleWithExtensions decorates the shared test puzzle with every
// extension section the container supports.
func testPuzzleWithExtensions(t *testing.T) *Puzzle {
	t.Helper()

	p := testPuzzle(t)
	p.SetNotes([]byte("Cells two across and two down share their letters."))

	overlay := make([]byte, p.Area())
	overlay[0] = 1
	p.SetRebus(overlay)
	require.NoError(t, p.SetRebusTableString([]byte(" 0:HELLO;")))

	flags := make([]byte, p.Area())
	flags[3] = Circled
	p.SetExtras(flags)

	p.SetTimer(95, true)

	cells := make([][]byte, p.Area())
	cells[0] = []byte("HELLO")
	require.NoError(t, p.SetUserRebus(cells))

	return p
}
