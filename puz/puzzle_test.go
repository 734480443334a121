package puz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPuzzle_Defaults(t *testing.T) {
	p := NewPuzzle()

	assert.Equal(t, "1.2", p.Version())
	assert.Equal(t, [12]byte{'A', 'C', 'R', 'O', 'S', 'S', '&', 'D', 'O', 'W', 'N', 0}, p.signature)
	assert.Equal(t, uint16(0x0001), p.bitmask)
	assert.Equal(t, 0, p.Area())
	assert.False(t, p.Locked())
}

func TestPuzzle_SettersCopyTheirInput(t *testing.T) {
	p := NewPuzzle()

	val := []byte("ABC")
	p.SetTitle(val)
	val[0] = 'X'

	assert.Equal(t, []byte("ABC"), p.Title())
}

func TestPuzzle_ClueCountLifecycle(t *testing.T) {
	p := NewPuzzle()

	require.NoError(t, p.SetClueCount(2))
	assert.Error(t, p.SetClueCount(3), "count can only be set on a puzzle without clues")

	require.NoError(t, p.SetClue(0, []byte("first")))
	require.NoError(t, p.SetClue(1, []byte("second")))
	assert.Error(t, p.SetClue(2, []byte("third")))

	clue, err := p.Clue(1)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), clue)

	p.ClearClues()
	assert.Equal(t, 0, p.ClueCount())
	require.NoError(t, p.SetClueCount(3))
}

func TestPuzzle_RebusTableString(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		entries  []string
		rendered string
	}{
		{
			name:     "single entry",
			text:     " 0:STAR;",
			entries:  []string{" 0:STAR"},
			rendered: " 0:STAR;",
		},
		{
			name:     "multiple entries",
			text:     " 0:STAR; 1:MOON;23:SUN;",
			entries:  []string{" 0:STAR", " 1:MOON", "23:SUN"},
			rendered: " 0:STAR; 1:MOON;23:SUN;",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewPuzzle()
			require.NoError(t, p.SetRebusTableString([]byte(test.text)))

			require.Equal(t, len(test.entries), p.RebusCount())
			for i, expected := range test.entries {
				entry, err := p.RebusEntry(i)
				require.NoError(t, err)
				assert.Equal(t, []byte(expected), entry)
			}

			assert.Equal(t, []byte(test.rendered), p.RebusTableString())
		})
	}
}

func TestPuzzle_SetRebusTableStringRejectsGarbage(t *testing.T) {
	p := NewPuzzle()
	assert.Error(t, p.SetRebusTableString([]byte("no separator;")))
}

func TestPuzzle_RebusEntryBounds(t *testing.T) {
	p := NewPuzzle()
	require.NoError(t, p.SetRebusCount(1))

	// Entry indices are bounded by the table size, nothing else.
	assert.NoError(t, p.SetRebusEntry(0, []byte(" 0:HEART")))
	assert.Error(t, p.SetRebusEntry(1, []byte(" 1:SPADE")))

	_, err := p.RebusEntry(5)
	assert.Error(t, err)
}

func TestPuzzle_Timer(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		elapsed int
		stopped bool
	}{
		{
			name:    "running",
			text:    "95,0",
			elapsed: 95,
			stopped: false,
		},
		{
			name:    "stopped",
			text:    "1234,1",
			elapsed: 1234,
			stopped: true,
		},
		{
			name:    "zero elapsed",
			text:    "0,1",
			elapsed: 0,
			stopped: true,
		},
		{
			name:    "missing stopped field reads as stopped",
			text:    "60",
			elapsed: 60,
			stopped: true,
		},
		{
			name:    "garbage elapsed reads as zero",
			text:    "abc,0",
			elapsed: 0,
			stopped: false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := NewPuzzle()
			p.timer = []byte(test.text)

			elapsed, stopped, err := p.Timer()
			require.NoError(t, err)
			assert.Equal(t, test.elapsed, elapsed)
			assert.Equal(t, test.stopped, stopped)
		})
	}
}

func TestPuzzle_TimerAbsent(t *testing.T) {
	p := NewPuzzle()

	_, _, err := p.Timer()
	assert.Equal(t, ErrNotPresent, err)
}

func TestPuzzle_SetTimerFormatsText(t *testing.T) {
	p := NewPuzzle()

	p.SetTimer(0, false)
	assert.Equal(t, []byte("0,0"), p.timer)

	p.SetTimer(3599, true)
	assert.Equal(t, []byte("3599,1"), p.timer)
}

func TestPuzzle_UserRebus(t *testing.T) {
	p := NewPuzzle()
	p.SetWidth(2)
	p.SetHeight(2)

	cells := [][]byte{nil, []byte("HEART"), nil, []byte("CLUB")}
	require.NoError(t, p.SetUserRebus(cells))

	assert.True(t, p.HasUserRebus())
	assert.Equal(t, 4+len("HEART")+len("CLUB"), p.userRebusLen)
	assert.Equal(t, []byte("\x00HEART\x00\x00CLUB\x00"), p.userRebusBytes())

	p.ClearUserRebus()
	assert.False(t, p.HasUserRebus())

	assert.Error(t, p.SetUserRebus([][]byte{nil}), "cell count must match the board")
}

func TestPuzzle_Lock(t *testing.T) {
	p := NewPuzzle()

	p.SetLock(0xBEEF)
	assert.True(t, p.Locked())
	assert.Equal(t, uint16(0xBEEF), p.LockedChecksum())
	assert.Equal(t, uint16(4), p.scrambledTag)

	p.SetLock(0)
	assert.False(t, p.Locked())
	assert.Equal(t, uint16(0), p.LockedChecksum())
}
