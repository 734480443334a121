package puz

import (
	"golang.org/x/text/encoding/charmap"
)

// The container's strings are ISO-8859-1 in the original documentation, but
// files in the wild use characters (curly quotes and the like) that only
// exist in Windows-1252, a superset.  Decoding with the latter handles both.
func decodeText(bs []byte) string {
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(bs)
	if err != nil {
		// Windows-1252 maps every byte, so this can't happen; fall back to
		// the raw bytes anyway rather than dropping text.
		return string(bs)
	}

	return string(decoded)
}

// DecodedTitle returns the title decoded from its on-disk Windows-1252
// encoding to UTF-8.
func (p *Puzzle) DecodedTitle() string {
	return decodeText(p.title)
}

// DecodedAuthor returns the author decoded to UTF-8.
func (p *Puzzle) DecodedAuthor() string {
	return decodeText(p.author)
}

// DecodedCopyright returns the copyright line decoded to UTF-8.
func (p *Puzzle) DecodedCopyright() string {
	return decodeText(p.copyright)
}

// DecodedNotes returns the notes decoded to UTF-8.
func (p *Puzzle) DecodedNotes() string {
	return decodeText(p.notes)
}

// DecodedClue returns the nth clue decoded to UTF-8.
func (p *Puzzle) DecodedClue(n int) (string, error) {
	clue, err := p.Clue(n)
	if err != nil {
		return "", err
	}

	return decodeText(clue), nil
}
