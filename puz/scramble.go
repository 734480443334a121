package puz

// The solution scrambling scheme used by locked puzzles.  The transform
// operates on the "formatted" solution: the non-black letters taken in
// column-major order.  A key is four decimal digits, none of them zero.
// Each round interleaves the two halves of the letters, rotates them by one
// key digit, and Caesar-shifts each letter by the key digit at its position
// modulo four; locking runs four rounds forward and unlocking runs them in
// reverse.

// keyDigits splits a four digit code into its digits and reports whether the
// code is usable: inside [1111, 9999] with no zero digit.
func keyDigits(code int) ([4]int, bool) {
	var digits [4]int
	if code < 1111 || code > 9999 {
		return digits, false
	}

	digits[0] = (code / 1000) % 10
	digits[1] = (code / 100) % 10
	digits[2] = (code / 10) % 10
	digits[3] = code % 10

	for _, d := range digits {
		if d == 0 {
			return digits, false
		}
	}

	return digits, true
}

func maxDigit(digits [4]int) int {
	max := digits[0]
	for _, d := range digits[1:] {
		if d > max {
			max = d
		}
	}
	return max
}

// formattedSolution returns the non-black solution letters in column-major
// order: column 0 top to bottom, then column 1, and so on.
func (p *Puzzle) formattedSolution() []byte {
	w, h := int(p.width), int(p.height)

	out := make([]byte, 0, len(p.solution))
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			if b := p.solution[row*w+col]; b != Black {
				out = append(out, b)
			}
		}
	}

	return out
}

// restoreSolution writes letters back into the non-black cells of the
// solution in the same column-major order formattedSolution reads them.
func (p *Puzzle) restoreSolution(letters []byte) {
	w, h := int(p.width), int(p.height)

	n := 0
	for col := 0; col < w; col++ {
		for row := 0; row < h; row++ {
			if p.solution[row*w+col] != Black {
				p.solution[row*w+col] = letters[n]
				n++
			}
		}
	}
}

// unscrambleInterleave undoes the half-interleaving of the letters: source
// index k lands at len/2 + k/2 when k is even and at k/2 when k is odd.
func unscrambleInterleave(in []byte) []byte {
	half := len(in) / 2

	out := make([]byte, len(in))
	for k, b := range in {
		if k%2 == 0 {
			out[half+k/2] = b
		} else {
			out[k/2] = b
		}
	}

	return out
}

// scrambleInterleave is the inverse of unscrambleInterleave.
func scrambleInterleave(in []byte) []byte {
	half := len(in) / 2

	out := make([]byte, len(in))
	for k := range in {
		if k%2 == 0 {
			out[k] = in[half+k/2]
		} else {
			out[k] = in[k/2]
		}
	}

	return out
}

// unshift undoes a left rotation by s: the last s bytes come back to the
// front.
func unshift(in []byte, s int) []byte {
	n := len(in)

	out := make([]byte, n)
	copy(out[s:], in[:n-s])
	copy(out[:s], in[n-s:])

	return out
}

// shift rotates the letters left by s: the first s bytes move to the tail.
func shift(in []byte, s int) []byte {
	n := len(in)

	out := make([]byte, n)
	copy(out, in[s:])
	copy(out[n-s:], in[:s])

	return out
}

// Unscramble attempts to unlock the solution with a four digit code.  On
// success the unscrambled letters replace the solution and the lock is
// cleared.  ErrBadKey is returned for codes with a zero digit, ErrWrongKey
// when the code produces letters that don't match the stored checksum.
func (p *Puzzle) Unscramble(code int) error {
	if !p.Locked() {
		return ErrNotScrambled
	}

	digits, ok := keyDigits(code)
	if !ok {
		return ErrBadKey
	}

	work := p.formattedSolution()
	if len(work) < maxDigit(digits) {
		// The rotation step needs at least one key digit of letters.
		return ErrWrongKey
	}

	for i := 3; i >= 0; i-- {
		work = unshift(unscrambleInterleave(work), digits[i])

		for j := range work {
			work[j] -= byte(digits[j%4])
			if work[j] < 'A' {
				work[j] += 26
			}
		}
	}

	if uint16(Checksum(0).Write(work)) != p.scrambledCksum {
		return ErrWrongKey
	}

	p.restoreSolution(work)
	p.SetLock(0)
	return nil
}

// Scramble locks the solution with a four digit code, storing the checksum
// of the real letters so Unscramble can verify the code later.
func (p *Puzzle) Scramble(code int) error {
	if p.Locked() {
		return ErrScrambled
	}

	digits, ok := keyDigits(code)
	if !ok {
		return ErrBadKey
	}

	work := p.formattedSolution()
	if len(work) < maxDigit(digits) {
		return ErrBadKey
	}

	cksum := uint16(Checksum(0).Write(work))

	for i := 0; i < 4; i++ {
		for j := range work {
			work[j] += byte(digits[j%4])
			if work[j] > 'Z' {
				work[j] -= 26
			}
		}

		work = scrambleInterleave(shift(work, digits[i]))
	}

	p.restoreSolution(work)
	p.SetLock(cksum)
	return nil
}

// BruteForceUnlock recovers the key of a locked puzzle by trying every four
// digit code in ascending order.  It returns the code that unlocked the
// puzzle, or ErrKeyNotFound when none verifies.
func (p *Puzzle) BruteForceUnlock() (int, error) {
	if !p.Locked() {
		return 0, ErrNotScrambled
	}

	for code := 1111; code <= 9999; code++ {
		switch err := p.Unscramble(code); err {
		case nil:
			return code, nil
		case ErrBadKey, ErrWrongKey:
			// keep looking
		default:
			return 0, err
		}
	}

	return 0, ErrKeyNotFound
}
