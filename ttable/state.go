package ttable

import (
	"fmt"

	"github.com/grailbio/base/errors"
	"github.com/rchauvaud/md2collide/md2"
)

// Rows and columns of the T-table: column 0 carries the per-row "t" value,
// columns 1-16 are T1, 17-32 are T2, 33-48 are T3.
const (
	NumRows = 19
	NumCols = 49

	MinK = 1
	MaxK = 14
)

// State is the 19x49 "T-table" working matrix. It is small and fixed-size by
// design: workers clone it by value (plain struct copy, no heap jaggedness)
// so a shard's private copy costs one array-sized memcpy, not an allocation.
type State [NumRows][NumCols]byte

// Rows returns the number of prefilled rows (16-k) for a given free-byte
// count k.
func Rows(k int) int {
	return 16 - k
}

// Prefill builds the rows of State that don't depend on the free trial
// bytes: rows 1..=rows of T1, plus the equality-constrained T2/T3 triangles
// that follow from it. Only row `rows`'s free-byte columns (17..17+k and
// 33..33+k) are left unconstrained; the candidate walker fills those in per
// trial.
func Prefill(k int) (State, error) {
	if k < MinK || k > MaxK {
		return State{}, errors.E(errors.Invalid, fmt.Sprintf("ttable: k must be in [%d, %d], got %d", MinK, MaxK, k))
	}

	rows := Rows(k)
	var s State

	// Phase A: forward-fill T1 and mirror its last byte into T2/T3 for each
	// constrained row, carrying the row's t-value into the next row.
	for row := 1; row <= rows; row++ {
		for col := 1; col <= 16; col++ {
			s[row][col] = md2.SBOX[s[row][col-1]] ^ s[row-1][col]
		}
		s[row][32] = s[row][16]
		s[row][48] = s[row][16]
		s[row+1][0] = s[row][48] + byte(row-1)
	}

	// Phase B: backfill the T2/T3 triangles implied by the equality
	// constraint, using the inverse S-box to run the forward recurrence in
	// reverse.
	for col := 0; col < rows; col++ {
		for row := rows; row >= 2+col; row-- {
			xor2 := s[row][32-col] ^ s[row-1][32-col]
			s[row][32-col-1] = md2.SBOXI[xor2]

			xor3 := s[row][48-col] ^ s[row-1][48-col]
			s[row][48-col-1] = md2.SBOXI[xor3]
		}
	}

	return s, nil
}
