package ttable

import "github.com/rchauvaud/md2collide/md2"

// Walk completes a prefilled State forward for one trial byte string b,
// writing it into the free columns of row `rows` (mirrored into T2 and T3),
// then filling rows rows+1..18. It returns the fingerprint: the column-0
// "t" values of rows rows+2..18, (17-rows) bytes long.
//
// Walk takes State by value: the caller's prefilled table is never mutated,
// so the same prefilled State can be handed to many goroutines without
// synchronization.
func Walk(s State, k int, b []byte) []byte {
	rows := Rows(k)
	writeTrial(&s, rows, k, b)

	for row := rows + 1; row <= 17; row++ {
		for col := 1; col <= 48; col++ {
			s[row][col] = md2.SBOX[s[row][col-1]] ^ s[row-1][col]
		}
		s[row+1][0] = s[row][48] + byte(row-1)
	}

	fingerprint := make([]byte, 17-rows)
	for i := range fingerprint {
		fingerprint[i] = s[rows+2+i][0]
	}
	return fingerprint
}

// Recover reconstructs the original 16-byte message for a trial byte string
// b by writing it into row `rows` and walking the table upward. It is the
// inverse of the constraints Prefill and Walk establish, not of Walk's
// downward fill: the upward walk only ever needs the prefilled rows, not the
// forward-filled rows+1..18 that Walk produces.
func Recover(s State, k int, b []byte) []byte {
	rows := Rows(k)
	writeTrial(&s, rows, k, b)

	for row := rows; row >= 1; row-- {
		for col := 17; col <= 32-row+1; col++ {
			s[row-1][col] = md2.SBOX[s[row][col-1]] ^ s[row][col]
		}
	}

	msg := make([]byte, 16)
	copy(msg, s[0][17:33])
	return msg
}

// writeTrial writes the k free bytes of a trial into row `rows`, mirrored
// into the same columns of T2 and T3, matching the equality constraint the
// rest of the table is built to satisfy.
func writeTrial(s *State, rows, k int, b []byte) {
	copy(s[rows][17:17+k], b)
	copy(s[rows][33:33+k], b)
}
