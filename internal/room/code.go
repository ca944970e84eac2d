package room

import (
	"crypto/rand"
	"math/big"
)

// Room codes are short enough to read out loud, so the alphabet drops the
// characters people misread: O/0 and I/1.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 6

// randCode returns a fresh n-character room code. crypto/rand so a party
// holding one code cannot predict another.
func randCode(n int) string {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken,
			// at which point serving games is the least of our problems.
			panic(err)
		}
		b[i] = codeAlphabet[idx.Int64()]
	}
	return string(b)
}
