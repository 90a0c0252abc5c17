package rng

import (
	"crypto/rand"
	"math/big"
)

// Crypto is the Generator used for real deals
// It is safe for concurrent use.
type Crypto struct{}

var _ Generator = Crypto{}

// Intn returns a random number from 0 <= x < n
// It panics if n <= 0 or if the system's entropy source fails.
func (c Crypto) Intn(n int) int {
	b, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(err)
	}

	return int(b.Int64())
}
