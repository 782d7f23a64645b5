package random

import (
	"crypto/rand"
	"math/big"
)

// Random generates identifiers; mockable so tests get stable IDs
type Random interface {
	// String draws length characters uniformly from alphabet
	String(length int, alphabet string) string
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

func New() *CryptoRandom {
	return &CryptoRandom{}
}

// String generates a random string of the given length from the alphabet
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || len(alphabet) == 0 {
		return ""
	}
	out := make([]byte, length)
	for i := range out {
		out[i] = alphabet[intn(len(alphabet))]
	}
	return string(out)
}

// intn returns a uniform int in [0, n). crypto/rand only fails if the
// platform's entropy source is broken; 0 is returned in that case rather
// than propagating an error through every ID generation site.
func intn(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}
