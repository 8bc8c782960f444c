package random

import (
	"crypto/rand"
	"math/big"

	"github.com/mkarvonen/prepdeck/internal/errors"
)

var alphabet = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")

// Letters returns a cryptographically random string of n ASCII letters.
func Letters(n uint) (string, error) {
	letters := make([]rune, n)
	for i := range letters {
		index, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", errors.Wrap(err, "read random int")
		}
		letters[i] = alphabet[index.Int64()]
	}
	return string(letters), nil
}
