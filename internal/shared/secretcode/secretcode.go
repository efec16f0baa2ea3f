// Package secretcode issues the short secrets that gate a roll-call session:
// the entry code students type to check in and the close token that
// authorizes ending the session. Only SHA-256 digests are ever persisted;
// the plaintext is shown to the professor once and then discarded.
package secretcode

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Alphabet drops visually ambiguous glyphs (0/O, 1/I) so codes survive being
// read off a projector or dictated out loud.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	EntryCodeLength  = 6
	CloseTokenLength = 8
)

// Generate draws length characters from Alphabet using crypto/rand.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("secretcode: invalid length %d", length)
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("secretcode: read entropy: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		// len(Alphabet) is 32, so masking the low 5 bits keeps the draw uniform.
		out[i] = Alphabet[int(b)&31]
	}
	return string(out), nil
}

// Hash returns the lower-case hex SHA-256 digest of code. Deterministic, so a
// later-submitted code can be verified by digest comparison.
func Hash(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
