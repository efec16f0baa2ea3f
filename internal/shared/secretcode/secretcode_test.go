package secretcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_AlphabetOnly(t *testing.T) {
	for i := 0; i < 500; i++ {
		code, err := Generate(EntryCodeLength)
		assert.NoError(t, err)
		assert.Len(t, code, EntryCodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected character %q in %q", r, code)
		}
	}
}

func TestGenerate_NoAmbiguousGlyphs(t *testing.T) {
	for _, banned := range []string{"0", "O", "1", "I"} {
		assert.NotContains(t, Alphabet, banned)
	}
	assert.Len(t, Alphabet, 32)
}

func TestGenerate_PracticallyCollisionFree(t *testing.T) {
	seen := make(map[string]struct{}, 2000)
	for i := 0; i < 2000; i++ {
		code, err := Generate(CloseTokenLength)
		assert.NoError(t, err)
		_, dup := seen[code]
		assert.False(t, dup, "collision on %q after %d draws", code, i)
		seen[code] = struct{}{}
	}
}

func TestGenerate_RejectsNonPositiveLength(t *testing.T) {
	_, err := Generate(0)
	assert.Error(t, err)
	_, err = Generate(-3)
	assert.Error(t, err)
}

func TestHash_DeterministicLowerHex(t *testing.T) {
	code, err := Generate(EntryCodeLength)
	assert.NoError(t, err)

	first := Hash(code)
	assert.Equal(t, first, Hash(code))
	assert.Len(t, first, 64)
	assert.Equal(t, strings.ToLower(first), first)
}

func TestHash_DistinctInputsDistinctDigests(t *testing.T) {
	assert.NotEqual(t, Hash("ABC234"), Hash("ABC235"))
	// Known vector keeps the algorithm honest.
	assert.Equal(t,
		"ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		Hash("abc"),
	)
}
