package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	generated, err := Generate()
	require.NoError(t, err)
	require.Len(t, generated, GeneratedLength)
	for _, r := range generated {
		require.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerateDistinctAcrossCalls(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 16; i++ {
		generated, err := Generate()
		require.NoError(t, err)
		_, dup := seen[generated]
		require.False(t, dup, "generated password repeated")
		seen[generated] = struct{}{}
	}
}

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse", hash)
	require.True(t, Verify(hash, "correct horse"))
	require.False(t, Verify(hash, "wrong horse"))
}
