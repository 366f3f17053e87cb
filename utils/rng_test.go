package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSecureLaneIndexStaysInRange(t *testing.T) {
	for _, lanes := range []int{1, 3, 5, 7} {
		seen := make(map[int]bool)
		for i := 0; i < 500; i++ {
			idx := SecureLaneIndex(lanes)
			require.GreaterOrEqual(t, idx, 0)
			require.Less(t, idx, lanes)
			seen[idx] = true
		}
		if lanes > 1 {
			require.Greater(t, len(seen), 1, "%d lanes never varied", lanes)
		}
	}
}

func TestSecureLaneIndexClampsDegenerateCounts(t *testing.T) {
	require.Equal(t, 0, SecureLaneIndex(0))
	require.Equal(t, 0, SecureLaneIndex(-4))
}

func TestSecureBelow(t *testing.T) {
	require.Equal(t, int64(0), SecureBelow(0))
	require.Equal(t, int64(0), SecureBelow(1))
	for i := 0; i < 200; i++ {
		v := SecureBelow(100)
		require.GreaterOrEqual(t, v, int64(0))
		require.Less(t, v, int64(100))
	}
}
