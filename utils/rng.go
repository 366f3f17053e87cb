package utils

import (
	"crypto/rand"
	"log"
	"math/big"
)

// SecureLaneIndex picks a uniform lane index in [0, laneCount-1] from the
// OS CSPRNG. Hazard placement must not be predictable, so math/rand is off
// limits here. laneCount is clamped to at least 1.
func SecureLaneIndex(laneCount int) int {
	if laneCount < 1 {
		laneCount = 1
	}
	return int(SecureBelow(int64(laneCount)))
}

// SecureBelow returns a uniform value in [0, n-1] from crypto/rand. A failed
// draw falls back to 0 rather than aborting the caller.
func SecureBelow(n int64) int64 {
	if n < 1 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		log.Printf("secure random draw failed: %v", err)
		return 0
	}
	return v.Int64()
}
