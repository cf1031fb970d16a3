// Package simhash fingerprints page text so a discovery run can skip
// near-duplicate pages. Directory sites often serve the same profile
// under several URLs; the fingerprint catches those without storing
// whole pages.
package simhash

import (
	"hash/fnv"
	"math/bits"
	"strings"
)

// Fingerprint computes a 64-bit SimHash of the given text.
// Uses FNV-64a hash on word-level tokens with bit vector accumulation.
func Fingerprint(text string) uint64 {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 0
	}

	var vector [64]int

	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		for i := 0; i < 64; i++ {
			if hash&(1<<uint(i)) != 0 {
				vector[i]++
			} else {
				vector[i]--
			}
		}
	}

	var fingerprint uint64
	for i := 0; i < 64; i++ {
		if vector[i] > 0 {
			fingerprint |= 1 << uint(i)
		}
	}

	return fingerprint
}

// Distance returns the Hamming distance between two SimHash fingerprints.
func Distance(a, b uint64) int {
	return bits.OnesCount64(a ^ b)
}

// Similar returns true if the Hamming distance between two fingerprints
// is less than or equal to the threshold.
func Similar(a, b uint64, threshold int) bool {
	return Distance(a, b) <= threshold
}

// Index tracks the fingerprints seen during a single discovery run.
// Not safe for concurrent use; callers hold their own lock.
type Index struct {
	threshold int
	seen      []uint64
}

// NewIndex creates an Index that treats fingerprints within threshold
// bits of a seen one as duplicates.
func NewIndex(threshold int) *Index {
	return &Index{threshold: threshold}
}

// SeenSimilar reports whether fp is within threshold of a previously
// added fingerprint, and records fp either way. A zero fingerprint
// (empty text) is never treated as a duplicate.
func (ix *Index) SeenSimilar(fp uint64) bool {
	if fp == 0 {
		return false
	}
	for _, prev := range ix.seen {
		if Similar(fp, prev, ix.threshold) {
			return true
		}
	}
	ix.seen = append(ix.seen, fp)
	return false
}
