package domain

import (
	"math"
	"strconv"
	"time"
)

// maxSafeInteger is the largest integer a float64 represents exactly.
// the tie-break counter counts down from here as time advances.
const maxSafeInteger = 1<<53 - 1

// EncodeScore folds the submission instant into a raw score, producing
// a single sortable key. Higher raw scores always order above lower
// ones; among equal raw scores an earlier submission never orders below
// a later one.
//
// The tie-break is derived from a countdown counter: it shrinks as time
// advances, and dividing it by one power of ten more than its digit
// count keeps it strictly inside (0, 0.5) so it never crosses an
// integer boundary and DisplayScore can round it away. The counter
// steps by 1e-17 per millisecond, so two submissions only get distinct
// keys once their gap exceeds the float64 spacing at the encoded
// magnitude: roughly 1.5 seconds at a score of 100, 6 seconds at 500,
// and a few hours at a million. Submissions closer than that share a
// key and their relative order is unspecified.
func EncodeScore(raw float64, at time.Time) float64 {
	counter := int64(maxSafeInteger) - at.UnixMilli()
	digits := len(strconv.FormatInt(counter, 10))
	frac := float64(counter) / math.Pow10(digits+1)

	return raw + frac
}

// DisplayScore strips the tie-break fraction from an encoded key,
// recovering the score a player actually achieved. Only valid for
// integral raw scores; fractional raw scores must be stored alongside
// the encoded key instead.
func DisplayScore(encoded float64) float64 {
	return math.Round(encoded)
}
