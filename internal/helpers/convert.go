// Package helpers provides numeric clamping for conversions that may
// lose range, such as framing a message length into a 16-bit prefix.
package helpers

import "math"

// clampInt restricts v to the range [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// ClampInt restricts v to the range [lowerLimit, upperLimit].
func ClampInt(v, lowerLimit, upperLimit int) int {
	return clampInt(v, lowerLimit, upperLimit)
}

// ClampIntToUint16 converts v to uint16 with clamping.
// Values below 0 become 0; values above math.MaxUint16 become math.MaxUint16.
func ClampIntToUint16(v int) uint16 {
	clamped := clampInt(v, 0, math.MaxUint16)
	return uint16(clamped) //nolint:gosec // clamped to valid range
}

// ClampIntToUint32 converts v to uint32 with clamping.
// Values below 0 become 0; values above math.MaxUint32 become math.MaxUint32.
func ClampIntToUint32(v int) uint32 {
	clamped := clampInt(v, 0, math.MaxUint32)
	return uint32(clamped) //nolint:gosec // clamped to valid range
}

// ClampInt64ToInt64NonNegative floors v at zero.
func ClampInt64ToInt64NonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
