// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 converts a sample in [-1, 1] to 16-bit PCM, clamping
// anything outside that range.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return 32767
	case x <= -1:
		return -32768
	}

	return int16(x * 32767.0)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for decoded PCM data.
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}
