// Package position converts between the two disk rotation scales used by the
// traces: MAME's fixed angular scale and vsim's bit offset within a track.
package position

const (
	// AngularScale is one full revolution on MAME's position scale.
	AngularScale = 200_000_000

	// DefaultTrackBits is the bit length of a typical 3.5" GCR track.
	DefaultTrackBits = 75215
)

// AngularToBits converts an angular position to a bit offset in a track of
// trackBits bits. Non-positive trackBits yields 0.
func AngularToBits(angular, trackBits int) int {
	if trackBits <= 0 {
		return 0
	}
	return int(int64(angular) * int64(trackBits) / AngularScale)
}

// BitsToAngular converts a bit offset to the angular scale.
// Non-positive trackBits yields 0.
func BitsToAngular(bits, trackBits int) int {
	if trackBits <= 0 {
		return 0
	}
	return int(int64(bits) * AngularScale / int64(trackBits))
}

// AngularDegrees returns an angular position in degrees.
func AngularDegrees(angular int) float64 {
	return float64(angular) / AngularScale * 360
}

// BitDegrees returns a bit offset in degrees. Non-positive trackBits yields 0.
func BitDegrees(bits, trackBits int) float64 {
	if trackBits <= 0 {
		return 0
	}
	return float64(bits) / float64(trackBits) * 360
}

// AngularDifference returns the minimal separation, in degrees, between an
// angular position and a bit offset. The result is in [0, 180].
func AngularDifference(angular, bits, trackBits int) float64 {
	return separation(AngularDegrees(angular), BitDegrees(bits, trackBits))
}

// Normalize returns the angular position as bits, the bit position unchanged
// and their angular separation.
func Normalize(angular, bits, trackBits int) (angularBits, bitPos int, degrees float64) {
	return AngularToBits(angular, trackBits), bits, AngularDifference(angular, bits, trackBits)
}

func separation(a, b float64) float64 {
	d := a - b
	if d < 0 {
		d = -d
	}
	// positions beyond one revolution still land on the circle
	for d > 360 {
		d -= 360
	}
	if d > 180 {
		d = 360 - d
	}
	return d
}
