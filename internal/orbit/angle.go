package orbit

import "math"

const twoPi = 2 * math.Pi

// Wrap maps an angle in radians into [0, 2π).
func Wrap(angle float64) float64 {
	w := math.Mod(angle, twoPi)
	if w < 0 {
		w += twoPi
	}
	// -1e-17 + 2π rounds to 2π; Mod keeps the sign of a zero result.
	if w >= twoPi || w == 0 {
		return 0
	}
	return w
}

// Deg2Rad converts degrees to radians without wrapping.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Rad2Deg converts radians to degrees without wrapping.
func Rad2Deg(rad float64) float64 {
	return rad * 180 / math.Pi
}
