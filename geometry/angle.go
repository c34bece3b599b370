package geometry

import "math"

// StandardizeRadians normalizes an angle into the range (-pi, pi] by
// calculating theta mod 2*pi and shifting into range. Residuals and
// initialization values must pass heading differences through this to avoid
// wraparound discontinuities.
func StandardizeRadians(theta float64) float64 {
	t := math.Mod(theta, 2*math.Pi)
	if t <= -math.Pi {
		t += 2 * math.Pi
	} else if t > math.Pi {
		t -= 2 * math.Pi
	}
	return t
}

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}
