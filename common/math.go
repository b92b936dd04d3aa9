package common

// Lerp interpolates between a and b by t, where t is a fixed-point fraction.
func Lerp(a, b, t Fixed) Fixed {
	return a + t.Mul(b-a)
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi Fixed) Fixed {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v Fixed) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// SinDeg approximates sin for an angle in degrees using Bhaskara's rational
// formula, which stays in fixed point. Error is below 0.002.
func SinDeg(deg Fixed) Fixed {
	full := FromInt(360)
	deg %= full
	if deg < 0 {
		deg += full
	}
	neg := false
	if deg > FromInt(180) {
		deg -= FromInt(180)
		neg = true
	}
	p := deg.Mul(FromInt(180) - deg)
	s := (4 * p).Div(FromInt(40500) - p)
	if neg {
		return -s
	}
	return s
}

// CosDeg is SinDeg shifted by a quarter turn.
func CosDeg(deg Fixed) Fixed {
	return SinDeg(deg + FromInt(90))
}
