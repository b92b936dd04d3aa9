package common

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FracBits is the number of fractional bits in a Fixed value.
const FracBits = 16

// Fixed is a signed Q47.16 fixed-point number. All simulation arithmetic goes
// through this type so results never depend on floating point rounding.
type Fixed int64

const (
	// One is the fixed-point representation of 1.
	One  Fixed = 1 << FracBits
	half Fixed = One >> 1
)

// FromInt converts an integer to fixed point.
func FromInt(n int) Fixed {
	return Fixed(int64(n) << FracBits)
}

// FromRatio returns num/den, rounded to the nearest representable value.
func FromRatio(num, den int) Fixed {
	if den == 0 {
		return 0
	}
	return FromInt(num).Div(FromInt(den))
}

// Mul multiplies two fixed values, rounding half away from zero.
func (f Fixed) Mul(g Fixed) Fixed {
	p := int64(f) * int64(g)
	if p < 0 {
		return -Fixed((-p + int64(half)) >> FracBits)
	}
	return Fixed((p + int64(half)) >> FracBits)
}

// Div divides f by g, rounding half away from zero. Division by zero yields 0.
func (f Fixed) Div(g Fixed) Fixed {
	if g == 0 {
		return 0
	}
	n := int64(f) << FracBits
	d := int64(g)
	neg := (n < 0) != (d < 0)
	if n < 0 {
		n = -n
	}
	if d < 0 {
		d = -d
	}
	q := (n + d/2) / d
	if neg {
		return -Fixed(q)
	}
	return Fixed(q)
}

// Floor returns the largest integer not greater than f.
func (f Fixed) Floor() int {
	return int(int64(f) >> FracBits)
}

// Round returns f rounded to the nearest integer, halves away from zero.
func (f Fixed) Round() int {
	if f < 0 {
		return -int((int64(-f) + int64(half)) >> FracBits)
	}
	return int((int64(f) + int64(half)) >> FracBits)
}

// MulInt scales an integer by f and rounds the result.
func (f Fixed) MulInt(n int) int {
	return FromInt(n).Mul(f).Round()
}

// Pow raises f to a non-negative integer power.
func (f Fixed) Pow(n int) Fixed {
	out := One
	for i := 0; i < n; i++ {
		out = out.Mul(f)
	}
	return out
}

// Abs returns |f|.
func (f Fixed) Abs() Fixed {
	if f < 0 {
		return -f
	}
	return f
}

// Float64 is for display only. Never feed the result back into the simulation.
func (f Fixed) Float64() float64 {
	return float64(f) / float64(One)
}

// String formats f with four decimal places.
func (f Fixed) String() string {
	neg := f < 0
	v := int64(f)
	if neg {
		v = -v
	}
	whole := v >> FracBits
	frac := ((v&int64(One-1))*10000 + int64(half)) >> FracBits
	if frac >= 10000 {
		whole++
		frac -= 10000
	}
	s := fmt.Sprintf("%d.%04d", whole, frac)
	if neg && (whole != 0 || frac != 0) {
		return "-" + s
	}
	return s
}

// ParseFixed parses a decimal literal such as "-1.25" without going through
// floating point.
func ParseFixed(s string) (Fixed, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("common: parse fixed: empty string")
	}
	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, fmt.Errorf("common: parse fixed %q: no digits", s)
	}
	var whole int64
	if intPart != "" {
		v, err := strconv.ParseInt(intPart, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("common: parse fixed %q: %w", s, err)
		}
		whole = v
	}
	var frac int64
	if fracPart != "" {
		if len(fracPart) > 9 {
			fracPart = fracPart[:9]
		}
		v, err := strconv.ParseUint(fracPart, 10, 32)
		if err != nil {
			return 0, fmt.Errorf("common: parse fixed %q: %w", s, err)
		}
		den := int64(1)
		for range fracPart {
			den *= 10
		}
		frac = (int64(v)<<FracBits + den/2) / den
	}
	out := Fixed(whole<<FracBits + frac)
	if neg {
		out = -out
	}
	return out, nil
}

// UnmarshalYAML accepts scalars like `0.9` or `12`.
func (f *Fixed) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("fixed value must be a scalar")
	}
	v, err := ParseFixed(value.Value)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// UnmarshalText lets ini and env decoders read Fixed fields.
func (f *Fixed) UnmarshalText(text []byte) error {
	v, err := ParseFixed(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// MarshalText writes the decimal form.
func (f Fixed) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
