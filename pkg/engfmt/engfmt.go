// Package engfmt formats numbers in engineering notation, where the
// exponent is always a multiple of three.
package engfmt

import (
	"fmt"
	"math"
)

// siPrefixes covers exponents -24 through 24 in steps of three.
// The blank entry is the unit exponent and is never printed.
const siPrefixes = "yzafpnum kMGTPEZY"

// Format renders x as mantissa plus exponent, e.g. 1230 -> "1.23e3".
// verb is a printf verb applied to the mantissa; an empty verb means "%g".
// With si set, exponents within ±24 use SI prefixes instead ("1.23k").
func Format(x float64, verb string, si bool) string {
	if verb == "" {
		verb = "%g"
	}
	if x == 0 {
		return fmt.Sprintf(verb, 0.0)
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return fmt.Sprintf(verb, x)
	}

	sign := ""
	if x < 0 {
		x = -x
		sign = "-"
	}

	exp := int(math.Floor(math.Log10(x)))
	exp3 := exp - floorMod(exp, 3)
	x3 := x / math.Pow(10, float64(exp3))

	var suffix string
	switch {
	case si && exp3 >= -24 && exp3 <= 24 && exp3 != 0:
		suffix = string(siPrefixes[(exp3+24)/3])
	case exp3 == 0:
		suffix = ""
	default:
		suffix = fmt.Sprintf("e%d", exp3)
	}

	return sign + fmt.Sprintf(verb, x3) + suffix
}

// floorMod is the modulus with the sign of the divisor.
func floorMod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
