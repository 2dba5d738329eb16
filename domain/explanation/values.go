package explanation

import (
	"math"
	"strconv"
	"strings"
)

// DisplayDecimals is the precision de-normalized values are shown with
const DisplayDecimals = 1

// Round rounds half-to-even at the given number of decimals and clears the sign of zero,
// so -0.04 becomes 0.0 rather than -0.0.
func Round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	r := math.RoundToEven(v*scale) / scale
	if r == 0 {
		r = 0
	}
	return r
}

// FormatValue renders a float the way the explainer prints numbers: shortest
// round-trip digits, always with a fractional part ("12.0", "-3.5"), exponent
// notation from 1e16 up.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	abs := math.Abs(v)
	if abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
