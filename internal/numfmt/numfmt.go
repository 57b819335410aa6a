// Package numfmt converts between the calculator's internal operand strings
// and what the display shows, and renders float64 results back into operand
// form.
package numfmt

import (
	"math"
	"strconv"
	"strings"
)

// Display formats an operand for the calculator display. Empty input renders
// as "0", scientific notation passes through verbatim, and the integer part
// of plain decimals is grouped with thousands separators. Sign and fractional
// digits are kept unchanged.
func Display(operand string) string {
	if operand == "" {
		return "0"
	}
	if strings.ContainsAny(operand, "eE") {
		return operand
	}
	sign := ""
	rest := operand
	if strings.HasPrefix(rest, "-") {
		sign, rest = "-", rest[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(rest, ".")
	var b strings.Builder
	b.WriteString(sign)
	b.WriteString(group(intPart))
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// group inserts a comma every three digits, counting from the right.
func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// StripTrailingZeros trims trailing fractional zeros from a plain decimal
// string, dropping the decimal point when nothing is left behind it. Strings
// without a decimal point, and scientific notation, pass through unchanged.
func StripTrailingZeros(s string) string {
	if strings.ContainsAny(s, "eE") || !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

// ParseOperand converts an operand string to its numeric value. Mid-edit
// fragments such as a bare "-" do not parse and yield NaN, which downstream
// code treats like any other non-finite value.
func ParseOperand(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// RoundSignificant rounds v to the given count of significant decimal digits.
// Zero and non-finite values are returned as-is.
func RoundSignificant(v float64, digits int) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	s := strconv.FormatFloat(v, 'e', digits-1, 64)
	r, _ := strconv.ParseFloat(s, 64)
	return r
}

// FormatFloat renders a finite float64 as an operand string: the shortest
// decimal form that round-trips, in fixed notation while the decimal
// exponent n satisfies -6 < n <= 21 and in d.ddde±k scientific notation
// outside that range. Zero (either sign) renders as "0".
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	e := strconv.FormatFloat(v, 'e', -1, 64)
	sign := ""
	if e[0] == '-' {
		sign, e = "-", e[1:]
	}
	mant, expPart, _ := strings.Cut(e, "e")
	exp, _ := strconv.Atoi(expPart)
	digits := strings.Replace(mant, ".", "", 1)
	k := len(digits)
	n := exp + 1

	var out string
	switch {
	case k <= n && n <= 21:
		// Integer value, no fractional digits.
		out = digits + strings.Repeat("0", n-k)
	case 0 < n && n <= 21:
		out = digits[:n] + "." + digits[n:]
	case -6 < n && n <= 0:
		out = "0." + strings.Repeat("0", -n) + digits
	default:
		out = digits[:1]
		if k > 1 {
			out += "." + digits[1:]
		}
		if n-1 >= 0 {
			out += "e+" + strconv.Itoa(n-1)
		} else {
			out += "e-" + strconv.Itoa(1-n)
		}
	}
	return sign + out
}
