// Package evaluate performs the calculator's binary arithmetic on operand
// strings. Results are clamped and rounded so the display always holds a
// valid number.
package evaluate

import (
	"math"

	"deskcalc/internal/numfmt"
)

// Operator identifies one of the four binary operations.
type Operator string

const (
	Add      Operator = "add"
	Subtract Operator = "subtract"
	Multiply Operator = "multiply"
	Divide   Operator = "divide"
)

// ResultDigits is the significant-digit precision applied to finite results.
// It hides float64 representation noise; the underlying arithmetic stays
// plain double precision.
const ResultDigits = 12

// Valid reports whether op names one of the four operations.
func (op Operator) Valid() bool {
	switch op {
	case Add, Subtract, Multiply, Divide:
		return true
	}
	return false
}

// Symbol returns the display symbol used in expressions.
func (op Operator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	}
	return ""
}

// Evaluate applies op to a and b and renders the outcome as an operand
// string. Any non-finite outcome, division by zero and overflow included,
// clamps to "0". Finite outcomes are rounded to ResultDigits significant
// digits and trailing zeros are stripped.
func Evaluate(a, b string, op Operator) string {
	x := numfmt.ParseOperand(a)
	y := numfmt.ParseOperand(b)

	var r float64
	switch op {
	case Add:
		r = x + y
	case Subtract:
		r = x - y
	case Multiply:
		r = x * y
	case Divide:
		r = x / y
	default:
		r = math.NaN()
	}
	return render(r)
}

// Percent divides an operand by 100. A value that does not parse to a finite
// number comes back unchanged.
func Percent(operand string) string {
	v := numfmt.ParseOperand(operand) / 100
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return operand
	}
	return render(v)
}

func render(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	v = numfmt.RoundSignificant(v, ResultDigits)
	return numfmt.StripTrailingZeros(numfmt.FormatFloat(v))
}
