// Package engine implements the calculator's input state machine. State is a
// value; Apply is a pure transition function, so every keystroke is just
// (state, command) in and (state, optional calculation) out, with no event
// loop or rendering concerns mixed in.
package engine

import (
	"strings"

	"deskcalc/internal/evaluate"
	"deskcalc/internal/numfmt"
)

// MaxDigits caps how many digits one operand may hold, sign and decimal
// point excluded.
const MaxDigits = 16

// State is the calculator state between commands. Previous == "" means no
// previous operand is held; by invariant Op is set exactly when Previous is.
// Overwrite means the next digit or decimal replaces Current instead of
// extending it.
type State struct {
	Current   string
	Previous  string
	Op        evaluate.Operator
	Overwrite bool
}

// NewState returns the canonical initial state.
func NewState() State {
	return State{Current: "0", Overwrite: true}
}

// Calculation records one completed equals press, both sides already
// display-formatted.
type Calculation struct {
	Expression string
	Result     string
}

// Kind tags a Command.
type Kind string

const (
	KindDigit    Kind = "digit"
	KindDecimal  Kind = "decimal"
	KindOperator Kind = "operator"
	KindEquals   Kind = "equals"
	KindClear    Kind = "clear"
	KindDelete   Kind = "delete"
	KindSign     Kind = "sign"
	KindPercent  Kind = "percent"
)

// Command is one logical keypad action. Digit is meaningful only for
// KindDigit commands, Op only for KindOperator ones.
type Command struct {
	Kind  Kind
	Digit byte
	Op    evaluate.Operator
}

func Digit(d byte) Command                  { return Command{Kind: KindDigit, Digit: d} }
func Decimal() Command                      { return Command{Kind: KindDecimal} }
func Operator(op evaluate.Operator) Command { return Command{Kind: KindOperator, Op: op} }
func Equals() Command                       { return Command{Kind: KindEquals} }
func Clear() Command                        { return Command{Kind: KindClear} }
func Delete() Command                       { return Command{Kind: KindDelete} }
func Sign() Command                         { return Command{Kind: KindSign} }
func Percent() Command                      { return Command{Kind: KindPercent} }

// Apply dispatches one command against s and returns the next state. The
// second return is non-nil only when an equals press completed a pending
// computation. Unknown or malformed commands leave the state untouched.
func (s State) Apply(c Command) (State, *Calculation) {
	switch c.Kind {
	case KindDigit:
		return s.digit(c.Digit), nil
	case KindDecimal:
		return s.decimal(), nil
	case KindOperator:
		return s.operator(c.Op), nil
	case KindEquals:
		return s.equals()
	case KindClear:
		return NewState(), nil
	case KindDelete:
		return s.delete(), nil
	case KindSign:
		return s.sign(), nil
	case KindPercent:
		return s.percent(), nil
	}
	return s, nil
}

func (s State) digit(d byte) State {
	if d < '0' || d > '9' {
		return s
	}
	switch {
	case s.Overwrite:
		s.Current = string(d)
		s.Overwrite = false
	case s.Current == "0":
		s.Current = string(d)
	case digitCount(s.Current) >= MaxDigits:
		// operand full, ignore
	default:
		s.Current += string(d)
	}
	return s
}

func (s State) decimal() State {
	switch {
	case s.Overwrite:
		s.Current = "0."
		s.Overwrite = false
	case strings.Contains(s.Current, "."):
		// one point only
	default:
		s.Current += "."
	}
	return s
}

// operator resolves any pending computation first, then holds op as the new
// pending operator. Re-pressing an operator before typing the right operand
// just swaps the pending operator. Intermediate resolutions do not produce
// history records; only equals does.
func (s State) operator(op evaluate.Operator) State {
	if !op.Valid() {
		return s
	}
	if s.Op != "" && !s.Overwrite && s.Previous != "" {
		s.Previous = evaluate.Evaluate(s.Previous, s.Current, s.Op)
		s.Current = s.Previous
	} else {
		s.Previous = s.Current
	}
	s.Op = op
	s.Overwrite = true
	return s
}

func (s State) equals() (State, *Calculation) {
	if s.Op == "" || s.Previous == "" || s.Overwrite {
		return s, nil
	}
	result := evaluate.Evaluate(s.Previous, s.Current, s.Op)
	calc := &Calculation{
		Expression: numfmt.Display(s.Previous) + " " + s.Op.Symbol() + " " + numfmt.Display(s.Current),
		Result:     numfmt.Display(result),
	}
	s.Current = result
	s.Previous = ""
	s.Op = ""
	s.Overwrite = true
	return s, calc
}

func (s State) delete() State {
	if s.Overwrite || len(s.Current) == 1 {
		s.Current = "0"
		s.Overwrite = true
		return s
	}
	s.Current = s.Current[:len(s.Current)-1]
	return s
}

func (s State) sign() State {
	if s.Current == "0" {
		return s
	}
	if strings.HasPrefix(s.Current, "-") {
		s.Current = s.Current[1:]
	} else {
		s.Current = "-" + s.Current
	}
	s.Overwrite = false
	return s
}

func (s State) percent() State {
	s.Current = evaluate.Percent(s.Current)
	s.Overwrite = true
	return s
}

// Display returns the formatted current operand for the renderer.
func (s State) Display() string {
	return numfmt.Display(s.Current)
}

// Expression returns the live pending expression, empty when no operator is
// pending. While the right operand is still untouched only the left side and
// the operator symbol show.
func (s State) Expression() string {
	if s.Op == "" {
		return ""
	}
	expr := numfmt.Display(s.Previous) + " " + s.Op.Symbol()
	if !s.Overwrite {
		expr += " " + numfmt.Display(s.Current)
	}
	return expr
}

func digitCount(operand string) int {
	n := 0
	for i := 0; i < len(operand); i++ {
		if operand[i] >= '0' && operand[i] <= '9' {
			n++
		}
	}
	return n
}
