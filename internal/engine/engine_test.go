package engine

import (
	"strings"
	"testing"

	"deskcalc/internal/evaluate"
)

// run dispatches cmds in order from the initial state and collects every
// calculation emitted along the way.
func run(cmds ...Command) (State, []Calculation) {
	s := NewState()
	var calcs []Calculation
	for _, c := range cmds {
		var calc *Calculation
		s, calc = s.Apply(c)
		if calc != nil {
			calcs = append(calcs, *calc)
		}
	}
	return s, calcs
}

func digits(ds string) []Command {
	cmds := make([]Command, 0, len(ds))
	for i := 0; i < len(ds); i++ {
		cmds = append(cmds, Digit(ds[i]))
	}
	return cmds
}

func TestNewState(t *testing.T) {
	s := NewState()
	want := State{Current: "0", Previous: "", Op: "", Overwrite: true}
	if s != want {
		t.Fatalf("NewState() = %+v, want %+v", s, want)
	}
}

func TestDigitEntry(t *testing.T) {
	tests := []struct {
		name        string
		cmds        []Command
		wantCurrent string
	}{
		{"single digit replaces initial zero", digits("5"), "5"},
		{"digits concatenate", digits("123"), "123"},
		{"leading zero replaced", digits("05"), "5"},
		{"explicit zero stays", digits("0"), "0"},
		{"zero then zero stays single", digits("00"), "0"},
		{"sixteen digits accepted", digits("1234567890123456"), "1234567890123456"},
		{"seventeenth digit ignored", digits("12345678901234567"), "1234567890123456"},
		{"cap counts digits not the point", append(append(digits("123456789"), Decimal()), digits("1234567")...), "123456789.1234567"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := run(tc.cmds...)
			if s.Current != tc.wantCurrent {
				t.Errorf("current = %q, want %q", s.Current, tc.wantCurrent)
			}
			if s.Overwrite {
				t.Error("expected overwrite to be false after digit entry")
			}
		})
	}
}

func TestDigitIgnoresNonDigitByte(t *testing.T) {
	s, _ := run(Digit('a'))
	if s != NewState() {
		t.Fatalf("state changed on non-digit byte: %+v", s)
	}
}

func TestDecimal(t *testing.T) {
	t.Run("on overwrite starts zero point", func(t *testing.T) {
		s, _ := run(Decimal())
		if s.Current != "0." {
			t.Errorf("current = %q, want %q", s.Current, "0.")
		}
		if s.Overwrite {
			t.Error("expected overwrite false")
		}
	})
	t.Run("appends once", func(t *testing.T) {
		s, _ := run(Digit('1'), Decimal(), Digit('5'), Decimal())
		if s.Current != "1.5" {
			t.Errorf("current = %q, want %q", s.Current, "1.5")
		}
	})
}

func TestOperatorStoresPrevious(t *testing.T) {
	s, calcs := run(Digit('5'), Operator(evaluate.Add))
	if s.Previous != "5" || s.Op != evaluate.Add {
		t.Fatalf("state = %+v, want previous 5 with pending add", s)
	}
	if !s.Overwrite {
		t.Error("expected overwrite true after operator")
	}
	if s.Current != "5" {
		t.Errorf("current = %q, want unchanged %q", s.Current, "5")
	}
	if len(calcs) != 0 {
		t.Errorf("operator press emitted %d calculations, want 0", len(calcs))
	}
}

func TestOperatorRepressReplacesPending(t *testing.T) {
	s, calcs := run(Digit('5'), Operator(evaluate.Add), Operator(evaluate.Multiply))
	if s.Op != evaluate.Multiply {
		t.Errorf("pending operator = %s, want multiply", s.Op)
	}
	if s.Previous != "5" || s.Current != "5" {
		t.Errorf("operands changed on operator re-press: %+v", s)
	}
	if len(calcs) != 0 {
		t.Errorf("operator re-press emitted %d calculations, want 0", len(calcs))
	}
}

func TestLeftToRightChaining(t *testing.T) {
	s, calcs := run(
		Digit('2'), Operator(evaluate.Add),
		Digit('3'), Operator(evaluate.Multiply),
		Digit('4'), Equals(),
	)
	if s.Current != "20" {
		t.Errorf("current = %q, want %q", s.Current, "20")
	}
	if s.Previous != "" || s.Op != "" || !s.Overwrite {
		t.Errorf("state after equals = %+v, want cleared pending computation", s)
	}
	if len(calcs) != 1 {
		t.Fatalf("got %d calculations, want exactly 1", len(calcs))
	}
	if calcs[0].Expression != "5 × 4" || calcs[0].Result != "20" {
		t.Errorf("calculation = %+v, want {5 × 4 20}", calcs[0])
	}
}

func TestEqualsGuards(t *testing.T) {
	tests := []struct {
		name string
		cmds []Command
	}{
		{"without pending operator", append(digits("5"), Equals())},
		{"right operand not typed yet", []Command{Digit('5'), Operator(evaluate.Add), Equals()}},
		{"second equals has nothing to resolve", []Command{Digit('5'), Operator(evaluate.Add), Digit('3'), Equals(), Equals()}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before, calcs := run(tc.cmds[:len(tc.cmds)-1]...)
			after, calc := before.Apply(tc.cmds[len(tc.cmds)-1])
			if after != before {
				t.Errorf("state changed: %+v -> %+v", before, after)
			}
			if calc != nil {
				t.Errorf("unexpected calculation %+v", *calc)
			}
			_ = calcs
		})
	}
}

func TestEqualsFormatsExpression(t *testing.T) {
	s, calcs := run(append(append(digits("1234"), Operator(evaluate.Add)), Digit('1'), Equals())...)
	if len(calcs) != 1 {
		t.Fatalf("got %d calculations, want 1", len(calcs))
	}
	if calcs[0].Expression != "1,234 + 1" {
		t.Errorf("expression = %q, want %q", calcs[0].Expression, "1,234 + 1")
	}
	if calcs[0].Result != "1,235" {
		t.Errorf("result = %q, want %q", calcs[0].Result, "1,235")
	}
	// Current keeps the raw operand form so further edits stay numeric.
	if s.Current != "1235" {
		t.Errorf("current = %q, want %q", s.Current, "1235")
	}
}

func TestEqualsClampsDivideByZero(t *testing.T) {
	s, calcs := run(Digit('6'), Operator(evaluate.Divide), Digit('0'), Equals())
	if s.Current != "0" {
		t.Errorf("current = %q, want %q", s.Current, "0")
	}
	if len(calcs) != 1 || calcs[0].Result != "0" {
		t.Errorf("calculations = %+v, want one record with result 0", calcs)
	}
}

func TestClearResetsFromAnyState(t *testing.T) {
	mid, _ := run(Digit('2'), Operator(evaluate.Add), Digit('3'), Operator(evaluate.Multiply))
	s, calc := mid.Apply(Clear())
	if calc != nil {
		t.Fatalf("clear emitted calculation %+v", *calc)
	}
	if s != NewState() {
		t.Fatalf("state after clear = %+v, want initial", s)
	}
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name          string
		cmds          []Command
		wantCurrent   string
		wantOverwrite bool
	}{
		{"drops last character", append(digits("12"), Delete()), "1", false},
		{"single character resets to zero", append(digits("1"), Delete()), "0", true},
		{"in overwrite mode resets to zero", []Command{Digit('5'), Operator(evaluate.Add), Delete()}, "0", true},
		{"initial state stays zero", []Command{Delete()}, "0", true},
		{"sign counts as a character", append(digits("5"), Sign(), Delete(), Delete()), "0", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := run(tc.cmds...)
			if s.Current != tc.wantCurrent {
				t.Errorf("current = %q, want %q", s.Current, tc.wantCurrent)
			}
			if s.Overwrite != tc.wantOverwrite {
				t.Errorf("overwrite = %t, want %t", s.Overwrite, tc.wantOverwrite)
			}
		})
	}
}

func TestSign(t *testing.T) {
	t.Run("zero is a no-op", func(t *testing.T) {
		s, _ := run(Sign())
		if s != NewState() {
			t.Errorf("state = %+v, want initial", s)
		}
	})
	t.Run("toggles", func(t *testing.T) {
		s, _ := run(Digit('5'), Sign())
		if s.Current != "-5" {
			t.Errorf("current = %q, want %q", s.Current, "-5")
		}
		s, _ = s.Apply(Sign())
		if s.Current != "5" {
			t.Errorf("current = %q, want %q", s.Current, "5")
		}
	})
	t.Run("makes a result editable", func(t *testing.T) {
		s, _ := run(Digit('8'), Operator(evaluate.Add), Digit('1'), Equals(), Sign(), Digit('2'))
		if s.Current != "-92" {
			t.Errorf("current = %q, want %q", s.Current, "-92")
		}
	})
}

func TestPercent(t *testing.T) {
	tests := []struct {
		name        string
		cmds        []Command
		wantCurrent string
	}{
		{"fifty becomes half", append(digits("50"), Percent()), "0.5"},
		{"zero stays zero", []Command{Percent()}, "0"},
		{"fraction", append(append(digits("12"), Decimal()), Digit('5'), Percent()), "0.125"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := run(tc.cmds...)
			if s.Current != tc.wantCurrent {
				t.Errorf("current = %q, want %q", s.Current, tc.wantCurrent)
			}
			if !s.Overwrite {
				t.Error("expected overwrite true after percent")
			}
		})
	}
	t.Run("next digit replaces the percentage", func(t *testing.T) {
		s, _ := run(append(digits("50"), Percent(), Digit('7'))...)
		if s.Current != "7" {
			t.Errorf("current = %q, want %q", s.Current, "7")
		}
	})
}

func TestDisplayGroupsCurrent(t *testing.T) {
	s, _ := run(digits("1234567")...)
	if got := s.Display(); got != "1,234,567" {
		t.Errorf("Display() = %q, want %q", got, "1,234,567")
	}
}

func TestExpression(t *testing.T) {
	s, _ := run(digits("1234")...)
	if got := s.Expression(); got != "" {
		t.Errorf("Expression() = %q, want empty", got)
	}

	s, _ = s.Apply(Operator(evaluate.Multiply))
	if got := s.Expression(); got != "1,234 ×" {
		t.Errorf("Expression() = %q, want %q", got, "1,234 ×")
	}

	s, _ = s.Apply(Digit('2'))
	if got := s.Expression(); got != "1,234 × 2" {
		t.Errorf("Expression() = %q, want %q", got, "1,234 × 2")
	}

	s, _ = s.Apply(Equals())
	if got := s.Expression(); got != "" {
		t.Errorf("Expression() after equals = %q, want empty", got)
	}
}

func TestDeleteThenTypeAfterResult(t *testing.T) {
	// A result is in overwrite mode; delete clears it and typing starts fresh.
	s, _ := run(Digit('9'), Operator(evaluate.Add), Digit('1'), Equals(), Delete(), Digit('3'))
	if s.Current != "3" {
		t.Errorf("current = %q, want %q", s.Current, "3")
	}
	if s.Previous != "" || s.Op != "" {
		t.Errorf("unexpected pending computation: %+v", s)
	}
}

func TestChainedRunProducesSingleRecordPerEquals(t *testing.T) {
	_, calcs := run(
		Digit('1'), Operator(evaluate.Add), Digit('2'), Equals(),
		Operator(evaluate.Multiply), Digit('3'), Equals(),
	)
	if len(calcs) != 2 {
		t.Fatalf("got %d calculations, want 2", len(calcs))
	}
	if calcs[0].Expression != "1 + 2" || calcs[0].Result != "3" {
		t.Errorf("first calculation = %+v", calcs[0])
	}
	if calcs[1].Expression != "3 × 3" || calcs[1].Result != "9" {
		t.Errorf("second calculation = %+v", calcs[1])
	}
}

func TestPrecisionNoiseHiddenInResult(t *testing.T) {
	s, calcs := run(
		Digit('0'), Decimal(), Digit('1'),
		Operator(evaluate.Add),
		Digit('0'), Decimal(), Digit('2'),
		Equals(),
	)
	if s.Current != "0.3" {
		t.Errorf("current = %q, want %q", s.Current, "0.3")
	}
	if len(calcs) != 1 || calcs[0].Expression != "0.1 + 0.2" || calcs[0].Result != "0.3" {
		t.Errorf("calculations = %+v", calcs)
	}
	if strings.Contains(s.Current, "00000") {
		t.Errorf("representation noise leaked into %q", s.Current)
	}
}
