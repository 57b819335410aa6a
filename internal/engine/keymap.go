package engine

import "deskcalc/internal/evaluate"

// CommandForKey maps a keyboard key name to its logical command. The second
// return is false for keys outside the calculator mapping; callers decide
// whether to ignore or reject those.
func CommandForKey(key string) (Command, bool) {
	switch key {
	case "0", "1", "2", "3", "4", "5", "6", "7", "8", "9":
		return Digit(key[0]), true
	case ".":
		return Decimal(), true
	case "+":
		return Operator(evaluate.Add), true
	case "-":
		return Operator(evaluate.Subtract), true
	case "*", "x", "X":
		return Operator(evaluate.Multiply), true
	case "/":
		return Operator(evaluate.Divide), true
	case "Enter", "=":
		return Equals(), true
	case "Backspace":
		return Delete(), true
	case "%":
		return Percent(), true
	case "Escape":
		return Clear(), true
	}
	return Command{}, false
}
