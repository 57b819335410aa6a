package calculator

import "deskcalc/internal/history"

// CalcRequest is the JSON body for the stateless binary operations (add,
// subtract, multiply, divide). Operands travel as operand strings, the same
// form the engine keeps internally.
type CalcRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

// CalcResponse is the JSON response for the stateless binary operations. The
// result is an operand string: rounded, trailing zeros stripped, and clamped
// to "0" when the arithmetic is non-finite.
type CalcResponse struct {
	Operation string `json:"operation"`
	A         string `json:"a"`
	B         string `json:"b"`
	Result    string `json:"result"`
}

// CommandRequest selects one logical engine command for a session. Digit is
// read only when Command is "digit" and Operator only when Command is
// "operator".
type CommandRequest struct {
	Command  string `json:"command"`
	Digit    string `json:"digit,omitempty"`
	Operator string `json:"operator,omitempty"`
}

// KeysRequest carries keyboard keys to feed into a session. Key sends a
// single key, Keys a sequence; set exactly one of the two.
type KeysRequest struct {
	Key  string   `json:"key,omitempty"`
	Keys []string `json:"keys,omitempty"`
}

// HistoryResponse lists a session's completed calculations, newest first.
type HistoryResponse struct {
	Records []history.Record `json:"records"`
}
