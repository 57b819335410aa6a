// Package history keeps the bounded ledger of completed calculations.
package history

import "github.com/google/uuid"

// Capacity is the most records the ledger retains. Pushing beyond it evicts
// the oldest entries.
const Capacity = 8

// Record is one completed calculation, immutable once created.
type Record struct {
	ID         string `json:"id"`
	Expression string `json:"expression"`
	Result     string `json:"result"`
}

// IDFunc produces unique identifiers for new records.
type IDFunc func() string

// Ledger holds up to Capacity records, newest first. It carries no locking;
// the owning session serializes access.
type Ledger struct {
	newID   IDFunc
	records []Record
}

// New returns an empty ledger drawing record IDs from newID. A nil newID
// falls back to random UUIDs.
func New(newID IDFunc) *Ledger {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Ledger{newID: newID}
}

// Push prepends a record for the given expression and result, evicting
// entries beyond Capacity, and returns the stored record.
func (l *Ledger) Push(expression, result string) Record {
	rec := Record{ID: l.newID(), Expression: expression, Result: result}
	l.records = append([]Record{rec}, l.records...)
	if len(l.records) > Capacity {
		l.records = l.records[:Capacity]
	}
	return rec
}

// Records returns a copy of the ledger contents, newest first.
func (l *Ledger) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports how many records the ledger holds.
func (l *Ledger) Len() int {
	return len(l.records)
}

// Clear empties the ledger.
func (l *Ledger) Clear() {
	l.records = nil
}
