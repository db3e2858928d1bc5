package account

import (
	"github.com/rickgao/payments-engine/internal/model"
	"github.com/rickgao/payments-engine/internal/money"
)

// TxState is the dispute lifecycle stage of a recorded deposit.
type TxState int

const (
	Recorded TxState = iota
	Held
	ChargedBack
)

func (s TxState) String() string {
	switch s {
	case Recorded:
		return "recorded"
	case Held:
		return "held"
	case ChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}

type historyEntry struct {
	amount money.Amount
	state  TxState
}

// History records an account's disputable transactions. Amounts never change
// after insertion; only the state moves.
type History struct {
	entries map[model.TxID]historyEntry
}

// NewHistory returns an empty History.
func NewHistory() *History {
	return &History{entries: make(map[model.TxID]historyEntry)}
}

// Insert records tx as Recorded, replacing any existing entry.
func (h *History) Insert(tx model.TxID, amount money.Amount) {
	h.entries[tx] = historyEntry{amount: amount, state: Recorded}
}

// Contains reports whether tx has been recorded.
func (h *History) Contains(tx model.TxID) bool {
	_, ok := h.entries[tx]
	return ok
}

// Select returns the amount of tx if it exists and is in state want.
func (h *History) Select(tx model.TxID, want TxState) (money.Amount, bool) {
	e, ok := h.entries[tx]
	if !ok || e.state != want {
		return money.Zero, false
	}
	return e.amount, true
}

// SetState moves tx to state. Unknown ids are ignored.
func (h *History) SetState(tx model.TxID, state TxState) {
	e, ok := h.entries[tx]
	if !ok {
		return
	}
	e.state = state
	h.entries[tx] = e
}

// Len returns the number of recorded transactions.
func (h *History) Len() int {
	return len(h.entries)
}
