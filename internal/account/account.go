package account

import (
	"github.com/rickgao/payments-engine/internal/model"
	"github.com/rickgao/payments-engine/internal/money"
)

// DuplicatePolicy decides what a deposit with an already recorded tx id does.
type DuplicatePolicy int

const (
	// DuplicateOverwrite replaces the history entry and credits the account
	// again (last write wins).
	DuplicateOverwrite DuplicatePolicy = iota
	// DuplicateReject ignores the second deposit entirely.
	DuplicateReject
)

// Outcome describes what Apply did with an event.
type Outcome string

const (
	Applied           Outcome = "applied"
	Frozen            Outcome = "account_frozen"
	InsufficientFunds Outcome = "insufficient_funds"
	NoMatchingTx      Outcome = "no_matching_tx"
	DuplicateTx       Outcome = "duplicate_tx"
	NegativeAmount    Outcome = "negative_amount"
	NotFinancial      Outcome = "not_financial"
)

// Account is the mutable state of one account. It is not safe for
// concurrent use; an Actor owns it exclusively.
type Account struct {
	id        model.AccountID
	available money.Accumulator
	held      money.Accumulator
	total     money.Accumulator
	locked    bool
	history   *History
	dupPolicy DuplicatePolicy
}

// New returns a zeroed, unlocked account.
func New(id model.AccountID, dupPolicy DuplicatePolicy) *Account {
	return &Account{
		id:        id,
		history:   NewHistory(),
		dupPolicy: dupPolicy,
	}
}

// ID returns the account id.
func (a *Account) ID() model.AccountID { return a.id }

// Locked reports whether a chargeback has frozen the account.
func (a *Account) Locked() bool { return a.locked }

// Apply runs one financial event against the account. Anything other than
// Applied leaves the account unchanged.
func (a *Account) Apply(e model.Event) Outcome {
	if _, ok := e.(model.AccountEvent); !ok {
		return NotFinancial
	}
	if a.locked {
		return Frozen
	}

	switch ev := e.(type) {
	case model.Deposit:
		return a.deposit(ev)
	case model.Withdrawal:
		return a.withdraw(ev)
	case model.Dispute:
		return a.dispute(ev)
	case model.Resolve:
		return a.resolve(ev)
	case model.Chargeback:
		return a.chargeback(ev)
	default:
		return NotFinancial
	}
}

func (a *Account) deposit(ev model.Deposit) Outcome {
	if ev.Amount.IsNegative() {
		return NegativeAmount
	}
	if a.history.Contains(ev.Tx) {
		// A disputed or charged back entry is never replaced.
		if _, recorded := a.history.Select(ev.Tx, Recorded); a.dupPolicy == DuplicateReject || !recorded {
			return DuplicateTx
		}
	}
	a.history.Insert(ev.Tx, ev.Amount)
	a.available.Add(ev.Amount)
	a.total.Add(ev.Amount)
	return Applied
}

func (a *Account) withdraw(ev model.Withdrawal) Outcome {
	if ev.Amount.IsNegative() {
		return NegativeAmount
	}
	if !a.available.Covers(ev.Amount) {
		return InsufficientFunds
	}
	a.available.Sub(ev.Amount)
	a.total.Sub(ev.Amount)
	return Applied
}

// dispute also requires the disputed amount to still be available, so that
// available never goes negative and total stays available + held.
func (a *Account) dispute(ev model.Dispute) Outcome {
	amt, ok := a.history.Select(ev.Tx, Recorded)
	if !ok {
		return NoMatchingTx
	}
	if !a.available.Covers(amt) {
		return InsufficientFunds
	}
	a.available.Sub(amt)
	a.held.Add(amt)
	a.history.SetState(ev.Tx, Held)
	return Applied
}

func (a *Account) resolve(ev model.Resolve) Outcome {
	amt, ok := a.history.Select(ev.Tx, Held)
	if !ok {
		return NoMatchingTx
	}
	a.held.Sub(amt)
	a.available.Add(amt)
	a.history.SetState(ev.Tx, Recorded)
	return Applied
}

func (a *Account) chargeback(ev model.Chargeback) Outcome {
	amt, ok := a.history.Select(ev.Tx, Held)
	if !ok {
		return NoMatchingTx
	}
	a.held.Sub(amt)
	a.total.Sub(amt)
	a.locked = true
	a.history.SetState(ev.Tx, ChargedBack)
	return Applied
}

// Snapshot reports the account at external precision.
func (a *Account) Snapshot() model.Snapshot {
	return model.Snapshot{
		Client:    a.id,
		Available: a.available.Amount(),
		Held:      a.held.Amount(),
		Total:     a.total.Amount(),
		Locked:    a.locked,
	}
}
