package model

import "github.com/rickgao/payments-engine/internal/money"

// AccountID identifies an account.
type AccountID uint16

// TxID identifies a transaction within a run.
type TxID uint32

// -----------------------------------------------------------------------------
// Events
// -----------------------------------------------------------------------------

// Event is one ledger instruction. The set of implementations is closed:
// Deposit, Withdrawal, Dispute, Resolve, Chargeback, Finish and Unrecognized.
type Event interface {
	event()
}

// AccountEvent is an Event addressed to a single account.
type AccountEvent interface {
	Event
	Account() AccountID
}

// Deposit credits an account. Deposits are the only disputable transactions.
type Deposit struct {
	Client AccountID
	Tx     TxID
	Amount money.Amount
}

// Withdrawal debits an account if funds are available.
type Withdrawal struct {
	Client AccountID
	Tx     TxID
	Amount money.Amount
}

// Dispute moves a recorded deposit's amount from available to held.
type Dispute struct {
	Client AccountID
	Tx     TxID
}

// Resolve releases a disputed deposit back to available.
type Resolve struct {
	Client AccountID
	Tx     TxID
}

// Chargeback reverses a disputed deposit and freezes the account.
type Chargeback struct {
	Client AccountID
	Tx     TxID
}

// Finish tells an account actor to stop and hand back its snapshot.
type Finish struct{}

// Unrecognized is an input record whose type names no known event. It is
// never delivered to an account.
type Unrecognized struct {
	Type   string
	Client AccountID
	Tx     TxID
}

func (Deposit) event()    {}
func (Withdrawal) event() {}
func (Dispute) event()    {}
func (Resolve) event()    {}
func (Chargeback) event() {}
func (Finish) event()     {}

func (Unrecognized) event() {}

func (e Deposit) Account() AccountID    { return e.Client }
func (e Withdrawal) Account() AccountID { return e.Client }
func (e Dispute) Account() AccountID    { return e.Client }
func (e Resolve) Account() AccountID    { return e.Client }
func (e Chargeback) Account() AccountID { return e.Client }

// Kind returns a short lowercase name for e, as used in input records.
func Kind(e Event) string {
	switch ev := e.(type) {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	case Finish:
		return "finish"
	case Unrecognized:
		if ev.Type == "" {
			return "unknown"
		}
		return ev.Type
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Output
// -----------------------------------------------------------------------------

// Snapshot is the final, reported state of one account.
type Snapshot struct {
	Client    AccountID
	Available money.Amount
	Held      money.Amount
	Total     money.Amount
	Locked    bool
}
