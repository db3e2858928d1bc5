package account

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rickgao/payments-engine/internal/model"
)

// chanInbox adapts a channel to Inbox.
type chanInbox chan model.Event

func (c chanInbox) Receive() (model.Event, bool) {
	e, ok := <-c
	return e, ok
}

func TestActor_RunUntilFinish(t *testing.T) {
	inbox := make(chanInbox, 8)
	actor := NewActor(3, DuplicateOverwrite, inbox, nil)

	inbox <- model.Deposit{Client: 3, Tx: 1, Amount: amt("2.0")}
	inbox <- model.Withdrawal{Client: 3, Tx: 2, Amount: amt("5.0")}
	inbox <- model.Withdrawal{Client: 3, Tx: 3, Amount: amt("0.5")}
	inbox <- model.Finish{}
	inbox <- model.Deposit{Client: 3, Tx: 4, Amount: amt("100")}

	snap := actor.Run()

	assert.Equal(t, model.AccountID(3), snap.Client)
	assert.Equal(t, "1.5000", snap.Available.String())
	assert.Equal(t, "1.5000", snap.Total.String())

	stats := actor.Stats()
	assert.Equal(t, int64(3), stats.Received)
	assert.Equal(t, int64(2), stats.Applied)
	assert.Equal(t, int64(1), stats.Ignored[InsufficientFunds])
	assert.Len(t, inbox, 1, "events after finish stay unread")
}

func TestActor_ClosedInbox(t *testing.T) {
	inbox := make(chanInbox, 2)
	actor := NewActor(1, DuplicateOverwrite, inbox, nil)

	inbox <- model.Deposit{Client: 1, Tx: 1, Amount: amt("1.0")}
	close(inbox)

	snap := actor.Run()
	assert.Equal(t, "1.0000", snap.Available.String())
}

func TestActor_RunsInGoroutine(t *testing.T) {
	inbox := make(chanInbox)
	actor := NewActor(9, DuplicateOverwrite, inbox, nil)

	done := make(chan model.Snapshot)
	go func() { done <- actor.Run() }()

	inbox <- model.Deposit{Client: 9, Tx: 1, Amount: amt("1.0")}
	inbox <- model.Dispute{Client: 9, Tx: 1}
	inbox <- model.Chargeback{Client: 9, Tx: 1}
	inbox <- model.Deposit{Client: 9, Tx: 2, Amount: amt("5.0")}
	inbox <- model.Finish{}

	snap := <-done
	assert.True(t, snap.Locked)
	assert.Equal(t, "0.0000", snap.Total.String())
	assert.Equal(t, "0.0000", snap.Available.String())
}
