package account

import (
	"log/slog"

	"github.com/rickgao/payments-engine/internal/model"
)

// Inbox is the FIFO queue an Actor drains. Receive blocks until an event is
// available and returns false once the queue is closed and empty.
type Inbox interface {
	Receive() (model.Event, bool)
}

// ActorStats counts what an actor did with the events it received.
type ActorStats struct {
	Received int64
	Applied  int64
	Ignored  map[Outcome]int64
}

// Actor owns one Account and applies events to it strictly in inbox order.
type Actor struct {
	account *Account
	inbox   Inbox
	logger  *slog.Logger
	stats   ActorStats
}

// NewActor creates an actor for a fresh account.
func NewActor(id model.AccountID, dupPolicy DuplicatePolicy, inbox Inbox, logger *slog.Logger) *Actor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Actor{
		account: New(id, dupPolicy),
		inbox:   inbox,
		logger:  logger.With("account", id),
		stats:   ActorStats{Ignored: make(map[Outcome]int64)},
	}
}

// Run processes events until Finish arrives (or the inbox is closed) and
// returns the final snapshot. It must be called from exactly one goroutine.
func (a *Actor) Run() model.Snapshot {
	for {
		e, ok := a.inbox.Receive()
		if !ok {
			a.logger.Warn("inbox closed before finish")
			break
		}
		if _, done := e.(model.Finish); done {
			break
		}
		a.handle(e)
	}

	a.logger.Debug("account finished",
		"received", a.stats.Received,
		"applied", a.stats.Applied,
		"locked", a.account.Locked(),
	)
	return a.account.Snapshot()
}

// Stats returns counters. Only valid after Run has returned.
func (a *Actor) Stats() ActorStats {
	return a.stats
}

func (a *Actor) handle(e model.Event) {
	a.stats.Received++

	outcome := a.account.Apply(e)
	if outcome == Applied {
		a.stats.Applied++
		return
	}

	a.stats.Ignored[outcome]++
	a.logger.Debug("event ignored",
		"kind", model.Kind(e),
		"reason", string(outcome),
	)
}
