package router

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/rickgao/payments-engine/internal/account"
	"github.com/rickgao/payments-engine/internal/model"
)

// actorHandle is the router's side of a running account actor.
type actorHandle struct {
	inbox *GrowableBuffer[model.Event]
}

// Router maps account ids to actors and forwards each event to its owner.
// Handle and Collect must be called from a single goroutine; the actor map is
// only ever touched by that goroutine. Stats is safe from anywhere.
type Router struct {
	cfg    RouterConfig
	logger *slog.Logger

	actors  map[model.AccountID]*actorHandle
	results *GrowableBuffer[model.Snapshot]
	wg      sync.WaitGroup

	collected bool

	received   atomic.Int64
	dispatched atomic.Int64
	unknown    atomic.Int64
	spawned    atomic.Int64
	peakInbox  atomic.Int64

	outcomesMu sync.Mutex
	applied    int64
	ignored    map[account.Outcome]int64
}

// NewRouter creates a Router with no actors.
func NewRouter(cfg RouterConfig, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.InboxCapacity < 1 {
		cfg.InboxCapacity = DefaultRouterConfig().InboxCapacity
	}

	return &Router{
		cfg:     cfg,
		logger:  logger,
		actors:  make(map[model.AccountID]*actorHandle),
		results: NewGrowableBuffer[model.Snapshot](cfg.InboxCapacity),
		ignored: make(map[account.Outcome]int64),
	}
}

// Handle forwards e to the actor owning its account, spawning the actor on
// first reference. Business-rule rejections happen inside the actor and are
// never reported here.
func (r *Router) Handle(e model.Event) error {
	r.received.Add(1)

	var id model.AccountID
	switch ev := e.(type) {
	case model.Deposit:
		id = ev.Client
	case model.Withdrawal:
		id = ev.Client
	case model.Dispute:
		id = ev.Client
	case model.Resolve:
		id = ev.Client
	case model.Chargeback:
		id = ev.Client
	default:
		return r.unrecognized(e)
	}

	h, err := r.getOrSpawn(id, e)
	if err != nil {
		return err
	}
	if !h.inbox.Send(e) {
		return &DispatchError{Account: id, Kind: model.Kind(e)}
	}

	r.dispatched.Add(1)
	if depth := int64(h.inbox.Len()); depth > r.peakInbox.Load() {
		r.peakInbox.Store(depth)
	}
	return nil
}

func (r *Router) unrecognized(e model.Event) error {
	r.unknown.Add(1)

	if r.cfg.UnknownEvents == UnknownReject {
		return fmt.Errorf("%w: %s (%T)", ErrUnrecognizedEvent, model.Kind(e), e)
	}
	r.logger.Debug("dropping event without account", "kind", model.Kind(e))
	return nil
}

func (r *Router) getOrSpawn(id model.AccountID, e model.Event) (*actorHandle, error) {
	if h, ok := r.actors[id]; ok {
		return h, nil
	}
	if r.collected {
		return nil, &DispatchError{Account: id, Kind: model.Kind(e)}
	}

	inbox := NewGrowableBuffer[model.Event](r.cfg.InboxCapacity)
	actor := account.NewActor(id, r.cfg.DuplicateTx, inbox, r.logger)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		snap := actor.Run()
		r.record(actor.Stats())
		r.results.Send(snap)
	}()

	h := &actorHandle{inbox: inbox}
	r.actors[id] = h
	r.spawned.Add(1)
	r.logger.Debug("account actor spawned", "account", id)
	return h, nil
}

// record folds a finished actor's counters into the router totals.
func (r *Router) record(s account.ActorStats) {
	r.outcomesMu.Lock()
	defer r.outcomesMu.Unlock()

	r.applied += s.Applied
	for outcome, n := range s.Ignored {
		r.ignored[outcome] += n
	}
}

// Len returns the number of known accounts.
func (r *Router) Len() int {
	return len(r.actors)
}

// Stats returns current statistics. Applied and ignored counts cover only
// actors that have finished, so they are complete once the collector has
// joined.
func (r *Router) Stats() RouterStats {
	r.outcomesMu.Lock()
	ignored := make(map[account.Outcome]int64, len(r.ignored))
	for outcome, n := range r.ignored {
		ignored[outcome] = n
	}
	applied := r.applied
	r.outcomesMu.Unlock()

	return RouterStats{
		EventsReceived:   r.received.Load(),
		EventsDispatched: r.dispatched.Load(),
		UnknownEvents:    r.unknown.Load(),
		ActorsSpawned:    r.spawned.Load(),
		PeakInboxDepth:   r.peakInbox.Load(),
		EventsApplied:    applied,
		EventsIgnored:    ignored,
	}
}
