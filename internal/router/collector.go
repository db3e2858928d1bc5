package router

import (
	"cmp"
	"iter"
	"slices"

	"github.com/rickgao/payments-engine/internal/model"
)

// Collector drains finished account actors. It is obtained from
// Router.Collect, after which the router accepts no new events.
type Collector struct {
	r        *Router
	pending  int
	consumed bool
}

// Collect sends Finish to every known actor and closes their inboxes. Any
// later Handle for an account fails with ErrDispatch.
func (r *Router) Collect() (*Collector, error) {
	if r.collected {
		return nil, ErrCollected
	}
	r.collected = true

	for id, h := range r.actors {
		if !h.inbox.Send(model.Finish{}) {
			return nil, &DispatchError{Account: id, Kind: model.Kind(model.Finish{})}
		}
		h.inbox.Close()
	}

	r.logger.Info("collecting accounts",
		"accounts", len(r.actors),
		"events_dispatched", r.dispatched.Load(),
	)

	return &Collector{r: r, pending: len(r.actors)}, nil
}

// Iterate yields each account's final snapshot as its actor finishes, in
// completion order. The sequence is single-pass: a second call yields
// nothing. All actors are joined before the sequence ends, even if the
// caller stops early.
func (c *Collector) Iterate() iter.Seq[model.Snapshot] {
	return func(yield func(model.Snapshot) bool) {
		if c.consumed {
			return
		}
		c.consumed = true
		defer c.join()

		for ; c.pending > 0; c.pending-- {
			snap, ok := c.r.results.Receive()
			if !ok {
				return
			}
			if !yield(snap) {
				c.pending--
				return
			}
		}
	}
}

// Sorted collects every snapshot and orders them by account id.
func (c *Collector) Sorted() []model.Snapshot {
	snaps := slices.Collect(c.Iterate())
	slices.SortFunc(snaps, func(a, b model.Snapshot) int {
		return cmp.Compare(a.Client, b.Client)
	})
	return snaps
}

func (c *Collector) join() {
	c.r.wg.Wait()
	c.r.results.Close()
	c.r.logger.Debug("account actors joined")
}
