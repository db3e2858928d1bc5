// Package router dispatches ledger events to per-account actors and collects
// their final snapshots.
//
// Data flow:
//
//	Source -> Router.Handle -> GrowableBuffer (one per account) -> account.Actor
//	Router.Collect -> Finish to every actor -> Collector.Iterate / Sorted
//
// Each account is owned by exactly one goroutine, so account state needs no
// locks. Events for one account are applied in Handle order; there is no
// ordering between accounts. Inboxes are unbounded: Handle never blocks on a
// slow actor.
package router
