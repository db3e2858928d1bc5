package router

import (
	"fmt"

	"github.com/rickgao/payments-engine/internal/account"
)

// UnknownPolicy decides what Handle does with an event it cannot key on an
// account.
type UnknownPolicy int

const (
	// UnknownDrop discards the event and counts it.
	UnknownDrop UnknownPolicy = iota
	// UnknownReject returns ErrUnrecognizedEvent.
	UnknownReject
)

// ParseUnknownPolicy maps "drop" / "reject" to a policy.
func ParseUnknownPolicy(s string) (UnknownPolicy, error) {
	switch s {
	case "", "drop":
		return UnknownDrop, nil
	case "reject":
		return UnknownReject, nil
	default:
		return UnknownDrop, fmt.Errorf("unknown event policy %q (want drop or reject)", s)
	}
}

// ParseDuplicatePolicy maps "overwrite" / "reject" to a policy.
func ParseDuplicatePolicy(s string) (account.DuplicatePolicy, error) {
	switch s {
	case "", "overwrite":
		return account.DuplicateOverwrite, nil
	case "reject":
		return account.DuplicateReject, nil
	default:
		return account.DuplicateOverwrite, fmt.Errorf("duplicate tx policy %q (want overwrite or reject)", s)
	}
}

// RouterConfig holds configuration for the ledger Router.
type RouterConfig struct {
	UnknownEvents UnknownPolicy
	DuplicateTx   account.DuplicatePolicy
	InboxCapacity int // Default: 64
}

// DefaultRouterConfig returns default configuration.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		UnknownEvents: UnknownDrop,
		DuplicateTx:   account.DuplicateOverwrite,
		InboxCapacity: 64,
	}
}

// RouterStats contains runtime statistics.
type RouterStats struct {
	EventsReceived   int64
	EventsDispatched int64
	UnknownEvents    int64
	ActorsSpawned    int64
	PeakInboxDepth   int64 // most events seen queued for one account

	EventsApplied int64
	EventsIgnored map[account.Outcome]int64 // business-rule rejections by reason
}
