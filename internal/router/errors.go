package router

import (
	"errors"
	"fmt"

	"github.com/rickgao/payments-engine/internal/model"
)

var (
	// ErrDispatch means an event could not be delivered to its account actor
	// because the actor has already terminated. It is never a business
	// condition; it points at a shutdown-ordering bug in the caller.
	ErrDispatch = errors.New("dispatch failed")

	// ErrUnrecognizedEvent is returned by Handle, under UnknownReject, for
	// events that carry no account id.
	ErrUnrecognizedEvent = errors.New("unrecognized event kind")

	// ErrCollected is returned by Collect when called more than once.
	ErrCollected = errors.New("router already collected")
)

// DispatchError reports which account a failed dispatch targeted.
type DispatchError struct {
	Account model.AccountID
	Kind    string
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("%v: %s for account %d: actor terminated", ErrDispatch, e.Kind, e.Account)
}

func (e *DispatchError) Unwrap() error { return ErrDispatch }
