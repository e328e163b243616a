package types

import (
	"errors"
	"fmt"
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketNotFound     = errors.New("ticket not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrMalformedCode      = errors.New("malformed ticket code")
	ErrAlreadyRedeemed    = errors.New("ticket already redeemed")
	ErrTransientConflict  = errors.New("transient conflict, retry")
)

// ValidationError names the field/invariant a request violated so the caller
// can correct its input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientCapacityError is an expected, user-facing outcome of a
// purchase, not a bug.
type InsufficientCapacityError struct {
	TicketType string
	Requested  uint
	Available  uint
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("not enough %q tickets left: requested %d, %d available", e.TicketType, e.Requested, e.Available)
}

// CapacityConflictError rejects an event update that would leave a ticket
// type with more sales than capacity, or drop a type that already sold.
type CapacityConflictError struct {
	TicketType string
	Sold       uint
	NewTotal   uint
	Removed    bool
}

func (e *CapacityConflictError) Error() string {
	if e.Removed {
		return fmt.Sprintf("ticket type %q has %d sold tickets and cannot be removed", e.TicketType, e.Sold)
	}
	return fmt.Sprintf("ticket type %q has %d sold tickets, capacity cannot be reduced to %d", e.TicketType, e.Sold, e.NewTotal)
}
