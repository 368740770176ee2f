package domain

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// InvalidStopError reports a plan request against an unknown or inactive stop.
type InvalidStopError struct {
	StopID string
	Msg    string
}

func (e InvalidStopError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.StopID != "" {
		return fmt.Sprintf("invalid stop %s", e.StopID)
	}
	return "invalid stop"
}

// MalformedLegError reports a booking leg whose identifiers do not resolve
// or do not chain into a valid journey.
type MalformedLegError struct {
	Index int
	Msg   string
}

func (e MalformedLegError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("leg %d: %s", e.Index+1, e.Msg)
	}
	return fmt.Sprintf("leg %d is malformed", e.Index+1)
}

// InsufficientBalanceError reports a wallet debit exceeding the balance.
type InsufficientBalanceError struct {
	Balance  string
	Required string
}

func (e InsufficientBalanceError) Error() string {
	if e.Balance != "" && e.Required != "" {
		return fmt.Sprintf("insufficient balance: have %s, need %s", e.Balance, e.Required)
	}
	return "insufficient balance"
}

// DuplicateReferenceError reports an idempotency key replayed with a
// different payload.
type DuplicateReferenceError struct {
	Reference string
}

func (e DuplicateReferenceError) Error() string {
	if e.Reference != "" {
		return fmt.Sprintf("reference %s already used with a different payload", e.Reference)
	}
	return "duplicate reference"
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsInvalidStop(err error) bool {
	var target InvalidStopError
	return errors.As(err, &target)
}

func IsMalformedLeg(err error) bool {
	var target MalformedLegError
	return errors.As(err, &target)
}

func IsInsufficientBalance(err error) bool {
	var target InsufficientBalanceError
	return errors.As(err, &target)
}

func IsDuplicateReference(err error) bool {
	var target DuplicateReferenceError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
