// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Lookup errors.
	ErrNotFound = errors.New("not found")

	// Validation errors.
	ErrInvalidInput        = errors.New("invalid input")
	ErrInvalidAmount       = errors.New("amount must be a positive integer")
	ErrInvalidCategory     = errors.New("category is not valid for record type")
	ErrInvalidDate         = errors.New("date must be a valid date")
	ErrInvalidName         = errors.New("name cannot be empty")
	ErrInsufficientBalance = errors.New("insufficient balance")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// IsValidation reports whether err is one of the field validation kinds.
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidName)
}

// InputError marks a validation failure as bad caller input while keeping
// the specific kind reachable through errors.Is.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %v", ErrInvalidInput, e.Err)
}

// Is matches ErrInvalidInput.
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// NewInputError wraps err as invalid caller input. A nil err stays nil.
func NewInputError(err error) error {
	if err == nil {
		return nil
	}
	return &InputError{Err: err}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
