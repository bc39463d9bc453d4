// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnknownEvent      = errors.New("unknown crash event")
	ErrSymbolNotFound    = errors.New("symbol not found")
	ErrAccountNotFound   = errors.New("account not found")
	ErrMarketClosed      = errors.New("market is closed")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInsufficientUnits = errors.New("insufficient units held")
	ErrInvalidTrade      = errors.New("invalid trade")
	ErrConfigInvalid     = errors.New("invalid configuration")
	ErrDataNotFound      = errors.New("data not found")
	ErrDatabaseError     = errors.New("database error")
)

// EventError represents an error related to crash event operations.
type EventError struct {
	EventID string
	Reason  string
	Err     error
}

func (e *EventError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("event error [%s]: %s: %v", e.EventID, e.Reason, e.Err)
	}
	return fmt.Sprintf("event error [%s]: %s", e.EventID, e.Reason)
}

func (e *EventError) Unwrap() error {
	return e.Err
}

// NewEventError creates a new EventError.
func NewEventError(eventID, reason string, err error) *EventError {
	return &EventError{
		EventID: eventID,
		Reason:  reason,
		Err:     err,
	}
}

// TradeError represents an error related to trade execution.
type TradeError struct {
	AccountID string
	Symbol    string
	Side      string
	Reason    string
	Err       error
}

func (e *TradeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("trade error [%s] %s %s: %s: %v", e.AccountID, e.Side, e.Symbol, e.Reason, e.Err)
	}
	return fmt.Sprintf("trade error [%s] %s %s: %s", e.AccountID, e.Side, e.Symbol, e.Reason)
}

func (e *TradeError) Unwrap() error {
	return e.Err
}

// NewTradeError creates a new TradeError.
func NewTradeError(accountID, symbol, side, reason string, err error) *TradeError {
	return &TradeError{
		AccountID: accountID,
		Symbol:    symbol,
		Side:      side,
		Reason:    reason,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// DataError represents a data-related error.
type DataError struct {
	DataType string
	Key      string
	Message  string
	Err      error
}

func (e *DataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("data error [%s] %s: %s: %v", e.DataType, e.Key, e.Message, e.Err)
	}
	return fmt.Sprintf("data error [%s] %s: %s", e.DataType, e.Key, e.Message)
}

func (e *DataError) Unwrap() error {
	return e.Err
}

// NewDataError creates a new DataError.
func NewDataError(dataType, key, message string, err error) *DataError {
	return &DataError{
		DataType: dataType,
		Key:      key,
		Message:  message,
		Err:      err,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
