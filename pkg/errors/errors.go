// Package errors provides structured error handling for corecall.
// It defines sentinel errors, exit codes, and helpers for adding
// context, details, and suggestions to errors.
//
//nolint:revive // Package name intentionally shadows stdlib for domain-specific error handling
package errors

import (
	"errors"
	"fmt"
	"sort"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess  = 0 // Successful execution
	ExitGeneral  = 1 // General/unknown error
	ExitInput    = 2 // Invalid input
	ExitNative   = 3 // The core reported a failure
	ExitNotFound = 4 // Resource not found
	ExitInternal = 5 // Boundary contract or codec failure
)

// CoreError is the structured error type for corecall.
type CoreError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *CoreError) Error() string {
	msg := e.Message

	// Include details in error message (sorted for deterministic output)
	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			msg = fmt.Sprintf("%s (%s: %s)", msg, k, e.Details[k])
		}
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *CoreError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for CoreError.
func (e *CoreError) Is(target error) bool {
	var t *CoreError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &CoreError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &CoreError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrNotFound = &CoreError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	// Call boundary errors.
	ErrNativeCall = &CoreError{
		Code:     "NATIVE_CALL_ERROR",
		Message:  "native call failed",
		ExitCode: ExitNative,
	}

	ErrEncode = &CoreError{
		Code:     "ENCODE_ERROR",
		Message:  "request could not be encoded",
		ExitCode: ExitInternal,
	}

	ErrDecode = &CoreError{
		Code:     "DECODE_ERROR",
		Message:  "response could not be decoded",
		ExitCode: ExitInternal,
	}

	ErrContractViolation = &CoreError{
		Code:     "CONTRACT_VIOLATION",
		Message:  "native boundary contract violated",
		ExitCode: ExitInternal,
	}

	ErrHandleClosed = &CoreError{
		Code:     "HANDLE_CLOSED",
		Message:  "core handle is closed",
		ExitCode: ExitGeneral,
	}

	ErrUnknownCore = &CoreError{
		Code:     "UNKNOWN_CORE",
		Message:  "core handle is not registered",
		ExitCode: ExitInternal,
	}

	ErrUnsupportedRequest = &CoreError{
		Code:     "UNSUPPORTED_REQUEST",
		Message:  "request is not supported by the core",
		ExitCode: ExitInput,
	}

	// Chain-specific errors.
	ErrInvalidAddress = &CoreError{
		Code:     "INVALID_ADDRESS",
		Message:  "invalid address format",
		ExitCode: ExitInput,
	}

	ErrInvalidPublicKey = &CoreError{
		Code:     "INVALID_PUBLIC_KEY",
		Message:  "invalid public key",
		ExitCode: ExitInput,
	}

	ErrInvalidKeypair = &CoreError{
		Code:     "INVALID_KEYPAIR",
		Message:  "invalid keypair",
		ExitCode: ExitInput,
	}

	ErrInvalidMnemonic = &CoreError{
		Code:     "INVALID_MNEMONIC",
		Message:  "invalid mnemonic phrase",
		ExitCode: ExitInput,
	}

	ErrInvalidTransaction = &CoreError{
		Code:     "INVALID_TRANSACTION",
		Message:  "invalid transaction",
		ExitCode: ExitInput,
	}

	ErrInvalidSequenceNumber = &CoreError{
		Code:     "INVALID_SEQUENCE_NUMBER",
		Message:  "invalid account sequence number",
		ExitCode: ExitGeneral,
	}

	ErrNetworkError = &CoreError{
		Code:     "NETWORK_ERROR",
		Message:  "network communication failed",
		ExitCode: ExitGeneral,
	}

	ErrInvalidResponse = &CoreError{
		Code:     "INVALID_RESPONSE",
		Message:  "node returned an unexpected response",
		ExitCode: ExitGeneral,
	}

	ErrTransactionNotFound = &CoreError{
		Code:     "TRANSACTION_NOT_FOUND",
		Message:  "transaction not found",
		ExitCode: ExitNotFound,
	}

	// Config-specific errors.
	ErrConfigNotFound = &CoreError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &CoreError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}

	ErrUnknownConfigKey = &CoreError{
		Code:     "UNKNOWN_CONFIG_KEY",
		Message:  "unknown config key",
		ExitCode: ExitInput,
	}
)

// New creates a new CoreError with the given code and message.
func New(code, message string) *CoreError {
	return &CoreError{
		Code:     code,
		Message:  message,
		ExitCode: ExitGeneral,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Code:       ce.Code,
			Message:    fmt.Sprintf("%s: %s", msg, ce.Message),
			Details:    ce.Details,
			Suggestion: ce.Suggestion,
			Cause:      err,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Code:     "GENERAL_ERROR",
		Message:  msg,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithDetails adds details to an error.
func WithDetails(err error, details map[string]string) error {
	if err == nil {
		return nil
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    details,
			Suggestion: ce.Suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		Details:  details,
		Cause:    err,
		ExitCode: ExitGeneral,
	}
}

// WithSuggestion adds a suggestion to an error.
func WithSuggestion(err error, suggestion string) error {
	if err == nil {
		return nil
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return &CoreError{
			Code:       ce.Code,
			Message:    ce.Message,
			Details:    ce.Details,
			Suggestion: suggestion,
			Cause:      ce.Cause,
			ExitCode:   ce.ExitCode,
		}
	}

	return &CoreError{
		Code:       "GENERAL_ERROR",
		Message:    err.Error(),
		Suggestion: suggestion,
		Cause:      err,
		ExitCode:   ExitGeneral,
	}
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var ce *CoreError
	if errors.As(err, &ce) {
		return ce.Code
	}
	return "GENERAL_ERROR"
}

// Is wraps errors.Is for convenience.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience.
func As(err error, target any) bool {
	return errors.As(err, target)
}
