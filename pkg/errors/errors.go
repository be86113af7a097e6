// Package errors provides structured error handling for Satchel.
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

// Process exit codes.
const (
	ExitSuccess    = 0 // Successful execution
	ExitGeneral    = 1 // General/unknown error
	ExitInput      = 2 // Invalid input
	ExitAuth       = 3 // Authentication or decryption failed
	ExitNotFound   = 4 // Resource not found
	ExitPermission = 5 // Permission denied
)

// SatchelError is the structured error type for Satchel.
type SatchelError struct {
	Code       string            // Machine-readable error code
	Message    string            // Human-readable message
	Details    map[string]string // Additional context
	Suggestion string            // Actionable suggestion for user
	Cause      error             // Underlying error
	ExitCode   int               // Exit code for CLI
}

func (e *SatchelError) Error() string {
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

func (e *SatchelError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for SatchelError.
func (e *SatchelError) Is(target error) bool {
	var t *SatchelError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinel errors.
var (
	ErrGeneral = &SatchelError{
		Code:     "GENERAL_ERROR",
		Message:  "an error occurred",
		ExitCode: ExitGeneral,
	}

	ErrInvalidInput = &SatchelError{
		Code:     "INVALID_INPUT",
		Message:  "invalid input",
		ExitCode: ExitInput,
	}

	ErrAuthentication = &SatchelError{
		Code:     "AUTHENTICATION_FAILED",
		Message:  "authentication failed",
		ExitCode: ExitAuth,
	}

	ErrNotFound = &SatchelError{
		Code:     "NOT_FOUND",
		Message:  "resource not found",
		ExitCode: ExitNotFound,
	}

	ErrPermission = &SatchelError{
		Code:     "PERMISSION_DENIED",
		Message:  "permission denied",
		ExitCode: ExitPermission,
	}

	// Account-specific errors.
	ErrAccountExists = &SatchelError{
		Code:     "ACCOUNT_EXISTS",
		Message:  "account already initialized",
		ExitCode: ExitInput,
	}

	ErrAccountNotFound = &SatchelError{
		Code:     "ACCOUNT_NOT_FOUND",
		Message:  "account not initialized",
		ExitCode: ExitNotFound,
	}

	// Wallet registry and cache errors.
	ErrWalletNotFound = &SatchelError{
		Code:     "WALLET_NOT_FOUND",
		Message:  "wallet not found",
		ExitCode: ExitNotFound,
	}

	ErrWalletExists = &SatchelError{
		Code:     "WALLET_EXISTS",
		Message:  "wallet already exists",
		ExitCode: ExitInput,
	}

	ErrKeySource = &SatchelError{
		Code:     "KEY_SOURCE_MISSING",
		Message:  "wallet registry lacks required key material",
		ExitCode: ExitGeneral,
	}

	ErrKeyDecode = &SatchelError{
		Code:     "KEY_DECODE",
		Message:  "wallet key material is not valid hex",
		ExitCode: ExitGeneral,
	}

	ErrEntryReleased = &SatchelError{
		Code:     "ENTRY_RELEASED",
		Message:  "wallet entry was released from the cache",
		ExitCode: ExitGeneral,
	}

	// Metadata persistence errors.
	ErrMetadataNotFound = &SatchelError{
		Code:     "METADATA_NOT_FOUND",
		Message:  "metadata file not found",
		ExitCode: ExitNotFound,
	}

	ErrMetadataInvalid = &SatchelError{
		Code:     "METADATA_INVALID",
		Message:  "metadata file holds malformed JSON",
		ExitCode: ExitGeneral,
	}

	ErrFieldMissing = &SatchelError{
		Code:     "FIELD_MISSING",
		Message:  "metadata document lacks the requested field",
		ExitCode: ExitGeneral,
	}

	ErrDecryptFailed = &SatchelError{
		Code:     "DECRYPT_FAILED",
		Message:  "decryption failed - wrong key or corrupted file",
		ExitCode: ExitAuth,
	}

	ErrEncryptFailed = &SatchelError{
		Code:     "ENCRYPT_FAILED",
		Message:  "encryption failed",
		ExitCode: ExitGeneral,
	}

	// Config-specific errors.
	ErrConfigNotFound = &SatchelError{
		Code:     "CONFIG_NOT_FOUND",
		Message:  "configuration file not found",
		ExitCode: ExitNotFound,
	}

	ErrConfigInvalid = &SatchelError{
		Code:     "CONFIG_INVALID",
		Message:  "configuration file is invalid",
		ExitCode: ExitInput,
	}
)

// New creates a new SatchelError with the given code and message.
func New(code, message string) *SatchelError {
	return &SatchelError{
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

	var se *SatchelError
	if errors.As(err, &se) {
		return &SatchelError{
			Code:       se.Code,
			Message:    fmt.Sprintf("%s: %s", msg, se.Message),
			Details:    se.Details,
			Suggestion: se.Suggestion,
			Cause:      err,
			ExitCode:   se.ExitCode,
		}
	}

	return &SatchelError{
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

	var se *SatchelError
	if errors.As(err, &se) {
		return &SatchelError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    details,
			Suggestion: se.Suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SatchelError{
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

	var se *SatchelError
	if errors.As(err, &se) {
		return &SatchelError{
			Code:       se.Code,
			Message:    se.Message,
			Details:    se.Details,
			Suggestion: suggestion,
			Cause:      se.Cause,
			ExitCode:   se.ExitCode,
		}
	}

	return &SatchelError{
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

	var se *SatchelError
	if errors.As(err, &se) {
		return se.ExitCode
	}

	return ExitGeneral
}

// Code returns the error code for an error.
func Code(err error) string {
	var se *SatchelError
	if errors.As(err, &se) {
		return se.Code
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
