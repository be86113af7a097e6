// Package contracts defines the interface contracts for the Satchel MVP.
// These are design artifacts - not compiled code.
// Actual implementations go in internal/output/

package contracts

import (
	"io"
)

// OutputFormat represents supported output formats.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatAuto OutputFormat = "auto"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	// Format returns the resolved output format (never auto).
	Format() OutputFormat

	// FormatWalletInfo formats a wallet snapshot for display.
	FormatWalletInfo(info *WalletInfo) string

	// FormatWalletList formats a list of wallets for display.
	FormatWalletList(wallets []WalletSummary) string

	// FormatMnemonic formats a recovery phrase for one-time display.
	FormatMnemonic(mnemonic string) string

	// FormatError formats an error with details and suggestion.
	FormatError(err error) string
}

// FormatterFactory creates formatters based on output preferences.
type FormatterFactory interface {
	// Create returns a formatter for the given format and output writer.
	Create(format OutputFormat, w io.Writer) Formatter

	// DetectFormat determines the appropriate format based on context.
	// Returns JSON for non-TTY, text for TTY, unless explicitly overridden.
	DetectFormat(w io.Writer, explicit OutputFormat) OutputFormat
}

// ErrorFormatter formats errors with context and suggestions.
type ErrorFormatter interface {
	// Format formats an error for display.
	// For text: multi-line with details and suggestion.
	// For JSON: structured error object.
	Format(err error) string

	// WithDetails adds details to an error.
	WithDetails(err error, details map[string]string) error

	// WithSuggestion adds an actionable suggestion to an error.
	WithSuggestion(err error, suggestion string) error
}
