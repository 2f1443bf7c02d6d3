package llm

import (
	"errors"
	"fmt"
)

// ErrNoProvider is returned when adapter resolution fails: no explicit
// provider, no configuration-bound provider and no registry default.
var ErrNoProvider = errors.New("no provider available")

// ErrNotSupported is returned when an adapter is asked for a feature the
// vendor does not offer (e.g. embeddings on Anthropic).
var ErrNotSupported = errors.New("feature not supported by provider")

// ValidationError reports invalid caller input. It is raised before any
// network call (option ranges, empty text, malformed image references,
// language codes) and after a successful call for decode failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ProviderError reports a failed vendor call: transport errors, non-2xx
// responses, authentication failures or malformed payloads. The vendor's
// message is preserved where available.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError wraps a vendor failure.
func NewProviderError(provider, message string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Message: message, Err: err}
}

// QuotaError reports that a configuration's daily request/token/cost ceiling
// would be exceeded. It is distinct from ProviderError so callers can present
// a different message.
type QuotaError struct {
	ConfigurationID string
	Reason          string
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("quota exceeded for configuration %s: %s", e.ConfigurationID, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsProviderError reports whether err is (or wraps) a ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// IsQuotaError reports whether err is (or wraps) a QuotaError.
func IsQuotaError(err error) bool {
	var qe *QuotaError
	return errors.As(err, &qe)
}
