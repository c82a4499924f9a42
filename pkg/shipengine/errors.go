package shipengine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies adapter failures. Every public operation reports
// failures in-band through result values; these kinds exist so callers and
// metrics can tell configuration problems apart from upstream ones.
type ErrorKind string

const (
	// KindConfiguration: a required credential is missing. Blocks activation.
	KindConfiguration ErrorKind = "configuration"
	// KindNoCarrierAccounts: the carrier catalog is empty after
	// initialization. No upstream call is attempted.
	KindNoCarrierAccounts ErrorKind = "no_carrier_accounts"
	// KindUpstream: the upstream API returned an errors list.
	KindUpstream ErrorKind = "upstream"
	// KindValidationWarning: non-fatal address validation issues attached
	// to an otherwise successful rate result.
	KindValidationWarning ErrorKind = "validation_warning"
	// KindMappingGap: an unrecognized unit or enumeration value was
	// degraded to a default or omitted field.
	KindMappingGap ErrorKind = "mapping_gap"
)

// AdapterError is a classified error from the adapter.
type AdapterError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *AdapterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("shipengine %s error: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("shipengine %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AdapterError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is for AdapterError: two adapter errors match when
// their kinds match.
func (e *AdapterError) Is(target error) bool {
	t, ok := target.(*AdapterError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewAdapterError creates a new AdapterError.
func NewAdapterError(kind ErrorKind, message string) *AdapterError {
	return &AdapterError{Kind: kind, Message: message}
}

// WithCause adds a cause to the error.
func (e *AdapterError) WithCause(err error) *AdapterError {
	e.Cause = err
	return e
}

// Sentinel errors for common adapter scenarios.
var (
	// ErrMissingAPIKey indicates the active credential is not configured.
	ErrMissingAPIKey = errors.New("api key is required for the integration to work")

	// ErrNoCarrierAccounts indicates the carrier catalog is empty.
	ErrNoCarrierAccounts = errors.New("no carrier accounts have been found")
)

// noCarrierAccountsMessage is the user-facing message surfaced in rate
// results when the catalog is empty.
const noCarrierAccountsMessage = "No carrier accounts have been found."
