package payment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProviderFailure covers network errors, non-2xx answers and
	// provider-reported failure codes. Transient; the caller may retry the
	// whole pre-order with a fresh out trade no.
	ErrProviderFailure = errors.New("payment provider request failed")

	// ErrMalformedResponse means the provider answered but the body could not
	// be interpreted (empty, unparseable, or missing a payable code).
	ErrMalformedResponse = errors.New("malformed payment provider response")

	// ErrOrderNotFound is returned when a capture or notify references an
	// out trade no with no ledger entry.
	ErrOrderNotFound = errors.New("payment order not found")

	// ErrDuplicateOrder is returned when a pre-order reuses an existing
	// out trade no. With random 128-bit references this signals a bug, so it
	// is a conflict, never a silent overwrite.
	ErrDuplicateOrder = errors.New("out trade no already exists")
)

// ConfigMissingError enumerates the service-provider fields that were absent;
// no network call is attempted when it is returned.
type ConfigMissingError struct {
	Fields []string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("payment configuration missing: %s", strings.Join(e.Fields, ", "))
}
