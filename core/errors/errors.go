package errors

import stderrors "errors"

// Shared error taxonomy for the protocol. Packages wrap these sentinels with
// context via %w so callers can classify failures with errors.Is.
var (
	// ErrConfiguration marks missing or invalid caller input on
	// creation-style operations.
	ErrConfiguration = stderrors.New("protocol: invalid configuration")
	// ErrValidation marks a business-rule violation on an otherwise
	// well-formed input.
	ErrValidation = stderrors.New("protocol: validation failed")
	// ErrNotFound marks an absent ledger record.
	ErrNotFound = stderrors.New("protocol: record not found")
	// ErrAuthority marks a signer that is not entitled to rewrite the
	// target record.
	ErrAuthority = stderrors.New("protocol: unauthorized signer")
	// ErrSubmission marks a ledger client failure after validation passed.
	ErrSubmission = stderrors.New("protocol: submission failed")
	// ErrVersionConflict marks a compare-and-swap rejection: the stored
	// record advanced past the version the write was computed against.
	ErrVersionConflict = stderrors.New("protocol: record version conflict")
)
