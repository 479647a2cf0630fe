package errs

import "github.com/cockroachdb/errors"

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// InvalidArgument is returned when an argument is invalid.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature or a configuration is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Conflict is returned when a concurrent unit of work touched the same records.
	Conflict = ErrorKind("Conflict")

	// SomethingWentWrong is returned when an unexpected internal error occurs.
	SomethingWentWrong = ErrorKind("Something Went Wrong")

	OverflowUint64 = ErrorKind("overflow uint64")
)

// Minting workflow failures. Every failure aborts the whole unit of work.
const (
	// AlreadyInitialized is returned when an address that must be fresh is already allocated.
	AlreadyInitialized = ErrorKind("Already Initialized")

	// InsufficientFunds is returned when the payer cannot cover an allocation.
	InsufficientFunds = ErrorKind("Insufficient Funds")

	// AuthorityMismatch is returned when the signing authority is not the asset's authority.
	AuthorityMismatch = ErrorKind("Authority Mismatch")

	// SupplyExceeded is returned when issuing would exceed the asset's supply cap.
	SupplyExceeded = ErrorKind("Supply Exceeded")

	// InvalidMetadataLength is returned when a descriptive field exceeds the registry's limit.
	InvalidMetadataLength = ErrorKind("Invalid Metadata Length")

	// UnauthorizedSignature is returned when a required signature is missing or invalid.
	UnauthorizedSignature = ErrorKind("Unauthorized Signature")

	// ExternalServiceFailure is returned when an external service fails for reasons of its own.
	ExternalServiceFailure = ErrorKind("External Service Failure")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// KindOf returns the outermost ErrorKind in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var kind ErrorKind
	if errors.As(err, &kind) {
		return kind, true
	}
	return "", false
}
