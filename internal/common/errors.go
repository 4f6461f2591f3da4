// Package common defines the sentinel errors shared across the component's
// layers. Callers should use errors.Is to match these values; the wrapping
// message at the failure site carries the user-facing remediation hint.
package common

import "errors"

var (
	// Configuration errors.
	ErrInvalidConfig = errors.New("invalid configuration")

	// Credential errors.
	ErrInvalidCredential = errors.New("invalid private key")

	// Connection errors.
	ErrAuthFailed      = errors.New("authentication failed")
	ErrProtocol        = errors.New("protocol negotiation failed")
	ErrHostUnreachable = errors.New("host unreachable")

	// Upload errors.
	ErrRemotePathNotFound     = errors.New("remote path not found")
	ErrRemotePermissionDenied = errors.New("remote permission denied")
)

// userErrors are the failures an operator can act on. Anything outside this
// list is unexpected and reported through the separate fatal exit path.
var userErrors = []error{
	ErrInvalidConfig,
	ErrInvalidCredential,
	ErrAuthFailed,
	ErrProtocol,
	ErrHostUnreachable,
	ErrRemotePathNotFound,
	ErrRemotePermissionDenied,
}

// IsUserError reports whether err belongs to the user-actionable taxonomy.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
